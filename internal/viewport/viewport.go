// Package viewport holds the current map view state shared between the
// provider adapter and the overlay subsystems.
package viewport

import (
	"sync"

	"github.com/cartodraw/maplayer/pkg/core"
)

// View describes the visible map area.
type View struct {
	Center core.Location
	Zoom   int
	Width  int
	Height int
}

// Context guards the current view for concurrent readers.
type Context struct {
	mu   sync.RWMutex
	view View
}

// NewContext creates a context with an initial view.
func NewContext(initial View) *Context {
	return &Context{view: initial}
}

// Get returns the current view.
func (c *Context) Get() View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view
}

// Set replaces the current view.
func (c *Context) Set(v View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = v
}

// SetZoom updates only the zoom level and returns the new view.
func (c *Context) SetZoom(zoom int) View {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.Zoom = zoom
	return c.view
}

// SetCenter updates only the center and returns the new view.
func (c *Context) SetCenter(center core.Location) View {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.Center = center
	return c.view
}
