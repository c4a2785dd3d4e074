// Package maps provides the provider-agnostic overlay model: markers,
// polygons, polylines, info windows and layers. Model objects hold consumer
// metadata and registered interaction handlers; rendering is forwarded to an
// injected core.Surface.
package maps

import (
	"github.com/cartodraw/maplayer/pkg/core"
)

// Marker is the abstract map marker. It keeps its registered click and hover
// handlers so interaction semantics survive clustering: when a marker is
// folded into a cluster and later exploded into a spider pin, clicks on the
// spider pin are forwarded here.
type Marker struct {
	Location core.Location
	Style    core.MarkerStyle
	Metadata core.Metadata

	id       core.PrimitiveID
	rendered bool

	nextHandlerID int
	clickHandlers map[int]func(*Marker)
	hoverHandlers map[int]func(*Marker)
}

// NewMarker creates a marker at the given location.
func NewMarker(loc core.Location, style core.MarkerStyle) *Marker {
	return &Marker{
		Location:      loc,
		Style:         style,
		Metadata:      core.Metadata{},
		clickHandlers: make(map[int]func(*Marker)),
		hoverHandlers: make(map[int]func(*Marker)),
	}
}

// OnClick registers a click handler and returns a function that removes it.
func (m *Marker) OnClick(fn func(*Marker)) func() {
	m.nextHandlerID++
	id := m.nextHandlerID
	m.clickHandlers[id] = fn
	return func() {
		delete(m.clickHandlers, id)
	}
}

// OnHover registers a hover handler and returns a function that removes it.
func (m *Marker) OnHover(fn func(*Marker)) func() {
	m.nextHandlerID++
	id := m.nextHandlerID
	m.hoverHandlers[id] = fn
	return func() {
		delete(m.hoverHandlers, id)
	}
}

// Click invokes every registered click handler.
func (m *Marker) Click() {
	for _, fn := range m.clickHandlers {
		fn(m)
	}
}

// Hover invokes every registered hover handler.
func (m *Marker) Hover() {
	for _, fn := range m.hoverHandlers {
		fn(m)
	}
}

// ClickHandlerCount returns the number of registered click handlers.
func (m *Marker) ClickHandlerCount() int {
	return len(m.clickHandlers)
}

// SetDraggable is not supported by the wrapped providers and always returns
// core.ErrNotSupported.
func (m *Marker) SetDraggable(bool) error {
	return core.ErrNotSupported
}

// AddTo renders the marker onto a surface.
func (m *Marker) AddTo(s core.Surface) error {
	id, err := s.AddPin(m.Location, m.Style, m.Metadata)
	if err != nil {
		return err
	}
	m.id = id
	m.rendered = true
	return nil
}

// RemoveFrom removes the marker from a surface.
func (m *Marker) RemoveFrom(s core.Surface) error {
	if !m.rendered {
		return nil
	}
	if err := s.Remove(m.id); err != nil {
		return err
	}
	m.rendered = false
	return nil
}

// PrimitiveID returns the surface primitive backing the marker, if rendered.
func (m *Marker) PrimitiveID() (core.PrimitiveID, bool) {
	return m.id, m.rendered
}
