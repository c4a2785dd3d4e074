// Package canvas provides an in-memory drawing surface. It backs tests, the
// demo binary, and snapshot export; a real provider adapter would forward the
// same Surface calls to its SDK instead.
package canvas

import (
	"sync"

	"github.com/cartodraw/maplayer/internal/queue"
	"github.com/cartodraw/maplayer/pkg/core"
)

// Pin is a rendered point primitive.
type Pin struct {
	ID       core.PrimitiveID
	Location core.Location
	Style    core.MarkerStyle
	Meta     core.Metadata
}

// Line is a rendered line primitive.
type Line struct {
	ID    core.PrimitiveID
	From  core.Location
	To    core.Location
	Style core.LineStyle
}

// OpKind identifies a journaled draw operation.
type OpKind string

// Journaled operation kinds.
const (
	OpAddPin       OpKind = "add_pin"
	OpAddLine      OpKind = "add_line"
	OpSetLineStyle OpKind = "set_line_style"
	OpRemove       OpKind = "remove"
)

// Op is one journal entry.
type Op struct {
	Kind OpKind
	ID   core.PrimitiveID
}

// Canvas is an in-memory core.Surface. Every mutation is appended to a
// journal so tests and the demo can inspect the exact draw sequence.
type Canvas struct {
	mu     sync.RWMutex
	nextID core.PrimitiveID
	pins   map[core.PrimitiveID]Pin
	lines  map[core.PrimitiveID]Line

	journal *queue.Queue[Op]
}

// New creates an empty canvas.
func New() *Canvas {
	return &Canvas{
		pins:    make(map[core.PrimitiveID]Pin),
		lines:   make(map[core.PrimitiveID]Line),
		journal: queue.New[Op](),
	}
}

// AddPin renders a point primitive.
func (c *Canvas) AddPin(at core.Location, style core.MarkerStyle, meta core.Metadata) (core.PrimitiveID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	c.pins[id] = Pin{ID: id, Location: at, Style: style, Meta: meta}
	c.journal.Push(Op{Kind: OpAddPin, ID: id})
	return id, nil
}

// AddLine renders a line primitive.
func (c *Canvas) AddLine(from, to core.Location, style core.LineStyle) (core.PrimitiveID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	c.lines[id] = Line{ID: id, From: from, To: to, Style: style}
	c.journal.Push(Op{Kind: OpAddLine, ID: id})
	return id, nil
}

// SetLineStyle restyles an existing line primitive.
func (c *Canvas) SetLineStyle(id core.PrimitiveID, style core.LineStyle) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	line, ok := c.lines[id]
	if !ok {
		return core.ErrUnknownPrimitive
	}
	line.Style = style
	c.lines[id] = line
	c.journal.Push(Op{Kind: OpSetLineStyle, ID: id})
	return nil
}

// Remove deletes a primitive of either kind.
func (c *Canvas) Remove(id core.PrimitiveID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.pins[id]; ok {
		delete(c.pins, id)
		c.journal.Push(Op{Kind: OpRemove, ID: id})
		return nil
	}
	if _, ok := c.lines[id]; ok {
		delete(c.lines, id)
		c.journal.Push(Op{Kind: OpRemove, ID: id})
		return nil
	}
	return core.ErrUnknownPrimitive
}

// Pin returns a pin primitive by ID.
func (c *Canvas) Pin(id core.PrimitiveID) (Pin, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.pins[id]
	return p, ok
}

// Line returns a line primitive by ID.
func (c *Canvas) Line(id core.PrimitiveID) (Line, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.lines[id]
	return l, ok
}

// PinCount returns the number of pins on the canvas.
func (c *Canvas) PinCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pins)
}

// LineCount returns the number of lines on the canvas.
func (c *Canvas) LineCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lines)
}

// Ops returns a copy of the journaled draw operations.
func (c *Canvas) Ops() []Op {
	return c.journal.Snapshot()
}

// DrainOps returns the journaled operations and clears the journal.
func (c *Canvas) DrainOps() []Op {
	return c.journal.GetAndEmpty()
}
