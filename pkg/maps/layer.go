package maps

import "github.com/cartodraw/maplayer/pkg/core"

// Layer is a named group of surface primitives that can be cleared in bulk.
// The spider overlay and the cluster glyph set each live on their own layer.
type Layer struct {
	Name string

	surface core.Surface
	ids     []core.PrimitiveID
}

// NewLayer creates a layer drawing onto the given surface.
func NewLayer(name string, surface core.Surface) *Layer {
	return &Layer{Name: name, surface: surface}
}

// AddPin draws a pin onto the layer's surface and tracks it.
func (l *Layer) AddPin(at core.Location, style core.MarkerStyle, meta core.Metadata) (core.PrimitiveID, error) {
	id, err := l.surface.AddPin(at, style, meta)
	if err != nil {
		return 0, err
	}
	l.ids = append(l.ids, id)
	return id, nil
}

// AddLine draws a line onto the layer's surface and tracks it.
func (l *Layer) AddLine(from, to core.Location, style core.LineStyle) (core.PrimitiveID, error) {
	id, err := l.surface.AddLine(from, to, style)
	if err != nil {
		return 0, err
	}
	l.ids = append(l.ids, id)
	return id, nil
}

// Len returns the number of primitives on the layer.
func (l *Layer) Len() int {
	return len(l.ids)
}

// Clear removes every primitive on the layer from the surface.
func (l *Layer) Clear() error {
	for _, id := range l.ids {
		if err := l.surface.Remove(id); err != nil {
			return err
		}
	}
	l.ids = nil
	return nil
}
