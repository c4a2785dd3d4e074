package maps

import (
	"github.com/cartodraw/maplayer/pkg/core"
	"github.com/cartodraw/maplayer/pkg/events"
)

// Map bundles the three provider capabilities (projection, surface, events)
// with the overlay model objects drawn onto them.
type Map struct {
	Projection core.Projection
	Surface    core.Surface
	Bus        *events.Bus

	layers  map[string]*Layer
	markers []*Marker
}

// New creates a map facade over the given provider capabilities.
func New(p core.Projection, s core.Surface, bus *events.Bus) *Map {
	return &Map{
		Projection: p,
		Surface:    s,
		Bus:        bus,
		layers:     make(map[string]*Layer),
	}
}

// Layer returns the named layer, creating it on first use.
func (m *Map) Layer(name string) *Layer {
	l, ok := m.layers[name]
	if !ok {
		l = NewLayer(name, m.Surface)
		m.layers[name] = l
	}
	return l
}

// AddMarker renders a marker and tracks it on the map.
func (m *Map) AddMarker(mk *Marker) error {
	if err := mk.AddTo(m.Surface); err != nil {
		return err
	}
	m.markers = append(m.markers, mk)
	return nil
}

// Markers returns the markers currently tracked by the map.
func (m *Map) Markers() []*Marker {
	return m.markers
}
