package maps

import "github.com/cartodraw/maplayer/pkg/core"

// InfoWindow is a text bubble anchored at a location. Providers without a
// native info window primitive render it as a styled, text-bearing pin.
type InfoWindow struct {
	Anchor  core.Location
	Content string
	Style   core.MarkerStyle

	id   core.PrimitiveID
	open bool
}

// NewInfoWindow creates an info window anchored at loc.
func NewInfoWindow(loc core.Location, content string) *InfoWindow {
	return &InfoWindow{Anchor: loc, Content: content}
}

// Open renders the info window. Opening an already open window is a no-op.
func (w *InfoWindow) Open(s core.Surface) error {
	if w.open {
		return nil
	}
	style := w.Style
	style.Text = w.Content
	id, err := s.AddPin(w.Anchor, style, core.Metadata{"infoWindow": true})
	if err != nil {
		return err
	}
	w.id = id
	w.open = true
	return nil
}

// Close removes the info window. Closing a closed window is a no-op.
func (w *InfoWindow) Close(s core.Surface) error {
	if !w.open {
		return nil
	}
	if err := s.Remove(w.id); err != nil {
		return err
	}
	w.open = false
	return nil
}

// IsOpen reports whether the window is currently rendered.
func (w *InfoWindow) IsOpen() bool {
	return w.open
}
