// Package core holds the shared types of the map abstraction layer: geographic
// and pixel coordinates, primitive styles, and the capability interfaces a map
// provider must supply (projection, drawing surface).
package core

// Location is a geographic coordinate in WGS84 degrees.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Pixel is a point in the pixel space of the current map view.
type Pixel struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PrimitiveID identifies a primitive rendered on a Surface.
type PrimitiveID uint64

// Metadata carries arbitrary consumer data attached to a primitive.
type Metadata map[string]any

// LineStyle describes how a line primitive is drawn.
type LineStyle struct {
	StrokeColor     string  `json:"strokeColor"`
	StrokeThickness float64 `json:"strokeThickness"`
	Visible         bool    `json:"visible"`
}

// MarkerStyle describes how a point primitive is drawn.
type MarkerStyle struct {
	Color  string `json:"color"`
	Text   string `json:"text"`
	Icon   string `json:"icon,omitempty"`
	Anchor Pixel  `json:"anchor"`
}
