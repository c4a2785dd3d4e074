package core

import "errors"

// ErrNotSupported is returned for operations the underlying provider cannot
// perform, such as making a marker draggable.
var ErrNotSupported = errors.New("operation not supported by the map provider")

// ErrUnknownPrimitive is returned when a primitive ID does not exist on the surface.
var ErrUnknownPrimitive = errors.New("unknown primitive")

// Projection converts between geographic coordinates and the pixel space of
// the current map view.
type Projection interface {
	Project(loc Location) Pixel
	Unproject(p Pixel) Location
}

// Surface is the drawing capability of a map provider. Implementations render
// point and line primitives and allow their removal and restyling.
type Surface interface {
	AddPin(at Location, style MarkerStyle, meta Metadata) (PrimitiveID, error)
	AddLine(from, to Location, style LineStyle) (PrimitiveID, error)
	SetLineStyle(id PrimitiveID, style LineStyle) error
	Remove(id PrimitiveID) error
}
