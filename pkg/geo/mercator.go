// Package geo provides the default Web Mercator projection and polyline
// parsing helpers for the map abstraction layer.
package geo

import (
	"math"

	"github.com/wroge/wgs84"

	"github.com/cartodraw/maplayer/pkg/core"
)

const (
	earthRadius = 6378137.0
	originShift = math.Pi * earthRadius

	// MaxLatitude is the Web Mercator latitude limit (arctan(sinh(pi))).
	MaxLatitude = 85.0511
)

// Mercator projects WGS84 coordinates into the world pixel space of a tiled
// Web Mercator map at a given zoom level. It implements core.Projection.
//
// The projection is scoped to the current view: a zoom change produces
// different pixel coordinates, which is why the spider subsystem collapses
// on zoom.
type Mercator struct {
	tileSize float64
	zoom     int

	forward func(a, b, c float64) (float64, float64, float64)
	inverse func(a, b, c float64) (float64, float64, float64)
}

// NewMercator creates a projection for the given tile size and zoom level.
func NewMercator(tileSize, zoom int) *Mercator {
	epsg := wgs84.EPSG()
	return &Mercator{
		tileSize: float64(tileSize),
		zoom:     zoom,
		forward:  epsg.Transform(4326, 3857),
		inverse:  epsg.Transform(3857, 4326),
	}
}

// Zoom returns the zoom level the projection is scoped to.
func (m *Mercator) Zoom() int {
	return m.zoom
}

// SetZoom rescales the projection to a new zoom level.
func (m *Mercator) SetZoom(zoom int) {
	m.zoom = zoom
}

func (m *Mercator) worldSize() float64 {
	return m.tileSize * math.Pow(2, float64(m.zoom))
}

// Project converts a geographic location to world pixel coordinates.
// Latitude is clamped to the Web Mercator limits.
func (m *Mercator) Project(loc core.Location) core.Pixel {
	lat := loc.Latitude
	if lat > MaxLatitude {
		lat = MaxLatitude
	} else if lat < -MaxLatitude {
		lat = -MaxLatitude
	}

	x, y, _ := m.forward(loc.Longitude, lat, 0)

	w := m.worldSize()
	return core.Pixel{
		X: (x + originShift) / (2 * originShift) * w,
		Y: (originShift - y) / (2 * originShift) * w,
	}
}

// Unproject converts world pixel coordinates back to a geographic location.
func (m *Mercator) Unproject(p core.Pixel) core.Location {
	w := m.worldSize()
	x := p.X/w*(2*originShift) - originShift
	y := originShift - p.Y/w*(2*originShift)

	long, lat, _ := m.inverse(x, y, 0)
	return core.Location{Latitude: lat, Longitude: long}
}
