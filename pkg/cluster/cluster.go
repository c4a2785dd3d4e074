// Package cluster implements the cluster layer: nearby markers are folded
// into cluster glyphs per zoom level using a kd-tree spatial index, and the
// resulting cluster handles feed the spider subsystem.
package cluster

import (
	"math"

	"github.com/MadAppGang/kdbush"

	"github.com/cartodraw/maplayer/pkg/core"
	"github.com/cartodraw/maplayer/pkg/maps"
)

// infinityZoom marks a point not yet merged at any zoom level.
const infinityZoom = 100

// Marker is a cluster glyph: one rendered symbol standing in for the original
// markers folded into it. It satisfies the spider.Cluster interface.
type Marker struct {
	loc      core.Location
	pins     []*maps.Marker
	glyph    core.PrimitiveID
	hasGlyph bool
}

// Location returns the cluster centroid.
func (m *Marker) Location() core.Location {
	return m.loc
}

// ContainedPins returns the original markers folded into the cluster.
func (m *Marker) ContainedPins() []*maps.Marker {
	return m.pins
}

// Count returns the number of contained markers.
func (m *Marker) Count() int {
	return len(m.pins)
}

// clusterPoint is a point in unit Web-Mercator space during index builds.
// The zoom field doubles as the processed marker while clustering a level.
type clusterPoint struct {
	X, Y float64
	zoom int
	pins []*maps.Marker
}

func (p *clusterPoint) Coordinates() (float64, float64) {
	return p.X, p.Y
}

// project converts a location to unit Web-Mercator space [0,1).
func project(loc core.Location) (x, y float64) {
	x = loc.Longitude/360 + 0.5

	sin := math.Sin(loc.Latitude * math.Pi / 180)
	y = 0.5 - 0.25*math.Log((1+sin)/(1-sin))/math.Pi
	if y < 0 {
		y = 0
	} else if y > 1 {
		y = 1
	}
	return x, y
}

// unproject converts unit Web-Mercator coordinates back to a location.
func unproject(x, y float64) core.Location {
	long := (x - 0.5) * 360
	m := (0.5 - y) * 2 * math.Pi
	lat := (2*math.Atan(math.Exp(m)) - math.Pi/2) * 180 / math.Pi
	return core.Location{Latitude: lat, Longitude: long}
}

func toKDPoints(points []*clusterPoint) []kdbush.Point {
	out := make([]kdbush.Point, len(points))
	for i, p := range points {
		out[i] = p
	}
	return out
}
