package cluster

import (
	"fmt"
	"math"
	"sync"

	"github.com/MadAppGang/kdbush"

	"github.com/cartodraw/maplayer/pkg/core"
	"github.com/cartodraw/maplayer/pkg/maps"
)

// GlyphStyler builds the style for a cluster glyph of the given size.
type GlyphStyler func(count int) core.MarkerStyle

func defaultGlyphStyle(count int) core.MarkerStyle {
	return core.MarkerStyle{
		Color: "#d9534f",
		Text:  fmt.Sprintf("%d", count),
	}
}

// Layer owns a set of original markers and their multi-level cluster index.
// Each zoom level from MinZoom to MaxZoom gets its own kd-tree; At(zoom)
// returns the cluster markers for that level.
type Layer struct {
	MinZoom   int
	MaxZoom   int
	PointSize int // pixel size of a marker, sets the clustering radius
	TileSize  int
	NodeSize  int

	GlyphStyle GlyphStyler

	mu       sync.Mutex
	markers  []*maps.Marker
	indexes  []*kdbush.KDBush
	surface  core.Surface
	current  []*Marker
	rendered int
	byGlyph  map[core.PrimitiveID]*Marker
}

// NewLayer creates a cluster layer with the default parameters:
// MinZoom 0, MaxZoom 16, PointSize 40, TileSize 512, NodeSize 64.
func NewLayer(surface core.Surface) *Layer {
	return &Layer{
		MinZoom:   0,
		MaxZoom:   16,
		PointSize: 40,
		TileSize:  512,
		NodeSize:  64,
		surface:   surface,
		byGlyph:   make(map[core.PrimitiveID]*Marker),
	}
}

// SetMarkers replaces the layer's markers and rebuilds the cluster index for
// every zoom level.
func (l *Layer) SetMarkers(markers []*maps.Marker) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.markers = markers
	l.rebuild()
}

// MarkerCount returns the number of original markers on the layer.
func (l *Layer) MarkerCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.markers)
}

// rebuild creates the per-zoom indexes, clustering from MaxZoom down.
// Each level is built from the previous one, so the passes are sequential.
func (l *Layer) rebuild() {
	if l.MaxZoom > 21 {
		l.MaxZoom = 21
	}

	points := make([]*clusterPoint, len(l.markers))
	for i, m := range l.markers {
		x, y := project(m.Location)
		points[i] = &clusterPoint{X: x, Y: y, zoom: infinityZoom, pins: []*maps.Marker{m}}
	}

	l.indexes = make([]*kdbush.KDBush, l.MaxZoom-l.MinZoom+2)

	for z := l.MaxZoom; z >= l.MinZoom; z-- {
		l.indexes[z-l.MinZoom+1] = kdbush.NewBush(toKDPoints(points), l.NodeSize)
		points = l.clusterize(points, z)
	}
	l.indexes[0] = kdbush.NewBush(toKDPoints(points), l.NodeSize)
}

// clusterize merges points within the clustering radius at the given zoom
// into weighted centroids.
func (l *Layer) clusterize(points []*clusterPoint, zoom int) []*clusterPoint {
	var result []*clusterPoint

	r := float64(l.PointSize) / float64(l.TileSize*(1<<uint(zoom)))
	bush := l.index(zoom + 1)

	for _, p := range points {
		// Already folded into a cluster during this pass.
		if p.zoom <= zoom {
			continue
		}
		p.zoom = zoom

		neighborIDs := bush.Within(&kdbush.SimplePoint{X: p.X, Y: p.Y}, r)

		count := len(p.pins)
		wx := p.X * float64(count)
		wy := p.Y * float64(count)
		merged := p.pins
		found := false

		for _, id := range neighborIDs {
			b := points[id]
			if b == p || b.zoom <= zoom {
				continue
			}
			b.zoom = zoom
			found = true

			n := len(b.pins)
			wx += b.X * float64(n)
			wy += b.Y * float64(n)
			count += n
			merged = append(merged, b.pins...)
		}

		if !found {
			result = append(result, p)
			continue
		}

		result = append(result, &clusterPoint{
			X:    wx / float64(count),
			Y:    wy / float64(count),
			zoom: infinityZoom,
			pins: merged,
		})
	}

	return result
}

func (l *Layer) limitZoom(zoom int) int {
	if zoom < l.MinZoom {
		return l.MinZoom
	}
	if zoom > l.MaxZoom+1 {
		return l.MaxZoom + 1
	}
	return zoom
}

func (l *Layer) index(zoom int) *kdbush.KDBush {
	return l.indexes[l.limitZoom(zoom)-l.MinZoom]
}

// At returns the cluster markers for a zoom level.
func (l *Layer) At(zoom int) []*Marker {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.markersAt(zoom)
}

func (l *Layer) markersAt(zoom int) []*Marker {
	if l.indexes == nil {
		return nil
	}
	idx := l.index(zoom)
	out := make([]*Marker, 0, len(idx.Points))
	for _, p := range idx.Points {
		cp := p.(*clusterPoint)
		out = append(out, &Marker{
			loc:  unproject(cp.X, cp.Y),
			pins: cp.pins,
		})
	}
	return out
}

// InBounds returns the cluster markers within the given bounding box at a
// zoom level. northWest is the top-left corner, southEast the bottom-right.
func (l *Layer) InBounds(northWest, southEast core.Location, zoom int) []*Marker {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.indexes == nil {
		return nil
	}

	idx := l.index(zoom)
	nwX, nwY := project(northWest)
	seX, seY := project(southEast)

	ids := idx.Range(nwX, nwY, seX, seY)
	out := make([]*Marker, 0, len(ids))
	for _, id := range ids {
		cp := idx.Points[id].(*clusterPoint)
		out = append(out, &Marker{
			loc:  unproject(cp.X, cp.Y),
			pins: cp.pins,
		})
	}
	return out
}

// Render draws the cluster glyphs for a zoom level onto the surface,
// replacing any previously rendered glyphs. Singleton clusters are drawn with
// their original marker's style.
func (l *Layer) Render(zoom int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.clearLocked(); err != nil {
		return err
	}

	style := l.GlyphStyle
	if style == nil {
		style = defaultGlyphStyle
	}

	l.current = l.markersAt(zoom)
	for _, cm := range l.current {
		var (
			id  core.PrimitiveID
			err error
		)
		if cm.Count() == 1 {
			pin := cm.pins[0]
			id, err = l.surface.AddPin(cm.loc, pin.Style, pin.Metadata)
		} else {
			meta := core.Metadata{"isCluster": true, "count": cm.Count()}
			id, err = l.surface.AddPin(cm.loc, style(cm.Count()), meta)
		}
		if err != nil {
			return fmt.Errorf("rendering cluster glyph: %w", err)
		}
		cm.glyph = id
		cm.hasGlyph = true
		l.byGlyph[id] = cm
		l.rendered++
	}
	return nil
}

// Clear removes every rendered glyph from the surface.
func (l *Layer) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.clearLocked()
}

func (l *Layer) clearLocked() error {
	for _, cm := range l.current {
		if !cm.hasGlyph {
			continue
		}
		if err := l.surface.Remove(cm.glyph); err != nil {
			return err
		}
		delete(l.byGlyph, cm.glyph)
		cm.hasGlyph = false
	}
	l.current = nil
	l.rendered = 0
	return nil
}

// ByGlyph resolves a rendered glyph primitive back to its cluster marker.
func (l *Layer) ByGlyph(id core.PrimitiveID) (*Marker, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cm, ok := l.byGlyph[id]
	return cm, ok
}

// HitTest finds the rendered cluster marker within tolerance pixels of the
// location, or nil if none is close enough.
func (l *Layer) HitTest(proj core.Projection, loc core.Location, tolerance float64) *Marker {
	l.mu.Lock()
	defer l.mu.Unlock()

	target := proj.Project(loc)
	var (
		best     *Marker
		bestDist = tolerance
	)
	for _, cm := range l.current {
		p := proj.Project(cm.loc)
		d := math.Hypot(p.X-target.X, p.Y-target.Y)
		if d <= bestDist {
			best = cm
			bestDist = d
		}
	}
	return best
}
