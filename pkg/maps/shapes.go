package maps

import (
	"fmt"

	"github.com/cartodraw/maplayer/pkg/core"
	"github.com/cartodraw/maplayer/pkg/geo"
)

// Polyline is an open path rendered as consecutive line segments.
type Polyline struct {
	Path  []core.Location
	Style core.LineStyle

	segments []core.PrimitiveID
}

// NewPolyline creates a polyline from a path of at least 2 points.
func NewPolyline(path []core.Location, style core.LineStyle) (*Polyline, error) {
	if len(path) < 2 {
		return nil, fmt.Errorf("polyline must have at least 2 points, got %d", len(path))
	}
	return &Polyline{Path: path, Style: style}, nil
}

// NewPolylineFromJSON creates a polyline from a JSON coordinate array of the
// form "[[long1,lat1],[long2,lat2],...]".
func NewPolylineFromJSON(input string, style core.LineStyle) (*Polyline, error) {
	path, err := geo.ParsePath(input)
	if err != nil {
		return nil, err
	}
	return NewPolyline(path, style)
}

// AddTo renders the polyline onto a surface segment by segment.
func (p *Polyline) AddTo(s core.Surface) error {
	p.segments = make([]core.PrimitiveID, 0, len(p.Path)-1)
	for i := 1; i < len(p.Path); i++ {
		id, err := s.AddLine(p.Path[i-1], p.Path[i], p.Style)
		if err != nil {
			return err
		}
		p.segments = append(p.segments, id)
	}
	return nil
}

// RemoveFrom removes every segment from the surface.
func (p *Polyline) RemoveFrom(s core.Surface) error {
	for _, id := range p.segments {
		if err := s.Remove(id); err != nil {
			return err
		}
	}
	p.segments = nil
	return nil
}

// SegmentCount returns the number of rendered segments.
func (p *Polyline) SegmentCount() int {
	return len(p.segments)
}

// Polygon is a closed ring rendered as line segments, including the closing
// segment back to the first point.
type Polygon struct {
	Ring  []core.Location
	Style core.LineStyle

	segments []core.PrimitiveID
}

// NewPolygon creates a polygon from a ring of at least 3 points.
func NewPolygon(ring []core.Location, style core.LineStyle) (*Polygon, error) {
	if len(ring) < 3 {
		return nil, fmt.Errorf("polygon must have at least 3 points, got %d", len(ring))
	}
	return &Polygon{Ring: ring, Style: style}, nil
}

// AddTo renders the polygon outline onto a surface.
func (p *Polygon) AddTo(s core.Surface) error {
	p.segments = make([]core.PrimitiveID, 0, len(p.Ring))
	for i := 1; i <= len(p.Ring); i++ {
		from := p.Ring[i-1]
		to := p.Ring[i%len(p.Ring)]
		id, err := s.AddLine(from, to, p.Style)
		if err != nil {
			return err
		}
		p.segments = append(p.segments, id)
	}
	return nil
}

// RemoveFrom removes every segment from the surface.
func (p *Polygon) RemoveFrom(s core.Surface) error {
	for _, id := range p.segments {
		if err := s.Remove(id); err != nil {
			return err
		}
	}
	p.segments = nil
	return nil
}
