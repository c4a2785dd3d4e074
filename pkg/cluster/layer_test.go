package cluster

import (
	"math"
	"testing"

	"github.com/cartodraw/maplayer/internal/canvas"
	"github.com/cartodraw/maplayer/pkg/core"
	"github.com/cartodraw/maplayer/pkg/maps"
)

func markerAt(lat, long float64) *maps.Marker {
	return maps.NewMarker(core.Location{Latitude: lat, Longitude: long}, core.MarkerStyle{})
}

// Two tight groups far apart, plus one lone marker.
func sampleMarkers() []*maps.Marker {
	return []*maps.Marker{
		markerAt(52.5200, 13.4050),
		markerAt(52.5201, 13.4051),
		markerAt(52.5202, 13.4052),
		markerAt(48.8566, 2.3522),
		markerAt(48.8567, 2.3523),
		markerAt(-33.8688, 151.2093),
	}
}

func TestProjectUnprojectRoundTrip(t *testing.T) {
	locs := []core.Location{
		{Latitude: 0, Longitude: 0},
		{Latitude: 52.52, Longitude: 13.405},
		{Latitude: -33.8688, Longitude: 151.2093},
		{Latitude: 85, Longitude: -179},
	}
	for _, loc := range locs {
		x, y := project(loc)
		got := unproject(x, y)
		if math.Abs(got.Latitude-loc.Latitude) > 1e-6 || math.Abs(got.Longitude-loc.Longitude) > 1e-6 {
			t.Errorf("round trip of %v gave %v", loc, got)
		}
	}
}

func TestProjectStaysInUnitSquare(t *testing.T) {
	for _, loc := range []core.Location{
		{Latitude: 89.9, Longitude: 180},
		{Latitude: -89.9, Longitude: -180},
	} {
		x, y := project(loc)
		if x < 0 || x > 1 || y < 0 || y > 1 {
			t.Errorf("project(%v) = (%f,%f) outside unit square", loc, x, y)
		}
	}
}

func TestLayer_LowZoomMergesNeighbors(t *testing.T) {
	l := NewLayer(canvas.New())
	l.SetMarkers(sampleMarkers())

	clusters := l.At(5)
	if len(clusters) != 3 {
		t.Fatalf("expected 3 clusters at zoom 5, got %d", len(clusters))
	}

	total := 0
	for _, c := range clusters {
		total += c.Count()
	}
	if total != 6 {
		t.Errorf("cluster counts sum to %d, expected every marker accounted for", total)
	}
}

func TestLayer_HighZoomKeepsMarkersApart(t *testing.T) {
	l := NewLayer(canvas.New())
	l.SetMarkers(sampleMarkers())

	clusters := l.At(l.MaxZoom + 1)
	if len(clusters) != 6 {
		t.Fatalf("expected 6 singletons past MaxZoom, got %d", len(clusters))
	}
	for _, c := range clusters {
		if c.Count() != 1 {
			t.Errorf("expected singleton, got count %d", c.Count())
		}
	}
}

func TestLayer_CentroidIsWeightedMean(t *testing.T) {
	l := NewLayer(canvas.New())
	l.SetMarkers([]*maps.Marker{
		markerAt(10.0, 20.0),
		markerAt(10.0002, 20.0002),
	})

	clusters := l.At(0)
	if len(clusters) != 1 {
		t.Fatalf("expected one merged cluster at zoom 0, got %d", len(clusters))
	}
	loc := clusters[0].Location()
	if math.Abs(loc.Latitude-10.0001) > 1e-3 || math.Abs(loc.Longitude-20.0001) > 1e-3 {
		t.Errorf("centroid at %v, expected near the midpoint", loc)
	}
}

func TestLayer_ContainedPinsSurviveMerging(t *testing.T) {
	markers := sampleMarkers()
	l := NewLayer(canvas.New())
	l.SetMarkers(markers)

	seen := make(map[*maps.Marker]bool)
	for _, c := range l.At(0) {
		for _, p := range c.ContainedPins() {
			if seen[p] {
				t.Errorf("marker %v folded into two clusters", p.Location)
			}
			seen[p] = true
		}
	}
	if len(seen) != len(markers) {
		t.Errorf("expected %d contained markers, got %d", len(markers), len(seen))
	}
}

func TestLayer_InBounds(t *testing.T) {
	l := NewLayer(canvas.New())
	l.SetMarkers(sampleMarkers())

	// A box around Europe captures the Berlin and Paris groups only.
	got := l.InBounds(
		core.Location{Latitude: 60, Longitude: -10},
		core.Location{Latitude: 40, Longitude: 30},
		10,
	)
	for _, c := range got {
		loc := c.Location()
		if loc.Latitude < 40 || loc.Latitude > 60 {
			t.Errorf("cluster at %v outside query box", loc)
		}
	}
	total := 0
	for _, c := range got {
		total += c.Count()
	}
	if total != 5 {
		t.Errorf("expected 5 markers inside the box, got %d", total)
	}
}

func TestLayer_RenderAndClear(t *testing.T) {
	cv := canvas.New()
	l := NewLayer(cv)
	l.SetMarkers(sampleMarkers())

	if err := l.Render(5); err != nil {
		t.Fatal(err)
	}
	if cv.PinCount() != 3 {
		t.Fatalf("expected 3 rendered glyphs, got %d", cv.PinCount())
	}

	// A multi-marker cluster gets a count glyph with cluster metadata.
	found := false
	for _, op := range cv.Ops() {
		pin, ok := cv.Pin(op.ID)
		if !ok {
			continue
		}
		if flag, _ := pin.Meta["isCluster"].(bool); flag {
			found = true
			if pin.Meta["count"].(int) < 2 {
				t.Error("cluster glyph metadata count below 2")
			}
			if pin.Style.Text == "" {
				t.Error("cluster glyph missing its count text")
			}
		}
	}
	if !found {
		t.Error("no cluster glyph rendered with isCluster metadata")
	}

	if err := l.Clear(); err != nil {
		t.Fatal(err)
	}
	if cv.PinCount() != 0 {
		t.Errorf("expected empty canvas after Clear, got %d pins", cv.PinCount())
	}
}

func TestLayer_RerenderReplacesGlyphs(t *testing.T) {
	cv := canvas.New()
	l := NewLayer(cv)
	l.SetMarkers(sampleMarkers())

	if err := l.Render(5); err != nil {
		t.Fatal(err)
	}
	if err := l.Render(l.MaxZoom + 1); err != nil {
		t.Fatal(err)
	}
	if cv.PinCount() != 6 {
		t.Errorf("expected 6 glyphs after re-render, got %d", cv.PinCount())
	}
}

func TestLayer_ByGlyphResolvesCluster(t *testing.T) {
	cv := canvas.New()
	l := NewLayer(cv)
	l.SetMarkers(sampleMarkers())

	if err := l.Render(5); err != nil {
		t.Fatal(err)
	}
	for _, op := range cv.Ops() {
		cm, ok := l.ByGlyph(op.ID)
		if !ok {
			t.Fatalf("glyph %d not resolvable", op.ID)
		}
		if cm.Count() < 1 {
			t.Error("resolved cluster has no markers")
		}
	}
}

type pixelProjection struct{}

func (pixelProjection) Project(loc core.Location) core.Pixel {
	return core.Pixel{X: loc.Longitude * 100, Y: loc.Latitude * 100}
}

func (pixelProjection) Unproject(p core.Pixel) core.Location {
	return core.Location{Latitude: p.Y / 100, Longitude: p.X / 100}
}

func TestLayer_HitTest(t *testing.T) {
	cv := canvas.New()
	l := NewLayer(cv)
	l.SetMarkers(sampleMarkers())
	if err := l.Render(5); err != nil {
		t.Fatal(err)
	}

	berlin := core.Location{Latitude: 52.5201, Longitude: 13.4051}
	hit := l.HitTest(pixelProjection{}, berlin, 10)
	if hit == nil {
		t.Fatal("expected a hit near the Berlin group")
	}
	if hit.Count() != 3 {
		t.Errorf("expected the 3-marker cluster, got count %d", hit.Count())
	}

	if l.HitTest(pixelProjection{}, core.Location{Latitude: 0, Longitude: 0}, 10) != nil {
		t.Error("expected no hit in the open ocean")
	}
}

func TestLayer_EmptyLayer(t *testing.T) {
	l := NewLayer(canvas.New())
	if got := l.At(5); got != nil {
		t.Errorf("expected nil clusters before SetMarkers, got %d", len(got))
	}

	l.SetMarkers(nil)
	if got := l.At(5); len(got) != 0 {
		t.Errorf("expected no clusters for empty marker set, got %d", len(got))
	}
	if err := l.Render(5); err != nil {
		t.Fatal(err)
	}
}
