package geo

import (
	"math"
	"testing"

	"github.com/cartodraw/maplayer/pkg/core"
)

func TestMercator_OriginMapsToWorldCenter(t *testing.T) {
	m := NewMercator(256, 0)

	p := m.Project(core.Location{Latitude: 0, Longitude: 0})
	if math.Abs(p.X-128) > 1e-6 || math.Abs(p.Y-128) > 1e-6 {
		t.Errorf("origin projected to (%f,%f), expected world center (128,128)", p.X, p.Y)
	}
}

func TestMercator_RoundTrip(t *testing.T) {
	m := NewMercator(512, 10)

	locs := []core.Location{
		{Latitude: 0, Longitude: 0},
		{Latitude: 52.52, Longitude: 13.405},
		{Latitude: -33.8688, Longitude: 151.2093},
		{Latitude: 40.7128, Longitude: -74.006},
	}
	for _, loc := range locs {
		got := m.Unproject(m.Project(loc))
		if math.Abs(got.Latitude-loc.Latitude) > 1e-6 || math.Abs(got.Longitude-loc.Longitude) > 1e-6 {
			t.Errorf("round trip of %v gave %v", loc, got)
		}
	}
}

func TestMercator_LatitudeClamped(t *testing.T) {
	m := NewMercator(256, 0)

	pole := m.Project(core.Location{Latitude: 89.9, Longitude: 0})
	limit := m.Project(core.Location{Latitude: MaxLatitude, Longitude: 0})
	if math.Abs(pole.Y-limit.Y) > 1e-6 {
		t.Errorf("latitude beyond the limit projected to Y=%f, expected clamp to %f", pole.Y, limit.Y)
	}

	south := m.Project(core.Location{Latitude: -89.9, Longitude: 0})
	southLimit := m.Project(core.Location{Latitude: -MaxLatitude, Longitude: 0})
	if math.Abs(south.Y-southLimit.Y) > 1e-6 {
		t.Errorf("southern clamp failed: Y=%f, expected %f", south.Y, southLimit.Y)
	}
}

func TestMercator_ZoomDoublesPixelSpace(t *testing.T) {
	loc := core.Location{Latitude: 48.8566, Longitude: 2.3522}

	m := NewMercator(256, 3)
	p3 := m.Project(loc)
	m.SetZoom(4)
	if m.Zoom() != 4 {
		t.Fatalf("expected zoom 4 after SetZoom, got %d", m.Zoom())
	}
	p4 := m.Project(loc)

	if math.Abs(p4.X-2*p3.X) > 1e-6 || math.Abs(p4.Y-2*p3.Y) > 1e-6 {
		t.Errorf("one zoom step should double pixel coordinates: z3=(%f,%f) z4=(%f,%f)",
			p3.X, p3.Y, p4.X, p4.Y)
	}
}

func TestMercator_NorthIsUp(t *testing.T) {
	m := NewMercator(256, 2)

	north := m.Project(core.Location{Latitude: 50, Longitude: 0})
	south := m.Project(core.Location{Latitude: -50, Longitude: 0})
	if north.Y >= south.Y {
		t.Errorf("northern latitude should have the smaller Y: north=%f south=%f", north.Y, south.Y)
	}
}

func TestParsePolyline(t *testing.T) {
	ls, err := ParsePolyline(`[[13.405,52.52],[2.3522,48.8566],[151.2093,-33.8688]]`)
	if err != nil {
		t.Fatal(err)
	}
	if n := ls.Coordinates().Length(); n != 3 {
		t.Errorf("expected 3 points, got %d", n)
	}
}

func TestParsePolyline_Errors(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"invalid json", "not json"},
		{"single point", "[[1,2]]"},
		{"short coordinate", "[[1,2],[3]]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParsePolyline(tc.input); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParsePath(t *testing.T) {
	path, err := ParsePath(`[[13.405,52.52],[2.3522,48.8566]]`)
	if err != nil {
		t.Fatal(err)
	}
	if len(path) != 2 {
		t.Fatalf("expected 2 locations, got %d", len(path))
	}
	if path[0].Longitude != 13.405 || path[0].Latitude != 52.52 {
		t.Errorf("first location %v, expected long 13.405 lat 52.52", path[0])
	}
}

func TestParsePath_Errors(t *testing.T) {
	if _, err := ParsePath("[[1,2]]"); err == nil {
		t.Error("expected an error for a single-point path")
	}
	if _, err := ParsePath("{}"); err == nil {
		t.Error("expected an error for malformed input")
	}
}
