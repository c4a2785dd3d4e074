package spider

import (
	"math"
	"testing"

	"github.com/cartodraw/maplayer/pkg/core"
	"github.com/cartodraw/maplayer/pkg/maps"
)

// flatProjection maps longitude/latitude 1:1 onto pixel X/Y, which keeps
// geometry assertions exact.
type flatProjection struct{}

func (flatProjection) Project(loc core.Location) core.Pixel {
	return core.Pixel{X: loc.Longitude, Y: loc.Latitude}
}

func (flatProjection) Unproject(p core.Pixel) core.Location {
	return core.Location{Latitude: p.Y, Longitude: p.X}
}

func testPins(n int) []*maps.Marker {
	pins := make([]*maps.Marker, n)
	for i := range pins {
		pins[i] = maps.NewMarker(core.Location{}, core.MarkerStyle{})
	}
	return pins
}

func TestComputeLegs_CircleAnglesEvenlySpaced(t *testing.T) {
	opts := DefaultOptions()

	for n := 1; n <= opts.CircleSpiralSwitchover; n++ {
		legs := computeLegs(n, opts)
		if len(legs) != n {
			t.Fatalf("n=%d: expected %d legs, got %d", n, n, len(legs))
		}

		step := 2 * math.Pi / float64(n)
		for i := 1; i < n; i++ {
			diff := legs[i].angle - legs[i-1].angle
			if math.Abs(diff-step) > 1e-9 {
				t.Errorf("n=%d: angle step %d-%d = %f, expected %f", n, i, i-1, diff, step)
			}
		}
	}
}

func TestComputeLegs_CircleLengthClampedToMinimum(t *testing.T) {
	opts := DefaultOptions()

	legs := computeLegs(3, opts)
	for i, l := range legs {
		if l.length != opts.MinCircleLength {
			t.Errorf("leg %d: expected length %f, got %f", i, opts.MinCircleLength, l.length)
		}
	}
}

func TestComputeLegs_CircleLengthsAllEqual(t *testing.T) {
	opts := DefaultOptions()

	legs := computeLegs(9, opts)
	for i := 1; i < len(legs); i++ {
		if legs[i].length != legs[0].length {
			t.Errorf("leg %d length %f differs from leg 0 length %f", i, legs[i].length, legs[0].length)
		}
	}
}

func TestComputeLegs_SpiralLengthsNonDecreasing(t *testing.T) {
	opts := DefaultOptions()

	legs := computeLegs(15, opts)
	if len(legs) != 15 {
		t.Fatalf("expected 15 legs, got %d", len(legs))
	}
	for i := 1; i < len(legs); i++ {
		if legs[i].length < legs[i-1].length {
			t.Errorf("leg %d length %f shrank from %f", i, legs[i].length, legs[i-1].length)
		}
	}
}

func TestComputeLegs_SwitchoverBoundary(t *testing.T) {
	opts := DefaultOptions()

	// At the switchover the layout is still a circle: all lengths equal.
	circle := computeLegs(opts.CircleSpiralSwitchover, opts)
	for i := 1; i < len(circle); i++ {
		if circle[i].length != circle[0].length {
			t.Fatalf("expected circle mode at n=%d", opts.CircleSpiralSwitchover)
		}
	}

	// One past the switchover the spiral engages: lengths grow.
	spiral := computeLegs(opts.CircleSpiralSwitchover+1, opts)
	if spiral[len(spiral)-1].length <= spiral[0].length {
		t.Fatalf("expected spiral mode at n=%d", opts.CircleSpiralSwitchover+1)
	}
}

func TestLayout_CirclePlacementGeometry(t *testing.T) {
	opts := DefaultOptions()
	center := core.Location{Latitude: 0, Longitude: 0}
	pins := testPins(3)

	placements := Layout(flatProjection{}, center, pins, opts)
	if len(placements) != 3 {
		t.Fatalf("expected 3 placements, got %d", len(placements))
	}

	for i, p := range placements {
		angle := 2 * math.Pi / 3 * float64(i)
		wantX := opts.MinCircleLength * math.Cos(angle)
		wantY := opts.MinCircleLength * math.Sin(angle)
		if math.Abs(p.Location.Longitude-wantX) > 1e-9 || math.Abs(p.Location.Latitude-wantY) > 1e-9 {
			t.Errorf("placement %d at (%f,%f), expected (%f,%f)",
				i, p.Location.Longitude, p.Location.Latitude, wantX, wantY)
		}
		if p.StickFrom != center {
			t.Errorf("placement %d stick anchored at %v, expected cluster center", i, p.StickFrom)
		}
		if p.Pin != pins[i] {
			t.Errorf("placement %d lost its original marker back-reference", i)
		}
	}
}

func TestLayout_EmptyPinsIsNoOp(t *testing.T) {
	placements := Layout(flatProjection{}, core.Location{}, nil, DefaultOptions())
	if placements != nil {
		t.Fatalf("expected nil placements for empty pin list, got %d", len(placements))
	}
}

func TestLayout_MaxSpiderPinsCapsPlacement(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxSpiderPins = 5

	placements := Layout(flatProjection{}, core.Location{}, testPins(20), opts)
	if len(placements) != 5 {
		t.Fatalf("expected 5 placements, got %d", len(placements))
	}
}

func TestLayout_ZeroOptionsGetDefaults(t *testing.T) {
	placements := Layout(flatProjection{}, core.Location{}, testPins(3), Options{})
	if len(placements) != 3 {
		t.Fatalf("expected 3 placements, got %d", len(placements))
	}

	// Defaults clamp the circle radius to the minimum leg length.
	d := math.Hypot(placements[0].Location.Longitude, placements[0].Location.Latitude)
	if math.Abs(d-DefaultMinCircleLength) > 1e-9 {
		t.Errorf("expected leg length %d, got %f", DefaultMinCircleLength, d)
	}
}
