package spider

import (
	"math"

	"github.com/cartodraw/maplayer/pkg/core"
	"github.com/cartodraw/maplayer/pkg/maps"
)

// leg is one step of the layout recurrence: the polar placement of a single
// pin relative to the cluster center, in pixel space.
type leg struct {
	angle  float64
	length float64
}

// computeLegs produces the polar placement for n pins. Small clusters are
// laid out evenly on a circle; clusters above the switchover are laid out on
// an expanding spiral.
//
// The spiral is a sequential recurrence: each pin's angle and radius depend
// on the previous pin's accumulated state. Keep this a plain fold over the
// pin index; the steps cannot be computed independently.
func computeLegs(n int, o Options) []leg {
	legs := make([]leg, 0, n)

	if n <= o.CircleSpiralSwitchover {
		stepAngle := 2 * math.Pi / float64(n)
		length := o.SpiralDistanceFactor / stepAngle / math.Pi / 2 * float64(n)
		if length < o.MinCircleLength {
			length = o.MinCircleLength
		}
		for i := 0; i < n; i++ {
			legs = append(legs, leg{angle: stepAngle * float64(i), length: length})
		}
		return legs
	}

	angle := 0.0
	length := o.MinCircleLength / math.Pi
	step := 2 * math.Pi * o.SpiralDistanceFactor
	for i := 0; i < n; i++ {
		angle += o.MinSpiralAngleSeparation/length + float64(i)*0.0005
		length += step / angle
		legs = append(legs, leg{angle: angle, length: length})
	}
	return legs
}

// Placement is one exploded pin: where it goes, which original marker it
// stands for, and the stick anchoring it to the cluster center.
type Placement struct {
	Pin       *maps.Marker
	Location  core.Location
	StickFrom core.Location
}

// Layout computes the exploded placement of a cluster's pins around its
// center. Returns nil for an empty pin list. When MaxSpiderPins is set, only
// the first MaxSpiderPins pins are placed.
func Layout(proj core.Projection, center core.Location, pins []*maps.Marker, o Options) []Placement {
	o = o.normalized()

	n := len(pins)
	if n == 0 {
		return nil
	}
	if o.MaxSpiderPins > 0 && n > o.MaxSpiderPins {
		n = o.MaxSpiderPins
		pins = pins[:n]
	}

	centerPx := proj.Project(center)
	legs := computeLegs(n, o)

	placements := make([]Placement, 0, n)
	for i, l := range legs {
		px := core.Pixel{
			X: centerPx.X + l.length*math.Cos(l.angle),
			Y: centerPx.Y + l.length*math.Sin(l.angle),
		}
		placements = append(placements, Placement{
			Pin:       pins[i],
			Location:  proj.Unproject(px),
			StickFrom: center,
		})
	}
	return placements
}
