// Package spider implements spider clustering: exploding a cluster marker
// into individually clickable pins arranged on a circle or a spiral around
// the cluster center, connected to it by stick lines.
package spider

import "github.com/cartodraw/maplayer/pkg/core"

// Default option values.
const (
	DefaultCircleSpiralSwitchover   = 9
	DefaultMinCircleLength          = 60
	DefaultMinSpiralAngleSeparation = 25
	DefaultSpiralDistanceFactor     = 5
	DefaultCollapseOnNthClick       = 1
	DefaultMaxSpiderPins            = 100
)

// Options controls the spider layout geometry and interaction behavior.
type Options struct {
	// CircleSpiralSwitchover is the pin count above which the layout
	// switches from a circle to a spiral.
	CircleSpiralSwitchover int

	// MinCircleLength is the minimum leg length in pixels.
	MinCircleLength float64

	// MinSpiralAngleSeparation is the minimum angular separation between
	// consecutive spiral pins, in pixel units along the arc.
	MinSpiralAngleSeparation float64

	// SpiralDistanceFactor scales how quickly the spiral grows outward.
	SpiralDistanceFactor float64

	// CollapseOnNthClick is how many clicks outside the exploded cluster
	// collapse it. The default of 1 collapses on the very next outside click.
	CollapseOnNthClick int

	// CollapseOnMapChange collapses the exploded cluster when the view
	// starts changing (panning). Zoom changes always collapse.
	CollapseOnMapChange bool

	// InvokeClickOnHover forwards a click to the original marker when its
	// spider pin is hovered, supporting preview-on-hover UX.
	InvokeClickOnHover bool

	// MaxSpiderPins caps how many pins a single explosion lays out,
	// bounding spiral growth for oversized clusters. Zero means unlimited.
	MaxSpiderPins int

	// StickStyle is the normal style of the line from cluster center to pin.
	StickStyle core.LineStyle

	// StickHoverStyle is applied to a pin's stick while the pin is hovered.
	StickHoverStyle core.LineStyle
}

// DefaultOptions returns the documented default option values.
func DefaultOptions() Options {
	return Options{
		CircleSpiralSwitchover:   DefaultCircleSpiralSwitchover,
		MinCircleLength:          DefaultMinCircleLength,
		MinSpiralAngleSeparation: DefaultMinSpiralAngleSeparation,
		SpiralDistanceFactor:     DefaultSpiralDistanceFactor,
		CollapseOnNthClick:       DefaultCollapseOnNthClick,
		InvokeClickOnHover:       true,
		MaxSpiderPins:            DefaultMaxSpiderPins,
		StickStyle:               core.LineStyle{StrokeColor: "#7f7f7f", StrokeThickness: 1, Visible: true},
		StickHoverStyle:          core.LineStyle{StrokeColor: "#2e6da4", StrokeThickness: 2, Visible: true},
	}
}

// normalized fills omitted numeric options with their defaults. Boolean
// options keep their zero values; use DefaultOptions as the starting point to
// get InvokeClickOnHover enabled.
func (o Options) normalized() Options {
	if o.CircleSpiralSwitchover <= 0 {
		o.CircleSpiralSwitchover = DefaultCircleSpiralSwitchover
	}
	if o.MinCircleLength <= 0 {
		o.MinCircleLength = DefaultMinCircleLength
	}
	if o.MinSpiralAngleSeparation <= 0 {
		o.MinSpiralAngleSeparation = DefaultMinSpiralAngleSeparation
	}
	if o.SpiralDistanceFactor <= 0 {
		o.SpiralDistanceFactor = DefaultSpiralDistanceFactor
	}
	if o.CollapseOnNthClick <= 0 {
		o.CollapseOnNthClick = DefaultCollapseOnNthClick
	}
	if o.MaxSpiderPins < 0 {
		o.MaxSpiderPins = 0
	}
	return o
}
