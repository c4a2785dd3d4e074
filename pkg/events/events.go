// Package events provides the event bus connecting a map provider's event
// stream (clicks, hovers, view changes) to the overlay subsystems.
package events

import (
	"time"

	"github.com/cartodraw/maplayer/pkg/core"
)

// Type identifies a kind of map event.
type Type string

// Event types delivered by a map provider.
const (
	MapClick        Type = "map.click"
	ClusterClick    Type = "cluster.click"
	PinClick        Type = "pin.click"
	PinHoverIn      Type = "pin.hoverin"
	PinHoverOut     Type = "pin.hoverout"
	ViewChangeStart Type = "view.changestart"
	ViewChangeEnd   Type = "view.changeend"
	ZoomEnd         Type = "zoom.end"
)

// Event represents a single map interaction. Target carries the primitive or
// model object the event applies to; its concrete type depends on the event
// type (a cluster handle for ClusterClick, a core.PrimitiveID for pin events).
type Event struct {
	Type      Type
	Target    any
	Location  core.Location
	Zoom      int
	Timestamp time.Time
}

// Handler processes an event. Map events carry no failure semantics, so
// handlers do not return errors.
type Handler func(Event)

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}
