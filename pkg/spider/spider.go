package spider

import (
	"github.com/cartodraw/maplayer/pkg/core"
	"github.com/cartodraw/maplayer/pkg/events"
	"github.com/cartodraw/maplayer/pkg/maps"
)

// Cluster is the handle the spiderfier explodes: a rendered cluster glyph
// with a location and the original markers folded into it.
type Cluster interface {
	Location() core.Location
	ContainedPins() []*maps.Marker
}

// Selection identifies what was selected. Marker is nil when a whole cluster
// was exploded; it is set when an individual spider pin was clicked.
type Selection struct {
	Marker  *maps.Marker
	Cluster Cluster
}

// spiderMarker is one exploded pin. Its pin and stick primitives are
// co-owned and always removed together.
type spiderMarker struct {
	original *maps.Marker
	pin      core.PrimitiveID
	stick    core.PrimitiveID
}

// expanded is the session state while exactly one cluster is exploded.
type expanded struct {
	cluster Cluster
	markers []*spiderMarker
	byPin   map[core.PrimitiveID]*spiderMarker
	clicks  int
}

// collapsedClicks is the click counter sentinel reported while no cluster is
// expanded.
const collapsedClicks = -1

// Spiderfier is the spider interaction state machine. It is collapsed when
// cur is nil and expanded otherwise; at most one cluster is exploded at any
// time, enforced by always collapsing before expanding.
//
// All state is mutated from event handlers on the provider's event loop;
// the spiderfier itself takes no locks.
type Spiderfier struct {
	proj    core.Projection
	surface core.Surface
	opts    Options
	logger  events.Logger

	cur  *expanded
	zoom int

	nextListenerID int
	selected       map[int]func(Selection)
	unselected     map[int]func()
}

// New creates a spiderfier drawing onto the given surface. The logger may be
// nil. If the projection exposes a Zoom() method the current zoom level is
// seeded from it.
func New(proj core.Projection, surface core.Surface, opts Options, logger events.Logger) *Spiderfier {
	s := &Spiderfier{
		proj:       proj,
		surface:    surface,
		opts:       opts.normalized(),
		logger:     logger,
		selected:   make(map[int]func(Selection)),
		unselected: make(map[int]func()),
	}
	if z, ok := proj.(interface{ Zoom() int }); ok {
		s.zoom = z.Zoom()
	}
	return s
}

// Attach subscribes the spiderfier to a bus and returns a detach function.
func (s *Spiderfier) Attach(bus *events.Bus) func() {
	unsubs := []func(){
		bus.Subscribe(events.ClusterClick, func(e events.Event) {
			if c, ok := e.Target.(Cluster); ok {
				s.HandleClusterClick(c)
			}
		}),
		bus.Subscribe(events.MapClick, func(events.Event) {
			s.HandleMapClick()
		}),
		bus.Subscribe(events.ZoomEnd, func(e events.Event) {
			s.HandleZoomEnd(e.Zoom)
		}),
		bus.Subscribe(events.ViewChangeStart, func(events.Event) {
			s.HandleViewChangeStart()
		}),
		bus.Subscribe(events.PinClick, func(e events.Event) {
			if id, ok := e.Target.(core.PrimitiveID); ok {
				s.HandlePinClick(id)
			}
		}),
		bus.Subscribe(events.PinHoverIn, func(e events.Event) {
			if id, ok := e.Target.(core.PrimitiveID); ok {
				s.HandlePinHoverIn(id)
			}
		}),
		bus.Subscribe(events.PinHoverOut, func(e events.Event) {
			if id, ok := e.Target.(core.PrimitiveID); ok {
				s.HandlePinHoverOut(id)
			}
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// OnSelected registers a selection listener and returns a function that
// removes it. Multiple listeners may be registered.
func (s *Spiderfier) OnSelected(fn func(Selection)) func() {
	s.nextListenerID++
	id := s.nextListenerID
	s.selected[id] = fn
	return func() {
		delete(s.selected, id)
	}
}

// OnUnselected registers a collapse listener and returns a function that
// removes it.
func (s *Spiderfier) OnUnselected(fn func()) func() {
	s.nextListenerID++
	id := s.nextListenerID
	s.unselected[id] = fn
	return func() {
		delete(s.unselected, id)
	}
}

// Expanded reports whether a cluster is currently exploded.
func (s *Spiderfier) Expanded() bool {
	return s.cur != nil
}

// ExpandedCluster returns the currently exploded cluster, or nil.
func (s *Spiderfier) ExpandedCluster() Cluster {
	if s.cur == nil {
		return nil
	}
	return s.cur.cluster
}

// MarkerCount returns the number of spider markers currently rendered.
func (s *Spiderfier) MarkerCount() int {
	if s.cur == nil {
		return 0
	}
	return len(s.cur.markers)
}

// ClickCount returns the outside-click counter, or the collapsed sentinel
// (-1) while no cluster is expanded.
func (s *Spiderfier) ClickCount() int {
	if s.cur == nil {
		return collapsedClicks
	}
	return s.cur.clicks
}

// HandleClusterClick expands the clicked cluster. Clicking the already
// expanded cluster collapses it instead; clicking a different cluster
// collapses the current one first.
func (s *Spiderfier) HandleClusterClick(c Cluster) {
	if c == nil {
		return
	}
	if s.cur != nil {
		same := s.cur.cluster == c
		s.Collapse()
		if same {
			return
		}
	}
	s.expand(c)
}

// HandleMapClick counts a click outside the exploded cluster and collapses
// once the configured threshold is reached.
func (s *Spiderfier) HandleMapClick() {
	if s.cur == nil {
		return
	}
	s.cur.clicks++
	if s.cur.clicks >= s.opts.CollapseOnNthClick {
		s.Collapse()
	}
}

// HandleZoomEnd collapses on any zoom change: the layout is computed in the
// pixel space of a single zoom level, so a zoom invalidates it.
func (s *Spiderfier) HandleZoomEnd(zoom int) {
	if zoom == s.zoom {
		return
	}
	s.zoom = zoom
	if s.cur != nil {
		s.Collapse()
	}
}

// HandleViewChangeStart collapses on pan only when configured to.
func (s *Spiderfier) HandleViewChangeStart() {
	if s.cur == nil || !s.opts.CollapseOnMapChange {
		return
	}
	s.Collapse()
}

// HandlePinClick forwards a spider pin click to the original marker's
// registered click handlers and resets the outside-click counter. A pin with
// no original marker back-reference is skipped.
func (s *Spiderfier) HandlePinClick(id core.PrimitiveID) {
	if s.cur == nil {
		return
	}
	sm, ok := s.cur.byPin[id]
	if !ok {
		return
	}
	if sm.original != nil {
		sm.original.Click()
		s.notifySelected(Selection{Marker: sm.original, Cluster: s.cur.cluster})
	}
	s.cur.clicks = 0
}

// HandlePinHoverIn applies the hover style to the pin's stick and, when
// InvokeClickOnHover is set, forwards a click to the original marker.
func (s *Spiderfier) HandlePinHoverIn(id core.PrimitiveID) {
	if s.cur == nil {
		return
	}
	sm, ok := s.cur.byPin[id]
	if !ok {
		return
	}
	if err := s.surface.SetLineStyle(sm.stick, s.opts.StickHoverStyle); err != nil && s.logger != nil {
		s.logger.Error("failed to restyle stick", "error", err)
	}
	if s.opts.InvokeClickOnHover && sm.original != nil {
		sm.original.Click()
	}
}

// HandlePinHoverOut reverts the pin's stick to the normal style.
func (s *Spiderfier) HandlePinHoverOut(id core.PrimitiveID) {
	if s.cur == nil {
		return
	}
	sm, ok := s.cur.byPin[id]
	if !ok {
		return
	}
	if err := s.surface.SetLineStyle(sm.stick, s.opts.StickStyle); err != nil && s.logger != nil {
		s.logger.Error("failed to restyle stick", "error", err)
	}
}

// Collapse removes every spider marker and its stick, clears the expanded
// cluster pointer and notifies unselect listeners. Collapsing while already
// collapsed is a no-op.
func (s *Spiderfier) Collapse() {
	if s.cur == nil {
		return
	}
	for _, sm := range s.cur.markers {
		// Pin and stick are co-owned: always delete both.
		if err := s.surface.Remove(sm.pin); err != nil && s.logger != nil {
			s.logger.Error("failed to remove spider pin", "error", err)
		}
		if err := s.surface.Remove(sm.stick); err != nil && s.logger != nil {
			s.logger.Error("failed to remove spider stick", "error", err)
		}
	}
	s.cur = nil
	for _, fn := range s.unselected {
		fn()
	}
}

func (s *Spiderfier) expand(c Cluster) {
	pins := c.ContainedPins()
	if len(pins) == 0 {
		return
	}

	placements := Layout(s.proj, c.Location(), pins, s.opts)

	exp := &expanded{
		cluster: c,
		byPin:   make(map[core.PrimitiveID]*spiderMarker, len(placements)),
	}
	for _, p := range placements {
		stick, err := s.surface.AddLine(p.StickFrom, p.Location, s.opts.StickStyle)
		if err != nil {
			if s.logger != nil {
				s.logger.Error("failed to draw stick", "error", err)
			}
			continue
		}

		meta := core.Metadata{"isSpiderPin": true}
		style := core.MarkerStyle{}
		if p.Pin != nil {
			style = p.Pin.Style
			for k, v := range p.Pin.Metadata {
				meta[k] = v
			}
		}
		pin, err := s.surface.AddPin(p.Location, style, meta)
		if err != nil {
			if s.logger != nil {
				s.logger.Error("failed to draw spider pin", "error", err)
			}
			// Orphaned stick must not outlive its pin.
			if rerr := s.surface.Remove(stick); rerr != nil && s.logger != nil {
				s.logger.Error("failed to remove orphaned stick", "error", rerr)
			}
			continue
		}

		sm := &spiderMarker{original: p.Pin, pin: pin, stick: stick}
		exp.markers = append(exp.markers, sm)
		exp.byPin[pin] = sm
	}

	s.cur = exp
	s.notifySelected(Selection{Cluster: c})
}

func (s *Spiderfier) notifySelected(sel Selection) {
	for _, fn := range s.selected {
		fn(sel)
	}
}
