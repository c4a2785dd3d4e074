package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/cartodraw/maplayer/internal/channel"
)

// Option configures a subscription.
type Option func(*config)

type config struct {
	bufferSize int
	blocking   bool
	logged     bool
}

// Buffered makes the subscription async with a queue of the given size.
func Buffered(size int) Option {
	return func(c *config) {
		c.bufferSize = size
	}
}

// Blocking makes delivery block instead of drop: combined with Buffered the
// publisher blocks when the queue is full; alone it is a synchronous handoff
// to the handler goroutine.
func Blocking() Option {
	return func(c *config) {
		c.blocking = true
	}
}

// Logged adds debug logging around the handler.
func Logged() Option {
	return func(c *config) {
		c.logged = true
	}
}

type subscription struct {
	id       int
	handler  Handler
	buf      channel.Channel[Event]
	blocking bool
}

// Bus fans map events out to subscribed handlers. Any number of listeners may
// subscribe to an event type; each Subscribe call returns its own
// unsubscribe function.
type Bus struct {
	logger Logger

	// OTEL metrics
	queueSize metric.Int64ObservableGauge
	published metric.Int64Counter
	dropped   metric.Int64Counter

	mu     sync.RWMutex
	subs   map[Type]map[int]*subscription
	nextID int
}

// New creates a new Bus with the given logger.
// Uses the global OTel meter for metrics (no-op if not configured).
func New(logger Logger) (*Bus, error) {
	b := &Bus{
		logger: logger,
		subs:   make(map[Type]map[int]*subscription),
	}

	m := meter()

	var err error

	b.queueSize, err = m.Int64ObservableGauge(
		"events.queue.size",
		metric.WithDescription("Current number of events queued per subscription"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating queue size gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			b.mu.RLock()
			defer b.mu.RUnlock()
			for t, subs := range b.subs {
				for _, s := range subs {
					if s.buf == nil {
						continue
					}
					o.ObserveInt64(b.queueSize, int64(s.buf.Len()),
						metric.WithAttributes(attribute.String("event", string(t))))
				}
			}
			return nil
		},
		b.queueSize,
	)
	if err != nil {
		return nil, fmt.Errorf("registering queue callback: %w", err)
	}

	b.published, err = m.Int64Counter(
		"events.published",
		metric.WithDescription("Total events delivered to handlers"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating published counter: %w", err)
	}

	b.dropped, err = m.Int64Counter(
		"events.dropped",
		metric.WithDescription("Total events dropped due to full queue"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dropped counter: %w", err)
	}

	return b, nil
}

// Subscribe registers a handler for an event type and returns a function that
// removes the subscription.
func (b *Bus) Subscribe(t Type, h Handler, opts ...Option) func() {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	handler := h
	if cfg.logged {
		handler = b.withLogging(t, handler)
	}

	sub := &subscription{handler: handler, blocking: cfg.blocking}

	switch {
	case cfg.bufferSize > 0:
		sub.buf = channel.NewBuffered[Event](cfg.bufferSize)
	case cfg.blocking:
		// Blocking without a buffer is a synchronous handoff: Publish
		// waits for the handler goroutine to accept each event.
		sub.buf = channel.NewUnbuffered[Event]()
	}

	if sub.buf != nil {
		buf := sub.buf
		evAttr := attribute.String("event", string(t))
		go func() {
			for e := range buf.Receive() {
				handler(e)
				b.published.Add(context.Background(), 1, metric.WithAttributes(evAttr))
			}
		}()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	sub.id = b.nextID
	if b.subs[t] == nil {
		b.subs[t] = make(map[int]*subscription)
	}
	b.subs[t][sub.id] = sub

	id := sub.id
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		s, ok := b.subs[t][id]
		if !ok {
			return
		}
		delete(b.subs[t], id)
		// Closing the buffer ends the pump goroutine's range loop. The
		// write lock orders the close after any in-flight queuing in
		// Publish, which sends under the read lock.
		if s.buf != nil {
			s.buf.Close()
		}
	}
}

// HasSubscribers returns true if at least one handler is registered for the
// event type.
func (b *Bus) HasSubscribers(t Type) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[t]) > 0
}

// Publish delivers an event to every subscription for its type. Synchronous
// subscriptions run inline in publication order; buffered ones are queued.
func (b *Bus) Publish(e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	evAttr := attribute.String("event", string(e.Type))

	// Queue to channel-backed subscriptions while holding the read lock:
	// unsubscribe closes a buffer under the write lock, so a send can never
	// land on a closed channel.
	b.mu.RLock()
	inline := make([]*subscription, 0, len(b.subs[e.Type]))
	for _, s := range b.subs[e.Type] {
		switch {
		case s.buf == nil:
			inline = append(inline, s)
		case s.blocking:
			s.buf.Send(e)
		default:
			if !s.buf.TrySend(e) {
				b.dropped.Add(context.Background(), 1, metric.WithAttributes(evAttr))
				if b.logger != nil {
					b.logger.Error("event dropped", "event", string(e.Type))
				}
			}
		}
	}
	b.mu.RUnlock()

	// Inline handlers run outside the lock so they may subscribe or
	// unsubscribe without deadlocking.
	for _, s := range inline {
		s.handler(e)
		b.published.Add(context.Background(), 1, metric.WithAttributes(evAttr))
	}
}

func (b *Bus) withLogging(t Type, h Handler) Handler {
	return func(e Event) {
		start := time.Now()
		if b.logger != nil {
			b.logger.Debug("handling event", "event", string(t))
		}

		h(e)

		if b.logger != nil {
			b.logger.Debug("event complete", "event", string(t), "duration", time.Since(start))
		}
	}
}
