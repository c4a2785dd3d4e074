package remote

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cartodraw/maplayer/pkg/core"
	"github.com/cartodraw/maplayer/pkg/streaming"
)

// Config holds remote mirroring settings.
type Config struct {
	URL    string
	Secret string
}

// Surface decorates an inner core.Surface, mirroring every draw operation to
// a remote viewer. The inner surface stays authoritative: a failed mirror
// never fails the local draw.
type Surface struct {
	inner core.Surface
	conn  *connection
}

// New creates a mirroring surface around inner.
func New(inner core.Surface, cfg Config, logger zerolog.Logger) (*Surface, error) {
	s := &Surface{
		inner: inner,
		conn:  newConnection(logger),
	}
	if err := s.conn.dial(cfg.URL, cfg.Secret); err != nil {
		return nil, err
	}
	return s, nil
}

// Close shuts the mirror connection down.
func (s *Surface) Close() error {
	return s.conn.close()
}

// marshalEnvelope builds a JSON-encoded Envelope from a message type and payload.
func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	env := streaming.Envelope{Type: msgType, Payload: raw}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}

func (s *Surface) mirror(msgType string, payload any) {
	data, err := marshalEnvelope(msgType, payload)
	if err != nil {
		s.conn.logger.Warn().Err(err).Msg("failed to marshal mirror message")
		return
	}
	s.conn.send(data)
}

// AddPin draws on the inner surface and mirrors the operation.
func (s *Surface) AddPin(at core.Location, style core.MarkerStyle, meta core.Metadata) (core.PrimitiveID, error) {
	id, err := s.inner.AddPin(at, style, meta)
	if err != nil {
		return 0, err
	}
	s.mirror(streaming.TypeAddPin, streaming.AddPinPayload{ID: id, Location: at, Style: style, Meta: meta})
	return id, nil
}

// AddLine draws on the inner surface and mirrors the operation.
func (s *Surface) AddLine(from, to core.Location, style core.LineStyle) (core.PrimitiveID, error) {
	id, err := s.inner.AddLine(from, to, style)
	if err != nil {
		return 0, err
	}
	s.mirror(streaming.TypeAddLine, streaming.AddLinePayload{ID: id, From: from, To: to, Style: style})
	return id, nil
}

// SetLineStyle restyles on the inner surface and mirrors the operation.
func (s *Surface) SetLineStyle(id core.PrimitiveID, style core.LineStyle) error {
	if err := s.inner.SetLineStyle(id, style); err != nil {
		return err
	}
	s.mirror(streaming.TypeSetLineStyle, streaming.SetLineStylePayload{ID: id, Style: style})
	return nil
}

// Remove removes from the inner surface and mirrors the operation.
func (s *Surface) Remove(id core.PrimitiveID) error {
	if err := s.inner.Remove(id); err != nil {
		return err
	}
	s.mirror(streaming.TypeRemove, streaming.RemovePayload{ID: id})
	return nil
}
