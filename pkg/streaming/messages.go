// Package streaming defines the wire messages used to mirror overlay draw
// operations to a remote viewer over WebSocket.
package streaming

import (
	"encoding/json"

	"github.com/cartodraw/maplayer/pkg/core"
)

// Message type constants matching the streaming protocol.
const (
	TypeAddPin       = "add_pin"
	TypeAddLine      = "add_line"
	TypeSetLineStyle = "set_line_style"
	TypeRemove       = "remove"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AckMessage is the server's acknowledgement response.
type AckMessage struct {
	Type string `json:"type"` // always "ack"
	For  string `json:"for"`  // the message type being acknowledged
}

// AddPinPayload carries a rendered point primitive.
type AddPinPayload struct {
	ID       core.PrimitiveID `json:"id"`
	Location core.Location    `json:"location"`
	Style    core.MarkerStyle `json:"style"`
	Meta     core.Metadata    `json:"meta,omitempty"`
}

// AddLinePayload carries a rendered line primitive.
type AddLinePayload struct {
	ID    core.PrimitiveID `json:"id"`
	From  core.Location    `json:"from"`
	To    core.Location    `json:"to"`
	Style core.LineStyle   `json:"style"`
}

// SetLineStylePayload carries a line restyle.
type SetLineStylePayload struct {
	ID    core.PrimitiveID `json:"id"`
	Style core.LineStyle   `json:"style"`
}

// RemovePayload carries a primitive removal.
type RemovePayload struct {
	ID core.PrimitiveID `json:"id"`
}
