package ws

import "encoding/json"

// Message is an inbound frame: a type tag plus an optional payload kept raw
// until the router knows what shape to expect.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Event is an outbound frame. Data is omitted entirely when nil, matching
// payload-less events like return_to_game.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}
