package events

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec encodes/decodes Events the same way the teacher's protocol.Codec
// handles Messages: msgpack by default, JSON as a decode fallback for
// cross-version dashboard clients.
type Codec struct{}

// NewCodec returns a ready-to-use Codec; it holds no state.
func NewCodec() *Codec {
	return &Codec{}
}

// Encode produces the msgpack encoding of ev.
func (c *Codec) Encode(ev Event) ([]byte, error) {
	return msgpack.Marshal(ev)
}

// Decode tries msgpack first, then falls back to JSON.
func (c *Codec) Decode(data []byte) (Event, error) {
	var ev Event
	if err := msgpack.Unmarshal(data, &ev); err == nil {
		return ev, nil
	}
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, err
	}
	return ev, nil
}
