package realtime

import "encoding/json"

// frame is the broker envelope: one JSON object per text frame carrying the
// destination topic and the raw payload.
type frame struct {
	Topic   string          `json:"topic"`
	Payload json.RawMessage `json:"payload"`
}
