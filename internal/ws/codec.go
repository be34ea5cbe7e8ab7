package ws

import (
	"encoding/json"
	"fmt"

	"github.com/mcoot/numbermaster/internal/model"
)

// Encode serialises an outbound event as a JSON envelope
func Encode(event model.Event) ([]byte, error) {
	return json.Marshal(event)
}

// Decode parses an inbound frame into an envelope. The payload is left raw for
// model.DecodeCommand.
func Decode(data []byte) (model.Envelope, error) {
	var env model.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return model.Envelope{}, fmt.Errorf("%w: %v", model.ErrInvalidCommand, err)
	}
	if env.Type == "" {
		return model.Envelope{}, fmt.Errorf("%w: missing type", model.ErrInvalidCommand)
	}
	return env, nil
}
