package api

import (
	"encoding/json"
	"fmt"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// Codec encodes messages as JSON. It registers under the "json" name so
// handlers and clients speak application/json.
type Codec struct{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("invalid message: %w", err)
	}
	return nil
}
