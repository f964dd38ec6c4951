package gachav1

import (
	"encoding/json"
	"fmt"
)

// Codec is a connect codec that serializes the plain message structs in this
// package as JSON. It is registered under the "json" name so it replaces the
// protobuf-only JSON codec connect installs by default.
type Codec struct{}

// Name implements connect.Codec
func (Codec) Name() string { return "json" }

// Marshal implements connect.Codec
func (Codec) Marshal(msg any) ([]byte, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", msg, err)
	}
	return b, nil
}

// Unmarshal implements connect.Codec. An empty body leaves msg at its zero value.
func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("failed to unmarshal %T: %w", msg, err)
	}
	return nil
}
