package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Codec is the Connect codec for the plain Go messages in this package. It
// registers under the name "json", replacing Connect's protobuf JSON codec.
type Codec struct{}

// Name implements connect.Codec.
func (Codec) Name() string { return "json" }

// Marshal implements connect.Codec.
func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

// Unmarshal implements connect.Codec. Unknown fields are rejected so typos in
// client payloads surface as errors instead of zero values.
func (Codec) Unmarshal(data []byte, msg any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(msg); err != nil {
		return fmt.Errorf("decode %T: %w", msg, err)
	}
	return nil
}
