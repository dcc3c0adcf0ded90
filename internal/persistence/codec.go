package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/AnEntrypoint/flowkit/pkg/api"
)

// EncodeFlow serializes a flow into its wire format: a plain JSON object
// with id, initial, and the states mapping. Empty state fields are omitted.
// Display ordering is editor-local and is never encoded.
func EncodeFlow(f *api.Flow) ([]byte, error) {
	if f == nil {
		return nil, fmt.Errorf("encode flow: nil flow")
	}
	return json.Marshal(f)
}

// DecodeFlow parses wire-format bytes into a flow. A document without a
// states object gets an empty mapping so callers never see a nil map.
func DecodeFlow(data []byte) (*api.Flow, error) {
	var f api.Flow
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode flow: %w", err)
	}
	if f.States == nil {
		f.States = make(map[string]api.State)
	}
	return &f, nil
}

// encodeStates serializes just the states mapping, for backends that keep
// id and initial in their own columns or fields.
func encodeStates(states map[string]api.State) ([]byte, error) {
	if states == nil {
		states = map[string]api.State{}
	}
	return json.Marshal(states)
}

func decodeStates(data []byte) (map[string]api.State, error) {
	states := make(map[string]api.State)
	if len(data) == 0 {
		return states, nil
	}
	if err := json.Unmarshal(data, &states); err != nil {
		return nil, fmt.Errorf("decode states: %w", err)
	}
	return states, nil
}
