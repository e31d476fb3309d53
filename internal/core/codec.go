package core

import json "github.com/goccy/go-json"

// Encode marshals an outbound message into a frame.
func Encode(v any) (Frame, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return Frame(b), nil
}
