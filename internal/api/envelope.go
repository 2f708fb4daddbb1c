package api

import (
	"bytes"
	"encoding/json"
)

// Unmarshal decodes a response body that is either a bare payload or an
// envelope carrying the payload under a data key. The enveloped shape is
// tried first; anything else falls back to the bare shape.
func Unmarshal(data []byte, out any) error {
	if out == nil {
		return nil
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	if trimmed[0] == '{' {
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &env); err == nil && env.Data != nil {
			return json.Unmarshal(env.Data, out)
		}
	}

	return json.Unmarshal(trimmed, out)
}
