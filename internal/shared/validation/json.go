package validation

import (
	"bytes"
	"encoding/json"
)

// UnmarshalScalars decodes a JSON object into dst after turning every member
// into its string form: numbers keep their literal text, booleans become
// "true"/"false" and null becomes "". Form DTOs keep raw strings so the
// submitted value can be validated and echoed back unchanged.
//
// dst must not itself implement json.Unmarshaler (callers pass a local
// alias type).
func UnmarshalScalars(data []byte, dst interface{}) error {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}

	flat := make(map[string]string, len(members))
	for key, raw := range members {
		flat[key] = scalarText(raw)
	}

	normalized, err := json.Marshal(flat)
	if err != nil {
		return err
	}
	return json.Unmarshal(normalized, dst)
}

func scalarText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	// Arrays and objects are kept verbatim and fail the field rules.
	return string(trimmed)
}
