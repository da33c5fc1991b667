package validation

import (
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
)

var truthy = map[string]bool{
	"1": true, "true": true, "yes": true, "on": true,
	"0": false, "false": false, "no": false, "off": false,
}

// ParseBool coerces loosely typed form input into a bool.
// Accepted (case-insensitive): 1/0, true/false, yes/no, on/off.
// ok is false for empty or unrecognised input.
func ParseBool(raw string) (value bool, ok bool) {
	v, found := truthy[strings.ToLower(strings.TrimSpace(raw))]
	return v, found
}

// BoolOr is ParseBool with a default for absent or unrecognised input.
func BoolOr(raw string, def bool) bool {
	if v, ok := ParseBool(raw); ok {
		return v
	}
	return def
}

// Boolean is an ozzo rule rejecting non-empty strings ParseBool cannot read.
var Boolean = ozzo.By(func(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, ok := ParseBool(s); !ok {
		return ozzo.NewError("validation_boolean", "must be true or false")
	}
	return nil
})
