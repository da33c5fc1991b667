package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for date-only fields.
const DateLayout = "2006-01-02"

// PhonePattern matches the 10-14 digit phone numbers accepted as identifiers.
var PhonePattern = regexp.MustCompile(`^[0-9]{10,14}$`)

// Numeric checks that a string is a decimal number within [min, max].
// A nil bound is open. Empty strings pass; combine with ozzo.Required.
func Numeric(min, max *float64) ozzo.Rule {
	return ozzo.By(func(value interface{}) error {
		s, _ := value.(string)
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return ozzo.NewError("validation_numeric", "must be a number")
		}
		if min != nil && d.LessThan(decimal.NewFromFloat(*min)) {
			return ozzo.NewError("validation_min", fmt.Sprintf("must be at least %s", trimFloat(*min)))
		}
		if max != nil && d.GreaterThan(decimal.NewFromFloat(*max)) {
			return ozzo.NewError("validation_max", fmt.Sprintf("must not be greater than %s", trimFloat(*max)))
		}
		return nil
	})
}

// Integer checks that a string is a whole number >= min.
func Integer(min int64) ozzo.Rule {
	return ozzo.By(func(value interface{}) error {
		s, _ := value.(string)
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return ozzo.NewError("validation_integer", "must be an integer")
		}
		if n < min {
			return ozzo.NewError("validation_min", fmt.Sprintf("must be at least %d", min))
		}
		return nil
	})
}

// ID checks that a string, when present, is a positive integer identifier.
var ID = ozzo.By(func(value interface{}) error {
	s, _ := value.(string)
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err != nil || n <= 0 {
		return ozzo.NewError("validation_id", "is invalid")
	}
	return nil
})

// Date checks the YYYY-MM-DD layout.
var Date = ozzo.Date(DateLayout).Error("must be a valid date (YYYY-MM-DD)")

// DateBefore checks the YYYY-MM-DD layout and that the date is strictly before limit.
func DateBefore(limit time.Time, msg string) ozzo.Rule {
	day := time.Date(limit.Year(), limit.Month(), limit.Day(), 0, 0, 0, 0, time.UTC)
	return ozzo.Date(DateLayout).Max(day.AddDate(0, 0, -1)).
		Error("must be a valid date (YYYY-MM-DD)").
		RangeError(msg)
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Ptr is a small helper for the open-bound arguments of Numeric.
func Ptr(f float64) *float64 { return &f }

// Required rejects empty and whitespace-only values.
var Required = ozzo.Required.Error("is required")

// MaxLength limits a string to n characters (runes).
func MaxLength(n int) ozzo.Rule {
	return ozzo.RuneLength(0, n).Error(fmt.Sprintf("must not be greater than %d characters", n))
}

// MinLength requires at least n characters (runes) when the value is present.
func MinLength(n int) ozzo.Rule {
	return ozzo.RuneLength(n, 0).Error(fmt.Sprintf("must be at least %d characters", n))
}
