package utils

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

// ToInt converts loosely typed values (numbers, numeric strings, byte slices) to int.
// Fractional values are truncated. Anything unconvertible yields 0 and ok=false.
func ToInt(val any) (int, bool) {
	switch v := val.(type) {
	case nil:
		return 0, false
	case []byte:
		val = string(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(v), true
	case float32:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return 0, false
		}
		return int(v), true
	}

	if s, ok := val.(string); ok {
		s = strings.TrimSpace(s)
		// cast parses "3.0" as an error; go through float for decimal strings
		if strings.Contains(s, ".") {
			f, err := cast.ToFloat64E(s)
			if err != nil {
				return 0, false
			}
			return ToInt(f)
		}
		val = s
	}

	i, err := cast.ToIntE(val)
	if err != nil {
		return 0, false
	}
	return i, true
}

// ToNonNegativeInt converts like ToInt and clamps negative results to zero.
func ToNonNegativeInt(val any) int {
	i, _ := ToInt(val)
	if i < 0 {
		return 0
	}
	return i
}

// ToString converts scalars to string. Maps, slices and nil yield "" and ok=false.
func ToString(val any) (string, bool) {
	switch v := val.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case []byte:
		return string(v), true
	}
	s, err := cast.ToStringE(val)
	if err != nil {
		return "", false
	}
	return s, true
}

// ToBool converts various types to bool.
// It handles bool, numeric types (non-zero is true), and strings ("1", "true").
func ToBool(val any) bool {
	if b, ok := val.([]byte); ok {
		val = string(b)
	}
	return cast.ToBool(val)
}
