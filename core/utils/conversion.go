package utils

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ToString converts loosely typed input values to string. Whole floats are
// written without exponent so numeric license numbers survive JSON decoding.
// nil becomes "".
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case []byte:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToStrings flattens a scalar or a list of scalars into trimmed, non-empty
// strings.
func ToStrings(val any) []string {
	var out []string
	add := func(x any) {
		if s := strings.TrimSpace(ToString(x)); s != "" {
			out = append(out, s)
		}
	}
	switch v := val.(type) {
	case nil:
	case []any:
		for _, x := range v {
			add(x)
		}
	case []string:
		for _, x := range v {
			add(x)
		}
	default:
		add(v)
	}
	return out
}

// ToBool converts various types to bool.
// It handles bool, numeric 1, and the strings "1", "true", "yes".
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case int:
		return v == 1
	case float64:
		return v == 1
	case json.Number:
		return v.String() == "1"
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		return s == "1" || s == "true" || s == "yes"
	default:
		return false
	}
}
