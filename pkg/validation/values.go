package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

func matchesType(t FieldType, value any) bool {
	switch t {
	case TypeString:
		_, ok := value.(string)
		return ok
	case TypeNumber:
		n, ok := NumberOf(value)
		return ok && !math.IsNaN(n) && !math.IsInf(n, 0)
	case TypeArray:
		_, ok := arrayLen(value)
		return ok
	case TypeBoolean:
		_, ok := value.(bool)
		return ok
	default:
		return false
	}
}

// NumberOf returns the numeric value of the common Go and JSON number types.
func NumberOf(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		n, err := v.Float64()
		return n, err == nil
	default:
		return 0, false
	}
}

// arrayLen returns the element count of an array answer whose items are all
// strings.
func arrayLen(value any) (int, bool) {
	switch v := value.(type) {
	case []string:
		return len(v), true
	case []any:
		for _, item := range v {
			if _, ok := item.(string); !ok {
				return 0, false
			}
		}
		return len(v), true
	default:
		return 0, false
	}
}

// Coerce converts raw input (form posts, prompt answers) into the answer
// representation of a field type. Empty input becomes nil for scalar types
// and an empty array for array fields.
func Coerce(t FieldType, raw []string) (any, error) {
	switch t {
	case TypeArray:
		out := make([]any, 0, len(raw))
		for _, item := range raw {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		return out, nil
	case TypeNumber:
		s := firstNonEmpty(raw)
		if s == "" {
			return nil, nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("validation: %q is not a number", s)
		}
		return n, nil
	case TypeBoolean:
		s := firstNonEmpty(raw)
		if s == "" {
			return nil, nil
		}
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("validation: %q is not a boolean", s)
		}
		return b, nil
	default:
		if len(raw) == 0 {
			return nil, nil
		}
		return raw[0], nil
	}
}

// Normalize converts programmatic values (for example []string or int) into
// the canonical answer representation: []any for arrays, float64 for
// numbers. Values of the wrong type are returned unchanged so validation can
// report them.
func Normalize(t FieldType, value any) any {
	switch t {
	case TypeArray:
		if v, ok := value.([]string); ok {
			out := make([]any, len(v))
			for i, item := range v {
				out[i] = item
			}
			return out
		}
	case TypeNumber:
		if n, ok := NumberOf(value); ok {
			return n
		}
	}
	return value
}

func firstNonEmpty(raw []string) string {
	for _, item := range raw {
		if s := strings.TrimSpace(item); s != "" {
			return s
		}
	}
	return ""
}
