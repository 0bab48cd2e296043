package parser

import (
	"math"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-formbind/pkg/field"
)

// Value coercion maps raw form input onto the model's expected JSON type.
// Coercion never fails: unparsable input coerces to nil, which emptiness
// checks downstream treat as "no value".

// CoerceNumber parses a raw value as a floating point number, nil when the
// input is not finite.
func CoerceNumber(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return nil
		}
		return finite(parsed)
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil
		}
		return finite(parsed)
	default:
		return nil
	}
}

// CoerceInteger parses a raw value as a base-10 integer, nil when the input
// is not a finite number. Fractional input truncates toward zero.
func CoerceInteger(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case uint:
		return int64(v)
	case float64:
		if finite(v) == nil {
			return nil
		}
		return int64(v)
	case float32:
		return CoerceInteger(float64(v))
	case json.Number:
		return coerceIntegerString(v.String())
	case string:
		return coerceIntegerString(v)
	default:
		return nil
	}
}

func coerceIntegerString(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	if parsed, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return parsed
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || finite(parsed) == nil {
		return nil
	}
	return int64(parsed)
}

// CoerceBoolean maps raw input to a bool, nil when unrecognisable.
func CoerceBoolean(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case bool:
		return v
	case string:
		switch strings.TrimSpace(strings.ToLower(v)) {
		case "true", "on", "1":
			return true
		case "false", "off", "0":
			return false
		default:
			return nil
		}
	default:
		return nil
	}
}

// CoerceString maps raw input to a string, formatting numeric and boolean
// input; nil stays nil.
func CoerceString(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case json.Number:
		return v.String()
	default:
		return nil
	}
}

// CoerceArray applies the element coercion across a raw slice. Positions
// are index-addressed, so unparsable entries stay as explicit nil holes
// rather than being filtered out.
func CoerceArray(raw []any, elem func(any) any) []any {
	out := make([]any, len(raw))
	for idx, value := range raw {
		if value == nil {
			continue
		}
		if elem == nil {
			out[idx] = value
			continue
		}
		out[idx] = elem(value)
	}
	return out
}

func coercerFor(kind field.Kind) func(any) any {
	switch kind {
	case field.KindNumber:
		return CoerceNumber
	case field.KindInteger:
		return CoerceInteger
	case field.KindBoolean, field.KindCheckbox:
		return CoerceBoolean
	case field.KindString, field.KindTextarea, field.KindFile:
		return CoerceString
	case field.KindNull:
		return func(any) any { return nil }
	default:
		// enum/radio values keep their declared type.
		return func(v any) any { return v }
	}
}

func finite(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}
