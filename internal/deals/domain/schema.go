package domain

import (
	"encoding/json"
	"math"
)

// rawRecord wraps an untrusted record so every field coercion rule lives in
// one auditable place instead of scattered type switches.
type rawRecord map[string]any

// stringField returns the field as a string. Non-string values do not coerce.
func (r rawRecord) stringField(key string) (string, bool) {
	value, ok := r[key].(string)
	return value, ok
}

// optionalString returns a pointer for present, non-empty string fields.
func (r rawRecord) optionalString(key string) *string {
	value, ok := r[key].(string)
	if !ok || value == "" {
		return nil
	}
	return &value
}

// numberField coerces numeric JSON shapes to a float64. NaN and infinities
// are rejected, never stored as values.
func (r rawRecord) numberField(key string) *float64 {
	value, ok := r[key]
	if !ok || value == nil {
		return nil
	}

	var parsed float64
	switch typed := value.(type) {
	case float64:
		parsed = typed
	case float32:
		parsed = float64(typed)
	case int:
		parsed = float64(typed)
	case int64:
		parsed = float64(typed)
	case json.Number:
		f, err := typed.Float64()
		if err != nil {
			return nil
		}
		parsed = f
	default:
		return nil
	}

	if math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return nil
	}
	return &parsed
}

// percentField coerces a number and clamps it to [0,100].
func (r rawRecord) percentField(key string) *float64 {
	value := r.numberField(key)
	if value == nil {
		return nil
	}
	clamped := math.Min(100, math.Max(0, *value))
	return &clamped
}
