package utils

import "encoding/json"

// ToFloat64 coerces a decoded JSON value to float64. The export feed
// leaves numbers untyped, so a value arrives as float64 from the plain
// decoder, as json.Number from a UseNumber decoder, or as one of the Go
// numeric types when a document is built in-process. Anything else
// reports false.
func ToFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case int16:
		return float64(val), true
	case int8:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint64:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint8:
		return float64(val), true
	}
	return 0, false
}
