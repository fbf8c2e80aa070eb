package ir

import "strconv"

// Format renders a value as text for concatenation and display.
//
// Numbers use their decimal text form (Int base-10, Float shortest
// round-trip form). Returns (_, false) for null: text built from an absent
// operand is itself absent, so callers must not substitute "".
func Format(v Value) (string, bool) {
	switch val := v.(type) {
	case String:
		return string(val), true
	case Int:
		return strconv.FormatInt(int64(val), 10), true
	case Float:
		return strconv.FormatFloat(float64(val), 'f', -1, 64), true
	case Bool:
		return strconv.FormatBool(bool(val)), true
	default:
		return "", false
	}
}

// ToNative converts a Value to the matching Go scalar (nil for null).
// Used at serialization boundaries: msgpack snapshots and JSON output.
func ToNative(v Value) any {
	switch val := v.(type) {
	case String:
		return string(val)
	case Int:
		return int64(val)
	case Float:
		return float64(val)
	case Bool:
		return bool(val)
	default:
		return nil
	}
}

// FromNative converts a decoded Go scalar back into a Value.
// Integer widths collapse to Int; unsupported types collapse to Null so a
// foreign snapshot degrades to absent fields rather than panicking.
func FromNative(v any) Value {
	switch val := v.(type) {
	case nil:
		return Null{}
	case string:
		return NewString(val)
	case int:
		return Int(int64(val))
	case int8:
		return Int(int64(val))
	case int16:
		return Int(int64(val))
	case int32:
		return Int(int64(val))
	case int64:
		return Int(val)
	case uint8:
		return Int(int64(val))
	case uint16:
		return Int(int64(val))
	case uint32:
		return Int(int64(val))
	case uint64:
		return Int(int64(val))
	case float32:
		return Float(float64(val))
	case float64:
		return Float(val)
	case bool:
		return Bool(val)
	default:
		return Null{}
	}
}
