package ir

import (
	"golang.org/x/text/unicode/norm"
)

// Value is a sealed interface representing the scalar value domain of the
// query engine. Only Null, String, Int, Float, and Bool implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in the engine.
type Value interface {
	value() // Sealed - only these types implement it
}

// Null represents an absent value: a nullable field with no content, or a
// field read from the absent side of an unmatched left join.
// Using an explicit type (instead of a nil interface) keeps every field
// access total: row lookups always yield a Value.
type Null struct{}

func (Null) value() {}

// String represents a text value.
//
// Construct through NewString so the content is NFC-normalized; two strings
// that render identically then compare identically.
type String string

func (String) value() {}

// Int represents an integer value. Always int64.
type Int int64

func (Int) value() {}

// Float represents a floating-point value.
// Produced by the Avg aggregate; may also appear as stored field content.
type Float float64

func (Float) value() {}

// Bool represents a boolean value.
type Bool bool

func (Bool) value() {}

// NewString creates a String with its content normalized to Unicode NFC.
// All strings entering the value domain go through here, so comparison and
// ordering never see two byte encodings of the same text.
func NewString(s string) String {
	return String(norm.NFC.String(s))
}

// NewInt creates an Int value.
func NewInt(n int64) Int {
	return Int(n)
}

// NewFloat creates a Float value.
func NewFloat(f float64) Float {
	return Float(f)
}

// NewBool creates a Bool value.
func NewBool(b bool) Bool {
	return Bool(b)
}

// Kind identifies the concrete type of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
)

// String returns the kind name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// KindOf returns the Kind of a Value. A nil interface is treated as null so
// that absent row fields and explicit nulls behave identically.
func KindOf(v Value) Kind {
	switch v.(type) {
	case nil, Null:
		return KindNull
	case String:
		return KindString
	case Int:
		return KindInt
	case Float:
		return KindFloat
	case Bool:
		return KindBool
	default:
		return KindNull
	}
}

// IsNull reports whether v is absent (explicit Null or nil interface).
func IsNull(v Value) bool {
	return KindOf(v) == KindNull
}

// Numeric reports whether v carries a numeric kind (Int or Float).
func Numeric(v Value) bool {
	k := KindOf(v)
	return k == KindInt || k == KindFloat
}

// NumericKind reports whether k is Int or Float.
func NumericKind(k Kind) bool {
	return k == KindInt || k == KindFloat
}
