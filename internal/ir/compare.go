package ir

// Three-valued comparison semantics: any comparison touching an absent value
// is unknown, and unknown filters as false. Equal and Compare surface this
// through their second return - ok=false means "no answer", never an error.

// Equal reports whether two values are equal.
//
// Returns (_, false) when either side is null or the kinds are incomparable;
// callers treat that as "predicate not satisfied". Int and Float
// inter-compare numerically.
func Equal(a, b Value) (eq bool, ok bool) {
	if IsNull(a) || IsNull(b) {
		return false, false
	}
	if Numeric(a) && Numeric(b) {
		return asFloat(a) == asFloat(b), true
	}
	switch av := a.(type) {
	case String:
		bv, isStr := b.(String)
		if !isStr {
			return false, false
		}
		return av == bv, true
	case Bool:
		bv, isBool := b.(Bool)
		if !isBool {
			return false, false
		}
		return av == bv, true
	default:
		return false, false
	}
}

// Compare orders two values.
//
// Returns c < 0, == 0, or > 0 when a sorts before, with, or after b.
// Returns (_, false) when either side is null or the kinds are incomparable.
// Booleans are equality-only and never ordered.
func Compare(a, b Value) (c int, ok bool) {
	if IsNull(a) || IsNull(b) {
		return 0, false
	}
	if Numeric(a) && Numeric(b) {
		af, bf := asFloat(a), asFloat(b)
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}
	av, aStr := a.(String)
	bv, bStr := b.(String)
	if aStr && bStr {
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		default:
			return 0, true
		}
	}
	return 0, false
}

// asFloat widens a numeric value for cross-kind comparison.
// Callers must check Numeric first.
func asFloat(v Value) float64 {
	switch n := v.(type) {
	case Int:
		return float64(n)
	case Float:
		return float64(n)
	default:
		return 0
	}
}
