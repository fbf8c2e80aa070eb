package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqual_SameKind(t *testing.T) {
	eq, ok := Equal(NewString("member1"), NewString("member1"))
	assert.True(t, ok)
	assert.True(t, eq)

	eq, ok = Equal(NewInt(10), NewInt(20))
	assert.True(t, ok)
	assert.False(t, eq)

	eq, ok = Equal(NewBool(true), NewBool(true))
	assert.True(t, ok)
	assert.True(t, eq)
}

func TestEqual_NumericCrossKind(t *testing.T) {
	eq, ok := Equal(NewInt(25), NewFloat(25))
	assert.True(t, ok)
	assert.True(t, eq)

	eq, ok = Equal(NewFloat(25.5), NewInt(25))
	assert.True(t, ok)
	assert.False(t, eq)
}

func TestEqual_NullIsUnknown(t *testing.T) {
	// Three-valued logic: comparisons against null have no answer.
	_, ok := Equal(Null{}, NewInt(10))
	assert.False(t, ok)

	_, ok = Equal(NewString("x"), Null{})
	assert.False(t, ok)

	_, ok = Equal(Null{}, Null{})
	assert.False(t, ok)
}

func TestEqual_IncomparableKinds(t *testing.T) {
	_, ok := Equal(NewString("10"), NewInt(10))
	assert.False(t, ok)

	_, ok = Equal(NewBool(true), NewInt(1))
	assert.False(t, ok)
}

func TestCompare_Ints(t *testing.T) {
	c, ok := Compare(NewInt(10), NewInt(30))
	assert.True(t, ok)
	assert.Negative(t, c)

	c, ok = Compare(NewInt(40), NewInt(30))
	assert.True(t, ok)
	assert.Positive(t, c)

	c, ok = Compare(NewInt(30), NewInt(30))
	assert.True(t, ok)
	assert.Zero(t, c)
}

func TestCompare_NumericCrossKind(t *testing.T) {
	c, ok := Compare(NewInt(10), NewFloat(10.5))
	assert.True(t, ok)
	assert.Negative(t, c)
}

func TestCompare_Strings(t *testing.T) {
	c, ok := Compare(NewString("member5"), NewString("member6"))
	assert.True(t, ok)
	assert.Negative(t, c)
}

func TestCompare_NullIsUnknown(t *testing.T) {
	_, ok := Compare(Null{}, NewInt(1))
	assert.False(t, ok)

	_, ok = Compare(NewInt(1), Null{})
	assert.False(t, ok)
}

func TestCompare_BoolNotOrdered(t *testing.T) {
	_, ok := Compare(NewBool(false), NewBool(true))
	assert.False(t, ok)
}

func TestFormat(t *testing.T) {
	s, ok := Format(NewInt(10))
	assert.True(t, ok)
	assert.Equal(t, "10", s)

	s, ok = Format(NewFloat(25.5))
	assert.True(t, ok)
	assert.Equal(t, "25.5", s)

	s, ok = Format(NewString("member1"))
	assert.True(t, ok)
	assert.Equal(t, "member1", s)

	_, ok = Format(Null{})
	assert.False(t, ok)
}

func TestNativeRoundTrip(t *testing.T) {
	values := []Value{Null{}, NewString("a"), NewInt(7), NewFloat(2.5), NewBool(true)}
	for _, v := range values {
		assert.Equal(t, v, FromNative(ToNative(v)))
	}
}

func TestFromNative_IntegerWidths(t *testing.T) {
	assert.Equal(t, Value(Int(7)), FromNative(int(7)))
	assert.Equal(t, Value(Int(7)), FromNative(int32(7)))
	assert.Equal(t, Value(Int(7)), FromNative(uint64(7)))
}

func TestFromNative_UnsupportedIsNull(t *testing.T) {
	assert.Equal(t, Value(Null{}), FromNative(struct{}{}))
}
