package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterner(t *testing.T) {
	in := NewInterner()

	a := in.Intern("alpha")
	b := in.Intern("beta")
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, in.Intern("alpha"), "interning is idempotent")

	name, ok := in.Name(b)
	require.True(t, ok)
	assert.Equal(t, "beta", name)

	_, ok = in.Name(999)
	assert.False(t, ok)
	assert.Equal(t, 2, in.Len())
}

func TestCompositeKey_OrderIndependentEquality(t *testing.T) {
	in := NewInterner()

	ba := NewKey(in, "b", "a")
	ab := NewKey(in, "a", "b")

	assert.True(t, ba.Equal(ab))
	assert.True(t, ab.Equal(ba))
	assert.Equal(t, ba.String(), ab.String(), "canonical form hashes identically")
	assert.Equal(t, ba.Columns(), ab.Columns(), "both keys carry the same column order")
}

func TestCompositeKey_Dedupe(t *testing.T) {
	in := NewInterner()
	k := NewKey(in, "x", "y", "x")
	assert.Equal(t, 2, k.Len())
}

func TestCompositeKey_SortIsInternOrderNotLexicographic(t *testing.T) {
	in := NewInterner()
	in.Intern("zebra") // first-seen, lowest id

	k := NewKey(in, "apple", "zebra")
	assert.Equal(t, []string{"zebra", "apple"}, k.Columns())
}

func TestCompositeValue(t *testing.T) {
	in := NewInterner()
	key := NewKey(in, "b", "a")
	other := NewKey(in, "a", "b")

	v1, err := NewValue(key, 1, 2)
	require.NoError(t, err)
	v2, err := NewValue(other, 1, 2)
	require.NoError(t, err)
	v3, err := NewValue(other, 1, 3)
	require.NoError(t, err)

	assert.True(t, v1.Equal(v2), "values over equal keys with matching components compare equal")
	assert.False(t, v1.Equal(v3))
	assert.Equal(t, v1.String(), v2.String())

	_, err = NewValue(key, 1)
	assert.Error(t, err, "arity mismatch")
}

func TestCompositeValue_EqualIsTypeStrict(t *testing.T) {
	in := NewInterner()
	key := NewKey(in, "id")

	asInt, err := NewValue(key, 1)
	require.NoError(t, err)
	asString, err := NewValue(key, "1")
	require.NoError(t, err)

	assert.False(t, asInt.Equal(asString), "int 1 and string \"1\" are different values")
	assert.False(t, asString.Equal(asInt))

	sameInt, err := NewValue(key, 1)
	require.NoError(t, err)
	assert.True(t, asInt.Equal(sameInt))
}

func TestKeyAndValueAccessorsReturnCopies(t *testing.T) {
	in := NewInterner()
	k := NewKey(in, "a", "b")
	kv, err := NewValue(k, 1, 2)
	require.NoError(t, err)

	cols := k.Columns()
	cols[0] = "mutated"
	assert.Equal(t, []string{"a", "b"}, k.Columns())

	vals := kv.Values()
	vals[0] = 99
	assert.Equal(t, []any{1, 2}, kv.Values())
}

func TestCompositeValue_Scalar(t *testing.T) {
	in := NewInterner()

	single, err := NewValue(NewKey(in, "id"), 42)
	require.NoError(t, err)
	v, err := single.Scalar()
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	wide, err := NewValue(NewKey(in, "id", "region"), 1, "eu")
	require.NoError(t, err)
	_, err = wide.Scalar()
	assert.Error(t, err)

	got, ok := wide.Get("region")
	require.True(t, ok)
	assert.Equal(t, "eu", got)
	_, ok = wide.Get("missing")
	assert.False(t, ok)
}
