package value_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quartzlang/quartz/internal/value"
)

func TestIntegerFloatEqualityCoerces(t *testing.T) {
	require.True(t, value.Integer(2).Equals(value.Float(2.0)))
	require.False(t, value.Integer(2).Equals(value.Float(2.5)))
}

func TestProperListRoundTrip(t *testing.T) {
	l := value.ListOf(value.Integer(1), value.Integer(2), value.Integer(3))
	require.Equal(t, 3, l.AsList().Len())
	require.False(t, l.AsList().IsImproper())
	require.Equal(t, "(1 2 3)", l.Inspect())
}

func TestDottedConsProducesAnImproperList(t *testing.T) {
	// (a . b): Cons(a, b) where b is an atom, not a list.
	l := value.Cons(value.Symbol("a"), value.Symbol("b"))
	list := l.AsList()
	require.True(t, list.IsImproper())
	require.Equal(t, 1, list.Len())
	tail, improper := list.ImproperTail()
	require.True(t, improper)
	require.Equal(t, "b", tail.AsSymbol())
	require.Equal(t, "(a . b)", l.Inspect())
}

func TestConsOntoAProperListStaysProper(t *testing.T) {
	rest := value.ListOf(value.Integer(2), value.Integer(3))
	l := value.Cons(value.Integer(1), rest)
	require.False(t, l.AsList().IsImproper())
	require.Equal(t, []value.Value{value.Integer(1), value.Integer(2), value.Integer(3)}, l.AsList().Slice())
}

func TestAppendAssociativity(t *testing.T) {
	a := value.ListOf(value.Integer(1), value.Integer(2))
	b := value.ListOf(value.Integer(3), value.Integer(4))
	c := value.ListOf(value.Integer(5), value.Integer(6))

	left := value.Append(value.Append(a, b), c)
	right := value.Append(a, value.Append(b, c))
	require.True(t, left.AsList().Equals(right.AsList()))
}

func TestImproperListsCompareByTailAtomToo(t *testing.T) {
	a := value.Cons(value.Integer(1), value.Integer(99))
	b := value.Cons(value.Integer(1), value.Integer(99))
	c := value.Cons(value.Integer(1), value.Integer(100))
	require.True(t, a.AsList().Equals(b.AsList()))
	require.False(t, a.AsList().Equals(c.AsList()))
}

func TestVectorSetIsCopyOnWrite(t *testing.T) {
	v := value.NewVector([]value.Value{value.Integer(1), value.Integer(2), value.Integer(3)})
	updatedVec, ok := v.AsVector().Set(0, value.Integer(99))
	require.True(t, ok)
	updated := value.VectorValue(updatedVec)

	original, ok := v.AsVector().Get(0)
	require.True(t, ok)
	require.Equal(t, int64(1), original.AsInt())

	changed, ok := updated.AsVector().Get(0)
	require.True(t, ok)
	require.Equal(t, int64(99), changed.AsInt())
}
