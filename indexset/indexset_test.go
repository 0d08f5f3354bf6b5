package indexset_test

import (
	"testing"

	"github.com/ringweave/modchain/indexset"
	"github.com/ringweave/modchain/utils/buffer"
	"github.com/stretchr/testify/require"
)

func TestUnionIntersectDifference(t *testing.T) {
	a := indexset.New(1, 2, 3)
	b := indexset.New(2, 3, 4)

	require.True(t, a.Union(b).Equal(indexset.New(1, 2, 3, 4)))
	require.True(t, a.Intersect(b).Equal(indexset.New(2, 3)))
	require.True(t, a.Difference(b).Equal(indexset.New(1)))
	require.True(t, b.Difference(a).Equal(indexset.New(4)))
}

func TestCardEmpty(t *testing.T) {
	s := indexset.New()
	require.True(t, s.Empty())
	require.Equal(t, 0, s.Card())

	s.Insert(5)
	require.False(t, s.Empty())
	require.Equal(t, 1, s.Card())
}

func TestRange(t *testing.T) {
	s := indexset.NewRange(2, 5)
	require.True(t, s.Equal(indexset.New(2, 3, 4, 5)))

	empty := indexset.NewRange(5, 2)
	require.True(t, empty.Empty())
}

func TestIteration(t *testing.T) {
	s := indexset.New(4, 1, 7, 2)

	first, ok := s.First()
	require.True(t, ok)
	require.Equal(t, 1, first)

	last, ok := s.Last()
	require.True(t, ok)
	require.Equal(t, 7, last)

	next, ok := s.Next(2)
	require.True(t, ok)
	require.Equal(t, 4, next)

	_, ok = s.Next(7)
	require.False(t, ok)
}

func TestWriteReadRoundTrip(t *testing.T) {
	s := indexset.New(1, 3, 5, 9)

	buf := buffer.NewBufferSize(s.BinarySize())
	_, err := s.WriteTo(buf)
	require.NoError(t, err)

	buf2 := buffer.NewBuffer(buf.Bytes())
	out := new(indexset.IndexSet)
	_, err = out.ReadFrom(buf2)
	require.NoError(t, err)

	require.True(t, s.Equal(out))
}
