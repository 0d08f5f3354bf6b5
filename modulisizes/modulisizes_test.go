package modulisizes_test

import (
	"math"
	"strings"
	"testing"

	"github.com/ringweave/modchain/context"
	"github.com/ringweave/modchain/indexset"
	"github.com/ringweave/modchain/modulisizes"
	"github.com/ringweave/modchain/ring"
	"github.com/ringweave/modchain/utils/buffer"
	"github.com/stretchr/testify/require"
)

// smallFixture builds a tiny Context with two small primes {a, b} and three
// ctxt primes {c, d, e}.
func smallFixture(t *testing.T) (*context.Context, *indexset.IndexSet, *indexset.IndexSet) {
	c := context.New(16384, 65537, 65537, 3.2, ring.DefaultPlatformCapabilities())

	a := c.AddSmallPrime(1099511922689)
	b := c.AddSmallPrime(1099512004609)

	cc := c.AddCtxtPrime(1152921504606844961)
	d := c.AddCtxtPrime(1152921504606844993)
	e := c.AddCtxtPrime(1152921504606845017)

	small := indexset.New(a, b)
	ctxt := indexset.New(cc, d, e)

	return c, ctxt, small
}

func TestInitCompleteness(t *testing.T) {
	c, ctxt, small := smallFixture(t)

	ms := modulisizes.Init(c, ctxt, small)

	require.Equal(t, 16, ms.Len())

	for i := 1; i < ms.Len(); i++ {
		require.LessOrEqual(t, ms.At(i-1).Size, ms.At(i).Size)
	}

	for i := 0; i < ms.Len(); i++ {
		e := ms.At(i)
		require.InDelta(t, c.LogOfProduct(e.Set), e.Size, 1e-9)
	}
}

func TestGetSet4SizeInRange(t *testing.T) {
	c, ctxt, small := smallFixture(t)
	ms := modulisizes.Init(c, ctxt, small)

	aSlice := small.Slice()
	a := aSlice[0]
	logA := math.Log(float64(c.IthPrime(a)))

	got, ok := ms.GetSet4Size(0, logA+0.5, indexset.New(), false)
	require.True(t, ok)
	require.InDelta(t, logA, c.LogOfProduct(got), 1e-6)
}

func TestGetSet4SizeSlackFallback(t *testing.T) {
	c, ctxt, small := smallFixture(t)
	ms := modulisizes.Init(c, ctxt, small)

	maxSize := ms.At(ms.Len() - 1).Size

	got, ok := ms.GetSet4Size(maxSize+1000, maxSize+2000, indexset.New(), false)
	require.True(t, ok)
	require.GreaterOrEqual(t, c.LogOfProduct(got), maxSize-math.Ln2-1e-9)
}

func TestBinaryRoundTrip(t *testing.T) {
	c, ctxt, small := smallFixture(t)
	ms := modulisizes.Init(c, ctxt, small)

	buf := buffer.NewBufferSize(1 << 16)
	_, err := ms.WriteTo(buf)
	require.NoError(t, err)

	buf2 := buffer.NewBuffer(buf.Bytes())
	ms2, err := modulisizes.ReadFrom(buf2)
	require.NoError(t, err)

	require.Equal(t, ms.Len(), ms2.Len())
	for i := 0; i < ms.Len(); i++ {
		require.Equal(t, ms.At(i).Size, ms2.At(i).Size)
		require.True(t, ms.At(i).Set.Equal(ms2.At(i).Set))
	}
}

func TestTextRoundTrip(t *testing.T) {
	c, ctxt, small := smallFixture(t)
	ms := modulisizes.Init(c, ctxt, small)

	var sb strings.Builder
	require.NoError(t, ms.WriteText(&sb))

	ms2, err := modulisizes.ReadText(strings.NewReader(sb.String()))
	require.NoError(t, err)

	require.Equal(t, ms.Len(), ms2.Len())
	for i := 0; i < ms.Len(); i++ {
		require.Equal(t, ms.At(i).Size, ms2.At(i).Size)
		require.True(t, ms.At(i).Set.Equal(ms2.At(i).Set))
	}
}
