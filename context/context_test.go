package context_test

import (
	"math"
	"testing"

	"github.com/ringweave/modchain/context"
	"github.com/ringweave/modchain/indexset"
	"github.com/ringweave/modchain/ring"
	"github.com/stretchr/testify/require"
)

func newTestContext() *context.Context {
	return context.New(16384, 65537, 65537, 3.2, ring.DefaultPlatformCapabilities())
}

func TestRegistrationAndRoles(t *testing.T) {
	c := newTestContext()

	i0 := c.AddSmallPrime(1099511922689)
	i1 := c.AddCtxtPrime(1152921504606844961)
	i2 := c.AddSpecialPrime(1152921504606844993)

	require.True(t, c.InChain(1099511922689))
	require.False(t, c.InChain(42))

	require.True(t, c.SmallPrimes().Contains(i0))
	require.True(t, c.CtxtPrimes().Contains(i1))
	require.True(t, c.SpecialPrimes().Contains(i2))

	// roles are pairwise disjoint
	require.True(t, c.SmallPrimes().Intersect(c.CtxtPrimes()).Empty())
	require.True(t, c.CtxtPrimes().Intersect(c.SpecialPrimes()).Empty())
	require.True(t, c.SmallPrimes().Intersect(c.SpecialPrimes()).Empty())
}

func TestRegistrationIsIdempotent(t *testing.T) {
	c := newTestContext()

	i0 := c.AddCtxtPrime(1152921504606844961)
	i1 := c.AddCtxtPrime(1152921504606844961)

	require.Equal(t, i0, i1)
	require.Equal(t, 1, c.NumPrimes())
}

func TestEqual(t *testing.T) {
	a := newTestContext()
	b := newTestContext()

	require.True(t, a.Equal(b))

	a.AddCtxtPrime(1152921504606844961)
	require.False(t, a.Equal(b))

	b.AddCtxtPrime(1152921504606844961)
	require.True(t, a.Equal(b))
}

func TestLogOfProduct(t *testing.T) {
	c := newTestContext()

	i0 := c.AddCtxtPrime(1152921504606844961)
	i1 := c.AddCtxtPrime(1152921504606844993)

	got := c.LogOfProduct(indexset.New(i0, i1))
	want := math.Log(float64(c.IthPrime(i0))) + math.Log(float64(c.IthPrime(i1)))

	require.InDelta(t, want, got, 1e-9)
}
