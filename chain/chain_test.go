package chain_test

import (
	"math"
	"testing"

	"github.com/ringweave/modchain/chain"
	"github.com/ringweave/modchain/context"
	"github.com/ringweave/modchain/ring"
	"github.com/stretchr/testify/require"
)

func newTestContext() *context.Context {
	return context.New(16384, 65537, 65537, 3.2, ring.DefaultPlatformCapabilities())
}

func TestBuildModChain(t *testing.T) {
	c := newTestContext()

	err := chain.BuildModChain(c, 119, 2, false, 3)
	require.NoError(t, err)

	require.GreaterOrEqual(t, c.SmallPrimes().Card(), 2)

	var sum float64
	for _, i := range c.CtxtPrimes().Slice() {
		sum += math.Log2(float64(c.IthPrime(i)))
	}
	require.GreaterOrEqual(t, sum, 119.0)

	require.Len(t, c.Digits(), 2)
	require.GreaterOrEqual(t, c.SpecialPrimes().Card(), 1)

	// roles are pairwise disjoint
	require.True(t, c.SmallPrimes().Intersect(c.CtxtPrimes()).Empty())
	require.True(t, c.CtxtPrimes().Intersect(c.SpecialPrimes()).Empty())
	require.True(t, c.SmallPrimes().Intersect(c.SpecialPrimes()).Empty())

	// digits partition ctxtPrimes exactly
	union := c.Digits()[0].Clone()
	for _, d := range c.Digits()[1:] {
		union = union.Union(d)
	}
	require.True(t, union.Equal(c.CtxtPrimes()))
	for i, d1 := range c.Digits() {
		for j, d2 := range c.Digits() {
			if i != j {
				require.True(t, d1.Intersect(d2).Empty())
			}
		}
	}
}

func TestAddSpecialPrimesBootstrappable(t *testing.T) {
	c := newTestContext()
	c.SetBootstrapOracle(func(*context.Context) (alpha, e, ePrime int) {
		return 2, 5, 2
	})

	require.NoError(t, chain.AddCtxtPrimes(c, 119))
	require.NoError(t, chain.AddSpecialPrimes(c, 2, true))

	require.GreaterOrEqual(t, c.SpecialPrimes().Card(), 1)
}

func TestAddCtxtPrimesMeetsBudget(t *testing.T) {
	c := newTestContext()

	require.NoError(t, chain.AddCtxtPrimes(c, 80))

	sl := c.CtxtPrimes().Slice()
	require.NotEmpty(t, sl)

	var sum float64
	for _, i := range sl {
		sum += math.Log2(float64(c.IthPrime(i)))
	}
	require.GreaterOrEqual(t, sum, 80.0)

	// removing the last registered ctxt prime would drop below budget.
	sum -= math.Log2(float64(c.IthPrime(sl[len(sl)-1])))
	require.Less(t, sum, 80.0)
}
