package ring_test

import (
	"errors"
	"testing"

	"github.com/ringweave/modchain/chainerrors"
	"github.com/ringweave/modchain/ring"
	"github.com/stretchr/testify/require"
)

func TestPrimeGeneratorShape(t *testing.T) {

	plat := ring.DefaultPlatformCapabilities()

	pg, err := ring.NewPrimeGenerator(22, 16384, plat)
	require.NoError(t, err)

	lo := uint64(3) << 20
	hi := uint64(1) << 22

	seen := map[uint64]bool{}

	for i := 0; i < 3; i++ {
		p, err := pg.Next()
		require.NoError(t, err)

		require.GreaterOrEqual(t, p, lo)
		require.Less(t, p, hi)
		require.Zero(t, (p-1)%16384)
		require.True(t, ring.IsPrime(p))

		require.False(t, seen[p], "prime generator emitted %d twice", p)
		seen[p] = true
	}
}

func TestPrimeGeneratorBadParameter(t *testing.T) {
	plat := ring.DefaultPlatformCapabilities()

	_, err := ring.NewPrimeGenerator(1, 16384, plat)
	require.True(t, errors.Is(err, chainerrors.ErrBadParameter))

	_, err = ring.NewPrimeGenerator(22, plat.SPBound, plat)
	require.True(t, errors.Is(err, chainerrors.ErrBadParameter))
}

func TestPrimeGeneratorExhausted(t *testing.T) {
	plat := ring.DefaultPlatformCapabilities()

	// A small length with a large m leaves very few (k, t) combinations to
	// scan, so the generator runs out quickly.
	pg, err := ring.NewPrimeGenerator(4, 3, plat)
	require.NoError(t, err)

	var lastErr error
	for i := 0; i < 1000; i++ {
		if _, lastErr = pg.Next(); lastErr != nil {
			break
		}
	}

	require.True(t, errors.Is(lastErr, chainerrors.ErrExhausted))
}
