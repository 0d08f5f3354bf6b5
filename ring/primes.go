package ring

import (
	"fmt"

	"github.com/ringweave/modchain/chainerrors"
)

// IsPrime applies the Baillie-PSW test, which is 100% accurate for numbers below 2^64.
func IsPrime(x uint64) bool {
	return NewUint(x).IsPrime(0)
}

// IsPrimeIters reports whether x passes a probabilistic primality test with
// n Miller-Rabin iterations on top of the deterministic Baillie-PSW check
// math/big performs for n=0. n=60 matches an error probability of at most
// 2^-120, the standard requirement for production-grade prime search.
func IsPrimeIters(x uint64, n int) bool {
	return NewUint(x).IsPrime(n)
}

// PrimeGenerator produces, on demand, primes p of shape p = 2^k*t*m+1 with t
// odd and k maximal, and with bit-length confined to [¾·2^len, 2^len). The
// shape guarantees that the multiplicative group mod p contains a subgroup
// of order m, so the m-th cyclotomic ring admits an NTT modulo p.
//
// A single PrimeGenerator never returns the same prime twice: it scans
// t upward within a fixed k, and decrements k (restarting the t-scan) once
// the current k is exhausted.
type PrimeGenerator struct {
	length int
	m      uint64
	k      int
	t      uint64
	tub    uint64
}

// NewPrimeGenerator constructs a PrimeGenerator for primes with bit-length in
// [¾·2^length, 2^length) and of shape 2^k*t*m+1. It rejects length below 2 or
// above the platform's single-precision bit bound, and m outside (0, SPBound).
func NewPrimeGenerator(length int, m uint64, plat PlatformCapabilities) (*PrimeGenerator, error) {

	if err := plat.Validate(); err != nil {
		return nil, err
	}

	if length < 2 || length > plat.SPNBits {
		return nil, fmt.Errorf("%w: len=%d must be in [2, %d]", chainerrors.ErrBadParameter, length, plat.SPNBits)
	}

	if m == 0 || m >= plat.SPBound {
		return nil, fmt.Errorf("%w: m=%d must be in (0, %d)", chainerrors.ErrBadParameter, m, plat.SPBound)
	}

	pg := &PrimeGenerator{length: length, m: m}

	// k minimal such that 2^k*m > 2^(length-2).
	threshold := uint64(1) << uint(length-2)
	k := 0
	for (m << uint(k)) <= threshold {
		k++
	}
	pg.k = k
	pg.t = 8
	pg.tub = divCeil((uint64(1)<<uint(length))-1, m<<uint(k))

	return pg, nil
}

// Next returns the next prime satisfying the generator's shape and size
// constraints, or chainerrors.ErrExhausted if no such prime remains
// reachable for the underlying (length, m).
func (pg *PrimeGenerator) Next() (uint64, error) {
	for {
		pg.t++

		if pg.t >= pg.tub {

			pg.k--

			klb := 0
			if pg.m%2 != 0 {
				klb = 1
			}

			if pg.k < klb {
				return 0, fmt.Errorf("%w: no more primes of length %d compatible with m=%d", chainerrors.ErrExhausted, pg.length, pg.m)
			}

			mk := pg.m << uint(pg.k)
			pg.t = divCeil(3*(uint64(1)<<uint(pg.length-2))-1, mk)
			pg.tub = divCeil((uint64(1)<<uint(pg.length))-1, mk)
		}

		if pg.t%2 == 0 {
			continue
		}

		cand := (pg.t*pg.m)<<uint(pg.k) + 1

		if IsPrimeIters(cand, 60) {
			return cand, nil
		}
	}
}

// divCeil returns ceil(a/b) for positive integers a, b.
func divCeil(a, b uint64) uint64 {
	return (a + b - 1) / b
}
