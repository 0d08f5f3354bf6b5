// Package chain implements ChainBuilder: the three ordered passes that
// populate a Context's prime registry and role partitions, and the digit
// partition used for key-switching.
package chain

import (
	"fmt"
	"math"
	"math/big"
	"sort"

	"github.com/ALTree/bigfloat"
	"github.com/ringweave/modchain/chainerrors"
	"github.com/ringweave/modchain/context"
	"github.com/ringweave/modchain/indexset"
	"github.com/ringweave/modchain/ring"
)

const maxM = 1 << 20

// AddSmallPrimes runs the small-primes pass: it populates c's smallPrimes
// role with a family of primes whose bit-sizes let subset products express
// arbitrary log-sizes at roughly `resolution`-bit granularity.
func AddSmallPrimes(c *context.Context, resolution int) error {

	m := c.M()
	if m == 0 || m > maxM {
		return fmt.Errorf("%w: m=%d must be in (0, %d]", chainerrors.ErrBadParameter, m, maxM)
	}

	if resolution < 1 || resolution > 10 {
		resolution = 3
	}

	spNBits := c.Platform().SPNBits

	var floor, seedCount int
	switch {
	case spNBits >= 60:
		floor, seedCount = 40, 2
	case spNBits >= 50:
		floor, seedCount = 35, 2
	case spNBits >= 30:
		floor, seedCount = 22, 3
	default:
		return fmt.Errorf("%w: platform SPNBits=%d is below the minimum of 30", chainerrors.ErrBadParameter, spNBits)
	}

	sizes := make([]int, seedCount)
	for i := range sizes {
		sizes[i] = floor
	}

	for delta := resolution; spNBits-delta > floor; delta *= 2 {
		sizes = append(sizes, spNBits-delta)
	}

	if v := spNBits - 3*resolution; v > floor {
		sizes = append(sizes, v)
	}

	if resolution == 1 {
		if v := spNBits - 11; v > floor {
			sizes = append(sizes, v)
		}
	}

	sort.Ints(sizes)

	var pg *ring.PrimeGenerator
	prevSize := -1

	for _, size := range sizes {

		if size != prevSize || pg == nil {
			var err error
			if pg, err = ring.NewPrimeGenerator(size, m, c.Platform()); err != nil {
				return err
			}
			prevSize = size
		}

		q, err := pg.Next()
		if err != nil {
			return err
		}

		c.AddSmallPrime(q)
	}

	return nil
}

// AddCtxtPrimes runs the ciphertext-primes pass: it registers primes at the
// platform's maximal single-precision size under the ctxtPrimes role until
// their accumulated log2 size reaches or exceeds nBits.
func AddCtxtPrimes(c *context.Context, nBits int) error {

	pg, err := ring.NewPrimeGenerator(c.Platform().SPNBits, c.M(), c.Platform())
	if err != nil {
		return err
	}

	var sum float64
	for sum < float64(nBits) {
		q, err := pg.Next()
		if err != nil {
			return err
		}
		c.AddCtxtPrime(q)
		sum += math.Log2(float64(q))
	}

	return nil
}

// AddSpecialPrimes runs the special-primes pass: it computes the
// key-switching digit partition of ctxtPrimes, sizes the required special
// prime mass from the largest digit, the noise standard deviation and the
// plaintext-modulus power, and registers primes under the specialPrimes
// role until that mass is reached.
func AddSpecialPrimes(c *context.Context, nDgts int, willBeBootstrappable bool) error {

	ctxt := c.CtxtPrimes()

	if nDgts < 1 {
		nDgts = 1
	}
	if nDgts > ctxt.Card() {
		nDgts = ctxt.Card()
	}

	digits, maxDigitLog := partitionDigits(c, ctxt, nDgts)
	c.SetDigits(digits)
	nDgts = len(digits)

	p2e := new(big.Float).SetPrec(128).SetUint64(c.PR())

	if willBeBootstrappable {
		_, e, ePrime := c.AlphaE()
		p := new(big.Float).SetPrec(128).SetUint64(c.P())
		exp := new(big.Float).SetPrec(128).SetInt64(int64(e - ePrime))
		p2e.Mul(p2e, bigfloat.Pow(p, exp))
	}

	logP2e, _ := bigfloat.Log(p2e).Float64()

	logOfSpecialPrimes := maxDigitLog + math.Log(float64(nDgts)) + math.Log(2*c.Stdev()) + logP2e

	totalBits := logOfSpecialPrimes / math.Log(2)
	numPrimes := int(math.Ceil(totalBits / float64(c.Platform().SPNBits)))
	if numPrimes < 1 {
		numPrimes = 1
	}

	nbits := int(math.Ceil(totalBits/float64(numPrimes))) + 1
	if nbits > c.Platform().SPNBits {
		nbits = c.Platform().SPNBits
	}

	pg, err := ring.NewPrimeGenerator(nbits, c.M(), c.Platform())
	if err != nil {
		return err
	}

	var logSoFar float64
	for logSoFar < logOfSpecialPrimes {
		q, err := pg.Next()
		if err != nil {
			return err
		}
		if c.InChain(q) {
			continue
		}
		c.AddSpecialPrime(q)
		logSoFar += math.Log(float64(q))
	}

	return nil
}

// partitionDigits splits ctxt into at most nDgts pairwise disjoint index sets
// whose log-products are approximately equal, preserving ascending index
// order, and returns the partition along with the maximum per-digit
// log-product. The first nDgts-1 digits are filled greedily; if they consume
// every index, the empty last digit is dropped and fewer than nDgts sets are
// returned.
func partitionDigits(c *context.Context, ctxt *indexset.IndexSet, nDgts int) (digits []*indexset.IndexSet, maxDigitLog float64) {

	if nDgts <= 1 {
		return []*indexset.IndexSet{ctxt.Clone()}, c.LogOfProduct(ctxt)
	}

	total := c.LogOfProduct(ctxt)
	dlog := total / float64(nDgts)

	ordered := ctxt.Slice()

	digits = make([]*indexset.IndexSet, 0, nDgts)
	pos := 0
	target := dlog
	var logSoFar float64

	for d := 0; d < nDgts-1; d++ {

		set := indexset.New()

		// set.Empty() forces at least one index into every digit but the
		// last, even if logSoFar already overshot target from a prior digit.
		for pos < len(ordered) && (set.Empty() || logSoFar < target) {
			idx := ordered[pos]
			set.Insert(idx)
			logSoFar += math.Log(float64(c.IthPrime(idx)))
			pos++
		}

		digits = append(digits, set)
		target += dlog
	}

	if pos < len(ordered) {
		last := indexset.New()
		for ; pos < len(ordered); pos++ {
			last.Insert(ordered[pos])
		}
		digits = append(digits, last)
	}

	for _, d := range digits {
		if l := c.LogOfProduct(d); l > maxDigitLog {
			maxDigitLog = l
		}
	}

	return digits, maxDigitLog
}

// BuildModChain is the convenience composition of the three passes. It does
// not build the ModuliSizes table; callers materialize it with
// modulisizes.Init.
func BuildModChain(c *context.Context, nBits, nDgts int, willBeBootstrappable bool, resolution int) error {

	if err := AddSmallPrimes(c, resolution); err != nil {
		return err
	}

	if err := AddCtxtPrimes(c, nBits); err != nil {
		return err
	}

	return AddSpecialPrimes(c, nDgts, willBeBootstrappable)
}
