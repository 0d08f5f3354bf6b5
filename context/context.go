// Package context implements the cyclotomic parameter and prime-registry
// object that ChainBuilder populates and ModuliSizes is materialized from.
// It tracks the registered primes in registration order along with the
// disjoint small/ciphertext/special role partitions and the key-switching
// digit partition.
package context

import (
	"math/big"

	"github.com/ALTree/bigfloat"
	"github.com/google/go-cmp/cmp"
	"github.com/ringweave/modchain/indexset"
	"github.com/ringweave/modchain/ring"
)

// BootstrapOracle returns the (alpha, e, ePrime) bootstrapping parameters
// for a Context, consumed by chain.AddSpecialPrimes when sizing the special
// primes of a chain that will support bootstrapping.
type BootstrapOracle func(c *Context) (alpha, e, ePrime int)

// Context holds the cyclotomic parameters and the registry of primes
// produced by a ChainBuilder: the full chain in registration order, the
// three disjoint role index sets, and the key-switching digit partition.
// A Context is built once, by a single thread, and is safe for concurrent
// read access once construction completes.
type Context struct {
	m  uint64 // cyclotomic order
	p  uint64 // plaintext modulus
	pr uint64 // p^r, the plaintext-modulus power actually used

	stdev    float64
	platform ring.PlatformCapabilities

	primes []uint64 // registered primes, in registration order

	smallPrimes   *indexset.IndexSet
	ctxtPrimes    *indexset.IndexSet
	specialPrimes *indexset.IndexSet

	digits []*indexset.IndexSet

	bootstrap BootstrapOracle
}

// New returns an empty Context for the m-th cyclotomic ring with plaintext
// modulus p raised to the power actually employed, pr, and noise standard
// deviation stdev.
func New(m, p, pr uint64, stdev float64, platform ring.PlatformCapabilities) *Context {
	return &Context{
		m:             m,
		p:             p,
		pr:            pr,
		stdev:         stdev,
		platform:      platform,
		smallPrimes:   indexset.New(),
		ctxtPrimes:    indexset.New(),
		specialPrimes: indexset.New(),
	}
}

// M returns the cyclotomic order.
func (c *Context) M() uint64 { return c.m }

// P returns the plaintext modulus.
func (c *Context) P() uint64 { return c.p }

// PR returns p^r, the plaintext-modulus power in use.
func (c *Context) PR() uint64 { return c.pr }

// Stdev returns the noise standard deviation used to size special primes.
func (c *Context) Stdev() float64 { return c.stdev }

// Platform returns the platform capabilities this Context was built with.
func (c *Context) Platform() ring.PlatformCapabilities { return c.platform }

// SetBootstrapOracle installs the bootstrapping-parameter oracle consulted
// by chain.AddSpecialPrimes when sizing a bootstrappable chain's special primes.
func (c *Context) SetBootstrapOracle(o BootstrapOracle) { c.bootstrap = o }

// AlphaE invokes the installed bootstrap oracle and returns (alpha, e, ePrime).
// Panics if no oracle was installed; callers must only invoke this path when
// building a chain with willBeBootstrappable set.
func (c *Context) AlphaE() (alpha, e, ePrime int) {
	if c.bootstrap == nil {
		panic("context: AlphaE called without an installed BootstrapOracle")
	}
	return c.bootstrap(c)
}

// InChain reports whether q is already a registered prime, in any role.
func (c *Context) InChain(q uint64) bool {
	for _, qi := range c.primes {
		if qi == q {
			return true
		}
	}
	return false
}

// indexOf returns the registration index of q, or -1 if q is not registered.
func (c *Context) indexOf(q uint64) int {
	for i, qi := range c.primes {
		if qi == q {
			return i
		}
	}
	return -1
}

// register appends q to the prime list if it is not already present, and
// returns its index either way.
func (c *Context) register(q uint64) int {
	if i := c.indexOf(q); i >= 0 {
		return i
	}
	c.primes = append(c.primes, q)
	return len(c.primes) - 1
}

// AddSmallPrime registers q, if not already registered, under the
// smallPrimes role and returns its index.
func (c *Context) AddSmallPrime(q uint64) int {
	i := c.register(q)
	c.smallPrimes.Insert(i)
	return i
}

// AddCtxtPrime registers q, if not already registered, under the ctxtPrimes
// role and returns its index.
func (c *Context) AddCtxtPrime(q uint64) int {
	i := c.register(q)
	c.ctxtPrimes.Insert(i)
	return i
}

// AddSpecialPrime registers q, if not already registered, under the
// specialPrimes role and returns its index.
func (c *Context) AddSpecialPrime(q uint64) int {
	i := c.register(q)
	c.specialPrimes.Insert(i)
	return i
}

// IthPrime returns the value of the i-th registered prime.
func (c *Context) IthPrime(i int) uint64 {
	return c.primes[i]
}

// NumPrimes returns the number of registered primes.
func (c *Context) NumPrimes() int {
	return len(c.primes)
}

// SmallPrimes returns the index set of small primes.
func (c *Context) SmallPrimes() *indexset.IndexSet { return c.smallPrimes }

// CtxtPrimes returns the index set of ciphertext primes.
func (c *Context) CtxtPrimes() *indexset.IndexSet { return c.ctxtPrimes }

// SpecialPrimes returns the index set of special primes.
func (c *Context) SpecialPrimes() *indexset.IndexSet { return c.specialPrimes }

// Digits returns the key-switching digit partition of ctxtPrimes.
func (c *Context) Digits() []*indexset.IndexSet { return c.digits }

// SetDigits installs the key-switching digit partition, computed by
// ChainBuilder's chain.AddSpecialPrimes pass.
func (c *Context) SetDigits(digits []*indexset.IndexSet) { c.digits = digits }

// LogOfProduct returns the natural logarithm of the product of the primes
// indexed by s. The summation is carried out in arbitrary-precision
// big.Float to avoid accumulating rounding error across chains with dozens
// of ~60-bit primes, then narrowed to float64 for the caller.
func (c *Context) LogOfProduct(s *indexset.IndexSet) float64 {

	sum := new(big.Float).SetPrec(128)

	for _, i := range s.Slice() {
		qi := new(big.Float).SetPrec(128).SetUint64(c.primes[i])
		sum.Add(sum, bigfloat.Log(qi))
	}

	f, _ := sum.Float64()
	return f
}

// Equal reports whether c and other hold the same cyclotomic parameters,
// registered primes, role partitions and digit partition.
func (c *Context) Equal(other *Context) bool {
	if c.m != other.m || c.p != other.p || c.pr != other.pr || c.stdev != other.stdev {
		return false
	}

	if !cmp.Equal(c.primes, other.primes) {
		return false
	}

	if !c.smallPrimes.Equal(other.smallPrimes) ||
		!c.ctxtPrimes.Equal(other.ctxtPrimes) ||
		!c.specialPrimes.Equal(other.specialPrimes) {
		return false
	}

	if len(c.digits) != len(other.digits) {
		return false
	}
	for i := range c.digits {
		if !c.digits[i].Equal(other.digits[i]) {
			return false
		}
	}

	return true
}
