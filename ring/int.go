package ring

import "math/big"

// Int is a thin wrapper around math/big.Int exposing the probabilistic
// primality test used by PrimeGenerator.
type Int struct {
	Value big.Int
}

// NewUint creates a new Int with a given uint64 value.
func NewUint(v uint64) *Int {
	i := new(Int)
	i.Value.SetUint64(v)
	return i
}

// IsPrime returns true if the target is probably prime, else false. n is the
// number of Miller-Rabin rounds.
func (i *Int) IsPrime(n int) bool {
	return i.Value.ProbablyPrime(n)
}
