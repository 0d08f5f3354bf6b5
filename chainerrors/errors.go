// Package chainerrors defines the sentinel error kinds surfaced by the
// modulus-chain construction and selection subsystem. Call sites wrap one of
// these with fmt.Errorf("%w: ...") to attach context; callers distinguish
// kinds with errors.Is.
package chainerrors

import "errors"

var (
	// ErrBadParameter is returned when construction-time arguments (len, m,
	// resolution, platform capabilities, ...) are invalid.
	ErrBadParameter = errors.New("modchain: bad parameter")

	// ErrExhausted is returned when a PrimeGenerator cannot produce another
	// prime of the requested shape.
	ErrExhausted = errors.New("modchain: prime generator exhausted")

	// ErrNoFeasibleSet is returned when a ModuliSizes query finds no entry
	// in range nor within the one-bit slack window. Reaching this indicates
	// an invariant violation: the table is never empty by construction.
	ErrNoFeasibleSet = errors.New("modchain: no feasible set")

	// ErrMalformedStream is returned when deserialization encounters
	// missing framing, a length mismatch, or a truncated payload.
	ErrMalformedStream = errors.New("modchain: malformed stream")
)
