package ring

import (
	"fmt"

	"github.com/ringweave/modchain/chainerrors"
)

// PlatformCapabilities describes the single-precision integer arithmetic
// bounds available to the prime generator on the running platform. These
// were historically process-wide constants (SP_NBITS, SP_BOUND); lifting
// them into an explicit value makes the generator's behavior parameterizable
// and testable independently of the host architecture.
type PlatformCapabilities struct {
	// SPNBits is the maximum bit-length of a prime safely usable in
	// single-precision modular arithmetic on this platform.
	SPNBits int

	// SPBound is approximately 2^SPNBits.
	SPBound uint64
}

// DefaultPlatformCapabilities returns the capabilities of a typical 64-bit
// platform running BGV/CKKS-style arithmetic, with a 60-bit single-precision
// bound.
func DefaultPlatformCapabilities() PlatformCapabilities {
	return PlatformCapabilities{SPNBits: 60, SPBound: 1 << 60}
}

// Validate checks that pc describes a usable platform.
func (pc PlatformCapabilities) Validate() error {
	if pc.SPNBits < 30 {
		return fmt.Errorf("%w: SPNBits=%d is smaller than the minimum of 30", chainerrors.ErrBadParameter, pc.SPNBits)
	}
	return nil
}
