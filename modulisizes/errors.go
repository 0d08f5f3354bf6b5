package modulisizes

import (
	"fmt"

	"github.com/ringweave/modchain/chainerrors"
	"github.com/ringweave/modchain/indexset"
)

// GetSet4SizeErr is GetSet4Size with chainerrors.ErrNoFeasibleSet surfaced
// as an error instead of a boolean, for call sites that prefer Go's
// idiomatic error-return convention over a found/not-found flag.
func (ms *ModuliSizes) GetSet4SizeErr(low, high float64, fromSet *indexset.IndexSet, reverse bool) (*indexset.IndexSet, error) {
	s, ok := ms.GetSet4Size(low, high, fromSet, reverse)
	if !ok {
		return nil, fmt.Errorf("%w: no entry in [%v, %v] or its one-bit slack window", chainerrors.ErrNoFeasibleSet, low, high)
	}
	return s, nil
}

// GetSet4Size2Err is the error-returning form of GetSet4Size2.
func (ms *ModuliSizes) GetSet4Size2Err(low, high float64, from1, from2 *indexset.IndexSet, reverse bool) (*indexset.IndexSet, error) {
	s, ok := ms.GetSet4Size2(low, high, from1, from2, reverse)
	if !ok {
		return nil, fmt.Errorf("%w: no entry in [%v, %v] or its one-bit slack window", chainerrors.ErrNoFeasibleSet, low, high)
	}
	return s, nil
}
