// Package modulisizes implements the pre-computed table of (log-size,
// prime-subset) pairs used to answer runtime prime-subset selection queries
// without re-deriving combinatorial sums on the hot path.
package modulisizes

import (
	"math"
	"sort"

	"github.com/ringweave/modchain/context"
	"github.com/ringweave/modchain/indexset"
)

// Entry is one row of a ModuliSizes table: the natural log of the product
// of the primes in Set.
type Entry struct {
	Size float64
	Set  *indexset.IndexSet
}

// ModuliSizes is the sorted table of (log-size, IndexSet) pairs enumerating
// every element of P(smallPrimes) x {prefixes of ctxtPrimes, including the
// empty prefix}. Once built it is immutable and safe for concurrent reads.
type ModuliSizes struct {
	sizes []Entry
}

// Len returns the number of entries in the table.
func (ms *ModuliSizes) Len() int { return len(ms.sizes) }

// At returns the entry at position i in ascending size order.
func (ms *ModuliSizes) At(i int) Entry { return ms.sizes[i] }

// Init materializes a ModuliSizes table from c's registered primes and the
// two role index sets, by doubling enumeration: first every subset of
// smallPrimes, then every (subset, prefix-of-ctxtPrimes) combination.
func Init(c *context.Context, ctxtPrimes, smallPrimes *indexset.IndexSet) *ModuliSizes {

	sizes := []Entry{{Size: 0, Set: indexset.New()}}

	for _, i := range smallPrimes.Slice() {
		s := math.Log(float64(c.IthPrime(i)))

		next := make([]Entry, 0, 2*len(sizes))
		next = append(next, sizes...)
		for _, e := range sizes {
			next = append(next, Entry{Size: e.Size + s, Set: e.Set.Union(indexset.New(i))})
		}
		sizes = next
	}

	baseline := make([]Entry, len(sizes))
	copy(baseline, sizes)

	var interval *indexset.IndexSet = indexset.New()
	var intervalSize float64

	for _, i := range ctxtPrimes.Slice() {
		interval = interval.Union(indexset.New(i))
		intervalSize += math.Log(float64(c.IthPrime(i)))

		for _, e := range baseline {
			sizes = append(sizes, Entry{Size: e.Size + intervalSize, Set: e.Set.Union(interval)})
		}
	}

	sort.Slice(sizes, func(i, j int) bool {
		if sizes[i].Size != sizes[j].Size {
			return sizes[i].Size < sizes[j].Size
		}
		return lexLess(sizes[i].Set, sizes[j].Set)
	})

	return &ModuliSizes{sizes: sizes}
}

// lexLess orders two IndexSets lexicographically by their ascending element
// sequence, used only to break exact size ties deterministically.
func lexLess(a, b *indexset.IndexSet) bool {
	as, bs := a.Slice(), b.Slice()
	for i := 0; i < len(as) && i < len(bs); i++ {
		if as[i] != bs[i] {
			return as[i] < bs[i]
		}
	}
	return len(as) < len(bs)
}

const ln2 = math.Ln2

// lowerBound returns the index of the first entry with Size >= low.
func (ms *ModuliSizes) lowerBound(low float64) int {
	return sort.Search(len(ms.sizes), func(i int) bool {
		return ms.sizes[i].Size >= low
	})
}

// GetSet4Size returns the IndexSet of the entry in [low, high] minimizing
// |fromSet \ entry.Set|, preferring the later (larger-size) entry on ties.
// If no entry lies in [low, high], it falls back to a one-bit (natural log
// of 2) slack window around the nearest boundary, preferring strictly lower
// cost there. ok is false only if both passes found nothing, which signals
// an invariant violation given a non-empty table.
func (ms *ModuliSizes) GetSet4Size(low, high float64, fromSet *indexset.IndexSet, reverse bool) (*indexset.IndexSet, bool) {
	return ms.getSet4SizeCost(low, high, reverse, func(e Entry) int {
		return fromSet.Difference(e.Set).Card()
	})
}

// GetSet4Size2 is the two-source form of GetSet4Size: cost is
// |from1 \ entry.Set| + |from2 \ entry.Set|.
func (ms *ModuliSizes) GetSet4Size2(low, high float64, from1, from2 *indexset.IndexSet, reverse bool) (*indexset.IndexSet, bool) {
	return ms.getSet4SizeCost(low, high, reverse, func(e Entry) int {
		return from1.Difference(e.Set).Card() + from2.Difference(e.Set).Card()
	})
}

func (ms *ModuliSizes) getSet4SizeCost(low, high float64, reverse bool, cost func(Entry) int) (*indexset.IndexSet, bool) {

	if len(ms.sizes) == 0 {
		return nil, false
	}

	idx := ms.lowerBound(low)

	bestCost := -1
	bestIdx := -1
	ii := idx

	for ii < len(ms.sizes) && ms.sizes[ii].Size <= high {
		c := cost(ms.sizes[ii])
		if bestIdx == -1 || c <= bestCost {
			bestCost = c
			bestIdx = ii
		}
		ii++
	}

	if bestIdx != -1 {
		return ms.sizes[bestIdx].Set, true
	}

	// Fallback: one-bit slack scan.
	if !reverse {
		if idx == 0 {
			return nil, false
		}
		bound := ms.sizes[idx-1].Size - ln2
		for j := idx - 1; j >= 0 && ms.sizes[j].Size >= bound; j-- {
			c := cost(ms.sizes[j])
			if bestIdx == -1 || c < bestCost {
				bestCost = c
				bestIdx = j
			}
		}
	} else {
		if ii >= len(ms.sizes) {
			return nil, false
		}
		bound := ms.sizes[ii].Size + ln2
		for j := ii; j < len(ms.sizes) && ms.sizes[j].Size <= bound; j++ {
			c := cost(ms.sizes[j])
			if bestIdx == -1 || c < bestCost {
				bestCost = c
				bestIdx = j
			}
		}
	}

	if bestIdx == -1 {
		return nil, false
	}

	return ms.sizes[bestIdx].Set, true
}
