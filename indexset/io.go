package indexset

import (
	"github.com/ringweave/modchain/utils/buffer"
)

// BinarySize returns the number of bytes WriteTo will write for s.
func (s *IndexSet) BinarySize() int {
	return 4 + 4*s.Card()
}

// WriteTo writes s on w, as a little-endian uint32 cardinality followed by
// that many little-endian uint32 indices in ascending order.
func (s *IndexSet) WriteTo(w buffer.Writer) (n int64, err error) {

	sl := s.Slice()

	var inc int64
	if inc, err = buffer.WriteUint32(w, uint32(len(sl))); err != nil {
		return n, err
	}
	n += inc

	idx := make([]uint32, len(sl))
	for i, v := range sl {
		idx[i] = uint32(v)
	}

	if inc, err = buffer.WriteUint32Slice(w, idx); err != nil {
		return n, err
	}
	n += inc

	return n, w.Flush()
}

// ReadFrom reads an IndexSet from r, as written by WriteTo.
func (s *IndexSet) ReadFrom(r buffer.Reader) (n int64, err error) {

	var card uint32
	var inc int
	if inc, err = buffer.ReadUint32(r, &card); err != nil {
		return n, err
	}
	n += int64(inc)

	idx := make([]uint32, card)
	if inc, err = buffer.ReadUint32Slice(r, idx); err != nil {
		return n, err
	}
	n += int64(inc)

	s.m = make(map[int]struct{}, card)
	for _, v := range idx {
		s.m[int(v)] = struct{}{}
	}

	return n, nil
}
