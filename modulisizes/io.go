package modulisizes

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/ringweave/modchain/chainerrors"
	"github.com/ringweave/modchain/indexset"
	"github.com/ringweave/modchain/utils/buffer"
	"github.com/zeebo/blake3"
)

// WriteTo serializes ms in the binary framing: a little-endian uint32
// entry count, followed by that many (raw float64 size, IndexSet bytes)
// records, followed by a 32-byte blake3 checksum of everything preceding
// it. The checksum lets ReadFrom detect truncation or corruption without
// relying on the length fields alone.
func (ms *ModuliSizes) WriteTo(w buffer.Writer) (n int64, err error) {

	var body bytes.Buffer
	bw := bufio.NewWriter(&body)

	if _, err = buffer.WriteUint32(bw, uint32(len(ms.sizes))); err != nil {
		return 0, err
	}

	for _, e := range ms.sizes {
		if _, err = buffer.WriteUint64(bw, math.Float64bits(e.Size)); err != nil {
			return 0, err
		}
		if _, err = e.Set.WriteTo(bw); err != nil {
			return 0, err
		}
	}

	if err = bw.Flush(); err != nil {
		return 0, err
	}

	sum := blake3.Sum256(body.Bytes())

	var inc int
	if inc, err = w.Write(body.Bytes()); err != nil {
		return int64(inc), err
	}
	n += int64(inc)

	var inc2 int
	if inc2, err = w.Write(sum[:]); err != nil {
		return n, err
	}
	n += int64(inc2)

	return n, w.Flush()
}

// ReadFrom deserializes a ModuliSizes table written by WriteTo, verifying
// its trailing checksum. It frames the payload structurally (count, then
// exactly that many records, then the fixed-size trailer) rather than
// assuming r holds nothing but the payload, since r.Size() may include
// trailing data the caller's buffer was merely sized to accommodate.
// It returns chainerrors.ErrMalformedStream wrapped with context on any
// framing, length, or checksum failure.
func ReadFrom(r buffer.Reader) (*ModuliSizes, error) {

	var body bytes.Buffer

	readBytes := func(n int) ([]byte, error) {
		raw, err := r.Peek(n)
		if err != nil {
			return nil, err
		}
		if _, err := r.Discard(n); err != nil {
			return nil, err
		}
		body.Write(raw)
		return raw, nil
	}

	countBytes, err := readBytes(4)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", chainerrors.ErrMalformedStream, err)
	}
	count := binary.LittleEndian.Uint32(countBytes)

	entries := make([]Entry, count)
	for i := range entries {

		sizeBytes, err := readBytes(8)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", chainerrors.ErrMalformedStream, err)
		}
		entries[i].Size = math.Float64frombits(binary.LittleEndian.Uint64(sizeBytes))

		cardBytes, err := readBytes(4)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", chainerrors.ErrMalformedStream, err)
		}
		card := binary.LittleEndian.Uint32(cardBytes)

		idxBytes, err := readBytes(int(card) * 4)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", chainerrors.ErrMalformedStream, err)
		}

		set := indexset.New()
		for j := 0; j < int(card); j++ {
			set.Insert(int(binary.LittleEndian.Uint32(idxBytes[j*4:])))
		}
		entries[i].Set = set
	}

	const trailerLen = 32
	trailer, err := r.Peek(trailerLen)
	if err != nil {
		return nil, fmt.Errorf("%w: stream too short for checksum trailer", chainerrors.ErrMalformedStream)
	}
	if _, err := r.Discard(trailerLen); err != nil {
		return nil, fmt.Errorf("%w: %v", chainerrors.ErrMalformedStream, err)
	}

	sum := blake3.Sum256(body.Bytes())
	if !bytes.Equal(sum[:], trailer) {
		return nil, fmt.Errorf("%w: checksum mismatch", chainerrors.ErrMalformedStream)
	}

	return &ModuliSizes{sizes: entries}, nil
}

// WriteText serializes ms in the textual framing
// "[ n [ size0 { set0 } ] [ size1 { set1 } ] ... ]".
func (ms *ModuliSizes) WriteText(w io.Writer) error {

	if _, err := fmt.Fprintf(w, "[ %d", len(ms.sizes)); err != nil {
		return err
	}

	for _, e := range ms.sizes {
		if _, err := fmt.Fprintf(w, " [ %s {", strconv.FormatFloat(e.Size, 'g', -1, 64)); err != nil {
			return err
		}
		for _, idx := range e.Set.Slice() {
			if _, err := fmt.Fprintf(w, " %d", idx); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprint(w, " } ]"); err != nil {
			return err
		}
	}

	_, err := fmt.Fprint(w, " ]")
	return err
}

// ReadText deserializes the textual framing written by WriteText.
func ReadText(r io.Reader) (*ModuliSizes, error) {

	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	next := func() (string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", fmt.Errorf("%w: %v", chainerrors.ErrMalformedStream, err)
			}
			return "", fmt.Errorf("%w: unexpected end of stream", chainerrors.ErrMalformedStream)
		}
		return sc.Text(), nil
	}

	expect := func(tok string) error {
		got, err := next()
		if err != nil {
			return err
		}
		if got != tok {
			return fmt.Errorf("%w: expected %q, got %q", chainerrors.ErrMalformedStream, tok, got)
		}
		return nil
	}

	if err := expect("["); err != nil {
		return nil, err
	}

	nTok, err := next()
	if err != nil {
		return nil, err
	}

	n, err := strconv.Atoi(nTok)
	if err != nil {
		return nil, fmt.Errorf("%w: bad entry count %q", chainerrors.ErrMalformedStream, nTok)
	}

	entries := make([]Entry, 0, n)

	for i := 0; i < n; i++ {

		if err := expect("["); err != nil {
			return nil, err
		}

		sizeTok, err := next()
		if err != nil {
			return nil, err
		}

		size, err := strconv.ParseFloat(sizeTok, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad size %q", chainerrors.ErrMalformedStream, sizeTok)
		}

		if err := expect("{"); err != nil {
			return nil, err
		}

		set := indexset.New()
		for {
			tok, err := next()
			if err != nil {
				return nil, err
			}
			if tok == "}" {
				break
			}
			v, err := strconv.Atoi(tok)
			if err != nil {
				return nil, fmt.Errorf("%w: bad index %q", chainerrors.ErrMalformedStream, tok)
			}
			set.Insert(v)
		}

		if err := expect("]"); err != nil {
			return nil, err
		}

		entries = append(entries, Entry{Size: size, Set: set})
	}

	if err := expect("]"); err != nil {
		return nil, err
	}

	return &ModuliSizes{sizes: entries}, nil
}
