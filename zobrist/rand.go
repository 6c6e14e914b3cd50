package zobrist

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// ErrDegenerateEntropy is returned when the entropy source keeps producing
// zero or repeated values instead of independent keys.
var ErrDegenerateEntropy = errors.New("zobrist: entropy source produced degenerate keys")

// maxRedraws bounds how often a single entry is redrawn after a zero or duplicate.
// A healthy source needs a redraw with probability ~2^-50 per table.
const maxRedraws = 16

// keySource hands out random table entries read from r. Entries are never zero
// and never repeat across the tables filled from one source.
type keySource struct {
	r    io.Reader
	buf  [8]byte
	seen map[uint64]struct{}
}

func newKeySource(r io.Reader) *keySource {
	return &keySource{r: r, seen: make(map[uint64]struct{}, totalKeys)}
}

func (s *keySource) next() (uint64, error) {
	for i := 0; i < maxRedraws; i++ {
		if _, err := io.ReadFull(s.r, s.buf[:]); err != nil {
			return 0, errors.Wrap(err, "zobrist: reading entropy")
		}
		v := binary.LittleEndian.Uint64(s.buf[:])
		if v == 0 {
			continue
		}
		if _, dup := s.seen[v]; dup {
			continue
		}
		s.seen[v] = struct{}{}
		return v, nil
	}
	return 0, ErrDegenerateEntropy
}

// fill draws one fresh entry for every slot of table.
func (s *keySource) fill(table []uint64) error {
	for i := range table {
		v, err := s.next()
		if err != nil {
			return errors.Wrapf(err, "zobrist: filling %d-entry table at index %d", len(table), i)
		}
		table[i] = v
	}
	return nil
}
