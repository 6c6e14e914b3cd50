package movegen

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"chess-hash/position"
)

// HashMismatchError reports a node where the incrementally maintained key
// disagrees with a full recompute, or where unmake failed to restore the parent key.
type HashMismatchError struct {
	FEN  string
	Move position.Move // move that was just made or unmade; NullMove at the root
	Got  uint64
	Want uint64
}

func (e *HashMismatchError) Error() string {
	return fmt.Sprintf("hash mismatch after %v at %q: running %#016x, expected %#016x", e.Move, e.FEN, e.Got, e.Want)
}

func checkKey(p *position.Position, m position.Move) error {
	if got, want := p.Hash(), p.ComputeHash(); got != want {
		return &HashMismatchError{FEN: p.ToFEN(), Move: m, Got: got, Want: want}
	}
	return nil
}

// Perft counts leaf nodes at the given depth. Every node's key is checked
// against ComputeHash and every unmake must restore the parent key exactly.
func Perft(p *position.Position, depth int) (uint64, error) {
	if err := checkKey(p, position.NullMove); err != nil {
		return 0, err
	}
	return perft(p, depth)
}

func perft(p *position.Position, depth int) (uint64, error) {
	if depth == 0 {
		return 1, nil
	}
	moves := Legal(p)
	if depth == 1 {
		// Still make every leaf move so its key is checked.
		for _, m := range moves {
			if err := visit(p, m, func() error { return nil }); err != nil {
				return 0, err
			}
		}
		return uint64(len(moves)), nil
	}
	var nodes uint64
	for _, m := range moves {
		err := visit(p, m, func() error {
			n, err := perft(p, depth-1)
			nodes += n
			return err
		})
		if err != nil {
			return 0, err
		}
	}
	return nodes, nil
}

// visit makes m, verifies the child key, runs fn, unmakes m and verifies that
// the parent key came back bit-for-bit.
func visit(p *position.Position, m position.Move, fn func() error) error {
	parent := p.Hash()
	st := p.MakeMove(m)
	if err := checkKey(p, m); err != nil {
		return err
	}
	err := fn()
	p.UnmakeMove(st)
	if err != nil {
		return err
	}
	if p.Hash() != parent {
		return &HashMismatchError{FEN: p.ToFEN(), Move: m, Got: p.Hash(), Want: parent}
	}
	return nil
}

// Divide returns per-root-move node counts keyed by UCI move string.
func Divide(p *position.Position, depth int) (map[string]uint64, error) {
	out := make(map[string]uint64)
	if depth < 1 {
		return out, nil
	}
	for _, m := range Legal(p) {
		err := visit(p, m, func() error {
			n, err := Perft(p, depth-1)
			out[m.String()] = n
			return err
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SortedMoves returns the keys of a Divide result in lexical order.
func SortedMoves(div map[string]uint64) []string {
	moves := maps.Keys(div)
	slices.Sort(moves)
	return moves
}

// CensusResult summarizes the keys seen while walking a move tree.
type CensusResult struct {
	Nodes     uint64 // positions visited, root included
	Positions int    // distinct positions (FEN without clocks)
	Keys      int    // distinct keys
	// Collisions lists pairs of different positions sharing a key, as "fenA | fenB".
	Collisions []string
}

// Census walks every node up to depth and checks that distinct positions get
// distinct keys and identical positions get identical keys. The latter is a
// hard error; the former is reported in the result.
func Census(p *position.Position, depth int) (CensusResult, error) {
	var res CensusResult
	positions := make(map[string]uint64)
	byKey := make(map[uint64]string)
	collided := make(map[string]struct{})

	var walk func(d int) error
	walk = func(d int) error {
		res.Nodes++
		key, fen := p.Hash(), p.KeyFEN()
		if prevKey, ok := positions[fen]; ok && prevKey != key {
			return &HashMismatchError{FEN: fen, Got: key, Want: prevKey}
		}
		positions[fen] = key
		if prev, ok := byKey[key]; !ok {
			byKey[key] = fen
		} else if prev != fen {
			collided[prev+" | "+fen] = struct{}{}
		}
		if d == 0 {
			return nil
		}
		for _, m := range Legal(p) {
			if err := visit(p, m, func() error { return walk(d - 1) }); err != nil {
				return err
			}
		}
		return nil
	}
	if err := checkKey(p, position.NullMove); err != nil {
		return res, err
	}
	if err := walk(depth); err != nil {
		return res, err
	}

	res.Positions = len(positions)
	res.Keys = len(byKey)
	res.Collisions = maps.Keys(collided)
	slices.Sort(res.Collisions)
	return res, nil
}
