package engine

import (
	"unsafe"

	"chess-hash/position"
)

const (
	// Flags
	AlphaFlag = iota
	BetaFlag
	ExactFlag

	clusterSize = 4

	// Scores beyond Checkmate are mate scores; they are stored relative to the
	// node and shifted by ply on the way in and out.
	Checkmate = 29000

	// Unusable score
	UnusableScore = -32750
)

// TTEntry is one slot of the table. Hash holds the full position key so a probe
// can reject entries of other positions that map to the same cluster.
type TTEntry struct {
	Hash  uint64
	Depth int8
	Move  position.Move
	Score int16
	Flag  int8
}

// TransTable is a position-key addressed cache of search results, split into
// clusters of four entries. Not safe for concurrent writers.
type TransTable struct {
	entries      []TTEntry
	clusterCount uint64
}

// NewTransTable allocates a table of roughly sizeMB megabytes.
func NewTransTable(sizeMB int) *TransTable {
	if sizeMB < 1 {
		sizeMB = 1
	}
	entrySize := uint64(unsafe.Sizeof(TTEntry{}))
	totalBytes := uint64(sizeMB) * 1024 * 1024
	clusterCount := totalBytes / (entrySize * clusterSize)
	if clusterCount == 0 {
		clusterCount = 1
	}
	return &TransTable{
		entries:      make([]TTEntry, clusterCount*clusterSize),
		clusterCount: clusterCount,
	}
}

// Clear empties every slot without reallocating.
func (tt *TransTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
}

// Len returns the number of slots.
func (tt *TransTable) Len() int { return len(tt.entries) }

func (tt *TransTable) clusterStart(hash uint64) int {
	return int((hash % tt.clusterCount) * clusterSize)
}

// Probe returns the entry stored for hash, if any.
func (tt *TransTable) Probe(hash uint64) (entry *TTEntry, found bool) {
	if tt.clusterCount == 0 {
		return nil, false
	}
	start := tt.clusterStart(hash)
	for i := 0; i < clusterSize; i++ {
		next := &tt.entries[start+i]
		if next.Hash == hash {
			return next, true
		}
	}
	return nil, false
}

// Use reports whether entry can cut the search at this node, and the score to use.
func (tt *TransTable) Use(entry *TTEntry, hash uint64, depth int8, alpha, beta int16, ply int8) (usable bool, score int16) {
	score = UnusableScore
	if entry == nil || entry.Hash != hash || entry.Depth < depth {
		return false, score
	}
	norm := entry.Score
	if norm > Checkmate {
		norm -= int16(ply)
	} else if norm < -Checkmate {
		norm += int16(ply)
	}
	switch entry.Flag {
	case ExactFlag:
		return true, norm
	case AlphaFlag:
		if norm <= alpha {
			return true, alpha
		}
	case BetaFlag:
		if norm >= beta {
			return true, beta
		}
	}
	return false, score
}

// Store writes a result for hash. It updates the entry of the same key if
// present, else fills an empty slot, else replaces the shallowest entry.
func (tt *TransTable) Store(hash uint64, depth int8, ply int8, move position.Move, score int16, flag int8) {
	if tt.clusterCount == 0 {
		return
	}
	base := tt.clusterStart(hash)

	// If we have a mate score, we add the ply
	if score > Checkmate {
		score += int16(ply)
	}
	if score < -Checkmate {
		score -= int16(ply)
	}

	targetIdx := -1
	for i := 0; i < clusterSize; i++ {
		if tt.entries[base+i].Hash == hash {
			targetIdx = base + i
			break
		}
	}
	if targetIdx == -1 {
		for i := 0; i < clusterSize; i++ {
			if tt.entries[base+i].Hash == 0 {
				targetIdx = base + i
				break
			}
		}
	}
	if targetIdx == -1 {
		targetIdx = base
		minDepth := tt.entries[base].Depth
		for i := 1; i < clusterSize; i++ {
			if tt.entries[base+i].Depth < minDepth {
				minDepth = tt.entries[base+i].Depth
				targetIdx = base + i
			}
		}
	}

	tt.entries[targetIdx] = TTEntry{Hash: hash, Depth: depth, Move: move, Score: score, Flag: flag}
}

// Hashfull returns the per-mille occupancy of the first thousand slots, as UCI reports it.
func (tt *TransTable) Hashfull() int {
	n := len(tt.entries)
	if n > 1000 {
		n = 1000
	}
	if n == 0 {
		return 0
	}
	used := 0
	for i := 0; i < n; i++ {
		if tt.entries[i].Hash != 0 {
			used++
		}
	}
	return used * 1000 / n
}
