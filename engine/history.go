package engine

const fiftyMoveLimit = 100

// Keyed is the part of a position the history needs.
type Keyed interface {
	Hash() uint64
	HalfmoveClock() int
}

// State captures the information we need to reason about repetitions and draws.
type State struct {
	Hash   uint64
	Rule50 int
}

// History is the stack of position keys from the game start (or last reset)
// down to the current search node.
type History struct {
	states []State
}

// NewHistory returns a history holding only the given position.
func NewHistory(pos Keyed) *History {
	h := &History{states: make([]State, 0, 256)}
	h.Push(pos)
	return h
}

// Reset rebuilds the stack so that it only contains the current position.
func (h *History) Reset(pos Keyed) {
	h.states = h.states[:0]
	h.Push(pos)
}

// Push appends the position's current state.
func (h *History) Push(pos Keyed) {
	h.states = append(h.states, State{Hash: pos.Hash(), Rule50: pos.HalfmoveClock()})
}

// Pop drops the most recent state.
func (h *History) Pop() {
	if len(h.states) == 0 {
		return
	}
	h.states = h.states[:len(h.states)-1]
}

// Len returns the number of recorded states; the current one is at Len()-1.
func (h *History) Len() int { return len(h.states) }

// Repetitions counts earlier occurrences of the current key. Only the states
// since the last irreversible move can repeat, so the scan stops there.
func (h *History) Repetitions() int {
	count, _ := h.repetitionInfo()
	return count
}

// IsDraw reports a 50-move draw, a threefold repetition, or a twofold
// repetition whose first occurrence lies inside the search (at or after rootIndex).
func (h *History) IsDraw(rootIndex int) bool {
	if len(h.states) == 0 {
		return false
	}
	if h.states[len(h.states)-1].Rule50 >= fiftyMoveLimit {
		return true
	}
	count, firstIdx := h.repetitionInfo()
	if count >= 2 {
		return true
	}
	return count >= 1 && firstIdx >= rootIndex
}

func (h *History) repetitionInfo() (count int, firstIdx int) {
	firstIdx = -1
	if len(h.states) <= 1 {
		return 0, firstIdx
	}
	curr := h.states[len(h.states)-1]
	start := len(h.states) - 1 - curr.Rule50
	if start < 0 {
		start = 0
	}
	for i := start; i <= len(h.states)-2; i++ {
		if h.states[i].Hash == curr.Hash {
			count++
			if firstIdx == -1 {
				firstIdx = i
			}
		}
	}
	return count, firstIdx
}

// UpcomingRepetition reports whether the current key already occurred inside
// the search, i.e. at or after rootIndex and after the last irreversible move.
func (h *History) UpcomingRepetition(rootIndex int) bool {
	if len(h.states) <= 1 {
		return false
	}
	curr := h.states[len(h.states)-1]
	start := len(h.states) - 1 - curr.Rule50
	if start < 0 {
		start = 0
	}
	for i := len(h.states) - 2; i >= start; i-- {
		if h.states[i].Hash == curr.Hash && i >= rootIndex {
			return true
		}
	}
	return false
}
