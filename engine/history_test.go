package engine

import (
	"testing"

	"github.com/matryer/is"

	"chess-hash/position"
)

func play(t *testing.T, p *position.Position, h *History, moves ...string) {
	t.Helper()
	for _, uci := range moves {
		m, err := p.MoveFromUCI(uci)
		if err != nil {
			t.Fatalf("MoveFromUCI %q: %v", uci, err)
		}
		p.MakeMove(m)
		h.Push(p)
	}
}

func TestHistoryRepetitions(t *testing.T) {
	is := is.New(t)
	p := position.NewPosition()
	h := NewHistory(p)
	is.Equal(h.Len(), 1)
	is.Equal(h.Repetitions(), 0)

	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}
	play(t, p, h, shuffle...)
	is.Equal(h.Repetitions(), 1)
	is.True(h.IsDraw(0))  // repeats a position inside the search
	is.True(!h.IsDraw(1)) // repeats a position from before the root

	play(t, p, h, shuffle...)
	is.Equal(h.Repetitions(), 2)
	is.True(h.IsDraw(h.Len() - 1))
}

func TestHistoryIrreversibleMoveResetsWindow(t *testing.T) {
	is := is.New(t)
	p := position.NewPosition()
	h := NewHistory(p)
	play(t, p, h, "g1f3", "g8f6", "f3g1", "f6g8")
	is.Equal(h.Repetitions(), 1)

	// A pawn move changes the key and resets the halfmove clock; nothing before
	// it can repeat.
	play(t, p, h, "e2e4", "e7e5", "g1f3", "g8f6", "f3g1", "f6g8")
	is.Equal(h.Repetitions(), 1)
	is.Equal(p.HalfmoveClock(), 4)
}

func TestHistoryPopAndReset(t *testing.T) {
	is := is.New(t)
	p := position.NewPosition()
	h := NewHistory(p)
	play(t, p, h, "e2e4")
	is.Equal(h.Len(), 2)
	h.Pop()
	h.Pop()
	h.Pop() // extra pops are ignored
	is.Equal(h.Len(), 0)
	is.True(!h.IsDraw(0))

	h.Reset(p)
	is.Equal(h.Len(), 1)
	is.Equal(h.Repetitions(), 0)
}

func TestHistoryFiftyMoveDraw(t *testing.T) {
	is := is.New(t)
	p := position.MustParseFEN("8/8/8/8/8/3k4/8/3K4 w - - 100 80")
	h := NewHistory(p)
	is.True(h.IsDraw(0))
}

func TestHistoryUpcomingRepetition(t *testing.T) {
	is := is.New(t)
	p := position.NewPosition()
	h := NewHistory(p)
	play(t, p, h, "e2e4", "e7e5")
	root := h.Len() - 1
	play(t, p, h, "g1f3", "g8f6", "f3g1")
	is.True(!h.UpcomingRepetition(root))
	play(t, p, h, "f6g8")
	is.True(h.UpcomingRepetition(root))
	is.True(!h.UpcomingRepetition(root + 1))
}
