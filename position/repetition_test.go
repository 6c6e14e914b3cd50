package position_test

import (
	"testing"

	"chess-hash/position"
)

func TestThreefoldRepetition_KnightShuffle(t *testing.T) {
	p := position.NewPosition()

	// Track key history (positions before the current)
	hist := []uint64{p.Hash()}
	play := func(uci string) {
		p.MakeMove(mustMove(t, p, uci))
		hist = append(hist, p.Hash())
	}

	cycle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}
	for _, mv := range cycle {
		play(mv)
	}
	if p.Hash() != hist[0] {
		t.Fatalf("knight shuffle should return to the start key")
	}
	if p.IsDrawByRepetition(hist) {
		t.Fatalf("should not be threefold yet after one cycle")
	}
	for _, mv := range cycle {
		play(mv)
	}
	if !p.IsDrawByRepetition(hist) {
		t.Fatalf("expected threefold repetition after two cycles")
	}
}

func TestPushPopRoundTrip(t *testing.T) {
	p := position.NewPosition()
	startFEN := p.ToFEN()
	startKey := p.Hash()

	var stack []position.MoveState
	var hist []uint64
	for _, mv := range []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5", "a7a6", "e1g1"} {
		p.PushMove(mustMove(t, p, mv), &stack, &hist)
		if !p.Validate() {
			t.Fatalf("key invalid after push %s", mv)
		}
	}
	if len(stack) != 7 || len(hist) != 7 || hist[6] != p.Hash() {
		t.Fatalf("stack/history out of sync: %d/%d", len(stack), len(hist))
	}
	for len(stack) > 0 {
		p.PopMove(&stack, &hist)
		if !p.Validate() {
			t.Fatalf("key invalid after pop, %d left", len(stack))
		}
	}
	if p.ToFEN() != startFEN || p.Hash() != startKey {
		t.Fatalf("push/pop did not restore: %q", p.ToFEN())
	}
}

func TestPopMoveEmptyPanics(t *testing.T) {
	p := position.NewPosition()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on empty stack")
		}
	}()
	var stack []position.MoveState
	var hist []uint64
	p.PopMove(&stack, &hist)
}

func TestFiftyMoveRule(t *testing.T) {
	p := position.NewPosition()
	for i := 0; i < 25; i++ {
		for _, mv := range []string{"g1f3", "g8f6", "f3g1", "f6g8"} {
			p.MakeMove(mustMove(t, p, mv))
		}
	}
	if !p.IsDrawBy50() {
		t.Fatalf("expected 50-move rule draw after 100 halfmoves, got halfmoveClock=%d", p.HalfmoveClock())
	}
	if p.FullmoveNumber() != 51 {
		t.Fatalf("expected fullmove 51, got %d", p.FullmoveNumber())
	}
}
