package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"chess-hash/position"
)

func probe(t *testing.T, script string) string {
	t.Helper()
	var out bytes.Buffer
	if err := run(strings.NewReader(script), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	return out.String()
}

func TestProbeKeysXorToKey(t *testing.T) {
	out := probe(t, "position startpos moves e2e4 c7c5\nkeys\nquit\n")
	var xor, key string
	for _, line := range strings.Split(out, "\n") {
		f := strings.Fields(line)
		if len(f) < 2 {
			continue
		}
		switch f[0] {
		case "xor":
			xor = f[1]
		case "key":
			key = f[1]
		}
	}
	if xor == "" || xor != key {
		t.Fatalf("family XOR %q does not match key %q\n%s", xor, key, out)
	}
	p := position.MustParseFEN("rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2")
	if want := fmt.Sprintf("%#016x", p.Hash()); key != want {
		t.Fatalf("key %s, want %s", key, want)
	}
}

func TestProbeUndoRestoresKey(t *testing.T) {
	start := fmt.Sprintf("key %#016x", position.NewPosition().Hash())
	out := probe(t, "move e2e4 e7e5 e1e2\nundo\nundo\nundo\nd\n")
	if !strings.Contains(out, start) {
		t.Fatalf("undo did not restore the start key\n%s", out)
	}
	if !strings.Contains(out, "repetitions 0") {
		t.Fatalf("expected no repetitions\n%s", out)
	}
}

func TestProbeRepetitionCount(t *testing.T) {
	out := probe(t, "position startpos moves g1f3 g8f6 f3g1 f6g8 g1f3 g8f6 f3g1 f6g8\nd\n")
	if !strings.Contains(out, "repetitions 2") {
		t.Fatalf("expected two earlier occurrences\n%s", out)
	}
}

func TestProbePerftAndErrors(t *testing.T) {
	out := probe(t, "isready\nperft 2\nmove e2e5\nperft x\nundo\nbogus\n")
	for _, want := range []string{
		"readyok",
		"perft 2: 400",
		"info string Move e2e5 not found",
		"info string Invalid depth x",
		"info string Nothing to undo",
		"info string Unknown command bogus",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output\n%s", want, out)
		}
	}
}

func TestProbeFenAndDivide(t *testing.T) {
	out := probe(t, "position fen 8/8/8/8/8/8/8/K6k w - - 0 1\ndivide 1\n")
	if !strings.Contains(out, "Total: 3") {
		t.Fatalf("unexpected divide output\n%s", out)
	}
}

func TestTransTableCommandFollowsKey(t *testing.T) {
	key := fmt.Sprintf("%#016x", position.NewPosition().Hash())
	out := probe(t, "tt\ntt store 3 25 e2e4\ntt\nmove e2e4\ntt\nundo\ntt probe\nucinewgame\ntt\ntt store x 1\ntt bogus\n")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	want := []string{
		"tt miss " + key,
		"tt stored " + key,
		"tt hit " + key + " depth 3 score 25 move e2e4",
		"tt miss ",
		"tt hit " + key + " depth 3 score 25 move e2e4",
		"tt miss " + key,
		"info string Invalid depth x",
		"info string Malformed tt command",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d\n%s", len(lines), len(want), out)
	}
	for i, w := range want {
		if !strings.HasPrefix(lines[i], w) {
			t.Fatalf("line %d: got %q, want prefix %q", i, lines[i], w)
		}
	}
}

func TestKinglessFenRejected(t *testing.T) {
	out := probe(t, "position fen 8/8/8/8/8/8/4P3/8 w - - 0 1\nmoves\nperft 1\n")
	if !strings.Contains(out, "info string invalid FEN") {
		t.Fatalf("expected an error line for the kingless FEN\n%s", out)
	}
	// The previous position stays in place.
	if !strings.Contains(out, "20: ") || !strings.Contains(out, "perft 1: 20") {
		t.Fatalf("expected the start position to remain loaded\n%s", out)
	}
}
