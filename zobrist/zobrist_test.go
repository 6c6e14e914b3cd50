package zobrist_test

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"

	"golang.org/x/exp/slices"

	"chess-hash/board"
	"chess-hash/zobrist"
)

var colors = []board.Color{board.White, board.Black}

func distinct(keys []uint64) int {
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	return len(slices.Compact(sorted))
}

func TestPieceSquareKeysDistinct(t *testing.T) {
	keys := make([]uint64, 0, 768)
	for _, c := range colors {
		for pt := board.PieceTypePawn; pt <= board.PieceTypeKing; pt++ {
			for sq := board.Square(0); sq < 64; sq++ {
				k := zobrist.PieceSquare(c, pt, sq)
				if k == 0 {
					t.Fatalf("zero key for (%v, %d, %v)", c, pt, sq)
				}
				keys = append(keys, k)
			}
		}
	}
	if len(keys) != 768 {
		t.Fatalf("expected 768 keys, got %d", len(keys))
	}
	if n := distinct(keys); n != 768 {
		t.Fatalf("piece-square keys collide: %d distinct of 768", n)
	}
}

func TestPieceMatchesPieceSquare(t *testing.T) {
	for _, c := range colors {
		for pt := board.PieceTypePawn; pt <= board.PieceTypeKing; pt++ {
			p := board.PieceFromType(c, pt)
			for sq := board.Square(0); sq < 64; sq++ {
				if zobrist.Piece(p, sq) != zobrist.PieceSquare(c, pt, sq) {
					t.Fatalf("Piece(%d, %v) disagrees with PieceSquare", p, sq)
				}
			}
		}
	}
}

func TestTurnKeys(t *testing.T) {
	if zobrist.Turn(board.Black) != 0 {
		t.Fatalf("Turn(Black) should be 0, got %#x", zobrist.Turn(board.Black))
	}
	if zobrist.Turn(board.White) == zobrist.Turn(board.Black) {
		t.Fatalf("Turn(White) must differ from Turn(Black)")
	}
}

func TestEnPassantKeys(t *testing.T) {
	if zobrist.EnPassant(board.NoFile) != 0 {
		t.Fatalf("EnPassant(NoFile) should be 0")
	}
	keys := make([]uint64, 0, 8)
	for f := board.File(0); f < 8; f++ {
		k := zobrist.EnPassant(f)
		if k == zobrist.EnPassant(board.NoFile) {
			t.Fatalf("EnPassant(%d) equals the no-file key", f)
		}
		keys = append(keys, k)
	}
	if n := distinct(keys); n != 8 {
		t.Fatalf("en passant keys collide: %d distinct of 8", n)
	}
}

func TestCastlingKeys(t *testing.T) {
	keys := make([]uint64, 0, 16)
	for v := 0; v < 16; v++ {
		keys = append(keys, zobrist.Castling(board.CastlingRights(v)))
	}
	if n := distinct(keys); n != 16 {
		t.Fatalf("castling keys collide: %d distinct of 16", n)
	}
	if zobrist.Castling(board.NoCastling) == 0 {
		t.Fatalf("empty castling set must have a non-zero key")
	}
}

func TestKeysDistinctAcrossTables(t *testing.T) {
	var keys []uint64
	for _, c := range colors {
		for pt := board.PieceTypePawn; pt <= board.PieceTypeKing; pt++ {
			for sq := board.Square(0); sq < 64; sq++ {
				keys = append(keys, zobrist.PieceSquare(c, pt, sq))
			}
		}
	}
	keys = append(keys, zobrist.Turn(board.White))
	for f := board.File(0); f < 8; f++ {
		keys = append(keys, zobrist.EnPassant(f))
	}
	for v := 0; v < 16; v++ {
		keys = append(keys, zobrist.Castling(board.CastlingRights(v)))
	}
	if n := distinct(keys); n != len(keys) {
		t.Fatalf("keys repeat across tables: %d distinct of %d", n, len(keys))
	}
}

func TestXorRoundTrip(t *testing.T) {
	baseline := zobrist.Castling(board.AllCastling) ^ zobrist.Turn(board.White)
	contributions := []uint64{
		zobrist.PieceSquare(board.Black, board.PieceTypeQueen, 59),
		zobrist.EnPassant(4),
		zobrist.Turn(board.Black),
		zobrist.Castling(board.NoCastling),
	}
	for _, c := range contributions {
		h := baseline ^ c
		h ^= c
		if h != baseline {
			t.Fatalf("toggling %#x twice changed the key: %#x != %#x", c, h, baseline)
		}
	}
}

func mustPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expected panic", name)
		}
	}()
	f()
}

func TestOutOfRangeLookupsPanic(t *testing.T) {
	mustPanic(t, "square 64", func() { zobrist.PieceSquare(board.White, board.PieceTypePawn, 64) })
	mustPanic(t, "NoSquare", func() { zobrist.PieceSquare(board.White, board.PieceTypePawn, board.NoSquare) })
	mustPanic(t, "piece type none", func() { zobrist.PieceSquare(board.White, board.PieceTypeNone, 0) })
	mustPanic(t, "piece type 7", func() { zobrist.PieceSquare(board.Black, 7, 0) })
	mustPanic(t, "color 2", func() { zobrist.PieceSquare(2, board.PieceTypeKing, 0) })
	mustPanic(t, "NoPiece", func() { zobrist.Piece(board.NoPiece, 12) })
	mustPanic(t, "turn color 2", func() { zobrist.Turn(2) })
	mustPanic(t, "file 8", func() { zobrist.EnPassant(8) })
	mustPanic(t, "file -2", func() { zobrist.EnPassant(-2) })
	mustPanic(t, "castling 16", func() { zobrist.Castling(16) })
}

const helperEnv = "ZOBRIST_HELPER_PROCESS"

func fingerprint() string {
	var sb strings.Builder
	for v := 0; v < 16; v++ {
		fmt.Fprintf(&sb, "%016x", zobrist.Castling(board.CastlingRights(v)))
	}
	fmt.Fprintf(&sb, "%016x", zobrist.PieceSquare(board.White, board.PieceTypePawn, 8))
	return sb.String()
}

// TestHelperProcessKeys prints this process's tables when run as a child of
// TestTablesDifferAcrossProcesses.
func TestHelperProcessKeys(t *testing.T) {
	if os.Getenv(helperEnv) != "1" {
		t.Skip("helper process only")
	}
	fmt.Println(fingerprint())
	os.Exit(0)
}

func TestTablesDifferAcrossProcesses(t *testing.T) {
	if testing.Short() {
		t.Skip("spawns child processes")
	}
	run := func() string {
		cmd := exec.Command(os.Args[0], "-test.run=^TestHelperProcessKeys$")
		cmd.Env = append(os.Environ(), helperEnv+"=1")
		out, err := cmd.Output()
		if err != nil {
			t.Fatalf("helper process: %v", err)
		}
		return strings.TrimSpace(string(out))
	}
	first, second := run(), run()
	if first == "" || second == "" {
		t.Fatalf("helper process printed nothing")
	}
	if first == second {
		t.Fatalf("two processes produced identical tables")
	}
	if first == fingerprint() || second == fingerprint() {
		t.Fatalf("child process reproduced the parent's tables")
	}
}
