// Package zobrist holds the random key tables behind position hashing.
//
// A position key is the XOR of one Piece entry per occupied square, Turn for
// the side to move, EnPassant for the en-passant file and Castling for the
// castling rights. XOR is its own inverse, so a holder of a key updates it by
// toggling the stale contribution out and the new one in.
//
// Tables are drawn from crypto/rand once, during package initialization, and
// are read-only afterwards: lookups are safe from any number of goroutines.
// Keys differ from one process to the next and must not be persisted.
package zobrist

import (
	"crypto/rand"
	"fmt"
	"io"

	"chess-hash/board"
)

const (
	colorCount     = 2
	pieceTypeCount = 6
	squareCount    = 64
	fileCount      = 8
	castlingCount  = 16

	pieceSquareCount = colorCount * pieceTypeCount * squareCount
	totalKeys        = pieceSquareCount + 1 + fileCount + castlingCount
)

type keyTables struct {
	pieceSquare [pieceSquareCount]uint64
	turn        uint64
	enPassant   [fileCount]uint64
	castling    [castlingCount]uint64
}

var keys keyTables

func init() {
	t, err := newKeyTables(rand.Reader)
	if err != nil {
		panic(err)
	}
	keys = *t
}

func newKeyTables(r io.Reader) (*keyTables, error) {
	src := newKeySource(r)
	t := &keyTables{}
	if err := src.fill(t.pieceSquare[:]); err != nil {
		return nil, err
	}
	var turn [1]uint64
	if err := src.fill(turn[:]); err != nil {
		return nil, err
	}
	t.turn = turn[0]
	if err := src.fill(t.enPassant[:]); err != nil {
		return nil, err
	}
	if err := src.fill(t.castling[:]); err != nil {
		return nil, err
	}
	return t, nil
}

// pieceSquareIndex maps (color, type, square) onto 0..767 by weighted addition,
// which is a bijection over the valid domain.
func pieceSquareIndex(c board.Color, pt board.PieceType, sq board.Square) int {
	if c > board.Black {
		panic(fmt.Sprintf("zobrist: invalid color %d", c))
	}
	if pt < board.PieceTypePawn || pt > board.PieceTypeKing {
		panic(fmt.Sprintf("zobrist: invalid piece type %d", pt))
	}
	if !sq.Valid() {
		panic(fmt.Sprintf("zobrist: invalid square %d", sq))
	}
	return int(sq) + squareCount*int(pt-board.PieceTypePawn) + squareCount*pieceTypeCount*int(c)
}

// PieceSquare returns the key of a piece of the given color and type on sq.
func PieceSquare(c board.Color, pt board.PieceType, sq board.Square) uint64 {
	return keys.pieceSquare[pieceSquareIndex(c, pt, sq)]
}

// Piece is PieceSquare for an encoded piece.
func Piece(p board.Piece, sq board.Square) uint64 {
	return PieceSquare(p.Color(), p.Type(), sq)
}

// Turn returns the side-to-move key: a fixed non-zero key for White, 0 for Black.
// Flipping the side XORs Turn(White) in or out.
func Turn(c board.Color) uint64 {
	switch c {
	case board.White:
		return keys.turn
	case board.Black:
		return 0
	}
	panic(fmt.Sprintf("zobrist: invalid color %d", c))
}

// EnPassant returns the key of the en-passant file, or 0 for NoFile.
func EnPassant(f board.File) uint64 {
	if f == board.NoFile {
		return 0
	}
	if f < 0 || f >= fileCount {
		panic(fmt.Sprintf("zobrist: invalid en passant file %d", f))
	}
	return keys.enPassant[f]
}

// Castling returns the key of a castling-rights set. The empty set has its own
// non-zero key.
func Castling(cr board.CastlingRights) uint64 {
	if cr >= castlingCount {
		panic(fmt.Sprintf("zobrist: invalid castling rights %d", cr))
	}
	return keys.castling[cr]
}
