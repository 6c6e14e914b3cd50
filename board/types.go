package board

import "github.com/pkg/errors"

type Color uint8

const (
	White Color = 0
	Black Color = 1
)

// Other returns the opposing side.
func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return "invalid"
	}
}

// PieceType is a colorless representation of a chess piece used for table lookups.
type PieceType uint8

const (
	PieceTypeNone   PieceType = 0
	PieceTypePawn   PieceType = 1
	PieceTypeKnight PieceType = 2
	PieceTypeBishop PieceType = 3
	PieceTypeRook   PieceType = 4
	PieceTypeQueen  PieceType = 5
	PieceTypeKing   PieceType = 6
)

// Piece constants and types for pieces and colors
type Piece uint8

const (
	NoPiece     Piece = 0
	WhitePawn   Piece = 1
	WhiteKnight Piece = 2
	WhiteBishop Piece = 3
	WhiteRook   Piece = 4
	WhiteQueen  Piece = 5
	WhiteKing   Piece = 6

	// Black pieces are encoded as (white piece type | 8) so that
	// - piece & 7 gives the type in [1..6]
	// - piece & 8 != 0 indicates Black
	BlackPawn   Piece = 1 | 8
	BlackKnight Piece = 2 | 8
	BlackBishop Piece = 3 | 8
	BlackRook   Piece = 4 | 8
	BlackQueen  Piece = 5 | 8
	BlackKing   Piece = 6 | 8
)

// Type returns the colorless type of the piece (ignores side).
func (p Piece) Type() PieceType { return PieceType(p & 7) }

// Color returns the side that owns the piece. NoPiece defaults to White.
func (p Piece) Color() Color {
	if p&8 != 0 {
		return Black
	}
	return White
}

// PieceFromType combines a colorless type with a side to produce a concrete Piece.
func PieceFromType(color Color, pt PieceType) Piece {
	if pt == PieceTypeNone || pt > PieceTypeKing {
		return NoPiece
	}
	if color == Black {
		return Piece(pt) | 8
	}
	return Piece(pt)
}

const pieceChars = " PNBRQK  pnbrqk"

// PieceFromChar converts a FEN character to the corresponding Piece constant.
func PieceFromChar(ch rune) Piece {
	for i, c := range pieceChars {
		if c == ch && c != ' ' {
			return Piece(i)
		}
	}
	return NoPiece
}

// Char returns the FEN character of the piece, '?' for NoPiece.
func (p Piece) Char() rune {
	if p == NoPiece || int(p) >= len(pieceChars) || pieceChars[p] == ' ' {
		return '?'
	}
	return rune(pieceChars[p])
}

// File is a board column, 0 (a) through 7 (h).
type File int8

const NoFile File = -1

// Square represents a board position (0-63), a1 = 0, h8 = 63.
type Square int

const NoSquare Square = -1

// NewSquare builds a square from zero-based file and rank.
func NewSquare(file File, rank int) Square { return Square(rank*8 + int(file)) }

// File returns the column of the square, or NoFile for NoSquare.
func (sq Square) File() File {
	if sq == NoSquare {
		return NoFile
	}
	return File(sq % 8)
}

// Rank returns the zero-based row of the square.
func (sq Square) Rank() int { return int(sq) / 8 }

// Valid reports whether sq is on the board.
func (sq Square) Valid() bool { return sq >= 0 && sq < 64 }

func (sq Square) String() string {
	if !sq.Valid() {
		return "-"
	}
	return string([]byte{'a' + byte(sq%8), '1' + byte(sq/8)})
}

// ParseSquare converts algebraic notation ("e4") into a Square.
func ParseSquare(alg string) (Square, error) {
	if len(alg) != 2 {
		return NoSquare, errors.Errorf("invalid square %q: want two characters", alg)
	}
	file, rank := alg[0], alg[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return NoSquare, errors.Errorf("invalid square %q: out of range", alg)
	}
	return NewSquare(File(file-'a'), int(rank-'1')), nil
}

// Common squares used by castling logic.
const (
	A1 Square = 0
	C1 Square = 2
	D1 Square = 3
	E1 Square = 4
	F1 Square = 5
	G1 Square = 6
	H1 Square = 7
	A8 Square = 56
	C8 Square = 58
	D8 Square = 59
	E8 Square = 60
	F8 Square = 61
	G8 Square = 62
	H8 Square = 63
)
