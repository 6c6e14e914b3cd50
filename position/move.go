package position

import (
	"strings"

	"github.com/pkg/errors"

	"chess-hash/board"
)

// Move encodes a chess move in a 32-bit value. The moved and captured pieces are
// read from the position when the move is made.
type Move uint32

// Bitfield layout within Move (from LSB to MSB)
const (
	moveFromShift    = 0  // 6 bits
	moveToShift      = 6  // 6 bits
	movePromoteShift = 12 // 3 bits
	moveFlagShift    = 15 // 2 bits
)

// Move flags
const (
	FlagNone      = 0
	FlagCastle    = 1
	FlagEnPassant = 2
	// (Promotion is indicated by a non-zero promotion piece type)
)

// NullMove is the UCI "0000" move.
const NullMove Move = 0

// NewMove constructs a Move value from components.
func NewMove(from, to board.Square, promotion board.PieceType, flag uint8) Move {
	m := uint32(from&0x3F) |
		(uint32(to&0x3F) << moveToShift) |
		(uint32(promotion&0x7) << movePromoteShift) |
		(uint32(flag&0x3) << moveFlagShift)
	return Move(m)
}

// From returns the source square of the move.
func (m Move) From() board.Square { return board.Square((uint32(m) >> moveFromShift) & 0x3F) }

// To returns the destination square of the move.
func (m Move) To() board.Square { return board.Square((uint32(m) >> moveToShift) & 0x3F) }

// PromotionPieceType returns the colorless type of the promoted piece (or PieceTypeNone).
func (m Move) PromotionPieceType() board.PieceType {
	return board.PieceType((uint32(m) >> movePromoteShift) & 0x7)
}

// Flags returns the special move flags.
func (m Move) Flags() uint8 { return uint8((uint32(m) >> moveFlagShift) & 0x3) }

// String produces the UCI form of the move (e.g. "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NullMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if pt := m.PromotionPieceType(); pt != board.PieceTypeNone {
		s += strings.ToLower(string(board.PieceFromType(board.White, pt).Char()))
	}
	return s
}

// MoveFromUCI converts a UCI string (e2e4, e7e8q) into a Move for this position,
// filling in the castle and en-passant flags. It does not check legality.
func (p *Position) MoveFromUCI(movestr string) (Move, error) {
	movestr = strings.TrimSpace(strings.ToLower(movestr))
	if len(movestr) < 4 || len(movestr) > 5 {
		return NullMove, errors.Errorf("invalid move %q: bad length", movestr)
	}
	from, err := board.ParseSquare(movestr[0:2])
	if err != nil {
		return NullMove, errors.Wrapf(err, "invalid move %q", movestr)
	}
	to, err := board.ParseSquare(movestr[2:4])
	if err != nil {
		return NullMove, errors.Wrapf(err, "invalid move %q", movestr)
	}
	promo := board.PieceTypeNone
	if len(movestr) == 5 {
		switch movestr[4] {
		case 'q':
			promo = board.PieceTypeQueen
		case 'r':
			promo = board.PieceTypeRook
		case 'b':
			promo = board.PieceTypeBishop
		case 'n':
			promo = board.PieceTypeKnight
		default:
			return NullMove, errors.Errorf("invalid move %q: bad promotion piece", movestr)
		}
	}
	moved := p.pieces[from]
	if moved == board.NoPiece {
		return NullMove, errors.Errorf("invalid move %q: no piece on %v", movestr, from)
	}
	if moved.Color() != p.sideToMove {
		return NullMove, errors.Errorf("invalid move %q: %v is not to move", movestr, moved.Color())
	}
	lastRank := 7
	if moved.Color() == board.Black {
		lastRank = 0
	}
	promoting := moved.Type() == board.PieceTypePawn && to.Rank() == lastRank
	if promo != board.PieceTypeNone && !promoting {
		return NullMove, errors.Errorf("invalid move %q: promotion suffix on a move that does not promote", movestr)
	}
	if promo == board.PieceTypeNone && promoting {
		return NullMove, errors.Errorf("invalid move %q: missing promotion piece", movestr)
	}
	return NewMove(from, to, promo, p.inferFlag(from, to)), nil
}

// inferFlag classifies a from/to pair as castling, en passant or ordinary.
func (p *Position) inferFlag(from, to board.Square) uint8 {
	moved := p.pieces[from]
	switch moved.Type() {
	case board.PieceTypeKing:
		if d := int(to) - int(from); d == 2 || d == -2 {
			return FlagCastle
		}
	case board.PieceTypePawn:
		if to == p.enPassantSquare && from.File() != to.File() && p.pieces[to] == board.NoPiece {
			return FlagEnPassant
		}
	}
	return FlagNone
}

// InferMove builds a Move from raw from/to/promotion, as produced by an external
// move generator.
func (p *Position) InferMove(from, to board.Square, promo board.PieceType) Move {
	return NewMove(from, to, promo, p.inferFlag(from, to))
}
