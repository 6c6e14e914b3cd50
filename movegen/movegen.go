// Package movegen feeds legal moves to a position. Generation itself is
// delegated to dragontoothmg; this package converts between the two
// representations and walks move trees while checking the position's key.
package movegen

import (
	"github.com/dylhunn/dragontoothmg"

	"chess-hash/board"
	"chess-hash/position"
)

// promotionType maps a dragontoothmg promotion piece onto our piece types.
func promotionType(pc dragontoothmg.Piece) board.PieceType {
	switch pc {
	case dragontoothmg.Knight:
		return board.PieceTypeKnight
	case dragontoothmg.Bishop:
		return board.PieceTypeBishop
	case dragontoothmg.Rook:
		return board.PieceTypeRook
	case dragontoothmg.Queen:
		return board.PieceTypeQueen
	}
	return board.PieceTypeNone
}

// Legal returns the legal moves of the side to move.
func Legal(p *position.Position) []position.Move {
	db := dragontoothmg.ParseFen(p.ToFEN())
	generated := db.GenerateLegalMoves()
	moves := make([]position.Move, 0, len(generated))
	for _, m := range generated {
		from := board.Square(m.From())
		to := board.Square(m.To())
		moves = append(moves, p.InferMove(from, to, promotionType(m.Promote())))
	}
	return moves
}

// FindMove returns the legal move matching a UCI string.
func FindMove(p *position.Position, uci string) (position.Move, bool) {
	for _, m := range Legal(p) {
		if m.String() == uci {
			return m, true
		}
	}
	return position.NullMove, false
}
