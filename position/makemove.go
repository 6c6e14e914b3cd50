package position

import (
	"fmt"

	"chess-hash/board"
)

// MoveState holds the minimal state needed to undo a move.
type MoveState struct {
	move          Move
	captured      board.Piece
	capturedSq    board.Square
	prevCastling  board.CastlingRights
	prevEnPassant board.Square
	prevHalfmove  int
	prevFullmove  int
	rookFrom      board.Square // for castling undo
	rookTo        board.Square // for castling undo
}

// Move returns the move this state undoes.
func (st MoveState) Move() Move { return st.move }

// Captured returns the piece removed by the move, or NoPiece.
func (st MoveState) Captured() board.Piece { return st.captured }

// NullState stores the minimal information needed to undo a null move.
type NullState struct {
	prevEnPassant board.Square
	prevHalfmove  int
	prevFullmove  int
}

// castlingRookSquares maps a king destination square to the rook's from/to squares.
func castlingRookSquares(kingTo board.Square) (from, to board.Square) {
	switch kingTo {
	case board.G1:
		return board.H1, board.F1
	case board.C1:
		return board.A1, board.D1
	case board.G8:
		return board.H8, board.F8
	case board.C8:
		return board.A8, board.D8
	}
	return board.NoSquare, board.NoSquare
}

// MakeMove applies a legal move and updates the key incrementally: every
// contribution that changes is toggled out with its old value and in with its new one.
// It panics if the from-square is empty or a piece other than a pawn promotes.
func (p *Position) MakeMove(m Move) MoveState {
	from := m.From()
	to := m.To()
	moved := p.pieces[from]
	if moved == board.NoPiece {
		panic(fmt.Sprintf("MakeMove %v: no piece on %v", m, from))
	}
	if m.PromotionPieceType() != board.PieceTypeNone && moved.Type() != board.PieceTypePawn {
		panic(fmt.Sprintf("MakeMove %v: %c on %v cannot promote", m, moved.Char(), from))
	}

	st := MoveState{
		move:          m,
		captured:      board.NoPiece,
		capturedSq:    board.NoSquare,
		prevCastling:  p.castlingRights,
		prevEnPassant: p.enPassantSquare,
		prevHalfmove:  p.halfmoveClock,
		prevFullmove:  p.fullmoveNumber,
		rookFrom:      board.NoSquare,
		rookTo:        board.NoSquare,
	}

	// Handle capture (including en passant)
	if m.Flags() == FlagEnPassant {
		// Captured pawn is behind 'to'
		capSq := to - 8
		if moved.Color() == board.Black {
			capSq = to + 8
		}
		st.captured = p.take(capSq)
		st.capturedSq = capSq
	} else if p.pieces[to] != board.NoPiece {
		st.captured = p.take(to)
		st.capturedSq = to
	}

	// Move the piece (or promote)
	p.take(from)
	placed := moved
	if promo := m.PromotionPieceType(); promo != board.PieceTypeNone {
		placed = board.PieceFromType(moved.Color(), promo)
	}
	p.put(to, placed)

	// Castling rook movement
	if m.Flags() == FlagCastle {
		st.rookFrom, st.rookTo = castlingRookSquares(to)
		if st.rookFrom != board.NoSquare {
			p.put(st.rookTo, p.take(st.rookFrom))
		}
	}

	// A king or rook leaving home, or a rook captured on its corner, drops rights
	p.setCastling(p.castlingRights.Without(board.RightsLostAt(from) | board.RightsLostAt(to)))

	// Set en passant square if a double pawn push can be captured, clear it otherwise
	ep := board.NoSquare
	if moved.Type() == board.PieceTypePawn {
		if d := int(to) - int(from); d == 16 || d == -16 {
			ep = p.enPassantTarget((from+to)/2, moved.Color().Other())
		}
	}
	p.setEnPassant(ep)

	// Halfmove clock
	if moved.Type() == board.PieceTypePawn || st.captured != board.NoPiece {
		p.halfmoveClock = 0
	} else {
		p.halfmoveClock++
	}

	// Fullmove number increments after a Black move
	if p.sideToMove == board.Black {
		p.fullmoveNumber++
	}

	p.setSide(p.sideToMove.Other())
	return st
}

// UnmakeMove undoes a previously made move by toggling every contribution back.
func (p *Position) UnmakeMove(st MoveState) {
	m := st.move
	from := m.From()
	to := m.To()

	p.setSide(p.sideToMove.Other())
	p.setEnPassant(st.prevEnPassant)
	p.setCastling(st.prevCastling)

	if st.rookFrom != board.NoSquare {
		p.put(st.rookFrom, p.take(st.rookTo))
	}

	placed := p.take(to)
	if m.PromotionPieceType() != board.PieceTypeNone {
		placed = board.PieceFromType(placed.Color(), board.PieceTypePawn)
	}
	p.put(from, placed)

	if st.captured != board.NoPiece {
		p.put(st.capturedSq, st.captured)
	}

	p.halfmoveClock = st.prevHalfmove
	p.fullmoveNumber = st.prevFullmove
}

// MakeNullMove performs a null move: it switches the side to move without moving any piece.
// It clears any en passant square and advances clocks as a reversible quiet half-move.
// The returned state can be used to restore via UnmakeNullMove.
func (p *Position) MakeNullMove() NullState {
	st := NullState{
		prevEnPassant: p.enPassantSquare,
		prevHalfmove:  p.halfmoveClock,
		prevFullmove:  p.fullmoveNumber,
	}
	p.setEnPassant(board.NoSquare)
	p.halfmoveClock++
	if p.sideToMove == board.Black {
		p.fullmoveNumber++
	}
	p.setSide(p.sideToMove.Other())
	return st
}

// UnmakeNullMove restores the position to the state prior to MakeNullMove.
func (p *Position) UnmakeNullMove(st NullState) {
	p.setSide(p.sideToMove.Other())
	p.setEnPassant(st.prevEnPassant)
	p.halfmoveClock = st.prevHalfmove
	p.fullmoveNumber = st.prevFullmove
}

// Apply plays a move and returns an undo closure.
func (p *Position) Apply(m Move) func() {
	st := p.MakeMove(m)
	return func() { p.UnmakeMove(st) }
}

// ApplyNullMove performs a null move and returns the corresponding undo closure.
func (p *Position) ApplyNullMove() func() {
	st := p.MakeNullMove()
	return func() { p.UnmakeNullMove(st) }
}
