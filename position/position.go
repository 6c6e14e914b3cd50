// Package position is the board state that owns the running Zobrist key.
//
// Every mutation goes through a small set of helpers that toggle the matching
// zobrist contribution, so Hash always equals ComputeHash without recomputing.
package position

import (
	"chess-hash/board"
	"chess-hash/zobrist"
)

// Position represents the chess board state, including piece placement and game state.
type Position struct {
	// Piece placement array for each square (NoPiece when empty)
	pieces [64]board.Piece

	sideToMove board.Color

	castlingRights board.CastlingRights

	// En passant target square (set after a double pawn push that an enemy pawn can capture, otherwise NoSquare)
	enPassantSquare board.Square

	// Halfmove clock (number of half-moves since last capture or pawn advance, for 50-move rule)
	halfmoveClock int

	// Fullmove number (starts at 1, incremented after Black's move)
	fullmoveNumber int

	// Running Zobrist key, maintained incrementally
	key uint64
}

// NewPosition returns the standard initial position.
func NewPosition() *Position { return MustParseFEN(FENStartPos) }

// Hash returns the current Zobrist key.
func (p *Position) Hash() uint64 { return p.key }

// ComputeHash calculates the Zobrist key of the current state from scratch.
func (p *Position) ComputeHash() uint64 {
	var key uint64
	for sq, pc := range p.pieces {
		if pc != board.NoPiece {
			key ^= zobrist.Piece(pc, board.Square(sq))
		}
	}
	key ^= zobrist.Turn(p.sideToMove)
	key ^= zobrist.EnPassant(p.enPassantSquare.File())
	key ^= zobrist.Castling(p.castlingRights)
	return key
}

// Validate cross-checks the incrementally maintained key against a full recompute.
func (p *Position) Validate() bool { return p.key == p.ComputeHash() }

// PieceAt returns the piece on a square.
func (p *Position) PieceAt(sq board.Square) board.Piece { return p.pieces[sq] }

// SideToMove reports which side is to play.
func (p *Position) SideToMove() board.Color { return p.sideToMove }

// CastlingRights returns the castling rights still available.
func (p *Position) CastlingRights() board.CastlingRights { return p.castlingRights }

// EnPassantSquare returns the current en-passant target square or NoSquare.
func (p *Position) EnPassantSquare() board.Square { return p.enPassantSquare }

// HalfmoveClock accessor for testing/consumers that want read-only access.
func (p *Position) HalfmoveClock() int { return p.halfmoveClock }

// FullmoveNumber returns the full move counter (incremented after Black's move).
func (p *Position) FullmoveNumber() int { return p.fullmoveNumber }

// IsDrawBy50 reports a 50-move rule draw (halfmoveClock counts half-moves).
func (p *Position) IsDrawBy50() bool { return p.halfmoveClock >= 100 }

// put places pc on an empty square and toggles its key in.
func (p *Position) put(sq board.Square, pc board.Piece) {
	if pc == board.NoPiece {
		return
	}
	p.pieces[sq] = pc
	p.key ^= zobrist.Piece(pc, sq)
}

// take empties sq and toggles the removed piece's key out.
func (p *Position) take(sq board.Square) board.Piece {
	pc := p.pieces[sq]
	if pc == board.NoPiece {
		return board.NoPiece
	}
	p.pieces[sq] = board.NoPiece
	p.key ^= zobrist.Piece(pc, sq)
	return pc
}

func (p *Position) setSide(c board.Color) {
	p.key ^= zobrist.Turn(p.sideToMove)
	p.sideToMove = c
	p.key ^= zobrist.Turn(c)
}

func (p *Position) setCastling(cr board.CastlingRights) {
	if cr == p.castlingRights {
		return
	}
	p.key ^= zobrist.Castling(p.castlingRights)
	p.castlingRights = cr
	p.key ^= zobrist.Castling(cr)
}

func (p *Position) setEnPassant(sq board.Square) {
	p.key ^= zobrist.EnPassant(p.enPassantSquare.File())
	p.enPassantSquare = sq
	p.key ^= zobrist.EnPassant(sq.File())
}

// enPassantTarget returns ep when a pawn of side stands next to the pawn that
// just double-pushed over ep, and NoSquare otherwise. Pins are ignored.
func (p *Position) enPassantTarget(ep board.Square, side board.Color) board.Square {
	if !ep.Valid() {
		return board.NoSquare
	}
	pushed := ep + 8
	if side == board.White {
		pushed = ep - 8
	}
	if !pushed.Valid() || p.pieces[pushed] != board.PieceFromType(side.Other(), board.PieceTypePawn) {
		return board.NoSquare
	}
	capturer := board.PieceFromType(side, board.PieceTypePawn)
	f := pushed.File()
	if f > 0 && p.pieces[pushed-1] == capturer {
		return ep
	}
	if f < 7 && p.pieces[pushed+1] == capturer {
		return ep
	}
	return board.NoSquare
}

// SetPiece sets a piece on a square, replacing any existing piece, and keeps the key in sync.
func (p *Position) SetPiece(sq board.Square, pc board.Piece) {
	p.take(sq)
	p.put(sq, pc)
}

// ClearSquare removes any piece from the given square.
func (p *Position) ClearSquare(sq board.Square) { _ = p.take(sq) }

// SetSideToMove updates the side to play. Use with care; normal move making toggles automatically.
func (p *Position) SetSideToMove(c board.Color) { p.setSide(c) }

// SetCastlingRights replaces the castling rights.
func (p *Position) SetCastlingRights(cr board.CastlingRights) { p.setCastling(cr) }

// SetEnPassantSquare replaces the en-passant target square as given (NoSquare
// clears it). Unlike MakeMove and ParseFEN it does not check that a capture is possible.
func (p *Position) SetEnPassantSquare(sq board.Square) { p.setEnPassant(sq) }

// IsDrawByRepetition reports a draw by threefold repetition based on the provided
// history of Zobrist keys. The check counts occurrences of the current position's
// key in the history plus the current position itself.
//
// The key already encodes side to move, castling rights and en passant file,
// which are required for the repetition rule.
func (p *Position) IsDrawByRepetition(history []uint64) bool {
	target := p.key
	// Do not double-count if the last history entry is the current position.
	end := len(history)
	if end > 0 && history[end-1] == target {
		end--
	}
	matches := 0
	for i := 0; i < end; i++ {
		if history[i] == target {
			matches++
			if matches >= 2 { // plus current occurrence makes threefold
				return true
			}
		}
	}
	return false
}

// PushMove makes the move, appends the resulting key to history and pushes the
// MoveState onto the stack for later undo.
func (p *Position) PushMove(m Move, stack *[]MoveState, history *[]uint64) {
	*stack = append(*stack, p.MakeMove(m))
	*history = append(*history, p.key)
}

// PopMove undoes the last move pushed with PushMove, restoring the position
// and truncating the history by one entry.
// It panics if the stack is empty.
func (p *Position) PopMove(stack *[]MoveState, history *[]uint64) {
	n := len(*stack)
	if n == 0 {
		panic("PopMove: empty stack")
	}
	st := (*stack)[n-1]
	*stack = (*stack)[:n-1]
	p.UnmakeMove(st)
	if len(*history) > 0 {
		*history = (*history)[:len(*history)-1]
	}
}
