package position

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"chess-hash/board"
)

// FENStartPos is the FEN string for the standard initial chess position.
const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string and returns a new Position set up to that position.
// The Zobrist key is computed from scratch once, after all fields are read.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, errors.Errorf("invalid FEN %q: not enough fields", fen)
	}

	p := &Position{enPassantSquare: board.NoSquare, fullmoveNumber: 1}

	// 1. Piece placement
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, errors.Errorf("invalid FEN %q: incorrect number of ranks", fen)
	}
	for i, rankStr := range ranks {
		if len(rankStr) == 0 {
			return nil, errors.Errorf("invalid FEN %q: empty rank description", fen)
		}
		rank := 7 - i // ranks are listed from rank 8 down to rank 1
		file := 0
		for _, ch := range rankStr {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			pc := board.PieceFromChar(ch)
			if pc == board.NoPiece {
				return nil, errors.Errorf("invalid FEN %q: unrecognized piece character %q", fen, ch)
			}
			if file >= 8 {
				return nil, errors.Errorf("invalid FEN %q: too many squares in rank %d", fen, rank+1)
			}
			p.pieces[board.NewSquare(board.File(file), rank)] = pc
			file++
		}
		if file != 8 {
			return nil, errors.Errorf("invalid FEN %q: rank %d does not have 8 columns", fen, rank+1)
		}
	}

	for _, c := range []board.Color{board.White, board.Black} {
		king := board.PieceFromType(c, board.PieceTypeKing)
		n := 0
		for _, pc := range p.pieces {
			if pc == king {
				n++
			}
		}
		if n != 1 {
			return nil, errors.Errorf("invalid FEN %q: %v has %d kings, want 1", fen, c, n)
		}
	}

	// 2. Side to move
	switch fields[1] {
	case "w":
		p.sideToMove = board.White
	case "b":
		p.sideToMove = board.Black
	default:
		return nil, errors.Errorf("invalid FEN %q: side to move must be 'w' or 'b'", fen)
	}

	// 3. Castling rights
	cr, err := board.ParseCastlingRights(fields[2])
	if err != nil {
		return nil, errors.Wrapf(err, "invalid FEN %q", fen)
	}
	p.castlingRights = cr

	// 4. En passant target square
	if fields[3] != "-" {
		sq, err := board.ParseSquare(fields[3])
		if err != nil {
			return nil, errors.Wrapf(err, "invalid FEN %q: en passant", fen)
		}
		if r := sq.Rank(); r != 2 && r != 5 {
			return nil, errors.Errorf("invalid FEN %q: en passant square %v not on rank 3 or 6", fen, sq)
		}
		// A square no pawn can capture onto is dropped so that it adds nothing to the key.
		p.enPassantSquare = p.enPassantTarget(sq, p.sideToMove)
	}

	// 5. Halfmove clock
	if len(fields) > 4 {
		halfmove, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, errors.Wrapf(err, "invalid FEN %q: halfmove clock", fen)
		}
		p.halfmoveClock = halfmove
	}

	// 6. Fullmove number
	if len(fields) > 5 {
		fullmove, err := strconv.Atoi(fields[5])
		if err != nil {
			return nil, errors.Wrapf(err, "invalid FEN %q: fullmove number", fen)
		}
		p.fullmoveNumber = fullmove
	}

	p.key = p.ComputeHash()
	return p, nil
}

// MustParseFEN is ParseFEN that panics on invalid input.
func MustParseFEN(fen string) *Position {
	p, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return p
}

// ToFEN produces the FEN string representation of the position.
func (p *Position) ToFEN() string {
	var sb strings.Builder
	sb.WriteString(p.placementFEN())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.halfmoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.fullmoveNumber))
	return sb.String()
}

// KeyFEN is the FEN without the move clocks: exactly the state the Zobrist key covers.
func (p *Position) KeyFEN() string { return p.placementFEN() }

func (p *Position) placementFEN() string {
	var sb strings.Builder

	// 1. Piece placement
	for rank := 7; rank >= 0; rank-- {
		emptyCount := 0
		for file := 0; file < 8; file++ {
			pc := p.pieces[rank*8+file]
			if pc == board.NoPiece {
				emptyCount++
				continue
			}
			if emptyCount > 0 {
				sb.WriteByte('0' + byte(emptyCount))
				emptyCount = 0
			}
			sb.WriteRune(pc.Char())
		}
		if emptyCount > 0 {
			sb.WriteByte('0' + byte(emptyCount))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	sb.WriteByte(' ')

	// 2. Side to move
	if p.sideToMove == board.White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')

	// 3. Castling rights
	sb.WriteString(p.castlingRights.String())
	sb.WriteByte(' ')

	// 4. En passant square
	sb.WriteString(p.enPassantSquare.String())
	return sb.String()
}
