package board

import (
	"strings"

	"github.com/pkg/errors"
)

// CastlingRights is a 4-bit set of the castling moves still available.
// Its integer value (0-15) doubles as a table index.
type CastlingRights uint8

const (
	// White king-side (short) castling
	CastlingWhiteK CastlingRights = 1 << iota
	// White queen-side (long) castling
	CastlingWhiteQ
	// Black king-side castling
	CastlingBlackK
	// Black queen-side castling
	CastlingBlackQ

	NoCastling  CastlingRights = 0
	AllCastling                = CastlingWhiteK | CastlingWhiteQ | CastlingBlackK | CastlingBlackQ
)

// Kingside returns the short-castling right of the given side.
func Kingside(c Color) CastlingRights {
	if c == White {
		return CastlingWhiteK
	}
	return CastlingBlackK
}

// Queenside returns the long-castling right of the given side.
func Queenside(c Color) CastlingRights {
	if c == White {
		return CastlingWhiteQ
	}
	return CastlingBlackQ
}

// BothSides returns both castling rights of the given side.
func BothSides(c Color) CastlingRights {
	return Kingside(c) | Queenside(c)
}

// Has reports whether every right in other is present in cr.
func (cr CastlingRights) Has(other CastlingRights) bool { return cr&other == other }

func (cr CastlingRights) Union(other CastlingRights) CastlingRights { return cr | other }

func (cr CastlingRights) Intersect(other CastlingRights) CastlingRights { return cr & other }

// Without clears the rights in other.
func (cr CastlingRights) Without(other CastlingRights) CastlingRights { return cr &^ other }

// RightsLostAt returns the rights that disappear once a piece leaves or lands on sq:
// a king leaving its home square, a rook leaving its corner, or a rook captured there.
func RightsLostAt(sq Square) CastlingRights {
	switch sq {
	case E1:
		return BothSides(White)
	case E8:
		return BothSides(Black)
	case A1:
		return CastlingWhiteQ
	case H1:
		return CastlingWhiteK
	case A8:
		return CastlingBlackQ
	case H8:
		return CastlingBlackK
	}
	return NoCastling
}

// String renders the rights in FEN form ("KQkq", "-").
func (cr CastlingRights) String() string {
	if cr&AllCastling == 0 {
		return "-"
	}
	var sb strings.Builder
	if cr&CastlingWhiteK != 0 {
		sb.WriteByte('K')
	}
	if cr&CastlingWhiteQ != 0 {
		sb.WriteByte('Q')
	}
	if cr&CastlingBlackK != 0 {
		sb.WriteByte('k')
	}
	if cr&CastlingBlackQ != 0 {
		sb.WriteByte('q')
	}
	return sb.String()
}

// ParseCastlingRights parses the castling field of a FEN string.
func ParseCastlingRights(field string) (CastlingRights, error) {
	if field == "-" {
		return NoCastling, nil
	}
	if field == "" {
		return NoCastling, errors.New("empty castling field")
	}
	var cr CastlingRights
	for _, ch := range field {
		switch ch {
		case 'K':
			cr |= CastlingWhiteK
		case 'Q':
			cr |= CastlingWhiteQ
		case 'k':
			cr |= CastlingBlackK
		case 'q':
			cr |= CastlingBlackQ
		default:
			return NoCastling, errors.Errorf("invalid castling rights character %q", ch)
		}
	}
	return cr, nil
}
