// Package notation provides a compact textual rendering of an rbc.Board
// and its inverse; no other package of this module imports it. It
// intentionally carries only the fields RBC
// tracks -- piece placement, castling rights, and en-passant target --
// there is no active-color, halfmove, or fullmove field, since spec.md's
// Non-goals exclude draw/legality bookkeeping that would need them.
package notation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/ochess/rbcagent/pkg/rbc"
)

// Initial is the encoding of the standard starting position.
const Initial = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR KQkq -"

// Encode renders a board as "<placement> <castling> <en-passant>", with
// placement ordered rank 8 down to rank 1 as in FEN.
func Encode(b *rbc.Board) string {
	var ranks []string
	for r := 7; r >= 0; r-- {
		ranks = append(ranks, encodeRank(b, r))
	}

	ep := "-"
	if t := b.EnPassantTarget(); !t.IsNone() {
		ep = t.String()
	}

	return fmt.Sprintf("%v %v %v", strings.Join(ranks, "/"), b.Castling(), ep)
}

func encodeRank(b *rbc.Board, rank int) string {
	var sb strings.Builder
	empty := 0
	flush := func() {
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
			empty = 0
		}
	}
	for f := 0; f < 8; f++ {
		p := b.Piece(rank, f)
		if p.IsEmpty() {
			empty++
			continue
		}
		flush()
		sb.WriteString(p.String())
	}
	flush()
	return sb.String()
}

// Parse is the inverse of Encode.
func Parse(s string) (rbc.Board, error) {
	parts := strings.Fields(s)
	if len(parts) != 3 {
		return rbc.Board{}, fmt.Errorf("invalid notation: %q", s)
	}

	b := rbc.NewBoard()
	rank := 7
	file := 0
	for _, r := range parts[0] {
		switch {
		case r == '/':
			if file != 8 {
				return rbc.Board{}, fmt.Errorf("invalid rank length in %q", s)
			}
			rank--
			file = 0
		case unicode.IsDigit(r):
			file += int(r - '0')
		default:
			piece, err := parsePiece(r)
			if err != nil {
				return rbc.Board{}, err
			}
			b.Set(rank, file, piece)
			file++
		}
	}
	if rank != 0 || file != 8 {
		return rbc.Board{}, fmt.Errorf("invalid placement in %q", s)
	}

	castling, err := parseCastling(parts[1])
	if err != nil {
		return rbc.Board{}, err
	}
	b.SetCastling(castling)

	if parts[2] == "-" {
		b.SetEnPassantTarget(rbc.NonePosition)
	} else {
		pos, err := rbc.ParsePosition(parts[2])
		if err != nil {
			return rbc.Board{}, err
		}
		b.SetEnPassantTarget(pos)
	}

	return b, nil
}

func parsePiece(r rune) (rbc.Piece, error) {
	color := rbc.Black
	if unicode.IsUpper(r) {
		color = rbc.White
	}
	switch unicode.ToLower(r) {
	case 'p':
		return rbc.Piece{Color: color, Type: rbc.Pawn}, nil
	case 'q':
		return rbc.Piece{Color: color, Type: rbc.Queen}, nil
	case 'k':
		return rbc.Piece{Color: color, Type: rbc.King}, nil
	case 'r':
		return rbc.Piece{Color: color, Type: rbc.Rook}, nil
	case 'n':
		return rbc.Piece{Color: color, Type: rbc.Knight}, nil
	case 'b':
		return rbc.Piece{Color: color, Type: rbc.Bishop}, nil
	default:
		return rbc.NoPiece, fmt.Errorf("invalid piece %q", r)
	}
}

func parseCastling(s string) (rbc.Castling, error) {
	if s == "-" {
		return 0, nil
	}
	var c rbc.Castling
	for _, r := range s {
		switch r {
		case 'K':
			c |= rbc.WhiteKingSide
		case 'Q':
			c |= rbc.WhiteQueenSide
		case 'k':
			c |= rbc.BlackKingSide
		case 'q':
			c |= rbc.BlackQueenSide
		default:
			return 0, fmt.Errorf("invalid castling rights %q", s)
		}
	}
	return c, nil
}
