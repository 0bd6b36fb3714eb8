package rbc

import (
	"fmt"
	"math/rand"
)

// Board is an 8x8 grid of pieces plus castling rights and an en-passant
// target square. A Board is a plain value with no shared state: copying a
// Board (e.g. `next := b`) clones it, which is how belief particles are
// formed and forked. There is no check/checkmate/stalemate legality here --
// only pseudo-legal move generation and the RBC-specific move-application
// state machine described in spec section 4A.
type Board struct {
	squares   [8][8]Piece
	castling  Castling
	enPassant Position
}

// NewBoard returns an empty board with no castling rights.
func NewBoard() Board {
	return Board{enPassant: NonePosition}
}

// InitialBoard returns the standard starting position with full castling
// rights and no en-passant target.
func InitialBoard() Board {
	b := NewBoard()
	b.castling = FullCastlingRights

	back := []PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for file, t := range back {
		b.Set(0, file, Piece{Color: White, Type: t})
		b.Set(1, file, Piece{Color: White, Type: Pawn})
		b.Set(6, file, Piece{Color: Black, Type: Pawn})
		b.Set(7, file, Piece{Color: Black, Type: t})
	}
	return b
}

// Piece returns the piece at (rank, file). Panics if off-board.
func (b *Board) Piece(rank, file int) Piece {
	return b.squares[rank][file]
}

// At is a Position-taking convenience wrapper around Piece.
func (b *Board) At(p Position) Piece {
	return b.squares[p.Rank][p.File]
}

// Set places a piece at (rank, file). Panics if off-board.
func (b *Board) Set(rank, file int, p Piece) {
	b.squares[rank][file] = p
}

// SetAt is a Position-taking convenience wrapper around Set.
func (b *Board) SetAt(p Position, piece Piece) {
	b.squares[p.Rank][p.File] = piece
}

// Castling returns the current castling rights.
func (b *Board) Castling() Castling {
	return b.castling
}

// EnPassantTarget returns the current en-passant target square, or
// NonePosition if none.
func (b *Board) EnPassantTarget() Position {
	return b.enPassant
}

// SetCastling overrides the castling rights, used by notation.Parse to
// reconstruct a board from a fixture string.
func (b *Board) SetCastling(c Castling) {
	b.castling = c
}

// SetEnPassantTarget overrides the en-passant target, used by
// notation.Parse to reconstruct a board from a fixture string.
func (b *Board) SetEnPassantTarget(p Position) {
	b.enPassant = p
}

// occupation returns the color occupying (rank, file), or Empty both for an
// empty square and for an off-board square -- this lets move generation and
// application treat the board edge uniformly as "not mine, not capturable".
func (b *Board) occupation(rank, file int) Color {
	if rank < 0 || rank > 7 || file < 0 || file > 7 {
		return Empty
	}
	return b.squares[rank][file].Color
}

func mirroredRank(color Color, rank int) int {
	if color == White {
		return rank
	}
	return 7 - rank
}

func pawnDirection(color Color) int {
	if color == White {
		return 1
	}
	return -1
}

// FindColor returns every on-board position occupied by the given color.
func (b *Board) FindColor(color Color) []Position {
	var ret []Position
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			if b.squares[i][j].Color == color {
				ret = append(ret, NewPosition(i, j))
			}
		}
	}
	return ret
}

// FindPiece returns every on-board position holding exactly the given piece.
func (b *Board) FindPiece(piece Piece) []Position {
	var ret []Position
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			if b.squares[i][j] == piece {
				ret = append(ret, NewPosition(i, j))
			}
		}
	}
	return ret
}

// PseudoLegalMoves returns every pseudo-legal move for the given color,
// including the "illegal" pawn diagonal probes described in spec.md
// section 9: a pawn's forward diagonals are offered as candidate moves
// even when the particle currently believes the square is empty, because
// the agent must be free to *probe* squares the true board might occupy.
func (b *Board) PseudoLegalMoves(color Color) []Move {
	var moves []Move
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			if b.squares[i][j].Color == color {
				moves = append(moves, b.movesForPiece(i, j)...)
			}
		}
	}
	return moves
}

func (b *Board) movesForPiece(rank, file int) []Move {
	switch b.squares[rank][file].Type {
	case Pawn:
		return b.pawnMoves(rank, file)
	case Queen:
		return b.slideMoves(rank, file, queenDirections, 8)
	case King:
		return b.kingMoves(rank, file)
	case Rook:
		return b.slideMoves(rank, file, rookDirections, 8)
	case Knight:
		return b.knightMoves(rank, file)
	case Bishop:
		return b.slideMoves(rank, file, bishopDirections, 8)
	default:
		return nil
	}
}

func (b *Board) pawnMoves(rank, file int) []Move {
	color := b.squares[rank][file].Color
	dir := pawnDirection(color)

	var moves []Move
	if to := NewPosition(rank+dir, file); to.IsValid() && b.occupation(to.Rank, to.File) == Empty {
		moves = append(moves, Move{From: NewPosition(rank, file), To: to})

		startRank := 1
		if color == Black {
			startRank = 6
		}
		if rank == startRank && b.occupation(rank+2*dir, file) == Empty {
			moves = append(moves, Move{From: NewPosition(rank, file), To: NewPosition(rank+2*dir, file)})
		}
	}

	// Diagonal captures -- offered whenever the target isn't our own piece,
	// including empty squares (probing) and off-board squares (discarded).
	for _, df := range []int{1, -1} {
		if to := NewPosition(rank+dir, file+df); to.IsValid() && b.occupation(to.Rank, to.File) != color {
			moves = append(moves, Move{From: NewPosition(rank, file), To: to})
		}
	}
	return moves
}

var (
	rookDirections   = [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirections = [][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirections  = append(append([][2]int{}, rookDirections...), bishopDirections...)
)

func (b *Board) slideMoves(rank, file int, dirs [][2]int, maxDist int) []Move {
	color := b.squares[rank][file].Color
	var moves []Move
	for _, d := range dirs {
		for i := 1; i <= maxDist; i++ {
			r, f := rank+d[0]*i, file+d[1]*i
			if !NewPosition(r, f).IsValid() || b.occupation(r, f) == color {
				break
			}
			moves = append(moves, Move{From: NewPosition(rank, file), To: NewPosition(r, f)})
			if b.occupation(r, f) != Empty {
				break
			}
		}
	}
	return moves
}

func (b *Board) kingMoves(rank, file int) []Move {
	color := b.squares[rank][file].Color
	moves := b.slideMoves(rank, file, queenDirections, 1)

	kingSide, queenSide := sideRights(color)
	if b.castling.Has(kingSide) && b.occupation(rank, 5) == Empty && b.occupation(rank, 6) == Empty {
		moves = append(moves, Move{From: NewPosition(rank, file), To: NewPosition(rank, 6)})
	}
	if b.castling.Has(queenSide) && b.occupation(rank, 2) == Empty && b.occupation(rank, 3) == Empty {
		moves = append(moves, Move{From: NewPosition(rank, file), To: NewPosition(rank, 2)})
	}
	return moves
}

var knightOffsets = [8][2]int{
	{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
	{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
}

func (b *Board) knightMoves(rank, file int) []Move {
	color := b.squares[rank][file].Color
	var moves []Move
	for _, o := range knightOffsets {
		r, f := rank+o[0], file+o[1]
		if to := NewPosition(r, f); to.IsValid() && b.occupation(r, f) != color {
			moves = append(moves, Move{From: NewPosition(rank, file), To: to})
		}
	}
	return moves
}

// ApplyMove applies move, mutating the board, and returns what actually
// happened: the RBC rules in spec.md section 4A determine whether the move
// goes through as requested, is shortened by a blocking piece, or is wasted
// entirely (From==To in the result).
func (b *Board) ApplyMove(move Move) MoveResult {
	piece := b.At(move.From)
	switch piece.Type {
	case King:
		return b.applyKingMove(move)
	case Queen:
		return b.applyLinearMove(move.From, move.To, true)
	case Rook:
		return b.applyRookMove(move)
	case Bishop:
		return b.applyLinearMove(move.From, move.To, true)
	case Pawn:
		return b.applyPawnMove(move)
	case Knight:
		return b.applyKnightMove(move)
	default:
		panic(fmt.Sprintf("apply move from empty square %v", move.From))
	}
}

// movePiece relocates whatever is at from to to unconditionally, returning
// any piece thereby captured, and clears the en-passant target (the common
// tail of every successful move).
func (b *Board) movePiece(from, to Position) Capture {
	captured := b.At(to)
	b.SetAt(to, b.At(from))
	b.SetAt(from, NoPiece)
	b.enPassant = NonePosition
	if captured.IsEmpty() {
		return NoCapture
	}
	return Capture{Piece: captured, Position: to}
}

func (b *Board) applyPawnMove(move Move) MoveResult {
	piece := b.At(move.From)
	color := piece.Color
	mirroredFrom := mirroredRank(color, move.From.Rank)
	mirroredTo := mirroredRank(color, move.To.Rank)

	if move.From.File == move.To.File {
		result := b.applyLinearMove(move.From, move.To, false)
		// Only set the en-passant target if the pawn actually reached two
		// ranks forward -- a push blocked partway must not leave a phantom
		// en-passant target behind, even though the requested move asked
		// for a double step.
		if mirroredRank(color, result.Move.To.Rank) == mirroredFrom+2 {
			b.enPassant = NewPosition(mirroredRank(color, mirroredFrom+1), move.From.File)
		}
		return result
	}

	switch {
	case b.occupation(move.To.Rank, move.To.File) == color.Opponent():
		capture := b.movePiece(move.From, move.To)
		return MoveResult{Move: move, Capture: capture}
	case move.To == b.enPassant:
		capturedRank := mirroredRank(color, mirroredTo-1)
		capturedFile := b.enPassant.File
		b.movePiece(move.From, move.To)
		capturedPos := NewPosition(capturedRank, capturedFile)
		captured := b.At(capturedPos)
		b.SetAt(capturedPos, NoPiece)
		return MoveResult{Move: move, Capture: Capture{Piece: captured, Position: capturedPos}}
	default:
		// Wasted: a probed diagonal with no capture and no en-passant.
		return MoveResult{Move: Move{From: move.From, To: move.From}, Capture: NoCapture}
	}
}

func (b *Board) applyKingMove(move Move) MoveResult {
	color := b.At(move.From).Color
	kingSide, queenSide := sideRights(color)

	if abs(move.From.File-move.To.File) > 1 {
		if move.From.Rank != move.To.Rank {
			panic("castling across ranks")
		}
		rank := move.From.Rank
		if move.From.File < move.To.File {
			if b.occupation(rank, 6) != Empty || b.occupation(rank, 5) != Empty {
				return MoveResult{Move: Move{From: move.From, To: move.From}, Capture: NoCapture}
			}
			b.movePiece(move.From, move.To)
			b.movePiece(NewPosition(rank, 7), NewPosition(rank, 5))
		} else {
			if b.occupation(rank, 1) != Empty || b.occupation(rank, 2) != Empty || b.occupation(rank, 3) != Empty {
				return MoveResult{Move: Move{From: move.From, To: move.From}, Capture: NoCapture}
			}
			b.movePiece(move.From, move.To)
			b.movePiece(NewPosition(rank, 0), NewPosition(rank, 3))
		}
		b.castling = b.castling.Clear(kingSide | queenSide)
		return MoveResult{Move: move, Capture: NoCapture}
	}

	if move.From == move.To {
		// Wasted: e.g. a denied castling reported back with from==to.
		// movePiece assumes from != to and would otherwise delete the king.
		return MoveResult{Move: Move{From: move.From, To: move.From}, Capture: NoCapture}
	}

	b.castling = b.castling.Clear(kingSide | queenSide)
	capture := b.movePiece(move.From, move.To)
	return MoveResult{Move: move, Capture: capture}
}

func (b *Board) applyRookMove(move Move) MoveResult {
	color := b.At(move.From).Color
	mirroredFrom := mirroredRank(color, move.From.Rank)
	kingSide, queenSide := sideRights(color)

	if mirroredFrom == 0 {
		if move.From.File == 7 {
			b.castling = b.castling.Clear(kingSide)
		} else if move.From.File == 0 {
			b.castling = b.castling.Clear(queenSide)
		}
	}
	return b.applyLinearMove(move.From, move.To, true)
}

func (b *Board) applyKnightMove(move Move) MoveResult {
	capture := b.movePiece(move.From, move.To)
	return MoveResult{Move: move, Capture: capture}
}

// applyLinearMove slides from `from` toward `to` along their shared
// direction vector, stopping at the first occupied square. If that square
// holds an opponent piece and allowCapture is set, it becomes the landing
// square; otherwise the slide lands just short of it. This is what turns an
// overshot or blocked slide into a short move or a wasted one (From==To).
func (b *Board) applyLinearMove(from, to Position, allowCapture bool) MoveResult {
	color := b.At(from).Color
	dRank := sign(to.Rank - from.Rank)
	dFile := sign(to.File - from.File)

	rank, file := from.Rank, from.File
	for rank != to.Rank || file != to.File {
		occ := b.occupation(rank+dRank, file+dFile)
		if occ == color {
			break
		}
		if occ == color.Opponent() {
			if allowCapture {
				rank += dRank
				file += dFile
			}
			break
		}
		rank += dRank
		file += dFile
	}

	landed := NewPosition(rank, file)
	if landed == from {
		// Blocked on the very first step: wasted, board untouched. movePiece
		// assumes from != to and would otherwise delete the piece in place.
		return MoveResult{Move: Move{From: from, To: from}, Capture: NoCapture}
	}
	capture := b.movePiece(from, landed)
	return MoveResult{Move: Move{From: from, To: landed}, Capture: capture}
}

// DoRandomMove plays a uniformly random pseudo-legal move for color,
// re-drawing the source piece whenever it happens to have no moves.
func (b *Board) DoRandomMove(color Color, rng *rand.Rand) MoveResult {
	positions := b.FindColor(color)
	if len(positions) == 0 {
		panic("no pieces to move for " + color.String())
	}
	for {
		from := positions[rng.Intn(len(positions))]
		moves := b.movesForPiece(from.Rank, from.File)
		if len(moves) == 0 {
			continue
		}
		return b.ApplyMove(moves[rng.Intn(len(moves))])
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func (b *Board) String() string {
	s := ""
	for r := 7; r >= 0; r-- {
		for f := 0; f < 8; f++ {
			p := b.squares[r][f]
			if p.IsEmpty() {
				s += "."
			} else {
				s += p.String()
			}
		}
		s += "\n"
	}
	return s
}
