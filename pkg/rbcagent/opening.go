package rbcagent

import "github.com/ochess/rbcagent/pkg/rbc"

// Step is one entry of a scripted opening: a move to play, and the piece we
// expect to still find on its from-square before playing it. The opening is
// abandoned permanently the first time the expectation is violated.
type Step struct {
	Move         rbc.Move
	ExpectedFrom rbc.Piece
}

// whiteOpening is the fixed line spec.md section 8 scenario S2 requires
// verbatim: pawn to e4, then the bishop jump to b5-equivalent square (4,1).
var whiteOpening = []Step{
	{
		Move:         rbc.Move{From: rbc.NewPosition(1, 4), To: rbc.NewPosition(3, 4)},
		ExpectedFrom: rbc.Piece{Color: rbc.White, Type: rbc.Pawn},
	},
	{
		Move:         rbc.Move{From: rbc.NewPosition(0, 5), To: rbc.NewPosition(4, 1)},
		ExpectedFrom: rbc.Piece{Color: rbc.White, Type: rbc.Bishop},
	},
}

// blackOpening mirrors the white line across the board, a standard
// symmetric development that original_source's surviving files did not
// specify verbatim.
var blackOpening = []Step{
	{
		Move:         rbc.Move{From: rbc.NewPosition(6, 4), To: rbc.NewPosition(4, 4)},
		ExpectedFrom: rbc.Piece{Color: rbc.Black, Type: rbc.Pawn},
	},
	{
		Move:         rbc.Move{From: rbc.NewPosition(7, 5), To: rbc.NewPosition(3, 1)},
		ExpectedFrom: rbc.Piece{Color: rbc.Black, Type: rbc.Bishop},
	},
}

func openingFor(color rbc.Color) []Step {
	if color == rbc.White {
		return whiteOpening
	}
	return blackOpening
}
