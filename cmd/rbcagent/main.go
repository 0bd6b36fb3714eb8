// Command rbcagent runs a local self-play smoke test: an rbcagent.Agent
// playing White against an opponent that replays uniformly random moves
// (rbc.Board.DoRandomMove). It opens no sockets and speaks no wire
// protocol -- the outer match driver that does is out of scope (see
// SPEC_FULL.md section 4E).
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/ochess/rbcagent/pkg/planner"
	"github.com/ochess/rbcagent/pkg/rbc"
	"github.com/ochess/rbcagent/pkg/rbcagent"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
)

var version = build.NewVersion(0, 1, 0)

var (
	particles        = flag.Int("particles", 5_000, "Maintained belief particle count")
	rolloutParticles = flag.Int("rollout-particles", 100, "Planner subsample size per choose_move call")
	budgetSeconds    = flag.Float64("budget-seconds", 600, "Assumed total per-game planning budget in seconds")
	noise            = flag.Int64("noise", 1, "RNG seed for the agent and the random opponent")
	plies            = flag.Int("plies", 20, "Number of our-move/opponent-move ply pairs to play")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: rbcagent [options]

RBCAGENT runs a local self-play smoke test of the RBC belief + planner
against a uniformly-random opponent. It is not a tournament driver.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	logw.Infof(ctx, "rbcagent %v: particles=%v rollout=%v budget=%.0fs", version, *particles, *rolloutParticles, *budgetSeconds)

	a := rbcagent.New(
		rbcagent.WithParticles(*particles),
		rbcagent.WithRolloutParticles(*rolloutParticles),
		rbcagent.WithBudget(planner.Budget{TotalSeconds: *budgetSeconds, RolloutDepth: 4}),
		rbcagent.WithSeed(*noise),
	)
	a.HandleGameStart(ctx, rbc.White)

	board := rbc.InitialBoard()
	opponentRNG := rand.New(rand.NewSource(*noise + 1))

	for ply := 0; ply < *plies; ply++ {
		center := a.ChooseSense(ctx, nil, nil, *budgetSeconds-float64(ply))
		a.HandleSenseResult(ctx, senseAt(&board, center))

		move, err := a.ChooseMove(ctx, *budgetSeconds-float64(ply))
		if err != nil {
			logw.Exitf(ctx, "choose move failed at ply %v: %v", ply, err)
		}
		result := board.ApplyMove(move)
		a.HandleMoveResult(ctx, result.Move, result.Capture)
		logw.Infof(ctx, "ply %v: we sense %v, play %v", ply, center, result)

		if result.Capture.Piece.Type == rbc.King {
			logw.Infof(ctx, "we captured the enemy king, game over")
			break
		}

		oppResult := board.DoRandomMove(rbc.Black, opponentRNG)
		a.HandleOpponentMoveResult(ctx, !oppResult.Capture.IsNone(), oppResult.Capture.Position)
		logw.Infof(ctx, "ply %v: opponent plays %v", ply, oppResult)

		if oppResult.Capture.Piece.Type == rbc.King {
			logw.Infof(ctx, "the enemy captured our king, game over")
			break
		}
	}

	a.HandleGameEnd(ctx, rbc.Empty, "smoke test complete")
}

// senseAt reads the true board's 3x3 window centered on center, the way an
// outer match driver would translate a server's sense response into an
// Observation for HandleSenseResult.
func senseAt(board *rbc.Board, center rbc.Position) rbc.Observation {
	origin := rbc.NewPosition(center.Rank-1, center.File-1)
	obs := rbc.Observation{Origin: origin}
	for dr := 0; dr < 3; dr++ {
		for df := 0; df < 3; df++ {
			obs.Window[dr][df] = board.Piece(origin.Rank+dr, origin.File+df)
		}
	}
	return obs
}
