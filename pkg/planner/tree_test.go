package planner_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/ochess/rbcagent/pkg/belief"
	"github.com/ochess/rbcagent/pkg/planner"
	"github.com/ochess/rbcagent/pkg/rbc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRand() *rand.Rand {
	return rand.New(rand.NewSource(11))
}

func TestNewOurNodeEnumeratesOwnMoves(t *testing.T) {
	d := belief.Reinitialize(rbc.InitialBoard(), rbc.White, 8)
	rng := newTestRand()

	root := planner.NewOurNode(d, rbc.White, rng)
	assert.Len(t, root.Entries, len(rbc.InitialBoard().PseudoLegalMoves(rbc.White)))
	for _, e := range root.Entries {
		assert.True(t, e.Move.From.IsValid())
		assert.Equal(t, 2, e.Count)
	}
}

func TestSimulateUpdatesVisitCounts(t *testing.T) {
	d := belief.Reinitialize(rbc.InitialBoard(), rbc.White, 8)
	rng := newTestRand()

	root := planner.NewOurNode(d, rbc.White, rng)
	for i := 0; i < 20; i++ {
		root.Simulate(2, rng)
	}
	assert.Equal(t, 20, root.Count)

	total := 0
	for _, e := range root.Entries {
		total += e.Count - 2 // Count starts seeded at 2 per spec
	}
	assert.Greater(t, total, 0)
}

func TestPlanReturnsOwnColorMove(t *testing.T) {
	d := belief.Reinitialize(rbc.InitialBoard(), rbc.White, 16)
	rng := newTestRand()

	move, err := planner.Plan(context.Background(), d, rbc.White, planner.Budget{TotalSeconds: 600, RolloutDepth: 1}, 600, rng)
	require.NoError(t, err)

	b := rbc.InitialBoard()
	assert.Equal(t, rbc.White, b.Piece(move.From.Rank, move.From.File).Color)
}

// TestPlanCapturesIsolatedEnemyKing is property 11 from spec.md section 8:
// given a belief where every particle places the enemy king on a single
// square our queen directly threatens, choose_move must return the
// king-capturing move -- the winWeight term dominates every entry's reward
// from the very first iteration, so this holds even at the smallest budget.
func TestPlanCapturesIsolatedEnemyKing(t *testing.T) {
	b := rbc.NewBoard()
	b.Set(0, 3, rbc.Piece{Color: rbc.White, Type: rbc.Queen})
	b.Set(0, 0, rbc.Piece{Color: rbc.White, Type: rbc.King})
	b.Set(7, 3, rbc.Piece{Color: rbc.Black, Type: rbc.King})

	d := belief.Reinitialize(b, rbc.White, 8)
	rng := newTestRand()

	move, err := planner.Plan(context.Background(), d, rbc.White, planner.Budget{TotalSeconds: 600, RolloutDepth: 1}, 600, rng)
	require.NoError(t, err)
	assert.Equal(t, rbc.Move{From: rbc.NewPosition(0, 3), To: rbc.NewPosition(7, 3)}, move)
}

// TestPlanTrivialCapture is scenario S1 from spec.md section 8: with pawns
// removed and an open file, the back-rank rook directly threatening the
// enemy rook on the far rank must be preferred over quieter moves.
func TestPlanTrivialCapture(t *testing.T) {
	b := rbc.NewBoard()
	b.Set(0, 0, rbc.Piece{Color: rbc.White, Type: rbc.Rook})
	b.Set(0, 4, rbc.Piece{Color: rbc.White, Type: rbc.King})
	b.Set(7, 0, rbc.Piece{Color: rbc.Black, Type: rbc.Rook})
	b.Set(7, 4, rbc.Piece{Color: rbc.Black, Type: rbc.King})

	d := belief.Reinitialize(b, rbc.White, 8)
	rng := newTestRand()

	move, err := planner.Plan(context.Background(), d, rbc.White, planner.Budget{TotalSeconds: 600, RolloutDepth: 1}, 600, rng)
	require.NoError(t, err)
	assert.Equal(t, 0, move.From.Rank)
	assert.Equal(t, rbc.NewPosition(0, 0), move.From)
	assert.Equal(t, rbc.NewPosition(7, 0), move.To)
}
