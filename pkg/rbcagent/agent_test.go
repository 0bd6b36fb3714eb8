package rbcagent_test

import (
	"context"
	"testing"

	"github.com/ochess/rbcagent/pkg/planner"
	"github.com/ochess/rbcagent/pkg/rbc"
	"github.com/ochess/rbcagent/pkg/rbcagent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAgent() *rbcagent.Agent {
	return rbcagent.New(
		rbcagent.WithParticles(32),
		rbcagent.WithRolloutParticles(8),
		rbcagent.WithBudget(planner.Budget{TotalSeconds: 600, RolloutDepth: 1}),
		rbcagent.WithSeed(42),
		rbcagent.WithStrictInvariants(true),
	)
}

// TestScriptedOpening is scenario S2 from spec.md section 8.
func TestScriptedOpening(t *testing.T) {
	ctx := context.Background()
	a := newTestAgent()
	a.HandleGameStart(ctx, rbc.White)

	first, err := a.ChooseMove(ctx, 600)
	require.NoError(t, err)
	assert.Equal(t, rbc.Move{From: rbc.NewPosition(1, 4), To: rbc.NewPosition(3, 4)}, first)

	a.HandleMoveResult(ctx, first, rbc.NoCapture)

	second, err := a.ChooseMove(ctx, 599)
	require.NoError(t, err)
	assert.Equal(t, rbc.Move{From: rbc.NewPosition(0, 5), To: rbc.NewPosition(4, 1)}, second)
}

func TestOpeningAbandonedOnDivergence(t *testing.T) {
	ctx := context.Background()
	a := newTestAgent()
	a.HandleGameStart(ctx, rbc.White)

	requested := rbc.Move{From: rbc.NewPosition(1, 4), To: rbc.NewPosition(3, 4)}
	actual := rbc.Move{From: rbc.NewPosition(1, 4), To: rbc.NewPosition(1, 4)} // wasted

	_, err := a.ChooseMove(ctx, 600)
	require.NoError(t, err)
	a.HandleMoveResult(ctx, actual, rbc.NoCapture)

	// The opening is now abandoned; the next move comes from the planner,
	// which is not constrained to the scripted bishop jump.
	move, err := a.ChooseMove(ctx, 599)
	require.NoError(t, err)
	assert.NotEqual(t, rbc.Move{From: rbc.NewPosition(0, 5), To: rbc.NewPosition(4, 1)}, move)
	_ = requested
}

func TestChooseMoveReturnsOwnColorMove(t *testing.T) {
	ctx := context.Background()
	a := newTestAgent()
	a.HandleGameStart(ctx, rbc.Black)

	// Drain the scripted opening so we exercise the planner path.
	b := rbc.InitialBoard()
	for i := 0; i < 3; i++ {
		move, err := a.ChooseMove(ctx, 600)
		require.NoError(t, err)
		assert.Equal(t, rbc.Black, b.At(move.From).Color)
		b.ApplyMove(move)
		a.HandleMoveResult(ctx, move, rbc.NoCapture)
	}
}

func TestChooseSenseReturnsOnBoardCenter(t *testing.T) {
	ctx := context.Background()
	a := newTestAgent()
	a.HandleGameStart(ctx, rbc.White)

	center := a.ChooseSense(ctx, nil, nil, 600)
	assert.True(t, center.IsValid())
	assert.GreaterOrEqual(t, center.Rank, 1)
	assert.LessOrEqual(t, center.Rank, 6)
}
