package planner

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/ochess/rbcagent/pkg/belief"
	"github.com/ochess/rbcagent/pkg/rbc"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// Plan runs budget.Scale(secondsLeft) simulate() iterations from a fresh
// root OurNode built over d, then returns the move of the entry with the
// best backed-up value -- not the UCB-selected one, per spec section 4C's
// "return the move of the entry with the best value (not UCB)".
func Plan(ctx context.Context, d belief.StateDistribution, ours rbc.Color, budget Budget, secondsLeft float64, rng *rand.Rand) (rbc.Move, error) {
	root := NewOurNode(d, ours, rng)
	if len(root.Entries) == 0 {
		return rbc.Move{}, fmt.Errorf("planner: no pseudo-legal moves available")
	}

	depth, iterations := budget.Scale(secondsLeft)
	for i := 0; i < iterations; i++ {
		if contextx.IsCancelled(ctx) {
			break
		}
		root.Simulate(depth, rng)
	}

	best := root.Entries[0]
	for _, e := range root.Entries[1:] {
		if e.Value > best.Value {
			best = e
		}
	}
	return best.Move, nil
}
