// Package rbcagent glues the belief and planner packages to the per-turn
// callback sequence an outer match driver invokes: game_start,
// opponent_move_result, choose_sense, sense_result, choose_move,
// move_result, game_end.
package rbcagent

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/ochess/rbcagent/pkg/belief"
	"github.com/ochess/rbcagent/pkg/planner"
	"github.com/ochess/rbcagent/pkg/rbc"
	"github.com/seekerror/logw"
)

// Agent is the per-game driver: it owns the belief and the opening-script
// position, and is not safe for concurrent turn callbacks (callbacks arrive
// in the canonical per-turn sequence; the mutex guards against accidental
// concurrent use, not intended concurrent use).
type Agent struct {
	opts Options
	rng  *rand.Rand

	mu          sync.Mutex
	ours        rbc.Color
	belief      belief.StateDistribution
	openingStep int // index into openingFor(ours); -1 once abandoned
	lastChosen  rbc.Move
	haveBelief  bool
}

// New creates an Agent. The belief is not initialized until HandleGameStart.
func New(opts ...Option) *Agent {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return &Agent{
		opts: o,
		rng:  rand.New(rand.NewSource(o.Seed)),
	}
}

// Options returns the agent's creation options.
func (a *Agent) Options() Options {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.opts
}

// HandleGameStart records our color and reinitializes the belief to the
// standard starting position, per spec section 4D.
func (a *Agent) HandleGameStart(ctx context.Context, ours rbc.Color) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.ours = ours
	a.openingStep = 0
	a.belief = belief.Reinitialize(rbc.InitialBoard(), ours, a.opts.Particles)
	a.haveBelief = true
	logw.Infof(ctx, "game start: color=%v, opts=%v", ours, a.opts)
}

// HandleOpponentMoveResult is the prior-step update for the opponent's
// hidden move: a capture of our piece teleports an enemy piece onto the
// capture square; otherwise a random opponent move is assumed and particles
// that would have produced an (unreported) capture are rejected.
func (a *Agent) HandleOpponentMoveResult(ctx context.Context, captured bool, captureSquare rbc.Position) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.requireBelief()
	a.belief = a.belief.HandleOpponentMoveResult(ctx, captured, captureSquare, a.ours.Opponent(), a.rng)
	a.assertValid(ctx)
}

// ChooseSense returns the center of the 3x3 window with the largest total
// entropy, breaking ties by row-major scan order (smaller rank, then
// smaller file). possibleSense and possibleMoves are accepted for interface
// parity with spec section 6 but are informational only -- selection is
// entropy-driven, not filtered by them.
func (a *Agent) ChooseSense(ctx context.Context, possibleSense []rbc.Position, possibleMoves []rbc.Move, secondsLeft float64) rbc.Position {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.requireBelief()
	entropy := a.belief.Entropy()

	best := rbc.NewPosition(0, 0)
	bestScore := -1.0
	for rank := 0; rank <= 5; rank++ {
		for file := 0; file <= 5; file++ {
			origin := rbc.NewPosition(rank, file)
			score := windowEntropy(entropy, origin)
			if score > bestScore {
				bestScore = score
				best = origin
			}
		}
	}
	center := rbc.NewPosition(best.Rank+1, best.File+1)
	logw.Debugf(ctx, "choose sense: origin=%v center=%v entropy=%.3f", best, center, bestScore)
	return center
}

func windowEntropy(entropy [8][8]float64, origin rbc.Position) float64 {
	total := 0.0
	for dr := 0; dr < 3; dr++ {
		for df := 0; df < 3; df++ {
			total += entropy[origin.Rank+dr][origin.File+df]
		}
	}
	return total
}

// HandleSenseResult repairs the belief against the observed 3x3 window.
func (a *Agent) HandleSenseResult(ctx context.Context, obs rbc.Observation) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.requireBelief()
	a.belief = a.belief.Observe(ctx, obs, a.rng)
	a.assertValid(ctx)
}

// ChooseMove plays the scripted opening while it remains valid against
// particle 0, falling back permanently to the POMCP planner once the first
// step's expectation is violated.
func (a *Agent) ChooseMove(ctx context.Context, secondsLeft float64) (rbc.Move, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.requireBelief()

	if a.openingStep >= 0 {
		steps := openingFor(a.ours)
		if a.openingStep < len(steps) {
			step := steps[a.openingStep]
			if a.belief.Particle(0).At(step.Move.From) == step.ExpectedFrom {
				a.lastChosen = step.Move
				logw.Infof(ctx, "choose move: scripted step %d: %v", a.openingStep, step.Move)
				return step.Move, nil
			}
		}
		a.openingStep = -1
	}

	sub := a.belief.Subsample(a.opts.RolloutParticles, a.rng)
	move, err := planner.Plan(ctx, sub, a.ours, a.opts.Budget, secondsLeft, a.rng)
	if err != nil {
		return rbc.Move{}, fmt.Errorf("choose move: %w", err)
	}
	a.lastChosen = move
	logw.Infof(ctx, "choose move: planner: %v", move)
	return move, nil
}

// HandleMoveResult repairs the belief against the actual outcome of our
// move, per spec section 4B item 3. taken is the move that actually
// happened (taken.From == taken.To signals a wasted move); if it diverges
// from what ChooseMove last returned, the scripted opening is abandoned.
func (a *Agent) HandleMoveResult(ctx context.Context, taken rbc.Move, capture rbc.Capture) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.requireBelief()
	if a.openingStep >= 0 && !taken.Equals(a.lastChosen) {
		logw.Infof(ctx, "choose move: actual move %v diverged from requested %v, abandoning opening", taken, a.lastChosen)
		a.openingStep = -1
	} else if a.openingStep >= 0 {
		a.openingStep++
	}

	a.belief = a.belief.HandleMoveResult(ctx, taken, capture, a.ours, a.rng)
	a.assertValid(ctx)
}

// HandleGameEnd is a no-op for the core, per spec section 4D: resignation
// policy and match bookkeeping belong to the outer driver.
func (a *Agent) HandleGameEnd(ctx context.Context, winner rbc.Color, reason string) {
	logw.Infof(ctx, "game end: winner=%v reason=%v", winner, reason)
}

func (a *Agent) requireBelief() {
	if !a.haveBelief {
		panic("rbcagent: callback invoked before HandleGameStart")
	}
}

func (a *Agent) assertValid(ctx context.Context) {
	if !a.opts.StrictInvariants {
		return
	}
	if err := a.belief.CheckValid(); err != nil {
		logw.Exitf(ctx, "belief invariant violated: %v", err)
	}
}
