// Package belief maintains a particle-filter approximation of
// P(true board | observation history): a fixed-size set of candidate boards
// ("particles") that is repaired, never discarded, whenever the agent's own
// move or sense produces new information. Every exported operation keeps
// the invariant that all particles agree on the squares our own color
// occupies -- only enemy placement varies across particles.
package belief

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/seekerror/logw"
	"github.com/ochess/rbcagent/pkg/rbc"
)

// DefaultSize is the maintained particle count, per spec section 4B.
const DefaultSize = 1_000_000

// maxResampleAttempts bounds the repair loop's resampling before the
// distribution falls back to the degenerate-belief recovery path: a
// pathological observation could otherwise make coercion fail forever.
const maxResampleAttempts = 50

// StateDistribution is an ordered collection of particles, all agreeing on
// the squares Ours occupies. The zero value is not usable; construct with
// Reinitialize.
type StateDistribution struct {
	particles []rbc.Board
	ours      rbc.Color
}

// Reinitialize replaces every particle with a copy of board. Called at game
// start, and by the degenerate-belief recovery path.
func Reinitialize(board rbc.Board, ours rbc.Color, n int) StateDistribution {
	particles := make([]rbc.Board, n)
	for i := range particles {
		particles[i] = board
	}
	return StateDistribution{particles: particles, ours: ours}
}

// Len returns the particle count.
func (d *StateDistribution) Len() int {
	return len(d.particles)
}

// Particle returns a pointer to the i'th particle. Mutating it through the
// pointer mutates the distribution.
func (d *StateDistribution) Particle(i int) *rbc.Board {
	return &d.particles[i]
}

// Ours returns the color whose placement is held invariant across particles.
func (d *StateDistribution) Ours() rbc.Color {
	return d.ours
}

// Sample draws a uniformly random particle, satisfying rbceval.Particles.
func (d *StateDistribution) Sample(rng *rand.Rand) *rbc.Board {
	return &d.particles[rng.Intn(len(d.particles))]
}

// CheckValid reports whether every particle agrees with particle 0 on the
// squares Ours occupies -- the invariant spec section 4B requires every
// repair operation to preserve.
func (d *StateDistribution) CheckValid() error {
	if len(d.particles) == 0 {
		return fmt.Errorf("belief: empty distribution")
	}
	reference := &d.particles[0]
	for i := 1; i < len(d.particles); i++ {
		p := &d.particles[i]
		for r := 0; r < 8; r++ {
			for f := 0; f < 8; f++ {
				a, b := reference.Piece(r, f), p.Piece(r, f)
				if a.Color == d.ours || b.Color == d.ours {
					if a != b {
						return fmt.Errorf("belief: particle %d disagrees with particle 0 on our square (%d,%d)", i, r, f)
					}
				}
			}
		}
	}
	return nil
}

// Subsample draws k particles with replacement into a new distribution, for
// use as a POMCP tree node's local belief.
func (d *StateDistribution) Subsample(k int, rng *rand.Rand) StateDistribution {
	out := make([]rbc.Board, k)
	for i := range out {
		out[i] = *d.Sample(rng)
	}
	return StateDistribution{particles: out, ours: d.ours}
}

// recover implements spec_full section 4B.1: when a repair loop cannot
// accumulate enough particles, fall back to a best-guess board built from
// the observed squares (if any) plus uniformly placed remaining material,
// log it, and reinitialize from N copies. It never surfaces as an error.
func recover(ctx context.Context, observed map[rbc.Position]rbc.Piece, prior *rbc.Board, ours rbc.Color, n int, rng *rand.Rand) StateDistribution {
	logw.Errorf(ctx, "belief: repair failed to converge after %d attempts, recovering a best-guess board", maxResampleAttempts)

	guess := *prior
	for pos, piece := range observed {
		guess.SetAt(pos, piece)
	}

	// Scatter any remaining enemy pieces the prior believed in, onto empty
	// squares not already pinned by an observation, so the recovered board
	// still has plausible material counts rather than an empty half-board.
	enemy := ours.Opponent()
	var loose []rbc.Piece
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			p := prior.Piece(r, f)
			if p.Color == enemy {
				if _, pinned := observed[rbc.NewPosition(r, f)]; !pinned {
					loose = append(loose, p)
					guess.Set(r, f, rbc.NoPiece)
				}
			}
		}
	}
	var empties []rbc.Position
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			pos := rbc.NewPosition(r, f)
			if _, pinned := observed[pos]; pinned {
				continue
			}
			if guess.Piece(r, f).Color != ours {
				empties = append(empties, pos)
			}
		}
	}
	for _, p := range loose {
		if len(empties) == 0 {
			break
		}
		idx := rng.Intn(len(empties))
		guess.SetAt(empties[idx], p)
		empties = append(empties[:idx], empties[idx+1:]...)
	}

	return Reinitialize(guess, ours, n)
}
