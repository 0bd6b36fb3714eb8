// Package rbceval contains the leaf evaluation used by the POMCP planner:
// a material-plus-advancement heuristic over sampled particles, and a tiny
// noise source used to break UCB ties deterministically given a seed.
package rbceval

import (
	"math/rand"

	"github.com/ochess/rbcagent/pkg/rbc"
)

// heuristicNormalizer is the divisor spec.md section 9 calls out as an
// unreferenced tunable in the reference implementation (the "188" constant).
// Kept as a named constant rather than inlined so a future re-tune is a
// one-line change.
const heuristicNormalizer = 188.0

// heuristicSamples is the number of particles the leaf heuristic averages
// over, per spec.md section 4C.
const heuristicSamples = 10

// NominalValue is the piece-value table from spec.md section 4C: Pawn 1,
// Minor (Knight/Bishop) and Rook 10, Queen 20, King 100.
func NominalValue(t rbc.PieceType) int {
	switch t {
	case rbc.Pawn:
		return 1
	case rbc.Knight, rbc.Bishop, rbc.Rook:
		return 10
	case rbc.Queen:
		return 20
	case rbc.King:
		return 100
	default:
		return 0
	}
}

// mirroredRank mirrors rank 0-7 for Black, the way a pawn's own advance is
// mirrored -- a piece's "mirrored rank" is how far it has advanced from its
// own back row, used by the heuristic to reward advancement symmetrically.
func mirroredRank(color rbc.Color, rank int) int {
	if color == rbc.White {
		return rank
	}
	return 7 - rank
}

func colorSign(color, ours rbc.Color) int {
	switch color {
	case ours:
		return 1
	case ours.Opponent():
		return -1
	default:
		return 0
	}
}

// Particles is the minimal view of a belief's particle set the heuristic
// needs: a way to draw a uniformly random board. pkg/belief.StateDistribution
// implements this.
type Particles interface {
	Sample(rng *rand.Rand) *rbc.Board
}

// MaterialAdvancement averages, over heuristicSamples sampled particles, the
// sum over every square of (piece value + mirrored rank) signed by which
// side owns the piece, normalized into roughly [-1, 1]. This is spec.md
// section 4C's leaf heuristic, used as the planner's Entry initialization
// bonus.
func MaterialAdvancement(particles Particles, ours rbc.Color, rng *rand.Rand) float64 {
	total := 0.0
	for s := 0; s < heuristicSamples; s++ {
		b := particles.Sample(rng)
		for i := 0; i < 8; i++ {
			for j := 0; j < 8; j++ {
				p := b.Piece(i, j)
				if p.IsEmpty() {
					continue
				}
				value := NominalValue(p.Type) + mirroredRank(p.Color, i)
				total += float64(value * colorSign(p.Color, ours))
			}
		}
	}
	return total / heuristicSamples / heuristicNormalizer
}

// Noise returns an injected, seedable source of the tiny perturbation
// spec.md section 9 requires at UCB-entry initialization time: a
// symmetry-breaker on the order of 1e-200, which must be deterministic
// given a seed to keep argmax reproducible across runs.
type Noise struct {
	rng *rand.Rand
}

// NewNoise returns a Noise source drawing from rng. rng is owned by the
// caller; Noise never reseeds or mutates global state.
func NewNoise(rng *rand.Rand) Noise {
	return Noise{rng: rng}
}

// Next returns a value uniformly drawn from roughly [-1e-200, 1e-200].
func (n Noise) Next() float64 {
	return (n.rng.Float64()*2 - 1) * 1e-200
}
