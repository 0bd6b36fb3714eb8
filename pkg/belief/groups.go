package belief

import (
	"math/rand"

	"github.com/ochess/rbcagent/pkg/rbc"
)

// Group is one equivalence class produced by Update or UpdateRandom: a
// weighted categorical outcome paired with the sub-distribution of
// particles that produced it, for the planner to recurse into.
type Group struct {
	Move         rbc.Move
	Capture      rbc.Capture
	Weight       float64
	Distribution StateDistribution
}

// Update applies move to every particle and groups the results by the
// actual move taken (MoveResult.Move), since a blocked or overshot slide
// can turn the same requested move into different outcomes across
// particles. Each returned Group carries the sub-distribution of particles
// that produced it and its weight as a fraction of the whole.
func (d *StateDistribution) Update(move rbc.Move) []Group {
	type bucket struct {
		capture   rbc.Capture
		particles []rbc.Board
	}
	buckets := map[rbc.Move]*bucket{}
	var order []rbc.Move

	for _, p := range d.particles {
		clone := p
		result := clone.ApplyMove(move)
		b, ok := buckets[result.Move]
		if !ok {
			b = &bucket{capture: result.Capture}
			buckets[result.Move] = b
			order = append(order, result.Move)
		}
		b.particles = append(b.particles, clone)
	}

	total := float64(len(d.particles))
	groups := make([]Group, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		groups = append(groups, Group{
			Move:         key,
			Capture:      b.capture,
			Weight:       float64(len(b.particles)) / total,
			Distribution: StateDistribution{particles: b.particles, ours: d.ours},
		})
	}
	return groups
}

// UpdateRandom plays a uniformly random opponent move on every particle and
// groups the results by the resulting capture, since the planner only
// observes whether (and what) the opponent captured, never the move
// itself.
func (d *StateDistribution) UpdateRandom(opponent rbc.Color, rng *rand.Rand) []Group {
	type bucket struct {
		particles []rbc.Board
	}
	buckets := map[rbc.Capture]*bucket{}
	var order []rbc.Capture

	for _, p := range d.particles {
		clone := p
		result := clone.DoRandomMove(opponent, rng)
		b, ok := buckets[result.Capture]
		if !ok {
			b = &bucket{}
			buckets[result.Capture] = b
			order = append(order, result.Capture)
		}
		b.particles = append(b.particles, clone)
	}

	total := float64(len(d.particles))
	groups := make([]Group, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		groups = append(groups, Group{
			Capture:      key,
			Weight:       float64(len(b.particles)) / total,
			Distribution: StateDistribution{particles: b.particles, ours: d.ours},
		})
	}
	return groups
}
