package planner

import "fmt"

// kRolloutDepth is the rollout depth at full budget (secondsLeft == TotalSeconds),
// scaled down as the turn clock runs low. Unspecified numerically upstream;
// chosen small because each depth unit here is a full our-move/opponent-move
// ply pair over an already-expensive particle-filtered belief.
const kRolloutDepth = 4

// baseIterations is the simulate() call count at full budget, per spec
// section 4C's "iteration count as 1000·(1−f²))".
const baseIterations = 1000

// Budget turns a turn's seconds_left into a rollout depth and iteration
// count, the way the teacher's searchctl.TimeControl turns a clock into a
// soft/hard search deadline.
type Budget struct {
	// TotalSeconds is the assumed total per-game budget (default 600s).
	TotalSeconds float64
	// RolloutDepth is the depth used when secondsLeft == TotalSeconds.
	RolloutDepth int
}

// DefaultBudget matches spec section 4C's stated default of a 600s budget.
var DefaultBudget = Budget{TotalSeconds: 600, RolloutDepth: kRolloutDepth}

// Scale computes (depth, iterations) from the fraction of the budget spent
// so far: f = (total - secondsLeft) / total, depth = RolloutDepth·(1−f²),
// iterations = 1000·(1−f²).
func (b Budget) Scale(secondsLeft float64) (depth, iterations int) {
	f := (b.TotalSeconds - secondsLeft) / b.TotalSeconds
	factor := 1 - f*f
	if factor < 0 {
		factor = 0
	}
	if factor > 1 {
		factor = 1
	}
	return int(float64(b.RolloutDepth) * factor), int(float64(baseIterations) * factor)
}

func (b Budget) String() string {
	return fmt.Sprintf("{total=%.0fs, rolloutDepth=%v}", b.TotalSeconds, b.RolloutDepth)
}
