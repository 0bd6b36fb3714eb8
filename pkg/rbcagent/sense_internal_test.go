package rbcagent

import (
	"context"
	"testing"

	"github.com/ochess/rbcagent/pkg/belief"
	"github.com/ochess/rbcagent/pkg/rbc"
	"github.com/stretchr/testify/assert"
)

// TestChooseSensePrefersAmbiguousSquare exercises scenario S3 from spec.md
// section 8 (sense selection under ambiguity): two equally likely particles
// disagreeing at exactly one square make every window covering that square
// equally entropic, so the result depends on the row-major tie-break. The
// disagreement is placed at (0,0), the one square covered by a single
// origin in [0,5]x[0,5], so the maximizing window -- and the returned
// center -- is unambiguous. This needs direct access to the unexported
// belief field to construct the disagreement, hence the internal test.
func TestChooseSensePrefersAmbiguousSquare(t *testing.T) {
	ctx := context.Background()
	a := New(WithSeed(3))

	d := belief.Reinitialize(rbc.InitialBoard(), rbc.Black, 2)
	d.Particle(1).Set(0, 0, rbc.NoPiece)

	a.ours = rbc.Black
	a.belief = d
	a.haveBelief = true

	center := a.ChooseSense(ctx, nil, nil, 600)
	assert.Equal(t, rbc.NewPosition(1, 1), center)
}
