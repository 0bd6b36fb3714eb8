package belief

import (
	"context"
	"math"
	"math/rand"

	"github.com/ochess/rbcagent/pkg/rbc"
)

// Observe repairs the distribution against a sense observation: every kept
// particle is coerced to literally match the observed window on enemy
// squares (our own squares already match, by invariant), resampled with
// replacement up to N particles. If coercion cannot converge within
// maxResampleAttempts rounds, it falls back to degenerate-belief recovery.
func (d *StateDistribution) Observe(ctx context.Context, obs rbc.Observation, rng *rand.Rand) StateDistribution {
	n := len(d.particles)
	out := make([]rbc.Board, 0, n)

	attempts := 0
	for len(out) < n {
		if attempts >= maxResampleAttempts*n {
			observed := map[rbc.Position]rbc.Piece{}
			for _, pos := range obs.Positions() {
				observed[pos] = obs.At(pos)
			}
			return recover(ctx, observed, d.Sample(rng), d.ours, n, rng)
		}
		attempts++

		candidate := *d.Sample(rng)
		if coerceObservation(&candidate, obs, d.ours, rng) {
			out = append(out, candidate)
		}
	}
	return StateDistribution{particles: out, ours: d.ours}
}

// coerceObservation mutates b in place to agree with obs on every enemy
// square in the window, per spec section 4B's coercion rules, returning
// whether the result literally matches the observation afterward.
func coerceObservation(b *rbc.Board, obs rbc.Observation, ours rbc.Color, rng *rand.Rand) bool {
	enemy := ours.Opponent()
	for _, pos := range obs.Positions() {
		want := obs.At(pos)
		have := b.At(pos)
		if want == have {
			continue
		}
		if have.Color == ours || want.Color == ours {
			// Our own squares must already match; a disagreement here means
			// the particle is inconsistent with the invariant and cannot be
			// coerced -- reject it rather than touch our own placement.
			return false
		}

		if have.Color == enemy {
			relocatePhantom(b, pos, rng)
		}
		if want.Color == enemy {
			installEnemy(b, pos, want.Type, enemy, rng)
		}
	}

	for _, pos := range obs.Positions() {
		if b.At(pos) != obs.At(pos) {
			return false
		}
	}
	return true
}

// relocatePhantom moves the enemy piece at pos to a random empty square
// elsewhere on the board, used when the observation says a square the
// particle believes occupied is actually empty.
func relocatePhantom(b *rbc.Board, pos rbc.Position, rng *rand.Rand) {
	piece := b.At(pos)
	b.SetAt(pos, rbc.NoPiece)

	var empties []rbc.Position
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			p := rbc.NewPosition(r, f)
			if p != pos && b.At(p).IsEmpty() {
				empties = append(empties, p)
			}
		}
	}
	if len(empties) == 0 {
		return
	}
	b.SetAt(empties[rng.Intn(len(empties))], piece)
}

// installEnemy places a piece of the given type at pos, drawn from the
// particle's existing enemy pieces of that type. Bishops respect square
// color parity. If no donor of that type exists, an arbitrary enemy piece
// is retyped in place, simulating an unmodeled promotion.
func installEnemy(b *rbc.Board, pos rbc.Position, t rbc.PieceType, enemy rbc.Color, rng *rand.Rand) {
	var donors []rbc.Position
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			p := rbc.NewPosition(r, f)
			if p == pos {
				continue
			}
			piece := b.At(p)
			if piece.Color != enemy || piece.Type != t {
				continue
			}
			if t == rbc.Bishop && p.SquareColor() != pos.SquareColor() {
				continue
			}
			donors = append(donors, p)
		}
	}
	if len(donors) > 0 {
		donor := donors[rng.Intn(len(donors))]
		b.SetAt(donor, rbc.NoPiece)
		b.SetAt(pos, rbc.Piece{Color: enemy, Type: t})
		return
	}

	var any []rbc.Position
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			p := rbc.NewPosition(r, f)
			if p == pos {
				continue
			}
			if b.At(p).Color == enemy {
				any = append(any, p)
			}
		}
	}
	if len(any) == 0 {
		b.SetAt(pos, rbc.Piece{Color: enemy, Type: t})
		return
	}
	donor := any[rng.Intn(len(any))]
	b.SetAt(donor, rbc.NoPiece)
	b.SetAt(pos, rbc.Piece{Color: enemy, Type: t})
}

// HandleMoveResult repairs the distribution after our own attempted move.
// For each particle, a captured enemy piece we were told about is
// synthesized at the capture square if missing, the move is replayed from
// its from-square, and the particle is kept only if it actually supports
// the move we received (its MoveResult.Move.To matches taken.To).
func (d *StateDistribution) HandleMoveResult(ctx context.Context, taken rbc.Move, capture rbc.Capture, ours rbc.Color, rng *rand.Rand) StateDistribution {
	n := len(d.particles)
	out := make([]rbc.Board, 0, n)

	attempts := 0
	for len(out) < n {
		if attempts >= maxResampleAttempts*n {
			observed := map[rbc.Position]rbc.Piece{}
			if !capture.IsNone() {
				observed[capture.Position] = capture.Piece
			}
			return recover(ctx, observed, d.Sample(rng), ours, n, rng)
		}
		attempts++

		candidate := *d.Sample(rng)
		if !capture.IsNone() && candidate.At(capture.Position) != capture.Piece {
			installEnemy(&candidate, capture.Position, capture.Piece.Type, ours.Opponent(), rng)
		}
		result := candidate.ApplyMove(taken)
		if result.Move.To == taken.To {
			out = append(out, candidate)
		}
	}
	return StateDistribution{particles: out, ours: d.ours}
}

// HandleOpponentMoveResult is the prior-step update after the opponent's
// hidden move. If we were captured, a random enemy piece teleports onto
// the capture square in every particle. Otherwise, a random opponent move
// is played on each particle, keeping only those whose move produced no
// capture (since we would have been told about one).
func (d *StateDistribution) HandleOpponentMoveResult(ctx context.Context, captured bool, captureSquare rbc.Position, opponent rbc.Color, rng *rand.Rand) StateDistribution {
	n := len(d.particles)
	out := make([]rbc.Board, 0, n)

	if captured {
		for i := 0; i < n; i++ {
			candidate := d.particles[i]
			positions := candidate.FindColor(opponent)
			if len(positions) > 0 {
				from := positions[rng.Intn(len(positions))]
				piece := candidate.At(from)
				candidate.SetAt(from, rbc.NoPiece)
				candidate.SetAt(captureSquare, piece)
			}
			out = append(out, candidate)
		}
		return StateDistribution{particles: out, ours: d.ours}
	}

	attempts := 0
	for len(out) < n {
		if attempts >= maxResampleAttempts*n {
			return recover(ctx, nil, d.Sample(rng), d.ours, n, rng)
		}
		attempts++

		candidate := *d.Sample(rng)
		result := candidate.DoRandomMove(opponent, rng)
		if result.Capture.IsNone() {
			out = append(out, candidate)
		}
	}
	return StateDistribution{particles: out, ours: d.ours}
}

// Entropy computes per-square Shannon entropy (in bits) over enemy piece
// type, including "no piece" as one of the seven possible states, across
// every particle. Squares Ours occupies contribute zero, since they carry
// no uncertainty.
func (d *StateDistribution) Entropy() [8][8]float64 {
	var out [8][8]float64
	enemy := d.ours.Opponent()

	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			if d.particles[0].Piece(r, f).Color == d.ours {
				continue
			}
			out[r][f] = squareEntropy(d, r, f, enemy)
		}
	}
	return out
}

func squareEntropy(d *StateDistribution, rank, file int, enemy rbc.Color) float64 {
	counts := map[rbc.PieceType]int{}
	for i := range d.particles {
		p := d.particles[i].Piece(rank, file)
		if p.Color == enemy {
			counts[p.Type]++
		} else {
			counts[rbc.NoPieceType]++
		}
	}

	n := float64(len(d.particles))
	entropy := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		entropy -= p * math.Log2(p)
	}
	return entropy
}
