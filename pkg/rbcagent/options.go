package rbcagent

import (
	"fmt"

	"github.com/ochess/rbcagent/pkg/planner"
)

// Options are agent creation options, mirroring the teacher's
// engine.Options shape: a plain value with a String() for logging.
type Options struct {
	// Particles is the maintained belief size N. spec section 3 names
	// 10^6 as the reference size; defaultOptions uses a much smaller
	// default suited to a CPU-bound single-process agent.
	Particles int
	// RolloutParticles is the subsample size handed to the planner per
	// choose_move call (default 100, per spec section 3).
	RolloutParticles int
	// Budget scales seconds_left into planner (depth, iterations).
	Budget planner.Budget
	// Seed seeds the agent's injected RNG. Zero uses a fixed default seed,
	// not a time-based one, so runs are reproducible.
	Seed int64
	// StrictInvariants enables a CheckValid() call after every belief
	// mutation, exiting the process via logw.Exitf on violation. Off in
	// production, on in tests --
	// the teacher's search/transposition_test.go pattern of enabling extra
	// checks only under test.
	StrictInvariants bool
}

func (o Options) String() string {
	return fmt.Sprintf("{particles=%v, rolloutParticles=%v, budget=%v, seed=%v, strict=%v}",
		o.Particles, o.RolloutParticles, o.Budget, o.Seed, o.StrictInvariants)
}

func defaultOptions() Options {
	return Options{
		Particles:        10_000,
		RolloutParticles: 100,
		Budget:           planner.DefaultBudget,
		Seed:             1,
		StrictInvariants: false,
	}
}

// Option is an agent creation option.
type Option func(*Options)

// WithParticles overrides the maintained belief size.
func WithParticles(n int) Option {
	return func(o *Options) { o.Particles = n }
}

// WithRolloutParticles overrides the planner subsample size.
func WithRolloutParticles(n int) Option {
	return func(o *Options) { o.RolloutParticles = n }
}

// WithBudget overrides the planner's time-to-(depth,iterations) schedule.
func WithBudget(b planner.Budget) Option {
	return func(o *Options) { o.Budget = b }
}

// WithSeed overrides the injected RNG seed.
func WithSeed(seed int64) Option {
	return func(o *Options) { o.Seed = seed }
}

// WithStrictInvariants enables post-mutation CheckValid assertions.
func WithStrictInvariants(strict bool) Option {
	return func(o *Options) { o.StrictInvariants = strict }
}
