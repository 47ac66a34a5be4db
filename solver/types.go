// SPDX-License-Identifier: MIT
// Package solver: shared types, options and sentinel errors for the PGM and
// BSDMM engines. All engine entry points validate against these sentinels
// first; tests match them via errors.Is.
package solver

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/proxnmf/operators"
)

var (
	// ErrNoBlocks is returned when the block list is empty or contains nil.
	ErrNoBlocks = errors.New("solver: no variable blocks supplied")

	// ErrBlockMismatch is returned when a per-block argument (prox list,
	// constraint list) disagrees in length with the block list.
	ErrBlockMismatch = errors.New("solver: per-block argument length mismatch")

	// ErrBadStepPolicy is returned for StepPolicy values outside the
	// declared enum. This is a configuration error, surfaced before the
	// first iteration.
	ErrBadStepPolicy = errors.New("solver: unsupported step policy")

	// ErrBadSlack is returned when Slack is outside [0, 1).
	ErrBadSlack = errors.New("solver: slack must lie in [0, 1)")

	// ErrOperatorShape is returned when a constraint's linear operator does
	// not conform to its block's shape.
	ErrOperatorShape = errors.New("solver: linear operator shape mismatch")

	// ErrBadOptions is returned for invalid tolerances or iteration budgets.
	ErrBadOptions = errors.New("solver: invalid options")
)

// Gradient evaluates the smooth objective's gradient for every block at the
// supplied block values. The returned slice is indexed like x.
type Gradient func(x []*mat.Dense) ([]*mat.Dense, error)

// Stepper returns a valid (≤ 1/Lipschitz) step size per block for the
// current block values. A Stepper may be expensive; engines wrap it in a
// slack-banded cache (see Options.Slack).
type Stepper func(x []*mat.Dense) ([]float64, error)

// Callback observes one iteration: the current block values and the
// iteration index. It must not mutate the blocks. A non-nil error aborts
// the solve and propagates to the caller unchanged.
type Callback func(x []*mat.Dense, it int) error

// ProxF is the data-fidelity proximal map used by BSDMM: it replaces block
// xj (in place) with prox of the smooth objective at scale step, given the
// full block list xs and the block index j.
type ProxF func(xj *mat.Dense, step float64, xs []*mat.Dense, j int) error

// StepF returns the data-fidelity step size for block j of xs.
type StepF func(xs []*mat.Dense, j int) (float64, error)

// Constraint is one (proximal operator, optional fixed step, optional
// linear operator) triple attached to a block in the BSDMM engine.
//   - Step == 0 means "derive from the step policy".
//   - L == nil means the identity operator.
type Constraint struct {
	Prox operators.Prox
	Step float64
	L    mat.Matrix
}

// StepPolicy selects how constraint step sizes track the data-fidelity
// step size in BSDMM.
type StepPolicy int

const (
	// StepsTrack re-derives every constraint step as step_f·‖L‖² whenever
	// the data-fidelity step is re-evaluated. Default.
	StepsTrack StepPolicy = iota

	// StepsFixed keeps the caller-supplied Constraint.Step values verbatim.
	// Constraints with a zero Step still fall back to step_f·‖L‖² once.
	StepsFixed
)

// valid reports whether p is a declared policy value.
func (p StepPolicy) valid() bool {
	return p == StepsTrack || p == StepsFixed
}

// Result reports the outcome of a solve.
//   - Converged: per-block convergence indicator. False means the block had
//     not stabilized when MaxIter was reached — that is not an error.
//   - Error: per-block difference between the final and penultimate
//     iterate, for callers assessing how settled the solution is.
//   - Iterations: number of iterations actually performed.
type Result struct {
	Converged  []bool
	Error      []*mat.Dense
	Iterations int
}

// PGMOptions configures the PGM engine.
//   - Accelerated: enable Nesterov extrapolation.
//   - MaxIter:     iteration bound (default 1000).
//   - EpsRel:      relative threshold on the per-block prox-gradient
//     residual (default 1e-3).
//   - Slack:       step-cache drift band in [0,1); 0 disables caching.
//   - Callback:    optional per-iteration observer.
type PGMOptions struct {
	Accelerated bool
	MaxIter     int
	EpsRel      float64
	Slack       float64
	Callback    Callback
}

// DefaultPGMOptions returns the PGM defaults (accelerated, 1000 iterations,
// EpsRel 1e-3, no step caching, no callback).
func DefaultPGMOptions() PGMOptions {
	return PGMOptions{Accelerated: true, MaxIter: defaultMaxIter, EpsRel: defaultEpsRel}
}

// normalize fills zero fields with defaults and validates the rest.
func (o *PGMOptions) normalize() error {
	if o.MaxIter == 0 {
		o.MaxIter = defaultMaxIter
	}
	if o.EpsRel == 0 {
		o.EpsRel = defaultEpsRel
	}
	if o.MaxIter < 0 || o.EpsRel < 0 {
		return ErrBadOptions
	}
	if o.Slack < 0 || o.Slack >= 1 {
		return ErrBadSlack
	}

	return nil
}

// BSDMMOptions configures the BSDMM engine.
//   - StepPolicy: how constraint steps track step_f (default StepsTrack).
//   - Slack:      step-cache drift band in [0,1); also shrinks the served
//     steps conservatively. 0 disables caching; DefaultBSDMMOptions uses 0.9.
//   - MaxIter:    iteration bound (default 1000).
//   - EpsRel:     relative residual threshold (default 1e-3).
//   - EpsAbs:     absolute residual threshold (default 0).
//   - Callback:   optional per-iteration observer.
type BSDMMOptions struct {
	StepPolicy StepPolicy
	Slack      float64
	MaxIter    int
	EpsRel     float64
	EpsAbs     float64
	Callback   Callback
}

// DefaultBSDMMOptions returns the BSDMM defaults.
func DefaultBSDMMOptions() BSDMMOptions {
	return BSDMMOptions{StepPolicy: StepsTrack, Slack: defaultSlack, MaxIter: defaultMaxIter, EpsRel: defaultEpsRel}
}

// normalize fills zero fields with defaults and validates the rest.
func (o *BSDMMOptions) normalize() error {
	if o.MaxIter == 0 {
		o.MaxIter = defaultMaxIter
	}
	if o.EpsRel == 0 {
		o.EpsRel = defaultEpsRel
	}
	if !o.StepPolicy.valid() {
		return ErrBadStepPolicy
	}
	if o.MaxIter < 0 || o.EpsRel < 0 || o.EpsAbs < 0 {
		return ErrBadOptions
	}
	if o.Slack < 0 || o.Slack >= 1 {
		return ErrBadSlack
	}

	return nil
}

const (
	defaultMaxIter = 1000
	defaultEpsRel  = 1e-3
	defaultSlack   = 0.9
)
