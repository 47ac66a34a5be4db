// SPDX-License-Identifier: MIT
// Package nmf: weights, options and sentinel errors. Validation is
// fail-fast: every configuration error surfaces before the first iteration
// and matches a sentinel via errors.Is.
package nmf

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/proxnmf/operators"
	"github.com/katalvlaran/proxnmf/solver"
)

var (
	// ErrNilMatrix is returned when Y, A or S is nil.
	ErrNilMatrix = errors.New("nmf: nil matrix argument")

	// ErrDimensionMismatch is returned when Y (M×N), A (M×K), S (K×N) do
	// not conform.
	ErrDimensionMismatch = errors.New("nmf: Y/A/S dimension mismatch")

	// ErrBadWeights is returned when a per-entry weight matrix does not
	// match Y's shape or carries a negative entry.
	ErrBadWeights = errors.New("nmf: invalid weight matrix")

	// ErrConstraintLen is returned when the per-block ProxsG/StepsG/Ls
	// lists disagree in length.
	ErrConstraintLen = errors.New("nmf: constraint list length mismatch")
)

// Weights is the tagged weighting of the squared residual: either Uniform
// (all weights one, fast path) or PerEntry (dense non-negative M×N matrix,
// slow path). The zero value is Uniform.
type Weights struct {
	perEntry *mat.Dense
}

// Uniform returns the all-ones weighting. Solvers take the cheap dense
// spectral-norm path for it.
func Uniform() Weights {
	return Weights{}
}

// PerEntry returns an element-wise weighting. w must conform to Y and be
// non-negative; both are validated at NMF entry.
func PerEntry(w *mat.Dense) Weights {
	return Weights{perEntry: w}
}

// IsUniform reports whether the weighting is the all-ones fast path.
func (w Weights) IsUniform() bool {
	return w.perEntry == nil
}

// Matrix returns the per-entry weight matrix, or nil for Uniform.
func (w Weights) Matrix() *mat.Dense {
	return w.perEntry
}

// validate checks shape conformance with Y and element-wise non-negativity.
func (w Weights) validate(y *mat.Dense) error {
	if w.perEntry == nil {
		return nil
	}
	yr, yc := y.Dims()
	wr, wc := w.perEntry.Dims()
	if wr != yr || wc != yc {
		return ErrBadWeights
	}
	for i := 0; i < wr; i++ {
		for j := 0; j < wc; j++ {
			if w.perEntry.At(i, j) < 0 {
				return ErrBadWeights
			}
		}
	}

	return nil
}

// Options configures NMF.
//
// Constraint configuration follows the per-block parallel-list layout:
// index 0 addresses the amplitude block A, index 1 the source block S.
// Within a block, ProxsG, StepsG and Ls are parallel (where non-nil) and
// their lengths must agree.
//
//   - Weights:    Uniform() or PerEntry(W). Default Uniform.
//   - ProxA/S:    direct projections for A and S. Default operators.Plus.
//   - ProxsG:     auxiliary constraints per block; empty means pure PGM.
//   - StepsG:     optional fixed constraint steps (experts only); 0 entries
//     derive from the step policy.
//   - Ls:         optional linear operators per constraint; nil = identity.
//   - StepPolicy: how constraint steps track the primal steps (BSDMM path).
//   - Slack:      Lipschitz-cache tolerance in [0,1). Default 0.9.
//   - MaxIter:    iteration bound. Default 1000.
//   - EpsRel:     relative convergence threshold. Default 1e-3.
//   - EpsAbs:     absolute convergence threshold (BSDMM path). Default 0.
//   - Callback:   optional per-iteration observer; an error aborts.
type Options struct {
	Weights    Weights
	ProxA      operators.Prox
	ProxS      operators.Prox
	ProxsG     [2][]operators.Prox
	StepsG     [2][]float64
	Ls         [2][]mat.Matrix
	StepPolicy solver.StepPolicy
	Slack      float64
	MaxIter    int
	EpsRel     float64
	EpsAbs     float64
	Callback   solver.Callback
}

// DefaultOptions returns the package defaults: unweighted, non-negativity
// projections on both blocks, no auxiliary constraints, tracked constraint
// steps, Slack 0.9, 1000 iterations, EpsRel 1e-3, EpsAbs 0.
func DefaultOptions() Options {
	return Options{
		Weights:    Uniform(),
		ProxA:      operators.Plus,
		ProxS:      operators.Plus,
		StepPolicy: solver.StepsTrack,
		Slack:      defaultSlack,
		MaxIter:    defaultMaxIter,
		EpsRel:     defaultEpsRel,
	}
}

// normalize fills zero fields with defaults. Slack is range-checked at the
// NMF entry point; the remaining ranges are validated by the engines.
func (o *Options) normalize() {
	if o.ProxA == nil {
		o.ProxA = operators.Plus
	}
	if o.ProxS == nil {
		o.ProxS = operators.Plus
	}
	if o.MaxIter == 0 {
		o.MaxIter = defaultMaxIter
	}
	if o.EpsRel == 0 {
		o.EpsRel = defaultEpsRel
	}
}

// hasConstraints reports whether any block carries a non-nil auxiliary
// constraint — the PGM/BSDMM dispatch criterion.
func (o *Options) hasConstraints() bool {
	for _, block := range o.ProxsG {
		for _, p := range block {
			if p != nil {
				return true
			}
		}
	}

	return false
}

// validateConstraintLists enforces the parallel-list invariant per block.
func (o *Options) validateConstraintLists() error {
	for b := 0; b < 2; b++ {
		n := len(o.ProxsG[b])
		if o.StepsG[b] != nil && len(o.StepsG[b]) != n {
			return ErrConstraintLen
		}
		if o.Ls[b] != nil && len(o.Ls[b]) != n {
			return ErrConstraintLen
		}
	}

	return nil
}

const (
	defaultMaxIter = 1000
	defaultEpsRel  = 1e-3
	defaultSlack   = 0.9
)
