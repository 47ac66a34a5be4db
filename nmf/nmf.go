// SPDX-License-Identifier: MIT
package nmf

import (
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/proxnmf/operators"
	"github.com/katalvlaran/proxnmf/solver"
)

// NMF factorizes Y ≈ A·S under convex constraints, minimizing
// ½·Σ W·(Y − A·S)². A and S hold the caller's initial guesses, are mutated
// in place throughout the solve, and carry the final factors on return.
//
// Steps:
//  1. Validate shapes, weights, constraint lists and Slack (fail fast,
//     typed sentinels).
//  2. Bind the gradient to (Y, W): the resulting closure takes only the
//     current block pair.
//  3. No auxiliary constraints — accelerated PGM over blocks [A, S] with
//     the Steps estimator and the ProxA/ProxS direct projections.
//  4. Otherwise — fold gradient step + direct projection into one proximal
//     operator per block (prox_f), pair it with the per-block step_f, and
//     run BSDMM against the full constraint set.
//
// The returned Result carries a per-block convergence indicator and the
// difference between the final and penultimate iterate. Running out of
// MaxIter is not an error; configuration problems, a failed eigen-solve
// inside a step estimate and callback errors are.
func NMF(y, a, s *mat.Dense, o *Options) (*solver.Result, error) {
	// 1) Fail-fast validation.
	if y == nil || a == nil || s == nil {
		return nil, ErrNilMatrix
	}
	yr, yc := y.Dims()
	ar, ak := a.Dims()
	sk, sc := s.Dims()
	if ar != yr || sc != yc || ak != sk {
		return nil, ErrDimensionMismatch
	}

	opts := DefaultOptions()
	if o != nil {
		opts = *o
	}
	opts.normalize()
	if err := opts.Weights.validate(y); err != nil {
		return nil, err
	}
	if err := opts.validateConstraintLists(); err != nil {
		return nil, err
	}
	// Checked here once so every dispatch path rejects the same values.
	if opts.Slack < 0 || opts.Slack >= 1 {
		return nil, solver.ErrBadSlack
	}

	// 2) Gradient bound to (Y, W).
	w := opts.Weights
	grad := func(x []*mat.Dense) ([]*mat.Dense, error) {
		ga, gs := GradLikelihood(x[0], x[1], y, w)

		return []*mat.Dense{ga, gs}, nil
	}
	blocks := []*mat.Dense{a, s}

	// 3) Simple-constraint case: accelerated PGM.
	if !opts.hasConstraints() {
		return solver.PGM(blocks, grad, pgmStepper(w, opts.Slack), []operators.Prox{opts.ProxA, opts.ProxS}, &solver.PGMOptions{
			Accelerated: true,
			MaxIter:     opts.MaxIter,
			EpsRel:      opts.EpsRel,
			Slack:       pgmSlack(w, opts.Slack),
			Callback:    opts.Callback,
		})
	}

	// 4) Constrained case: BSDMM with the PGM step folded into prox_f.
	direct := []operators.Prox{opts.ProxA, opts.ProxS}
	proxF := func(xj *mat.Dense, step float64, xs []*mat.Dense, j int) error {
		// Gradients for the full pair are evaluated even though only block
		// j is used; the residual reuse keeps this one multiplication pair.
		grads, err := grad(xs)
		if err != nil {
			return err
		}

		var g mat.Dense
		g.Scale(step, grads[j])
		xj.Sub(xj, &g)
		direct[j](xj, step)

		return nil
	}
	stepF := func(xs []*mat.Dense, j int) (float64, error) {
		if j == 0 {
			return StepA(xs[0], xs[1])
		}

		return StepS(xs[0], xs[1])
	}

	return solver.BSDMM(blocks, proxF, stepF, zipConstraints(&opts), &solver.BSDMMOptions{
		StepPolicy: opts.StepPolicy,
		Slack:      opts.Slack,
		MaxIter:    opts.MaxIter,
		EpsRel:     opts.EpsRel,
		EpsAbs:     opts.EpsAbs,
		Callback:   opts.Callback,
	})
}

// pgmStepper builds the PGM block stepper. When the expensive weighted
// estimate is cached (slack > 0), the served steps are shrunk by slack so a
// stale cache entry cannot exceed the true 1/Lipschitz bound.
func pgmStepper(w Weights, slack float64) solver.Stepper {
	shrink := 1.0
	if !w.IsUniform() && slack > 0 {
		shrink = slack
	}

	return func(x []*mat.Dense) ([]float64, error) {
		sa, ss, err := Steps(x[0], x[1], w)
		if err != nil {
			return nil, err
		}

		return []float64{shrink * sa, shrink * ss}, nil
	}
}

// pgmSlack enables step caching only where it pays off: the weighted path,
// whose per-invocation eigen-solve dominates an iteration.
func pgmSlack(w Weights, slack float64) float64 {
	if w.IsUniform() {
		return 0
	}

	return slack
}

// zipConstraints converts the per-block parallel lists into the engine's
// constraint triples. Triples with a nil operator carry no constraint and
// are dropped.
func zipConstraints(o *Options) [][]solver.Constraint {
	cons := make([][]solver.Constraint, 2)
	for b := 0; b < 2; b++ {
		for i, p := range o.ProxsG[b] {
			if p == nil {
				continue
			}
			c := solver.Constraint{Prox: p}
			if o.StepsG[b] != nil {
				c.Step = o.StepsG[b][i]
			}
			if o.Ls[b] != nil {
				c.L = o.Ls[b][i]
			}
			cons[b] = append(cons[b], c)
		}
	}

	return cons
}
