// SPDX-License-Identifier: MIT
package solver

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/proxnmf/operators"
)

// PGM minimizes a smooth objective over the blocks x by proximal gradient
// descent: per block, a gradient step at the (optionally Nesterov-
// extrapolated) point followed by the block's direct projection. Blocks are
// mutated in place; the final values are left in the caller's matrices.
//
// Inputs:
//   - x:    variable blocks, caller-owned, updated in place.
//   - grad: all block gradients in one evaluation (see Gradient).
//   - step: per-block step sizes; must satisfy step ≤ 1/L per block for the
//     descent guarantee. Wrapped in the slack-banded cache when
//     opts.Slack > 0.
//   - prox: one direct projection per block; nil entries mean no constraint.
//
// Steps:
//  1. Validate blocks, projection list, options.
//  2. Per iteration: momentum update t_{k+1} = (1+√(1+4t_k²))/2,
//     ω = (t_k−1)/t_{k+1} (ω = 0 when not accelerated or on the first pass).
//  3. Per block j: extrapolate Z = X_j + ω(X_j − X_j^prev), evaluate the
//     gradient at the blocks with Z substituted, then
//     X_j ← prox_j(Z − step_j·∇_j, step_j).
//  4. Converged when ‖X_j − Z_j‖_F ≤ EpsRel·‖X_j‖_F for every block: the
//     residual of the prox-gradient map, which vanishes exactly at its
//     fixed points. A converged block therefore stays put (up to EpsRel)
//     when the solve is re-run from it, momentum restart included.
//
// Errors:
//   - ErrNoBlocks / ErrBlockMismatch / ErrBadOptions / ErrBadSlack on
//     configuration problems, before the first iteration.
//   - Stepper, Gradient and Callback errors abort the solve and propagate
//     unchanged. Reaching MaxIter is NOT an error (Result.Converged=false).
//
// Complexity: O(MaxIter · (cost(grad) + cost(step) + Σ block sizes)).
func PGM(x []*mat.Dense, grad Gradient, step Stepper, prox []operators.Prox, o *PGMOptions) (*Result, error) {
	// 1) Validate configuration.
	if err := validateBlocks(x); err != nil {
		return nil, err
	}
	if len(prox) != len(x) {
		return nil, ErrBlockMismatch
	}
	opts := DefaultPGMOptions()
	if o != nil {
		opts = *o
	}
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	n := len(x)
	proj := make([]operators.Prox, n)
	for j := range prox {
		proj[j] = prox[j]
		if proj[j] == nil {
			proj[j] = operators.Identity
		}
	}

	// Previous iterates: seed with the initial values so that the first
	// extrapolation (ω=0) is a plain gradient step.
	prev := make([]*mat.Dense, n)
	for j := range x {
		prev[j] = mat.DenseCopyOf(x[j])
	}

	cache := newStepCache(step, opts.Slack)
	res := &Result{Converged: make([]bool, n), Error: make([]*mat.Dense, n)}

	t := 1.0
	for it := 0; it < opts.MaxIter; it++ {
		steps, err := cache.get(x)
		if err != nil {
			return nil, err
		}

		// 2) Momentum sequence.
		tNext := t
		omega := 0.0
		if opts.Accelerated {
			tNext = (1 + math.Sqrt(1+4*t*t)) / 2
			omega = (t - 1) / tNext
		}

		// 3) Sequential block updates.
		allOK := true
		for j := 0; j < n; j++ {
			// Blocks may differ in shape; scratch is per block.
			var z, g mat.Dense

			// Z = X_j + ω(X_j − X_j^prev)
			z.Sub(x[j], prev[j])
			z.Scale(omega, &z)
			z.Add(x[j], &z)

			prev[j].Copy(x[j])

			// Gradient at the blocks with the extrapolated point in slot j.
			x[j].Copy(&z)
			grads, gerr := grad(x)
			if gerr != nil {
				return nil, gerr
			}

			// X_j = prox_j(Z − step_j·∇_j, step_j)
			g.Scale(steps[j], grads[j])
			x[j].Sub(&z, &g)
			proj[j](x[j], steps[j])

			// 4) Stationarity test: the update maps Z to X_j, so the
			// residual X_j − Z vanishes exactly at fixed points of the
			// prox-gradient map.
			var r mat.Dense
			r.Sub(x[j], &z)
			ok := mat.Norm(&r, 2) <= opts.EpsRel*mat.Norm(x[j], 2)
			res.Converged[j] = ok
			allOK = allOK && ok

			var d mat.Dense
			d.Sub(x[j], prev[j])
			res.Error[j] = &d
		}
		res.Iterations = it + 1

		if opts.Callback != nil {
			if cberr := opts.Callback(x, it); cberr != nil {
				return nil, cberr
			}
		}

		t = tNext
		if allOK {
			break
		}
	}

	return res, nil
}

// validateBlocks rejects empty block lists and nil blocks.
func validateBlocks(x []*mat.Dense) error {
	if len(x) == 0 {
		return ErrNoBlocks
	}
	for _, xj := range x {
		if xj == nil {
			return ErrNoBlocks
		}
	}

	return nil
}
