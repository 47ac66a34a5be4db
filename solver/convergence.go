// SPDX-License-Identifier: MIT
// Package solver: convergence tests and slack-banded step caching shared by
// the PGM and BSDMM engines.
package solver

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// frobNorms returns the Frobenius norm of every block.
func frobNorms(x []*mat.Dense) []float64 {
	out := make([]float64, len(x))
	for j, xj := range x {
		out[j] = mat.Norm(xj, 2)
	}

	return out
}

// withinRel reports the per-block relative-change test
// ‖x − prev‖_F ≤ epsRel·‖x‖_F, and returns the difference matrix.
func withinRel(x, prev *mat.Dense, epsRel float64) (bool, *mat.Dense) {
	var d mat.Dense
	d.Sub(x, prev)

	return mat.Norm(&d, 2) <= epsRel*mat.Norm(x, 2), &d
}

// residualBound is the Boyd-style stopping threshold
// max(epsAbs·√n, epsRel·scale).
func residualBound(epsAbs, epsRel, scale float64, n int) float64 {
	return math.Max(epsAbs*math.Sqrt(float64(n)), epsRel*scale)
}

// stepCache reuses a Stepper's (possibly expensive) per-block step sizes
// while every block's Frobenius norm stays inside the [slack, 1/slack] band
// around its value at cache time. slack == 0 disables caching entirely.
type stepCache struct {
	stepper Stepper
	slack   float64
	steps   []float64
	norms   []float64
}

func newStepCache(stepper Stepper, slack float64) *stepCache {
	return &stepCache{stepper: stepper, slack: slack}
}

// get serves cached steps when the iterates are still inside the band,
// re-invoking the stepper otherwise.
func (c *stepCache) get(x []*mat.Dense) ([]float64, error) {
	if c.slack > 0 && c.steps != nil && bandOK(c.norms, x, c.slack) {
		return c.steps, nil
	}

	steps, err := c.stepper(x)
	if err != nil {
		return nil, err
	}
	c.steps = steps
	c.norms = frobNorms(x)

	return steps, nil
}

// stepFCache is the per-block analogue of stepCache for BSDMM's StepF. It
// additionally reports whether the served value was freshly re-evaluated,
// which the StepsTrack policy uses to re-derive constraint steps.
type stepFCache struct {
	stepF StepF
	slack float64
	step  []float64
	has   []bool
	norms [][]float64
}

func newStepFCache(stepF StepF, slack float64, blocks int) *stepFCache {
	return &stepFCache{
		stepF: stepF,
		slack: slack,
		step:  make([]float64, blocks),
		has:   make([]bool, blocks),
		norms: make([][]float64, blocks),
	}
}

// get returns the step for block j and whether it was re-evaluated. The
// band covers all block norms since a block's Lipschitz constant depends on
// the other blocks too.
func (c *stepFCache) get(xs []*mat.Dense, j int) (step float64, fresh bool, err error) {
	if c.slack > 0 && c.has[j] && bandOK(c.norms[j], xs, c.slack) {
		return c.step[j], false, nil
	}

	step, err = c.stepF(xs, j)
	if err != nil {
		return 0, false, err
	}
	c.step[j] = step
	c.has[j] = true
	c.norms[j] = frobNorms(xs)

	return step, true, nil
}

// bandOK reports whether every current block norm sits in the slack band
// around its recorded value.
func bandOK(recorded []float64, xs []*mat.Dense, slack float64) bool {
	for j, xj := range xs {
		n := mat.Norm(xj, 2)
		cached := recorded[j]
		if cached == 0 || n == 0 {
			if n != cached {
				return false
			}

			continue
		}
		if r := n / cached; r < slack || r > 1/slack {
			return false
		}
	}

	return true
}
