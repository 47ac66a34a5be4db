// SPDX-License-Identifier: MIT
package operators

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Prox is an in-place proximal operator: it maps the entries of x to the
// nearest feasible (or penalized) point at the given proximal scale.
//
// Contract:
//   - x is mutated in place; the shape never changes.
//   - step > 0 is the proximal scale supplied by the solver. Projections
//     must give the same result for every positive step.
type Prox func(x *mat.Dense, step float64)

// Identity leaves x untouched. It is the "no constraint" operator.
func Identity(_ *mat.Dense, _ float64) {}

// Plus projects onto the non-negative orthant: x_ij ← max(x_ij, 0).
func Plus(x *mat.Dense, _ float64) {
	raw := x.RawMatrix().Data
	for i, v := range raw {
		if v < 0 {
			raw[i] = 0
		}
	}
}

// Min returns the projection enforcing x_ij ≥ thresh.
func Min(thresh float64) Prox {
	return func(x *mat.Dense, _ float64) {
		raw := x.RawMatrix().Data
		for i, v := range raw {
			if v < thresh {
				raw[i] = thresh
			}
		}
	}
}

// Max returns the projection enforcing x_ij ≤ thresh.
func Max(thresh float64) Prox {
	return func(x *mat.Dense, _ float64) {
		raw := x.RawMatrix().Data
		for i, v := range raw {
			if v > thresh {
				raw[i] = thresh
			}
		}
	}
}

// Soft returns the soft-thresholding operator for the L1 penalty λ‖x‖₁:
// x_ij ← sign(x_ij)·max(|x_ij| − λ·step, 0).
func Soft(lambda float64) Prox {
	return func(x *mat.Dense, step float64) {
		t := lambda * step
		raw := x.RawMatrix().Data
		for i, v := range raw {
			switch {
			case v > t:
				raw[i] = v - t
			case v < -t:
				raw[i] = v + t
			default:
				raw[i] = 0
			}
		}
	}
}

// SoftPlus returns soft thresholding followed by the non-negativity
// projection: x_ij ← max(x_ij − λ·step, 0).
func SoftPlus(lambda float64) Prox {
	return func(x *mat.Dense, step float64) {
		t := lambda * step
		raw := x.RawMatrix().Data
		for i, v := range raw {
			if v > t {
				raw[i] = v - t
			} else {
				raw[i] = 0
			}
		}
	}
}

// Hard returns the hard-thresholding operator: entries with
// |x_ij| < λ·step are zeroed, the rest are kept verbatim.
func Hard(lambda float64) Prox {
	return func(x *mat.Dense, step float64) {
		t := lambda * step
		raw := x.RawMatrix().Data
		for i, v := range raw {
			if math.Abs(v) < t {
				raw[i] = 0
			}
		}
	}
}

// UnityRows rescales every row of x to unit sum. Rows whose sum is zero are
// left untouched (there is no meaningful direction to normalize along).
func UnityRows(x *mat.Dense, _ float64) {
	r, c := x.Dims()
	raw := x.RawMatrix()
	for i := 0; i < r; i++ {
		row := raw.Data[i*raw.Stride : i*raw.Stride+c]
		sum := 0.0
		for _, v := range row {
			sum += v
		}
		if sum == 0 {
			continue
		}
		inv := 1 / sum
		for j := range row {
			row[j] *= inv
		}
	}
}
