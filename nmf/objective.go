// SPDX-License-Identifier: MIT
package nmf

import (
	"gonum.org/v1/gonum/mat"
)

// LogLikelihood returns half the weighted sum of squared residuals,
// ½·Σ W·(Y − A·S)². With Uniform weights this is ½‖Y − A·S‖_F².
// No side effects; inputs are not mutated.
func LogLikelihood(a, s, y *mat.Dense, w Weights) float64 {
	var r mat.Dense
	r.Mul(a, s)
	r.Sub(&r, y)

	sum := 0.0
	if w.IsUniform() {
		for _, v := range r.RawMatrix().Data {
			sum += v * v
		}
	} else {
		// Stride-aware walk: the weight matrix may be a view.
		wm := w.Matrix().RawMatrix()
		rm := r.RawMatrix()
		for i := 0; i < rm.Rows; i++ {
			for j := 0; j < rm.Cols; j++ {
				v := rm.Data[i*rm.Stride+j]
				sum += wm.Data[i*wm.Stride+j] * v * v
			}
		}
	}

	return sum / 2
}

// GradLikelihood returns the objective's partial gradients (∂/∂A, ∂/∂S).
// The weighted residual D = W·(A·S − Y) is computed once and reused for
// both partials: ∂/∂A = D·Sᵀ, ∂/∂S = Aᵀ·D.
func GradLikelihood(a, s, y *mat.Dense, w Weights) (ga, gs *mat.Dense) {
	var d mat.Dense
	d.Mul(a, s)
	d.Sub(&d, y)
	if !w.IsUniform() {
		d.MulElem(&d, w.Matrix())
	}

	ga = &mat.Dense{}
	gs = &mat.Dense{}
	ga.Mul(&d, s.T())
	gs.Mul(a.T(), &d)

	return ga, gs
}
