// SPDX-License-Identifier: MIT
package nmf

import (
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/proxnmf/spectral"
)

// StepA returns the amplitude-block step size 1/σ_max(S)²: the gradient
// w.r.t. A is Lipschitz with constant λ_max(S·Sᵀ) = σ_max(S)².
func StepA(_, s *mat.Dense) (float64, error) {
	nrm, err := spectral.SpectralNorm(s, nil)
	if err != nil {
		return 0, err
	}

	return 1 / (nrm * nrm), nil
}

// StepS returns the source-block step size 1/σ_max(A)², symmetric to StepA.
func StepS(a, _ *mat.Dense) (float64, error) {
	nrm, err := spectral.SpectralNorm(a, nil)
	if err != nil {
		return 0, err
	}

	return 1 / (nrm * nrm), nil
}

// Steps returns both block step sizes.
//
// Uniform weights take the fast path: two dense spectral-norm estimates.
// Per-entry weights couple rows and columns, so the Lipschitz constants are
// the top eigenvalues of the weighted curvature operators
//
//	H_A: X ↦ (W⊙(X·S))·Sᵀ  on R^{M×K}
//	H_S: X ↦ Aᵀ·(W⊙(A·X))  on R^{K×N}
//
// extracted by matrix-free power iteration (single largest eigenvalue, no
// eigenvectors). Both operators are symmetric positive semi-definite, so
// the eigenvalue is real by construction. A failed eigen-solve propagates:
// an arbitrary fallback step would void the descent guarantee.
func Steps(a, s *mat.Dense, w Weights) (stepA, stepS float64, err error) {
	if w.IsUniform() {
		if stepA, err = StepA(a, s); err != nil {
			return 0, 0, err
		}
		if stepS, err = StepS(a, s); err != nil {
			return 0, 0, err
		}

		return stepA, stepS, nil
	}

	m, _ := a.Dims()
	k, n := s.Dims()

	la, err := spectral.MaxEigenvalue(&ampCurvature{s: s, w: w.Matrix(), m: m, k: k}, nil)
	if err != nil {
		return 0, 0, err
	}
	ls, err := spectral.MaxEigenvalue(&srcCurvature{a: a, w: w.Matrix(), k: k, n: n}, nil)
	if err != nil {
		return 0, 0, err
	}

	return 1 / la, 1 / ls, nil
}

// ampCurvature is H_A acting on vec(X) for X ∈ R^{M×K}.
type ampCurvature struct {
	s, w *mat.Dense
	m, k int
}

func (op *ampCurvature) Dim() int {
	return op.m * op.k
}

func (op *ampCurvature) Apply(dst, src *mat.VecDense) {
	x := mat.NewDense(op.m, op.k, src.RawVector().Data)
	out := mat.NewDense(op.m, op.k, dst.RawVector().Data)

	var t mat.Dense
	t.Mul(x, op.s)
	t.MulElem(&t, op.w)
	out.Mul(&t, op.s.T())
}

// srcCurvature is H_S acting on vec(X) for X ∈ R^{K×N}.
type srcCurvature struct {
	a, w *mat.Dense
	k, n int
}

func (op *srcCurvature) Dim() int {
	return op.k * op.n
}

func (op *srcCurvature) Apply(dst, src *mat.VecDense) {
	x := mat.NewDense(op.k, op.n, src.RawVector().Data)
	out := mat.NewDense(op.k, op.n, dst.RawVector().Data)

	var t mat.Dense
	t.Mul(op.a, x)
	t.MulElem(&t, op.w)
	out.Mul(op.a.T(), &t)
}
