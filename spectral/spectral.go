// SPDX-License-Identifier: MIT
package spectral

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNonConvergence indicates the power iteration did not stabilize
	// within Options.MaxIter. Callers must treat the estimate as unusable;
	// no fallback value is returned.
	ErrNonConvergence = errors.New("spectral: power iteration did not converge")

	// ErrZeroOperator indicates the iterate collapsed to numerical zero,
	// i.e. the operator annihilates the start vector.
	ErrZeroOperator = errors.New("spectral: operator maps start vector to zero")

	// ErrBadOptions indicates a non-positive tolerance or iteration limit.
	ErrBadOptions = errors.New("spectral: invalid options")
)

// Operator is a symmetric positive semi-definite linear operator applied
// matrix-free. Apply must write op·src into dst and may not modify src.
type Operator interface {
	// Dim returns the dimension of the (square) operator.
	Dim() int
	// Apply computes dst = op·src. dst is pre-sized to Dim().
	Apply(dst, src *mat.VecDense)
}

// Options configures the power iteration.
//   - Tol:     relative stabilization tolerance of the Rayleigh quotient.
//   - MaxIter: hard iteration bound; exceeding it is ErrNonConvergence.
type Options struct {
	Tol     float64
	MaxIter int
}

// DefaultOptions returns the package defaults (Tol=1e-9, MaxIter=1000).
func DefaultOptions() Options {
	return Options{Tol: 1e-9, MaxIter: 1000}
}

// normalize fills zero fields with defaults and validates the rest.
func (o *Options) normalize() error {
	def := DefaultOptions()
	if o.Tol == 0 {
		o.Tol = def.Tol
	}
	if o.MaxIter == 0 {
		o.MaxIter = def.MaxIter
	}
	if o.Tol < 0 || o.MaxIter < 0 {
		return ErrBadOptions
	}

	return nil
}

// denseOp adapts a symmetric mat.Matrix to Operator.
type denseOp struct {
	m mat.Matrix
}

func (d denseOp) Dim() int {
	r, _ := d.m.Dims()

	return r
}

func (d denseOp) Apply(dst, src *mat.VecDense) {
	dst.MulVec(d.m, src)
}

// Dense wraps a symmetric matrix as an Operator. The caller is responsible
// for symmetry; MaxEigenvalue assumes it.
func Dense(m mat.Matrix) Operator {
	return denseOp{m: m}
}

// gramOp applies v ↦ Mᵀ(M·v) without forming MᵀM.
type gramOp struct {
	m   mat.Matrix
	tmp *mat.VecDense // scratch in M's codomain, reused across Apply calls
}

func (g *gramOp) Dim() int {
	_, c := g.m.Dims()

	return c
}

func (g *gramOp) Apply(dst, src *mat.VecDense) {
	g.tmp.MulVec(g.m, src)
	dst.MulVec(g.m.T(), g.tmp)
}

// Gram returns the Operator for MᵀM, applied matrix-free. Its largest
// eigenvalue is the squared top singular value of M.
func Gram(m mat.Matrix) Operator {
	r, _ := m.Dims()

	return &gramOp{m: m, tmp: mat.NewVecDense(r, nil)}
}

// MaxEigenvalue estimates the largest eigenvalue of the symmetric PSD
// operator op by power iteration. Only the scalar is computed; no
// eigenvectors are retained.
//
// Steps:
//  1. Build a deterministic, non-axis-aligned unit start vector.
//  2. Iterate w ← op·v; read the Rayleigh quotient λ = vᵀw (‖v‖=1).
//  3. Stop once λ stabilizes to within Tol relative change.
//  4. Renormalize v ← w/‖w‖ and repeat, up to MaxIter.
//
// Errors:
//   - ErrZeroOperator   — ‖op·v‖ underflows to zero (v in the null space).
//   - ErrNonConvergence — MaxIter exhausted before stabilization.
//
// Complexity: O(MaxIter · cost(Apply)) time, O(Dim) extra memory.
func MaxEigenvalue(op Operator, o *Options) (float64, error) {
	// 1) Normalize options.
	opts := DefaultOptions()
	if o != nil {
		opts = *o
	}
	if err := opts.normalize(); err != nil {
		return 0, err
	}

	n := op.Dim()
	v := mat.NewVecDense(n, nil)
	w := mat.NewVecDense(n, nil)

	// 2) Deterministic start vector with decaying entries: never a single
	// coordinate axis, identical across runs for identical inputs.
	raw := v.RawVector().Data
	for i := range raw {
		raw[i] = 1 + 1/float64(i+2)
	}
	v.ScaleVec(1/floats.Norm(raw, 2), v)

	// 3) Power iteration on the Rayleigh quotient.
	lam := math.NaN()
	for it := 0; it < opts.MaxIter; it++ {
		op.Apply(w, v)

		next := mat.Dot(v, w)
		nrm := floats.Norm(w.RawVector().Data, 2)
		if nrm == 0 {
			return 0, ErrZeroOperator
		}

		if !math.IsNaN(lam) && math.Abs(next-lam) <= opts.Tol*math.Max(1, math.Abs(next)) {
			return next, nil
		}
		lam = next
		v.ScaleVec(1/nrm, w)
	}

	return 0, ErrNonConvergence
}

// SpectralNorm returns the top singular value of m, computed as the square
// root of the largest eigenvalue of MᵀM. Errors are those of MaxEigenvalue.
func SpectralNorm(m mat.Matrix, o *Options) (float64, error) {
	lam, err := MaxEigenvalue(Gram(m), o)
	if err != nil {
		return 0, err
	}
	if lam < 0 {
		// Floating-point noise around zero for (near-)zero matrices.
		lam = 0
	}

	return math.Sqrt(lam), nil
}
