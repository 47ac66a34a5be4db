// Package spectral estimates extremal eigenvalues and spectral norms by
// matrix-free power iteration.
//
// 🚀 Why a dedicated package?
//
//	Proximal-gradient solvers need step sizes of the form 1/L where L is a
//	Lipschitz constant — a largest eigenvalue of a symmetric positive
//	semi-definite curvature operator. Only that single scalar is needed:
//	no eigenvectors, no full decomposition, and for weighted problems the
//	operator is far cheaper to apply than to materialize.
//
// ✨ Key features:
//   - Operator interface — anything that can apply itself to a vector
//   - MaxEigenvalue — power iteration for the single largest eigenvalue
//   - SpectralNorm — top singular value via the Gram operator
//   - Deterministic start vector: identical inputs give identical results
//   - Honest failure — ErrNonConvergence propagates, never a fallback value
//
// ⚙️ Usage:
//
//	norm, err := spectral.SpectralNorm(m, nil)
//	lam, err := spectral.MaxEigenvalue(spectral.Gram(m), nil)
//
// Complexity: O(MaxIter · cost(Apply)); for a dense r×c matrix one Apply of
// Gram costs O(r·c).
package spectral
