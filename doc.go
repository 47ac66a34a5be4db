// Package proxnmf is your in-memory toolbox for regularized Non-negative
// Matrix Factorization by proximal splitting — from simple projected
// gradients to multi-constraint consensus ADMM.
//
// 🚀 What is proxnmf?
//
//	A small, focused library that factorizes a target matrix Y ≈ A·S
//	under arbitrary convex constraints, built on four packages:
//		• operators/ — proximal operators: non-negativity, box, soft/hard
//		  thresholding, row normalization
//		• spectral/  — matrix-free power iteration for spectral norms and
//		  extremal eigenvalues (Lipschitz bounds)
//		• solver/    — the generic engines: accelerated block proximal
//		  gradients (PGM) and block-splitting ADMM (BSDMM)
//		• nmf/       — the weighted bilinear least-squares objective, its
//		  step-size estimators, and the solver dispatcher
//
// ✨ Why choose proxnmf?
//
//   - Provable steps – per-block step sizes from Lipschitz bounds, also in
//     the element-wise weighted case
//   - Constraint freedom – any convex constraint as a proximal operator,
//     optionally behind a linear transform
//   - Honest convergence – primal/dual residual tests; non-convergence is
//     reported, never hidden
//   - Lean stack – gonum for the algebra, nothing else at runtime
//
// Quick start:
//
//	res, err := nmf.NMF(Y, A, S, nil) // default: non-negative A and S
//
// Reference: Moolekamp & Melchior, "Block-simultaneous direction method of
// multipliers" (arXiv:1708.09066).
//
//	go get github.com/katalvlaran/proxnmf
package proxnmf
