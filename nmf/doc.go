// Package nmf solves regularized Non-negative Matrix Factorization: given a
// target Y (M×N) and optional per-entry weights, find A (M×K) and S (K×N)
// minimizing ½·Σ W·(Y − A·S)² under convex constraints expressed as
// proximal operators.
//
// 🚀 How it works:
//
//	NMF dispatches between two engines based on the constraint set:
//	  • no auxiliary constraints — accelerated proximal gradients (PGM):
//	    per-block gradient step, direct projection, Nesterov momentum
//	  • auxiliary constraints    — block-splitting ADMM (BSDMM): the
//	    gradient step + projection become one proximal operator among the
//	    block's constraints, reconciled by consensus
//
// ✨ Key pieces:
//   - LogLikelihood / GradLikelihood — the weighted bilinear least-squares
//     objective; the residual is computed once and reused for both partials
//   - StepA / StepS / Steps — per-block 1/Lipschitz step sizes; the
//     weighted case extracts the top eigenvalue of the curvature operators
//     by matrix-free power iteration
//   - Weights — explicit Uniform vs PerEntry variants (no magic sentinel)
//
// ⚙️ Usage:
//
//	// Y ≈ A·S with non-negative factors (defaults):
//	res, err := nmf.NMF(Y, A, S, nil)
//
//	// masked observations + L1 sparsity on S:
//	o := nmf.DefaultOptions()
//	o.Weights = nmf.PerEntry(W)
//	o.ProxsG[1] = []operators.Prox{operators.SoftPlus(0.1)}
//	res, err := nmf.NMF(Y, A, S, &o)
//
// A and S are caller-owned and updated in place; the final factors are left
// in them. Non-convergence within MaxIter is reported through the Result,
// not as an error.
//
// Reference: Moolekamp & Melchior, arXiv:1708.09066.
package nmf
