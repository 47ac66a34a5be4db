// Package operators provides the proximal operators used to express convex
// constraints in proxnmf solvers.
//
// 🚀 What is a proximal operator?
//
//	For a convex function g, prox_g(x, step) returns the point closest to x
//	that also keeps g small — a projection when g is an indicator function.
//	Proximal solvers alternate gradient-like steps with such projections.
//
// ✨ Provided operators:
//   - Identity          — no constraint (pass-through)
//   - Plus              — non-negativity, max(x, 0)
//   - Min(t) / Max(t)   — one-sided box constraints
//   - Soft(λ)           — soft thresholding (L1 sparsity)
//   - SoftPlus(λ)       — non-negative soft thresholding
//   - Hard(λ)           — hard thresholding (L0-style sparsity)
//   - UnityRows         — rescale each row to unit sum
//
// ⚙️ Usage:
//
//	prox := operators.SoftPlus(0.1)
//	prox(x, step) // mutates x in place
//
// All operators work in place on the dense backing slice: O(rows·cols) time,
// zero allocations. The step argument carries the current proximal scale;
// pure projections ignore it, penalty-derived operators (Soft, Hard) multiply
// their threshold by it.
package operators
