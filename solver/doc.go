// Package solver implements the two generic block-iterative engines behind
// proxnmf: accelerated proximal gradients (PGM) and block-splitting ADMM
// (BSDMM).
//
// 🚀 What do the engines do?
//
//	Both minimize a smooth objective over a list of variable blocks,
//	mutating the caller's matrices in place:
//	  • PGM   — per-block gradient step followed by a direct projection,
//	    with optional Nesterov acceleration. One constraint per block.
//	  • BSDMM — ADMM-style consensus across an arbitrary number of
//	    constraints per block, each optionally behind a linear operator,
//	    with per-constraint scaled dual variables.
//
// ✨ Shared machinery:
//   - Callback — injectable per-iteration observer; returning an error
//     aborts the solve and propagates to the caller
//   - Result — per-block convergence indicator plus the difference between
//     the final and penultimate iterate
//   - Slack-banded step caching — expensive Lipschitz estimates are reused
//     while the iterates stay inside a configurable drift band
//
// ⚙️ Contracts:
//   - Step sizes must satisfy step ≤ 1/L for the block gradient's Lipschitz
//     constant L; otherwise descent is not guaranteed and the engines report
//     non-convergence at MaxIter rather than diverging silently.
//   - A constraint's linear operator is applied identically in the primal
//     update and the dual-residual computation; shape mismatches are
//     configuration errors surfaced before the first iteration.
//   - Running out of MaxIter is NOT an error: the Result carries a false
//     indicator for the affected blocks and the caller decides what to do.
//
// Reference: Moolekamp & Melchior, arXiv:1708.09066.
package solver
