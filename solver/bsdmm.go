// SPDX-License-Identifier: MIT
package solver

import (
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/proxnmf/operators"
	"github.com/katalvlaran/proxnmf/spectral"
)

// BSDMM minimizes a smooth objective over the blocks x under an arbitrary
// number of constraints per block by block-splitting ADMM: the data-fidelity
// proximal map proxF acts as one more constraint, and consensus across each
// block's constraint set is maintained through per-constraint auxiliary
// variables Z and scaled duals U, each living in the codomain of the
// constraint's linear operator.
//
// Inputs:
//   - x:     variable blocks, caller-owned, updated in place.
//   - proxF: data-fidelity proximal map (gradient step + direct projection
//     folded into one operator), applied in place per block.
//   - stepF: data-fidelity step size per block (≤ 1/L contract). Wrapped in
//     the slack-banded cache when opts.Slack > 0; served steps are
//     additionally scaled by Slack as a guard against stale estimates.
//   - cons:  constraint triples per block, indexed like x. A nil inner list
//     degenerates that block to plain proximal-gradient on proxF.
//
// Per block j with constraints i (one iteration):
//  1. step_g,i per policy: StepsTrack re-derives step_f·‖L_i‖² whenever
//     step_f was re-evaluated; StepsFixed keeps caller-supplied values.
//  2. X_j ← proxF(X_j − mean_i (step_f/step_g,i)·L_iᵀ(L_i·X_j − Z_i + U_i),
//     step_f).
//  3. Z_i ← prox_g,i(L_i·X_j + U_i, step_g,i); U_i ← U_i + L_i·X_j − Z_i.
//  4. Residuals: primal R_i = L_i·X_j − Z_i, dual
//     S_i = (step_f/step_g,i)·L_iᵀ(Z_i − Z_i^prev); block j converged when
//     for every i, ‖R_i‖ ≤ max(EpsAbs·√n_i, EpsRel·max(‖L_i·X_j‖, ‖Z_i‖))
//     and ‖S_i‖ ≤ max(EpsAbs·√n_j, EpsRel·‖(step_f/step_g,i)·L_iᵀU_i‖).
//
// Errors:
//   - ErrNoBlocks / ErrBlockMismatch / ErrOperatorShape / ErrBadStepPolicy /
//     ErrBadSlack / ErrBadOptions on configuration problems, before the
//     first iteration.
//   - stepF, proxF, spectral-norm and Callback errors abort and propagate.
//     Reaching MaxIter is NOT an error (Result.Converged=false).
func BSDMM(x []*mat.Dense, proxF ProxF, stepF StepF, cons [][]Constraint, o *BSDMMOptions) (*Result, error) {
	// 1) Validate configuration.
	if err := validateBlocks(x); err != nil {
		return nil, err
	}
	if cons == nil {
		cons = make([][]Constraint, len(x))
	}
	if len(cons) != len(x) {
		return nil, ErrBlockMismatch
	}
	opts := DefaultBSDMMOptions()
	if o != nil {
		opts = *o
	}
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	st, err := newBsdmmState(x, cons)
	if err != nil {
		return nil, err
	}

	n := len(x)
	cache := newStepFCache(stepF, opts.Slack, n)
	res := &Result{Converged: make([]bool, n), Error: make([]*mat.Dense, n)}

	prev := make([]*mat.Dense, n)
	for j := range x {
		prev[j] = mat.DenseCopyOf(x[j])
	}

	for it := 0; it < opts.MaxIter; it++ {
		allOK := true
		for j := 0; j < n; j++ {
			stepf, fresh, serr := cache.get(x, j)
			if serr != nil {
				return nil, serr
			}
			if opts.Slack > 0 {
				stepf *= opts.Slack
			}

			prev[j].Copy(x[j])

			ok, uerr := st.updateBlock(x, j, stepf, fresh, proxF, &opts)
			if uerr != nil {
				return nil, uerr
			}

			if len(cons[j]) == 0 {
				// No auxiliary constraints: fall back to the relative-change
				// test on the proximal-gradient iterate.
				ok, _ = withinRel(x[j], prev[j], opts.EpsRel)
			}
			res.Converged[j] = ok
			allOK = allOK && ok

			var d mat.Dense
			d.Sub(x[j], prev[j])
			res.Error[j] = &d
		}
		res.Iterations = it + 1

		if opts.Callback != nil {
			if cberr := opts.Callback(x, it); cberr != nil {
				return nil, cberr
			}
		}

		if allOK {
			break
		}
	}

	return res, nil
}

// bsdmmState holds the per-constraint ADMM variables.
type bsdmmState struct {
	cons [][]Constraint
	z    [][]*mat.Dense // auxiliary variables, codomain of L
	u    [][]*mat.Dense // scaled duals, codomain of L
	l2   [][]float64    // ‖L‖² per constraint (1 for identity)
	sg   [][]float64    // current constraint step sizes
	prox [][]operators.Prox
}

// newBsdmmState validates operator shapes, precomputes ‖L‖² and initializes
// Z = L·X, U = 0 per constraint.
func newBsdmmState(x []*mat.Dense, cons [][]Constraint) (*bsdmmState, error) {
	st := &bsdmmState{
		cons: cons,
		z:    make([][]*mat.Dense, len(x)),
		u:    make([][]*mat.Dense, len(x)),
		l2:   make([][]float64, len(x)),
		sg:   make([][]float64, len(x)),
		prox: make([][]operators.Prox, len(x)),
	}
	for j, cj := range cons {
		rows, cols := x[j].Dims()
		st.z[j] = make([]*mat.Dense, len(cj))
		st.u[j] = make([]*mat.Dense, len(cj))
		st.l2[j] = make([]float64, len(cj))
		st.sg[j] = make([]float64, len(cj))
		st.prox[j] = make([]operators.Prox, len(cj))
		for i, c := range cj {
			st.prox[j][i] = c.Prox
			if st.prox[j][i] == nil {
				st.prox[j][i] = operators.Identity
			}

			p := rows
			if c.L != nil {
				lr, lc := c.L.Dims()
				if lc != rows {
					return nil, ErrOperatorShape
				}
				p = lr

				nrm, err := spectral.SpectralNorm(c.L, nil)
				if err != nil {
					return nil, err
				}
				st.l2[j][i] = nrm * nrm
			} else {
				st.l2[j][i] = 1
			}

			st.z[j][i] = mat.NewDense(p, cols, nil)
			applyL(st.z[j][i], c.L, x[j])
			st.u[j][i] = mat.NewDense(p, cols, nil)
		}
	}

	return st, nil
}

// updateBlock runs one ADMM pass over block j and reports whether all of
// its constraints pass the primal and dual residual tests.
func (st *bsdmmState) updateBlock(x []*mat.Dense, j int, stepf float64, fresh bool, proxF ProxF, opts *BSDMMOptions) (bool, error) {
	cj := st.cons[j]
	rows, cols := x[j].Dims()

	// 1) Constraint step sizes per policy.
	for i := range cj {
		switch {
		case opts.StepPolicy == StepsFixed && cj[i].Step > 0:
			st.sg[j][i] = cj[i].Step
		case st.sg[j][i] == 0 || (opts.StepPolicy == StepsTrack && fresh):
			st.sg[j][i] = stepf * st.l2[j][i]
		}
	}

	if len(cj) == 0 {
		return false, proxF(x[j], stepf, x, j)
	}

	// 2) X update: averaged linearized correction, then the data-fidelity
	// proximal map.
	corr := mat.NewDense(rows, cols, nil)
	var lx, tmp, back mat.Dense
	for i := range cj {
		lx.Reset()
		applyLVar(&lx, cj[i].L, x[j])
		tmp.Reset()
		tmp.Sub(&lx, st.z[j][i])
		tmp.Add(&tmp, st.u[j][i])
		back.Reset()
		applyLTVar(&back, cj[i].L, &tmp)
		back.Scale(stepf/st.sg[j][i], &back)
		corr.Add(corr, &back)
	}
	corr.Scale(1/float64(len(cj)), corr)
	x[j].Sub(x[j], corr)
	if err := proxF(x[j], stepf, x, j); err != nil {
		return false, err
	}

	// 3) Z/U updates and 4) residual tests per constraint.
	nj := rows * cols
	ok := true
	for i := range cj {
		lx.Reset()
		applyLVar(&lx, cj[i].L, x[j])

		zOld := mat.DenseCopyOf(st.z[j][i])
		st.z[j][i].Add(&lx, st.u[j][i])
		st.prox[j][i](st.z[j][i], st.sg[j][i])

		st.u[j][i].Add(st.u[j][i], &lx)
		st.u[j][i].Sub(st.u[j][i], st.z[j][i])

		// Primal residual R = L·X − Z.
		var r mat.Dense
		r.Sub(&lx, st.z[j][i])
		pr, pc := st.z[j][i].Dims()
		scale := mat.Norm(&lx, 2)
		if zn := mat.Norm(st.z[j][i], 2); zn > scale {
			scale = zn
		}
		if mat.Norm(&r, 2) > residualBound(opts.EpsAbs, opts.EpsRel, scale, pr*pc) {
			ok = false
		}

		// Dual residual S = (step_f/step_g)·Lᵀ(Z − Z_prev), compared to the
		// same scaling of the accumulated dual.
		rho := stepf / st.sg[j][i]
		var dz, sd, su mat.Dense
		dz.Sub(st.z[j][i], zOld)
		applyLTVar(&sd, cj[i].L, &dz)
		sd.Scale(rho, &sd)
		applyLTVar(&su, cj[i].L, st.u[j][i])
		su.Scale(rho, &su)
		if mat.Norm(&sd, 2) > residualBound(opts.EpsAbs, opts.EpsRel, mat.Norm(&su, 2), nj) {
			ok = false
		}
	}

	return ok, nil
}

// applyL writes L·x into dst (pre-sized); nil L is the identity.
func applyL(dst *mat.Dense, l mat.Matrix, x *mat.Dense) {
	if l == nil {
		dst.Copy(x)

		return
	}
	dst.Mul(l, x)
}

// applyLVar is applyL for an empty (reset) receiver.
func applyLVar(dst *mat.Dense, l mat.Matrix, x *mat.Dense) {
	if l == nil {
		dst.CloneFrom(x)

		return
	}
	dst.Mul(l, x)
}

// applyLTVar writes Lᵀ·x into the empty receiver dst; nil L is the identity.
func applyLTVar(dst *mat.Dense, l mat.Matrix, x *mat.Dense) {
	if l == nil {
		dst.CloneFrom(x)

		return
	}
	dst.Mul(l.T(), x)
}
