package nmf_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/proxnmf/nmf"
	"github.com/katalvlaran/proxnmf/operators"
	"github.com/katalvlaran/proxnmf/solver"
)

// factorized builds a strictly positive K=2 ground truth and the target
// Y = A_true·S_true, plus fresh positive initial guesses.
func factorized(seed int64) (y, a, s *mat.Dense) {
	aTrue := randPositive(4, 2, 0.5, 1, seed)
	sTrue := randPositive(2, 5, 0.5, 1, seed+1)
	y = &mat.Dense{}
	y.Mul(aTrue, sTrue)

	a = randPositive(4, 2, 0.5, 1, seed+2)
	s = randPositive(2, 5, 0.5, 1, seed+3)

	return y, a, s
}

// relReconErr is ‖Y − A·S‖_F / ‖Y‖_F.
func relReconErr(y, a, s *mat.Dense) float64 {
	var r mat.Dense
	r.Mul(a, s)
	r.Sub(y, &r)

	return mat.Norm(&r, 2) / mat.Norm(y, 2)
}

// TestNMF_Validation exercises the fail-fast configuration checks.
func TestNMF_Validation(t *testing.T) {
	y, a, s := factorized(100)

	_, err := nmf.NMF(nil, a, s, nil)
	assert.ErrorIs(t, err, nmf.ErrNilMatrix)

	short := mat.NewDense(3, 2, nil) // Y has 4 rows
	_, err = nmf.NMF(y, short, s, nil)
	assert.ErrorIs(t, err, nmf.ErrDimensionMismatch)

	o := nmf.DefaultOptions()
	o.Weights = nmf.PerEntry(mat.NewDense(2, 2, nil)) // wrong shape
	_, err = nmf.NMF(y, a, s, &o)
	assert.ErrorIs(t, err, nmf.ErrBadWeights)

	o = nmf.DefaultOptions()
	o.Weights = nmf.PerEntry(mat.NewDense(4, 5, []float64{
		-1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}))
	_, err = nmf.NMF(y, a, s, &o)
	assert.ErrorIs(t, err, nmf.ErrBadWeights, "negative weights are invalid")

	o = nmf.DefaultOptions()
	o.ProxsG[1] = []operators.Prox{operators.Plus}
	o.StepsG[1] = []float64{0.1, 0.2} // length 2 vs 1
	_, err = nmf.NMF(y, a, s, &o)
	assert.ErrorIs(t, err, nmf.ErrConstraintLen)

	// Slack is rejected at entry, on the uniform unconstrained path too.
	o = nmf.DefaultOptions()
	o.Slack = 1.5
	_, err = nmf.NMF(y, a, s, &o)
	assert.ErrorIs(t, err, solver.ErrBadSlack)
}

// TestNMF_Unconstrained reconstructs Y = A_true·S_true from fresh positive
// starts: converged indicators and relative Frobenius error below 1e-2.
func TestNMF_Unconstrained(t *testing.T) {
	y, a, s := factorized(200)

	o := nmf.DefaultOptions()
	o.MaxIter = 1000
	o.EpsRel = 1e-5
	res, err := nmf.NMF(y, a, s, &o)
	require.NoError(t, err)
	assert.True(t, res.Converged[0], "amplitude block must converge")
	assert.True(t, res.Converged[1], "source block must converge")
	assert.Less(t, relReconErr(y, a, s), 1e-2, "reconstruction must be tight")

	// Non-negativity of the default projections held throughout.
	assert.GreaterOrEqual(t, mat.Min(a), 0.0)
	assert.GreaterOrEqual(t, mat.Min(s), 0.0)
}

// TestNMF_MaskedWeights: zero-weighted entries are unobserved — they must
// not constrain the fit. Perturbing them may not change the trajectory.
func TestNMF_MaskedWeights(t *testing.T) {
	y, a1, s1 := factorized(300)
	a2 := mat.DenseCopyOf(a1)
	s2 := mat.DenseCopyOf(s1)

	w := mat.NewDense(4, 5, nil)
	for i := 0; i < 4; i++ {
		for j := 0; j < 5; j++ {
			w.Set(i, j, 1)
		}
	}
	// Mask two observations.
	w.Set(0, 1, 0)
	w.Set(3, 4, 0)

	o := nmf.DefaultOptions()
	o.Weights = nmf.PerEntry(w)
	o.EpsRel = 1e-5
	res, err := nmf.NMF(y, a1, s1, &o)
	require.NoError(t, err)
	assert.True(t, res.Converged[0] && res.Converged[1], "masked solve must converge")

	// Corrupt the masked entries of Y and solve again from the same start.
	y2 := mat.DenseCopyOf(y)
	y2.Set(0, 1, 123)
	y2.Set(3, 4, -42)
	_, err = nmf.NMF(y2, a2, s2, &o)
	require.NoError(t, err)

	assert.True(t, mat.EqualApprox(a1, a2, 1e-9), "masked entries must not influence A")
	assert.True(t, mat.EqualApprox(s1, s2, 1e-9), "masked entries must not influence S")
}

// TestNMF_SparsityConstraint: an additional non-negative soft threshold on
// S through the BSDMM path must produce a sparser S than the unconstrained
// solve on the same data, with the A block still converging.
func TestNMF_SparsityConstraint(t *testing.T) {
	y, aPlain, sPlain := factorized(400)
	aSparse := mat.DenseCopyOf(aPlain)
	sSparse := mat.DenseCopyOf(sPlain)

	_, err := nmf.NMF(y, aPlain, sPlain, nil)
	require.NoError(t, err)

	o := nmf.DefaultOptions()
	o.ProxsG[1] = []operators.Prox{operators.SoftPlus(0.5)}
	o.MaxIter = 5000
	res, err := nmf.NMF(y, aSparse, sSparse, &o)
	require.NoError(t, err)
	assert.True(t, res.Converged[0], "amplitude block must still converge")

	small := func(m *mat.Dense) int {
		n := 0
		r, c := m.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				if m.At(i, j) < 1e-3 {
					n++
				}
			}
		}

		return n
	}
	assert.Greater(t, small(sSparse), small(sPlain), "soft threshold must sparsify S")
}

// TestNMF_Idempotence: re-solving from a converged pair is a fixed point —
// the factors move by less than EpsAbs + EpsRel·‖·‖.
func TestNMF_Idempotence(t *testing.T) {
	y, a, s := factorized(500)

	o := nmf.DefaultOptions()
	o.EpsRel = 1e-5
	_, err := nmf.NMF(y, a, s, &o)
	require.NoError(t, err)

	aBefore := mat.DenseCopyOf(a)
	sBefore := mat.DenseCopyOf(s)
	_, err = nmf.NMF(y, a, s, &o)
	require.NoError(t, err)

	var da, ds mat.Dense
	da.Sub(a, aBefore)
	ds.Sub(s, sBefore)
	assert.LessOrEqual(t, mat.Norm(&da, 2), 1e-3*mat.Norm(a, 2), "A is a fixed point")
	assert.LessOrEqual(t, mat.Norm(&ds, 2), 1e-3*mat.Norm(s, 2), "S is a fixed point")
}

// TestNMF_CallbackControl: the callback sees every iteration and its error
// aborts the solve.
func TestNMF_CallbackControl(t *testing.T) {
	y, a, s := factorized(600)

	iterations := 0
	o := nmf.DefaultOptions()
	o.Callback = func(x []*mat.Dense, it int) error {
		iterations++
		require.Len(t, x, 2, "callback sees both blocks")

		return nil
	}
	res, err := nmf.NMF(y, a, s, &o)
	require.NoError(t, err)
	assert.Equal(t, res.Iterations, iterations, "one callback per iteration")

	// Fresh data and guesses: the pair converged above would stop before
	// the abort iteration is reached.
	stop := errors.New("early exit")
	y2, a2, s2 := factorized(601)
	o.Callback = func(_ []*mat.Dense, it int) error {
		if it == 3 {
			return stop
		}

		return nil
	}
	_, err = nmf.NMF(y2, a2, s2, &o)
	assert.ErrorIs(t, err, stop)
}
