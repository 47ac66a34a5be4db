package operators_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/proxnmf/operators"
)

// newX builds the shared 2×3 test matrix with mixed signs.
func newX() *mat.Dense {
	return mat.NewDense(2, 3, []float64{-2, -0.5, 0, 0.5, 1, 3})
}

// TestIdentity verifies that Identity never changes its argument.
func TestIdentity(t *testing.T) {
	x := newX()
	want := mat.DenseCopyOf(x)

	operators.Identity(x, 0.7)
	assert.True(t, mat.Equal(want, x), "Identity must be a no-op")
}

// TestPlus verifies projection onto the non-negative orthant.
func TestPlus(t *testing.T) {
	x := newX()

	operators.Plus(x, 1)
	want := mat.NewDense(2, 3, []float64{0, 0, 0, 0.5, 1, 3})
	assert.True(t, mat.Equal(want, x), "negative entries must clip to zero")
}

// TestMinMax verifies the one-sided box projections.
func TestMinMax(t *testing.T) {
	x := newX()
	operators.Min(0.5)(x, 1)
	want := mat.NewDense(2, 3, []float64{0.5, 0.5, 0.5, 0.5, 1, 3})
	assert.True(t, mat.Equal(want, x), "Min must raise entries to the floor")

	x = newX()
	operators.Max(0.5)(x, 1)
	want = mat.NewDense(2, 3, []float64{-2, -0.5, 0, 0.5, 0.5, 0.5})
	assert.True(t, mat.Equal(want, x), "Max must lower entries to the ceiling")
}

// TestSoft verifies the shrink-toward-zero behavior and its step scaling.
func TestSoft(t *testing.T) {
	x := newX()

	// λ=1, step=0.5 → threshold 0.5
	operators.Soft(1)(x, 0.5)
	want := mat.NewDense(2, 3, []float64{-1.5, 0, 0, 0, 0.5, 2.5})
	assert.True(t, mat.EqualApprox(want, x, 1e-15), "soft threshold must shrink by λ·step")
}

// TestSoftPlus verifies the combined shrink + clip operator.
func TestSoftPlus(t *testing.T) {
	x := newX()

	operators.SoftPlus(1)(x, 0.5)
	want := mat.NewDense(2, 3, []float64{0, 0, 0, 0, 0.5, 2.5})
	assert.True(t, mat.EqualApprox(want, x, 1e-15), "negative entries must vanish, positive shrink")
}

// TestHard verifies that small entries vanish and large ones survive intact.
func TestHard(t *testing.T) {
	x := newX()

	operators.Hard(1)(x, 1)
	want := mat.NewDense(2, 3, []float64{-2, 0, 0, 0, 1, 3})
	assert.True(t, mat.Equal(want, x), "entries below the threshold must zero, others stay")
}

// TestUnityRows verifies per-row normalization and the zero-row guard.
func TestUnityRows(t *testing.T) {
	x := mat.NewDense(2, 2, []float64{1, 3, -1, 1})

	operators.UnityRows(x, 1)
	want := mat.NewDense(2, 2, []float64{0.25, 0.75, -1, 1})
	assert.True(t, mat.EqualApprox(want, x, 1e-15), "rows normalize to unit sum; zero-sum rows stay")
}
