package solver_test

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/proxnmf/operators"
	"github.com/katalvlaran/proxnmf/solver"
)

// //////////////////////////////////////////////////////////////////////////////
// ExamplePGM
// //////////////////////////////////////////////////////////////////////////////
//
// Scenario:
//
//	Minimize ½‖X − T‖² over X ≥ 0 for a single block. The gradient is
//	X − T with Lipschitz constant 1, so a unit step converges immediately
//	to the projection max(T, 0).
func ExamplePGM() {
	target := mat.NewDense(2, 2, []float64{1, -2, 3, -4})
	x := []*mat.Dense{mat.NewDense(2, 2, nil)}

	grad := func(xs []*mat.Dense) ([]*mat.Dense, error) {
		var g mat.Dense
		g.Sub(xs[0], target)

		return []*mat.Dense{&g}, nil
	}
	step := func([]*mat.Dense) ([]float64, error) { return []float64{1}, nil }

	res, err := solver.PGM(x, grad, step, []operators.Prox{operators.Plus},
		&solver.PGMOptions{Accelerated: true, MaxIter: 100, EpsRel: 1e-9})
	if err != nil {
		fmt.Println("error:", err)

		return
	}

	fmt.Println("converged:", res.Converged[0])
	fmt.Printf("x = %v\n", mat.Formatted(x[0], mat.FormatPython()))
	// Output:
	// converged: true
	// x = [[1, 0], [3, 0]]
}
