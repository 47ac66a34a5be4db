package nmf_test

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/proxnmf/nmf"
)

// benchmarkNMF runs the dispatcher on an M×N rank-K problem.
func benchmarkNMF(b *testing.B, m, k, n int, weighted bool) {
	aTrue := randPositive(m, k, 0.5, 1, 1)
	sTrue := randPositive(k, n, 0.5, 1, 2)
	var y mat.Dense
	y.Mul(aTrue, sTrue)

	o := nmf.DefaultOptions()
	o.MaxIter = 50 // fixed work per op
	o.EpsRel = 1e-12
	if weighted {
		o.Weights = nmf.PerEntry(randPositive(m, n, 0, 1, 3))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		a := randPositive(m, k, 0.5, 1, 4)
		s := randPositive(k, n, 0.5, 1, 5)
		b.StartTimer()

		if _, err := nmf.NMF(&y, a, s, &o); err != nil {
			b.Fatalf("NMF failed: %v", err)
		}
	}
}

// BenchmarkNMF_SmallUnweighted measures the dense fast path.
func BenchmarkNMF_SmallUnweighted(b *testing.B) { benchmarkNMF(b, 20, 3, 30, false) }

// BenchmarkNMF_SmallWeighted measures the matrix-free weighted step path.
func BenchmarkNMF_SmallWeighted(b *testing.B) { benchmarkNMF(b, 20, 3, 30, true) }

// BenchmarkGradLikelihood measures one gradient evaluation.
func BenchmarkGradLikelihood(b *testing.B) {
	a := randPositive(50, 5, 0.5, 1, 1)
	s := randPositive(5, 80, 0.5, 1, 2)
	var y mat.Dense
	y.Mul(a, s)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ga, gs := nmf.GradLikelihood(a, s, &y, nmf.Uniform())
		_, _ = ga, gs
	}
}
