package ml

import (
	"math"
	"math/rand"
)

// trainTestSplit shuffles row indices with a seeded source and holds out
// ceil(testFraction·n) of them, the rest being the training rows.
func trainTestSplit(n int, testFraction float64, seed int64) (train, test []int) {
	nTest := int(math.Ceil(testFraction * float64(n)))
	if nTest < 1 {
		nTest = 1
	}
	if nTest >= n {
		nTest = n - 1
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return perm[nTest:], perm[:nTest]
}

func selectRows(X [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for i, j := range idx {
		out[i] = X[j]
	}
	return out
}

func selectValues(y []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = y[j]
	}
	return out
}
