package ml

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// R2Score is the coefficient of determination of predictions against truth.
// With constant truth it is 1 for a perfect fit and 0 otherwise.
func R2Score(truth, pred []float64) float64 {
	mean := stat.Mean(truth, nil)
	var ssRes, ssTot float64
	for i, y := range truth {
		ssRes += (y - pred[i]) * (y - pred[i])
		ssTot += (y - mean) * (y - mean)
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}

// MeanAbsoluteError averages the absolute prediction errors
func MeanAbsoluteError(truth, pred []float64) float64 {
	if len(truth) == 0 {
		return 0
	}
	var sum float64
	for i, y := range truth {
		sum += math.Abs(y - pred[i])
	}
	return sum / float64(len(truth))
}
