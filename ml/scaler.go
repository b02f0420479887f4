package ml

import (
	"gonum.org/v1/gonum/stat"
)

// StandardScaler rescales each feature to zero mean and unit variance.
// Constant features keep a scale of 1 so they map to zero instead of NaN.
type StandardScaler struct {
	Mean  []float64
	Scale []float64
}

// FitStandardScaler learns per-feature mean and population standard deviation
func FitStandardScaler(X [][]float64) *StandardScaler {
	if len(X) == 0 {
		return &StandardScaler{}
	}
	p := len(X[0])
	s := &StandardScaler{Mean: make([]float64, p), Scale: make([]float64, p)}

	col := make([]float64, len(X))
	for j := 0; j < p; j++ {
		for i, row := range X {
			col[i] = row[j]
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		if std == 0 {
			std = 1
		}
		s.Mean[j], s.Scale[j] = mean, std
	}
	return s
}

// Transform returns a scaled copy of a single feature vector
func (s *StandardScaler) Transform(x []float64) []float64 {
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - s.Mean[j]) / s.Scale[j]
	}
	return out
}

// TransformAll scales every row of X
func (s *StandardScaler) TransformAll(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = s.Transform(row)
	}
	return out
}
