package ml

import (
	"errors"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// machineEpsilon is the float64 unit roundoff used to pick the effective rank
const machineEpsilon = 0x1p-52

// LinearRegression is an ordinary least squares model with an intercept
type LinearRegression struct {
	Coef      []float64
	Intercept float64
}

// FitLinearRegression solves the centered least squares problem with an SVD,
// taking the minimum-norm solution so collinear or constant features still fit.
func FitLinearRegression(X [][]float64, y []float64) (*LinearRegression, error) {
	n := len(X)
	if n == 0 || n != len(y) {
		return nil, errors.New("ml: linear regression needs matching non-empty X and y")
	}
	p := len(X[0])

	xMean := make([]float64, p)
	for _, row := range X {
		floats.Add(xMean, row)
	}
	floats.Scale(1/float64(n), xMean)
	yMean := stat.Mean(y, nil)

	a := mat.NewDense(n, p, nil)
	b := mat.NewDense(n, 1, nil)
	for i, row := range X {
		for j, v := range row {
			a.Set(i, j, v-xMean[j])
		}
		b.Set(i, 0, y[i]-yMean)
	}

	coef := make([]float64, p)
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, errors.New("ml: SVD factorization did not converge")
	}
	rcond := float64(max(n, p)) * machineEpsilon
	if rank := svd.Rank(rcond); rank > 0 {
		var sol mat.Dense
		svd.SolveTo(&sol, b, rank)
		for j := range coef {
			coef[j] = sol.At(j, 0)
		}
	}

	return &LinearRegression{
		Coef:      coef,
		Intercept: yMean - floats.Dot(xMean, coef),
	}, nil
}

// Predict returns the model's estimate for one feature vector
func (r *LinearRegression) Predict(x []float64) float64 {
	return r.Intercept + floats.Dot(r.Coef, x)
}
