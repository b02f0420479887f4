package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stumpForest is a single tree splitting on feature 0 at 5: 4 rows go left (value 100),
// 6 rows go right (value 200)
func stumpForest() *RandomForest {
	return &RandomForest{trees: []*regressionTree{{
		Nodes: []treeNode{
			{Feature: 0, Threshold: 5, Left: 1, Right: 2, Value: 160, Cover: 10},
			{Feature: -1, Value: 100, Cover: 4},
			{Feature: -1, Value: 200, Cover: 6},
		},
	}}}
}

func TestTreeExplainer_Stump(t *testing.T) {
	e := NewTreeExplainer(stumpForest())
	assert.InDelta(t, 160, e.ExpectedValue(), 1e-12)

	phi := e.ShapValues([]float64{1, 0, 0, 0, 0, 0})
	require.Len(t, phi, NumFeatures)
	assert.InDelta(t, -60, phi[0], 1e-12)
	for _, v := range phi[1:] {
		assert.InDelta(t, 0, v, 1e-12, "unused features get no credit")
	}

	phi = e.ShapValues([]float64{9, 0, 0, 0, 0, 0})
	assert.InDelta(t, 40, phi[0], 1e-12)
}

func TestTreeExplainer_InteractionIsShared(t *testing.T) {
	// depth-2 tree: feature 0 then feature 1, equal covers
	forest := &RandomForest{trees: []*regressionTree{{
		Nodes: []treeNode{
			{Feature: 0, Threshold: 0.5, Left: 1, Right: 2, Value: 25, Cover: 4},
			{Feature: -1, Value: 0, Cover: 2},
			{Feature: 1, Threshold: 0.5, Left: 3, Right: 4, Value: 50, Cover: 2},
			{Feature: -1, Value: 0, Cover: 1},
			{Feature: -1, Value: 100, Cover: 1},
		},
	}}}
	e := NewTreeExplainer(forest)

	phi := e.ShapValues([]float64{1, 1, 0, 0, 0, 0})
	// v({})=25, v({0})=50, v({1})=50, v({0,1})=100
	assert.InDelta(t, 37.5, phi[0], 1e-12)
	assert.InDelta(t, 37.5, phi[1], 1e-12)
}

func TestTreeExplainer_SumsToPrediction(t *testing.T) {
	X, y := stepData()
	for i := range X {
		X[i] = append(X[i], float64(i%5), float64(i%7), float64(i*3%11), float64(i%2))
		y[i] += 10 * X[i][4]
	}
	forest := FitRandomForest(X, y, DefaultForestConfig())
	e := NewTreeExplainer(forest)

	for _, x := range [][]float64{X[0], X[17], X[39], {12.5, 1, 3, 2, 8, 1}} {
		phi := e.ShapValues(x)
		var sum float64
		for _, v := range phi {
			sum += v
		}
		assert.InDelta(t, forest.Predict(x), e.ExpectedValue()+sum, 1e-9)
	}
}
