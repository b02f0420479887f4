package ml

import "math/bits"

// TreeExplainer attributes a forest prediction to its input features with exact
// Shapley values. The value of a feature coalition is the tree expectation used by
// TreeSHAP: known features follow the split, unknown features average both children
// weighted by their cover. All 2^NumFeatures coalitions are enumerated, which keeps
// the result exact and stays cheap at this feature count.
type TreeExplainer struct {
	forest   *RandomForest
	baseline float64
	weights  []float64 // Shapley weight by coalition size
}

// NewTreeExplainer binds an explainer to a fitted forest
func NewTreeExplainer(forest *RandomForest) *TreeExplainer {
	e := &TreeExplainer{forest: forest}

	// |S|! (M-|S|-1)! / M!
	m := NumFeatures
	e.weights = make([]float64, m)
	for s := 0; s < m; s++ {
		e.weights[s] = factorial(s) * factorial(m-s-1) / factorial(m)
	}

	e.baseline = e.coalitionValue(nil, 0)
	return e
}

// ExpectedValue is the forest's prediction when no feature is known
func (e *TreeExplainer) ExpectedValue() float64 {
	return e.baseline
}

// ShapValues returns one signed contribution per feature, in FeatureNames order.
// They sum to the prediction for x minus ExpectedValue.
func (e *TreeExplainer) ShapValues(x []float64) []float64 {
	m := NumFeatures
	coalitions := 1 << m

	values := make([]float64, coalitions)
	for mask := 0; mask < coalitions; mask++ {
		values[mask] = e.coalitionValue(x, uint(mask))
	}

	phi := make([]float64, m)
	for i := 0; i < m; i++ {
		bit := 1 << i
		for mask := 0; mask < coalitions; mask++ {
			if mask&bit != 0 {
				continue
			}
			size := bits.OnesCount(uint(mask))
			phi[i] += e.weights[size] * (values[mask|bit] - values[mask])
		}
	}
	return phi
}

// coalitionValue averages the per-tree expectations for the known features in mask
func (e *TreeExplainer) coalitionValue(x []float64, mask uint) float64 {
	var sum float64
	for _, t := range e.forest.trees {
		sum += t.expectation(x, mask, 0)
	}
	return sum / float64(len(e.forest.trees))
}

func (t *regressionTree) expectation(x []float64, mask uint, node int) float64 {
	n := t.Nodes[node]
	if n.isLeaf() {
		return n.Value
	}
	if mask&(1<<uint(n.Feature)) != 0 {
		if x[n.Feature] <= n.Threshold {
			return t.expectation(x, mask, n.Left)
		}
		return t.expectation(x, mask, n.Right)
	}
	left, right := t.Nodes[n.Left], t.Nodes[n.Right]
	return (left.Cover*t.expectation(x, mask, n.Left) + right.Cover*t.expectation(x, mask, n.Right)) / n.Cover
}

func factorial(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}
