package ml

import (
	"math/rand"
	"sort"
)

// ForestConfig controls the bagged regression tree ensemble
type ForestConfig struct {
	Trees           int
	MaxDepth        int
	MinSamplesSplit int
	Seed            int64
}

// DefaultForestConfig returns the ensemble settings used for pricing
func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		Trees:           100,
		MaxDepth:        6,
		MinSamplesSplit: 2,
		Seed:            42,
	}
}

// treeNode is a split (Feature >= 0) or a leaf (Feature == -1).
// Cover is the number of bootstrap rows that reached the node.
type treeNode struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Value     float64
	Cover     float64
}

func (n treeNode) isLeaf() bool {
	return n.Feature < 0
}

// regressionTree is a CART tree minimizing squared error; node 0 is the root
type regressionTree struct {
	Nodes []treeNode
}

func (t *regressionTree) predict(x []float64) float64 {
	i := 0
	for !t.Nodes[i].isLeaf() {
		n := t.Nodes[i]
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
	return t.Nodes[i].Value
}

// RandomForest averages regression trees grown on bootstrap samples
type RandomForest struct {
	trees []*regressionTree
}

// FitRandomForest grows cfg.Trees trees. Each tree draws its own bootstrap sample
// and feature order from a seed taken off one master source, so a fixed cfg.Seed
// always grows the same forest.
func FitRandomForest(X [][]float64, y []float64, cfg ForestConfig) *RandomForest {
	if cfg.Trees < 1 {
		cfg.Trees = 1
	}
	if cfg.MinSamplesSplit < 2 {
		cfg.MinSamplesSplit = 2
	}

	master := rand.New(rand.NewSource(cfg.Seed))
	forest := &RandomForest{trees: make([]*regressionTree, 0, cfg.Trees)}
	for t := 0; t < cfg.Trees; t++ {
		rng := rand.New(rand.NewSource(master.Int63()))

		sample := make([]int, len(X))
		for i := range sample {
			sample[i] = rng.Intn(len(X))
		}

		b := &treeBuilder{X: X, y: y, cfg: cfg, rng: rng, tree: &regressionTree{}}
		b.grow(sample, 0)
		forest.trees = append(forest.trees, b.tree)
	}
	return forest
}

// Predict averages the trees' predictions for one feature vector
func (f *RandomForest) Predict(x []float64) float64 {
	var sum float64
	for _, t := range f.trees {
		sum += t.predict(x)
	}
	return sum / float64(len(f.trees))
}

type treeBuilder struct {
	X    [][]float64
	y    []float64
	cfg  ForestConfig
	rng  *rand.Rand
	tree *regressionTree
}

// grow appends the node for rows (and its subtree) and returns its index
func (b *treeBuilder) grow(rows []int, depth int) int {
	var sum float64
	for _, r := range rows {
		sum += b.y[r]
	}
	idx := len(b.tree.Nodes)
	b.tree.Nodes = append(b.tree.Nodes, treeNode{
		Feature: -1,
		Value:   sum / float64(len(rows)),
		Cover:   float64(len(rows)),
	})

	if depth >= b.cfg.MaxDepth || len(rows) < b.cfg.MinSamplesSplit || b.pure(rows) {
		return idx
	}

	feature, threshold, ok := b.bestSplit(rows)
	if !ok {
		return idx
	}

	var left, right []int
	for _, r := range rows {
		if b.X[r][feature] <= threshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return idx
	}

	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)

	node := &b.tree.Nodes[idx]
	node.Feature, node.Threshold, node.Left, node.Right = feature, threshold, l, r
	return idx
}

func (b *treeBuilder) pure(rows []int) bool {
	for _, r := range rows[1:] {
		if b.y[r] != b.y[rows[0]] {
			return false
		}
	}
	return true
}

// bestSplit scans every feature, in a shuffled order, for the threshold that
// most reduces squared error. Thresholds sit halfway between adjacent distinct values.
func (b *treeBuilder) bestSplit(rows []int) (int, float64, bool) {
	n := len(rows)
	var total float64
	for _, r := range rows {
		total += b.y[r]
	}
	// maximizing sumL²/nL + sumR²/nR minimizes the children's squared error
	bestGain := total * total / float64(n)
	bestFeature, bestThreshold, found := -1, 0.0, false

	sorted := make([]int, n)
	for _, f := range b.rng.Perm(len(b.X[0])) {
		copy(sorted, rows)
		sort.SliceStable(sorted, func(i, j int) bool {
			return b.X[sorted[i]][f] < b.X[sorted[j]][f]
		})

		var leftSum float64
		for i := 0; i < n-1; i++ {
			leftSum += b.y[sorted[i]]
			cur, next := b.X[sorted[i]][f], b.X[sorted[i+1]][f]
			if cur == next {
				continue
			}
			nl, nr := float64(i+1), float64(n-i-1)
			rightSum := total - leftSum
			gain := leftSum*leftSum/nl + rightSum*rightSum/nr
			if gain > bestGain+1e-12 {
				threshold := cur + (next-cur)/2
				if threshold >= next {
					threshold = cur
				}
				bestGain, bestFeature, bestThreshold, found = gain, f, threshold, true
			}
		}
	}
	return bestFeature, bestThreshold, found
}
