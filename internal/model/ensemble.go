package model

import (
	"fmt"
	"math/rand"
	"sort"

	"gocause/domain/attribution"
	"gocause/domain/core"
	"gocause/internal/preprocess"
)

// DefaultSeed matches the fixed seed of the reference ensemble configuration.
const DefaultSeed int64 = 42

// Ensemble fits a bagged ensemble of regression trees: each tree trains on a
// bootstrap sample and predictions are averaged. Feature importance is the
// accumulated impurity (SSE) decrease per feature. The ensemble itself is not
// directionally signed; direction is borrowed from each feature's standalone
// correlation with the target. That asymmetry is intentional and mirrors the
// linear strategy's output semantics.
type Ensemble struct {
	Trees    int
	MaxDepth int
	MinLeaf  int
	Seed     int64
}

// NewEnsemble creates an ensemble with the default configuration and the
// given random seed. All randomness flows from one source so repeated fits
// with identical inputs and seed are bit-identical.
func NewEnsemble(seed int64) *Ensemble {
	return &Ensemble{
		Trees:    100,
		MaxDepth: 10,
		MinLeaf:  1,
		Seed:     seed,
	}
}

// Name returns the strategy name.
func (e *Ensemble) Name() string { return string(attribution.MethodEnsemble) }

// Fit trains the bagged trees and reports normalized importances, borrowed
// directions and the R-squared of the averaged predictions.
func (e *Ensemble) Fit(features [][]float64, target []float64) (*FitResult, error) {
	p := len(features)
	n := len(target)
	if p == 0 {
		return nil, fmt.Errorf("ensemble fit: no features")
	}
	if n < 2 {
		return nil, fmt.Errorf("%w: %d points", core.ErrInsufficientData, n)
	}

	rng := rand.New(rand.NewSource(e.Seed))
	importanceSum := make([]float64, p)
	predSum := make([]float64, n)

	for t := 0; t < e.Trees; t++ {
		sample := bootstrapIndices(rng, n)
		root := e.grow(features, target, sample, 0)

		gains := make([]float64, p)
		root.accumulateGains(gains)
		total := 0.0
		for _, g := range gains {
			total += g
		}
		if total > 0 {
			for j := range gains {
				importanceSum[j] += gains[j] / total
			}
		}
		for i := 0; i < n; i++ {
			predSum[i] += root.predict(features, i)
		}
	}

	importances := make([]float64, p)
	sum := 0.0
	for j := range importanceSum {
		importances[j] = importanceSum[j] / float64(e.Trees)
		sum += importances[j]
	}
	if sum > 0 {
		for j := range importances {
			importances[j] /= sum
		}
	}

	preds := make([]float64, n)
	for i := range predSum {
		preds[i] = predSum[i] / float64(e.Trees)
	}

	directions := make([]attribution.Direction, p)
	for j, col := range features {
		directions[j] = attribution.DirectionOf(preprocess.Correlation(col, target))
	}

	return &FitResult{
		Weights:           importances,
		Directions:        directions,
		ExplainedVariance: rSquared(preds, target),
	}, nil
}

// bootstrapIndices draws n sample indices with replacement.
func bootstrapIndices(rng *rand.Rand, n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = rng.Intn(n)
	}
	return idx
}

// treeNode is one node of a regression tree. Leaves carry the mean target
// value of their samples; internal nodes carry the split and its SSE gain.
type treeNode struct {
	feature   int
	threshold float64
	gain      float64
	left      *treeNode
	right     *treeNode
	value     float64
	leaf      bool
}

// grow builds a tree over the sample indices by greedy SSE minimization.
func (e *Ensemble) grow(features [][]float64, target []float64, idx []int, depth int) *treeNode {
	mean, sse := meanAndSSE(target, idx)
	if depth >= e.MaxDepth || len(idx) < 2*e.MinLeaf || sse <= 1e-12 {
		return &treeNode{leaf: true, value: mean}
	}

	bestFeature, bestThreshold, bestGain := -1, 0.0, 0.0
	for j, col := range features {
		threshold, gain, ok := bestSplit(col, target, idx, sse, e.MinLeaf)
		if ok && gain > bestGain {
			bestFeature, bestThreshold, bestGain = j, threshold, gain
		}
	}
	if bestFeature < 0 {
		return &treeNode{leaf: true, value: mean}
	}

	var leftIdx, rightIdx []int
	for _, i := range idx {
		if features[bestFeature][i] <= bestThreshold {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}
	if len(leftIdx) == 0 || len(rightIdx) == 0 {
		return &treeNode{leaf: true, value: mean}
	}

	return &treeNode{
		feature:   bestFeature,
		threshold: bestThreshold,
		gain:      bestGain,
		left:      e.grow(features, target, leftIdx, depth+1),
		right:     e.grow(features, target, rightIdx, depth+1),
		value:     mean,
	}
}

// bestSplit finds the threshold for one feature that maximizes SSE reduction.
// Candidate thresholds are midpoints between distinct consecutive sorted
// values; ties resolve to the first candidate so results are deterministic.
func bestSplit(col []float64, target []float64, idx []int, parentSSE float64, minLeaf int) (float64, float64, bool) {
	n := len(idx)
	order := make([]int, n)
	copy(order, idx)
	sort.SliceStable(order, func(a, b int) bool {
		if col[order[a]] != col[order[b]] {
			return col[order[a]] < col[order[b]]
		}
		return order[a] < order[b]
	})

	// Prefix sums over the sorted sample.
	prefSum := make([]float64, n+1)
	prefSq := make([]float64, n+1)
	for k, i := range order {
		y := target[i]
		prefSum[k+1] = prefSum[k] + y
		prefSq[k+1] = prefSq[k] + y*y
	}

	bestGain, bestThreshold := 0.0, 0.0
	found := false
	for k := minLeaf; k <= n-minLeaf && k < n; k++ {
		if col[order[k-1]] == col[order[k]] {
			continue
		}
		nl, nr := float64(k), float64(n-k)
		sseLeft := prefSq[k] - prefSum[k]*prefSum[k]/nl
		sumRight := prefSum[n] - prefSum[k]
		sseRight := (prefSq[n] - prefSq[k]) - sumRight*sumRight/nr
		gain := parentSSE - sseLeft - sseRight
		if gain > bestGain {
			bestGain = gain
			bestThreshold = (col[order[k-1]] + col[order[k]]) / 2
			found = true
		}
	}
	return bestThreshold, bestGain, found
}

// meanAndSSE computes the mean and sum of squared errors over a sample.
func meanAndSSE(target []float64, idx []int) (float64, float64) {
	if len(idx) == 0 {
		return 0, 0
	}
	mean := 0.0
	for _, i := range idx {
		mean += target[i]
	}
	mean /= float64(len(idx))
	sse := 0.0
	for _, i := range idx {
		d := target[i] - mean
		sse += d * d
	}
	return mean, sse
}

// accumulateGains sums split gains per feature over the whole tree.
func (t *treeNode) accumulateGains(gains []float64) {
	if t == nil || t.leaf {
		return
	}
	gains[t.feature] += t.gain
	t.left.accumulateGains(gains)
	t.right.accumulateGains(gains)
}

// predict walks the tree for one sample row.
func (t *treeNode) predict(features [][]float64, row int) float64 {
	node := t
	for !node.leaf {
		if features[node.feature][row] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value
}
