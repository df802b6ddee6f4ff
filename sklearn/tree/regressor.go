// Package tree implements CART decision trees for regression.
package tree

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/stockcast/core/model"
	"github.com/YuminosukeSato/stockcast/pkg/errors"
)

// minGain is the smallest weighted squared-error decrease accepted as a split.
const minGain = 1e-12

// DecisionTreeRegressor is a CART regression tree using the squared-error
// criterion. Splits are axis-aligned: a sample goes left when
// x[feature] <= threshold.
//
// The tree tracks its fitted state with model.BaseEstimator: it is fitted by
// a single goroutine, and a fitted tree may be read concurrently.
type DecisionTreeRegressor struct {
	model.BaseEstimator

	MaxDepth        int   // 0 => no limit
	MinSamplesSplit int   // minimum samples required to attempt a split
	MinSamplesLeaf  int   // minimum samples required in each child
	MaxFeatures     int   // 0 => all features, otherwise features sampled per node
	RandomState     int64 // seed for feature sampling

	root        *node
	nFeatures   int
	importances []float64
}

type node struct {
	leaf      bool
	feature   int
	threshold float64
	left      *node
	right     *node

	value    float64 // mean target of the samples reaching this node
	nSamples int
}

// Option configures a DecisionTreeRegressor.
type Option func(*DecisionTreeRegressor)

// WithMaxDepth limits the depth of the tree (root depth = 0).
func WithMaxDepth(d int) Option { return func(t *DecisionTreeRegressor) { t.MaxDepth = d } }

// WithMinSamplesSplit sets the minimum node size eligible for splitting.
func WithMinSamplesSplit(n int) Option {
	return func(t *DecisionTreeRegressor) { t.MinSamplesSplit = n }
}

// WithMinSamplesLeaf sets the minimum number of samples in each leaf.
func WithMinSamplesLeaf(n int) Option {
	return func(t *DecisionTreeRegressor) { t.MinSamplesLeaf = n }
}

// WithMaxFeatures sets how many features are considered at each split.
func WithMaxFeatures(k int) Option { return func(t *DecisionTreeRegressor) { t.MaxFeatures = k } }

// WithRandomState seeds the per-node feature sampling.
func WithRandomState(seed int64) Option {
	return func(t *DecisionTreeRegressor) { t.RandomState = seed }
}

// NewDecisionTreeRegressor returns an untrained regressor.
func NewDecisionTreeRegressor(opts ...Option) *DecisionTreeRegressor {
	t := &DecisionTreeRegressor{
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Fit trains the tree on every row of X.
func (t *DecisionTreeRegressor) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "DecisionTreeRegressor.Fit")

	rows, _ := X.Dims()
	target, err := targetVector("DecisionTreeRegressor.Fit", X, y)
	if err != nil {
		return err
	}
	sample := make([]int, rows)
	for i := range sample {
		sample[i] = i
	}
	return t.FitSample(X, target, sample)
}

// FitSample trains the tree on the rows of X listed in sample. Indices may
// repeat, which is how bootstrap resamples are passed in.
func (t *DecisionTreeRegressor) FitSample(X mat.Matrix, y []float64, sample []int) (err error) {
	defer errors.Recover(&err, "DecisionTreeRegressor.FitSample")

	rows, cols := X.Dims()
	if rows != len(y) {
		return errors.NewDimensionError("DecisionTreeRegressor.FitSample", rows, len(y), 0)
	}
	if len(sample) == 0 {
		return errors.NewEmptyTrainingSetError("DecisionTreeRegressor")
	}
	if t.MinSamplesLeaf < 1 {
		return errors.NewValidationError("MinSamplesLeaf", "must be >= 1", t.MinSamplesLeaf)
	}
	if err := errors.CheckFinite("DecisionTreeRegressor.FitSample", y); err != nil {
		return err
	}

	columns := make([][]float64, cols)
	for j := 0; j < cols; j++ {
		columns[j] = mat.Col(nil, j, X)
		if err := errors.CheckFinite(fmt.Sprintf("DecisionTreeRegressor.FitSample[feature %d]", j), columns[j]); err != nil {
			return err
		}
	}

	b := &builder{
		tree:        t,
		columns:     columns,
		y:           y,
		rnd:         rand.New(rand.NewSource(t.RandomState)),
		importances: make([]float64, cols),
	}
	idx := append([]int(nil), sample...)

	t.Reset()
	t.nFeatures = cols
	t.root = b.build(idx, 0)

	if total := floats.Sum(b.importances); total > 0 {
		floats.Scale(1/total, b.importances)
	}
	t.importances = b.importances
	t.SetFitted()
	return nil
}

// Predict returns an n×1 matrix of predictions.
func (t *DecisionTreeRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !t.IsFitted() {
		return nil, errors.NewModelNotTrainedError("DecisionTreeRegressor", "Predict")
	}
	rows, cols := X.Dims()
	if rows == 0 {
		return nil, errors.NewValueError("DecisionTreeRegressor.Predict", "empty input")
	}
	if cols != t.nFeatures {
		return nil, errors.NewDimensionError("DecisionTreeRegressor.Predict", t.nFeatures, cols, 1)
	}

	out := mat.NewDense(rows, 1, nil)
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(row, i, X)
		out.Set(i, 0, t.PredictRow(row))
	}
	return out, nil
}

// PredictRow walks the tree for a single feature row. The tree must be fitted
// and len(row) must equal the number of training features.
func (t *DecisionTreeRegressor) PredictRow(row []float64) float64 {
	n := t.root
	for !n.leaf {
		if row[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

// FeatureImportances returns the normalized total squared-error decrease
// contributed by each feature. All zeros when the tree never split.
func (t *DecisionTreeRegressor) FeatureImportances() ([]float64, error) {
	if !t.IsFitted() {
		return nil, errors.NewModelNotTrainedError("DecisionTreeRegressor", "FeatureImportances")
	}
	return append([]float64(nil), t.importances...), nil
}

// Depth returns the depth of the fitted tree (a single leaf has depth 0).
func (t *DecisionTreeRegressor) Depth() int {
	return depth(t.root)
}

// NLeaves returns the number of leaves of the fitted tree.
func (t *DecisionTreeRegressor) NLeaves() int {
	return countLeaves(t.root)
}

func depth(n *node) int {
	if n == nil || n.leaf {
		return 0
	}
	l, r := depth(n.left), depth(n.right)
	if l > r {
		return l + 1
	}
	return r + 1
}

func countLeaves(n *node) int {
	if n == nil {
		return 0
	}
	if n.leaf {
		return 1
	}
	return countLeaves(n.left) + countLeaves(n.right)
}

// builder holds per-Fit scratch state.
type builder struct {
	tree        *DecisionTreeRegressor
	columns     [][]float64
	y           []float64
	rnd         *rand.Rand
	importances []float64
}

type split struct {
	feature   int
	threshold float64
	gain      float64
	nLeft     int
}

func (b *builder) build(idx []int, d int) *node {
	t := b.tree
	var sum float64
	for _, i := range idx {
		sum += b.y[i]
	}
	n := &node{leaf: true, value: sum / float64(len(idx)), nSamples: len(idx)}

	if len(idx) < t.MinSamplesSplit || len(idx) < 2*t.MinSamplesLeaf {
		return n
	}
	if t.MaxDepth > 0 && d >= t.MaxDepth {
		return n
	}

	best, ok := b.bestSplit(idx, sum)
	if !ok {
		return n
	}

	// partition idx by the winning feature; bestSplit counted nLeft on the same stable order
	col := b.columns[best.feature]
	sort.SliceStable(idx, func(a, c int) bool { return col[idx[a]] < col[idx[c]] })

	b.importances[best.feature] += best.gain
	n.leaf = false
	n.feature = best.feature
	n.threshold = best.threshold
	n.left = b.build(idx[:best.nLeft], d+1)
	n.right = b.build(idx[best.nLeft:], d+1)
	return n
}

// bestSplit scans sorted prefix sums of every candidate feature. The gain of
// a split is the decrease in the summed squared error of the node.
func (b *builder) bestSplit(idx []int, sum float64) (split, bool) {
	t := b.tree
	nFeatures := len(b.columns)
	features := make([]int, nFeatures)
	for j := range features {
		features[j] = j
	}
	if t.MaxFeatures > 0 && t.MaxFeatures < nFeatures {
		b.rnd.Shuffle(nFeatures, func(i, j int) { features[i], features[j] = features[j], features[i] })
		features = features[:t.MaxFeatures]
	}

	n := len(idx)
	parent := sum * sum / float64(n)
	best := split{feature: -1}
	sorted := make([]int, n)

	for _, f := range features {
		col := b.columns[f]
		copy(sorted, idx)
		sort.SliceStable(sorted, func(a, c int) bool { return col[sorted[a]] < col[sorted[c]] })

		var left float64
		for k := 1; k < n; k++ {
			left += b.y[sorted[k-1]]
			lo, hi := col[sorted[k-1]], col[sorted[k]]
			if lo == hi {
				continue
			}
			if k < t.MinSamplesLeaf || n-k < t.MinSamplesLeaf {
				continue
			}
			right := sum - left
			gain := left*left/float64(k) + right*right/float64(n-k) - parent
			if gain > best.gain+minGain {
				threshold := lo + (hi-lo)/2
				if threshold >= hi || math.IsInf(threshold, 0) {
					threshold = lo
				}
				best = split{feature: f, threshold: threshold, gain: gain, nLeft: k}
			}
		}
	}
	return best, best.feature >= 0
}

// targetVector flattens an n×1 target matrix.
func targetVector(op string, X, y mat.Matrix) ([]float64, error) {
	rows, _ := X.Dims()
	yRows, yCols := y.Dims()
	if rows != yRows {
		return nil, errors.NewDimensionError(op, rows, yRows, 0)
	}
	if yCols != 1 {
		return nil, errors.NewDimensionError(op, 1, yCols, 1)
	}
	return mat.Col(nil, 0, y), nil
}
