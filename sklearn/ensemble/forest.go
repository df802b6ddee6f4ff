// Package ensemble implements bagged tree ensembles.
package ensemble

import (
	"fmt"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/stockcast/core/model"
	"github.com/YuminosukeSato/stockcast/core/parallel"
	"github.com/YuminosukeSato/stockcast/pkg/errors"
	"github.com/YuminosukeSato/stockcast/pkg/log"
	"github.com/YuminosukeSato/stockcast/sklearn/tree"
)

// predictParallelThreshold is the row count above which Predict fans out.
const predictParallelThreshold = 512

// RandomForestRegressor averages CART regression trees fitted on bootstrap
// resamples of the training rows.
//
// Tree i is seeded with RandomState+i for both its bootstrap draw and its
// feature sampling, so Fit is deterministic for a given input and seed.
// Trees are fitted one after another; only Predict uses several goroutines.
type RandomForestRegressor struct {
	state *model.StateManager

	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int
	Bootstrap       bool
	RandomState     int64
	NJobs           int // prediction workers; <= 0 means runtime.NumCPU()

	trees       []*tree.DecisionTreeRegressor
	nFeatures   int
	importances []float64
	logger      log.Logger
}

// Option configures a RandomForestRegressor.
type Option func(*RandomForestRegressor)

func WithNEstimators(n int) Option { return func(rf *RandomForestRegressor) { rf.NEstimators = n } }
func WithMaxDepth(d int) Option     { return func(rf *RandomForestRegressor) { rf.MaxDepth = d } }
func WithMinSamplesSplit(n int) Option {
	return func(rf *RandomForestRegressor) { rf.MinSamplesSplit = n }
}
func WithMinSamplesLeaf(n int) Option {
	return func(rf *RandomForestRegressor) { rf.MinSamplesLeaf = n }
}
func WithMaxFeatures(k int) Option { return func(rf *RandomForestRegressor) { rf.MaxFeatures = k } }
func WithBootstrap(b bool) Option  { return func(rf *RandomForestRegressor) { rf.Bootstrap = b } }
func WithRandomState(seed int64) Option {
	return func(rf *RandomForestRegressor) { rf.RandomState = seed }
}
func WithNJobs(n int) Option { return func(rf *RandomForestRegressor) { rf.NJobs = n } }

// WithLogger replaces the component logger.
func WithLogger(l log.Logger) Option { return func(rf *RandomForestRegressor) { rf.logger = l } }

// NewRandomForestRegressor returns an untrained forest with 100 bootstrap
// trees and seed 42.
func NewRandomForestRegressor(opts ...Option) *RandomForestRegressor {
	rf := &RandomForestRegressor{
		state:           model.NewStateManager(),
		NEstimators:     100,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Bootstrap:       true,
		RandomState:     42,
	}
	for _, o := range opts {
		o(rf)
	}
	if rf.logger == nil {
		rf.logger = log.GetLoggerWithName("ensemble.random_forest")
	}
	return rf
}

// Fit trains NEstimators trees. Any previous fit is discarded.
func (rf *RandomForestRegressor) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "RandomForestRegressor.Fit")

	rows, cols := X.Dims()
	yRows, yCols := y.Dims()
	if rows != yRows {
		return errors.NewDimensionError("RandomForestRegressor.Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("RandomForestRegressor.Fit", 1, yCols, 1)
	}
	if rows == 0 {
		return errors.NewEmptyTrainingSetError("RandomForestRegressor")
	}
	if rf.NEstimators < 1 {
		return errors.NewValidationError("NEstimators", "must be >= 1", rf.NEstimators)
	}

	start := time.Now()
	target := mat.Col(nil, 0, y)

	rf.state.Reset()
	trees := make([]*tree.DecisionTreeRegressor, rf.NEstimators)
	importances := make([]float64, cols)

	for i := range trees {
		seed := rf.RandomState + int64(i)
		sample := make([]int, rows)
		if rf.Bootstrap {
			rnd := rand.New(rand.NewSource(seed))
			for j := range sample {
				sample[j] = rnd.Intn(rows)
			}
		} else {
			for j := range sample {
				sample[j] = j
			}
		}

		t := tree.NewDecisionTreeRegressor(
			tree.WithMaxDepth(rf.MaxDepth),
			tree.WithMinSamplesSplit(rf.MinSamplesSplit),
			tree.WithMinSamplesLeaf(rf.MinSamplesLeaf),
			tree.WithMaxFeatures(rf.MaxFeatures),
			tree.WithRandomState(seed),
		)
		if err := t.FitSample(X, target, sample); err != nil {
			return errors.Wrapf(err, "fitting tree %d", i)
		}
		imp, err := t.FeatureImportances()
		if err != nil {
			return err
		}
		floats.Add(importances, imp)
		trees[i] = t
	}

	if total := floats.Sum(importances); total > 0 {
		floats.Scale(1/total, importances)
	}

	rf.trees = trees
	rf.nFeatures = cols
	rf.importances = importances
	rf.state.SetFitted(cols, rows)

	rf.logger.Debug("RandomForestRegressor fitted",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.EstimatorsKey, rf.NEstimators,
		log.MinSamplesLeafKey, rf.MinSamplesLeaf,
		log.RandomSeedKey, rf.RandomState,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Predict returns the mean tree prediction for every row as an n×1 matrix.
func (rf *RandomForestRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !rf.state.IsFitted() {
		return nil, errors.NewModelNotTrainedError("RandomForestRegressor", "Predict")
	}
	rows, cols := X.Dims()
	if rows == 0 {
		return nil, errors.NewValueError("RandomForestRegressor.Predict", "empty input")
	}
	if cols != rf.nFeatures {
		return nil, errors.NewDimensionError("RandomForestRegressor.Predict", rf.nFeatures, cols, 1)
	}
	if err := errors.CheckMatrix("RandomForestRegressor.Predict", X, rows, cols); err != nil {
		return nil, err
	}

	out := make([]float64, rows)
	parallel.ParallelizeWithThreshold(rows, predictParallelThreshold, rf.NJobs, func(start, end int) {
		row := make([]float64, cols)
		for i := start; i < end; i++ {
			mat.Row(row, i, X)
			var sum float64
			for _, t := range rf.trees {
				sum += t.PredictRow(row)
			}
			out[i] = sum / float64(len(rf.trees))
		}
	})
	return mat.NewDense(rows, 1, out), nil
}

// FeatureImportances returns the mean of the per-tree importances,
// renormalized to sum to 1 (all zeros when no tree ever split).
func (rf *RandomForestRegressor) FeatureImportances() ([]float64, error) {
	if !rf.state.IsFitted() {
		return nil, errors.NewModelNotTrainedError("RandomForestRegressor", "FeatureImportances")
	}
	return append([]float64(nil), rf.importances...), nil
}

// IsFitted reports whether Fit has completed.
func (rf *RandomForestRegressor) IsFitted() bool {
	return rf.state.IsFitted()
}

// Trees returns the number of fitted trees.
func (rf *RandomForestRegressor) Trees() int {
	return len(rf.trees)
}

// String returns a short description of the configured forest.
func (rf *RandomForestRegressor) String() string {
	return fmt.Sprintf("RandomForestRegressor(n_estimators=%d, min_samples_leaf=%d, random_state=%d)",
		rf.NEstimators, rf.MinSamplesLeaf, rf.RandomState)
}

var _ model.Regressor = (*RandomForestRegressor)(nil)
