package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/stockcast/pkg/errors"
)

// stepData returns x = 1..10 with y = low for x <= cut and high otherwise.
func stepData(cut, low, high float64) (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(10, 1, nil)
	y := mat.NewDense(10, 1, nil)
	for i := 0; i < 10; i++ {
		x := float64(i + 1)
		X.Set(i, 0, x)
		if x <= cut {
			y.Set(i, 0, low)
		} else {
			y.Set(i, 0, high)
		}
	}
	return X, y
}

func TestDecisionTreeRegressor_FitPredict(t *testing.T) {
	X, y := stepData(5, 0, 10)

	dt := NewDecisionTreeRegressor()
	require.NoError(t, dt.Fit(X, y))
	assert.True(t, dt.IsFitted())
	assert.Equal(t, 1, dt.Depth())
	assert.Equal(t, 2, dt.NLeaves())

	pred, err := dt.Predict(mat.NewDense(4, 1, []float64{1, 5.2, 5.8, 42}))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 10, 10}, mat.Col(nil, 0, pred))
}

func TestDecisionTreeRegressor_MinSamplesLeaf(t *testing.T) {
	X, y := stepData(3, 0, 10)

	dt := NewDecisionTreeRegressor(WithMinSamplesLeaf(5))
	require.NoError(t, dt.Fit(X, y))

	// only the 5/5 split satisfies the leaf size; both halves are then too small to split
	assert.Equal(t, 2, dt.NLeaves())
	assert.InDelta(t, 4.0, dt.PredictRow([]float64{1}), 1e-12)
	assert.InDelta(t, 10.0, dt.PredictRow([]float64{10}), 1e-12)
}

func TestDecisionTreeRegressor_MaxDepth(t *testing.T) {
	X := mat.NewDense(8, 1, []float64{1, 2, 3, 4, 5, 6, 7, 8})
	y := mat.NewDense(8, 1, []float64{1, 2, 3, 4, 5, 6, 7, 8})

	dt := NewDecisionTreeRegressor(WithMaxDepth(2))
	require.NoError(t, dt.Fit(X, y))
	assert.LessOrEqual(t, dt.Depth(), 2)
	assert.LessOrEqual(t, dt.NLeaves(), 4)
}

func TestDecisionTreeRegressor_ConstantTarget(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{1, 5, 2, 6, 3, 7, 4, 8})
	y := mat.NewDense(4, 1, []float64{3, 3, 3, 3})

	dt := NewDecisionTreeRegressor()
	require.NoError(t, dt.Fit(X, y))
	assert.Equal(t, 0, dt.Depth())
	assert.Equal(t, 3.0, dt.PredictRow([]float64{100, -1}))

	imp, err := dt.FeatureImportances()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, imp)
}

func TestDecisionTreeRegressor_FeatureImportances(t *testing.T) {
	// feature 0 is constant, feature 1 carries all the signal
	X := mat.NewDense(6, 2, []float64{
		7, 1,
		7, 2,
		7, 3,
		7, 10,
		7, 11,
		7, 12,
	})
	y := mat.NewDense(6, 1, []float64{1, 1, 1, 9, 9, 9})

	dt := NewDecisionTreeRegressor()
	require.NoError(t, dt.Fit(X, y))

	imp, err := dt.FeatureImportances()
	require.NoError(t, err)
	assert.InDelta(t, 0.0, imp[0], 1e-12)
	assert.InDelta(t, 1.0, imp[1], 1e-12)
}

func TestDecisionTreeRegressor_FitSampleWithRepeats(t *testing.T) {
	X, y := stepData(5, 0, 10)
	target := mat.Col(nil, 0, y)

	dt := NewDecisionTreeRegressor()
	require.NoError(t, dt.FitSample(X, target, []int{0, 0, 0, 9}))

	assert.Equal(t, 0.0, dt.PredictRow([]float64{2}))
	assert.Equal(t, 10.0, dt.PredictRow([]float64{8}))
}

func TestDecisionTreeRegressor_Errors(t *testing.T) {
	t.Run("predict before fit", func(t *testing.T) {
		_, err := NewDecisionTreeRegressor().Predict(mat.NewDense(1, 1, []float64{1}))
		var nt *errors.ModelNotTrainedError
		assert.True(t, errors.As(err, &nt))
	})

	t.Run("importances before fit", func(t *testing.T) {
		_, err := NewDecisionTreeRegressor().FeatureImportances()
		assert.Error(t, err)
	})

	t.Run("row mismatch", func(t *testing.T) {
		err := NewDecisionTreeRegressor().Fit(mat.NewDense(3, 1, nil), mat.NewDense(2, 1, nil))
		var de *errors.DimensionError
		assert.True(t, errors.As(err, &de))
	})

	t.Run("feature mismatch on predict", func(t *testing.T) {
		X, y := stepData(5, 0, 10)
		dt := NewDecisionTreeRegressor()
		require.NoError(t, dt.Fit(X, y))
		_, err := dt.Predict(mat.NewDense(1, 2, []float64{1, 2}))
		var de *errors.DimensionError
		assert.True(t, errors.As(err, &de))
	})

	t.Run("empty sample", func(t *testing.T) {
		X, y := stepData(5, 0, 10)
		err := NewDecisionTreeRegressor().FitSample(X, mat.Col(nil, 0, y), nil)
		assert.True(t, errors.Is(err, errors.ErrEmptyData))
	})
}
