package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/stockcast/dataset"
	"github.com/YuminosukeSato/stockcast/pkg/errors"
	"github.com/YuminosukeSato/stockcast/pkg/log"
)

const categoryCol = dataset.Category

// trainingFrame returns n rows of a declining stock level with a category
// offset: y = 100 - day + 10 for category A.
func trainingFrame(t *testing.T, n int) (*Frame, []float64) {
	t.Helper()
	days := make([]float64, n)
	cats := make([]string, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		days[i] = float64(i)
		cats[i] = "B"
		y[i] = 100 - float64(i)
		if i%2 == 0 {
			cats[i] = "A"
			y[i] += 10
		}
	}
	f, err := NewFrame().WithNumeric(DayIndex, days)
	require.NoError(t, err)
	f, err = f.WithCategorical(categoryCol, cats)
	require.NoError(t, err)
	return f, y
}

func quietForecaster(opts ...Option) *Forecaster {
	logger, _ := log.NewTestLogger(log.LevelError)
	return NewForecaster(append([]Option{WithLogger(logger)}, opts...)...)
}

func silenceWarnings(t *testing.T) {
	t.Helper()
	errors.SetZerologWarnFunc(func(error) {})
	t.Cleanup(func() { errors.SetZerologWarnFunc(nil) })
}

func TestForecaster_Train(t *testing.T) {
	X, y := trainingFrame(t, 60)
	f := quietForecaster()

	res, err := f.Train(X, y)
	require.NoError(t, err)
	assert.True(t, f.IsTrained())
	assert.Greater(t, res.R2Score, 0.5)
	assert.GreaterOrEqual(t, res.MAE, 0.0)

	require.Len(t, res.FeatureImportance, 3)
	assert.Equal(t, DayIndex, res.FeatureImportance[0].Name)
	scores := make([]float64, len(res.FeatureImportance))
	for i, fs := range res.FeatureImportance {
		scores[i] = fs.Score
		if i > 0 {
			assert.GreaterOrEqual(t, res.FeatureImportance[i-1].Score, fs.Score)
		}
	}
	assert.InDelta(t, 1.0, floats.Sum(scores), 1e-9)

	assert.Equal(t, []string{DayIndex, categoryCol + "_A", categoryCol + "_B"}, f.FeatureNames())
	assert.Equal(t, []string{categoryCol}, f.CategoricalColumns())

	ranking, err := f.FeatureImportance()
	require.NoError(t, err)
	assert.Equal(t, res.FeatureImportance, ranking)
}

func TestForecaster_Deterministic(t *testing.T) {
	X, y := trainingFrame(t, 40)

	a, err := quietForecaster(WithNEstimators(20)).Train(X, y)
	require.NoError(t, err)
	b, err := quietForecaster(WithNEstimators(20)).Train(X, y)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestForecaster_PredictAlignsColumns(t *testing.T) {
	X, y := trainingFrame(t, 40)
	f := quietForecaster(WithNEstimators(20))
	_, err := f.Train(X, y)
	require.NoError(t, err)

	base, err := f.Predict(X)
	require.NoError(t, err)
	assert.Len(t, base, 40)

	t.Run("extra columns are dropped", func(t *testing.T) {
		extra, err := X.WithNumeric("Shelf", make([]float64, 40))
		require.NoError(t, err)
		got, err := f.Predict(extra)
		require.NoError(t, err)
		assert.Equal(t, base, got)
	})

	t.Run("missing category equals unseen category", func(t *testing.T) {
		missing := X.Without(categoryCol)
		unseen, err := X.WithCategorical(categoryCol, repeat("Frozen", 40))
		require.NoError(t, err)

		a, err := f.Predict(missing)
		require.NoError(t, err)
		b, err := f.Predict(unseen)
		require.NoError(t, err)
		assert.Len(t, a, 40)
		assert.Equal(t, a, b)
	})

	t.Run("missing numeric column", func(t *testing.T) {
		onlyCategory := X.Without(DayIndex)
		got, err := f.Predict(onlyCategory)
		require.NoError(t, err)
		assert.Len(t, got, 40)
	})

	t.Run("empty frame", func(t *testing.T) {
		got, err := f.Predict(NewFrame())
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestForecaster_NotTrained(t *testing.T) {
	f := quietForecaster()
	X, _ := trainingFrame(t, 5)

	for name, call := range map[string]func() error{
		"predict":        func() error { _, err := f.Predict(X); return err },
		"predict empty":  func() error { _, err := f.Predict(NewFrame()); return err },
		"forecastFuture": func() error { _, err := f.ForecastFuture(X); return err },
		"futureFrame":    func() error { _, err := f.FutureFrame(7, true); return err },
		"importance":     func() error { _, err := f.FeatureImportance(); return err },
	} {
		t.Run(name, func(t *testing.T) {
			var nt *errors.ModelNotTrainedError
			assert.True(t, errors.As(call(), &nt))
		})
	}
	assert.Nil(t, f.FeatureNames())
}

func TestForecaster_FutureFrameAndForecast(t *testing.T) {
	X, y := trainingFrame(t, 30)
	f := quietForecaster(WithNEstimators(20))
	_, err := f.Train(X, y)
	require.NoError(t, err)

	future, err := f.FutureFrame(7, true)
	require.NoError(t, err)
	days, _ := future.Numeric(DayIndex)
	assert.Equal(t, []float64{30, 31, 32, 33, 34, 35, 36}, days)
	cats, _ := future.Categorical(categoryCol)
	assert.Equal(t, repeat("A", 7), cats)

	mode, ok := f.CategoryMode(categoryCol)
	assert.True(t, ok)
	assert.Equal(t, "A", mode)

	preds, err := f.ForecastFuture(future)
	require.NoError(t, err)
	assert.Len(t, preds, 7)

	t.Run("missing category is a mismatch", func(t *testing.T) {
		reduced, err := f.FutureFrame(7, false)
		require.NoError(t, err)
		_, err = f.ForecastFuture(reduced)
		var fm *errors.FeatureMismatchError
		require.True(t, errors.As(err, &fm))
		assert.Equal(t, []string{categoryCol}, fm.Missing)

		// the reduced frame still predicts through the lenient path
		preds, err := f.Predict(reduced)
		require.NoError(t, err)
		assert.Len(t, preds, 7)
	})

	t.Run("invalid step count", func(t *testing.T) {
		_, err := f.FutureFrame(0, true)
		assert.Error(t, err)
	})
}

func TestForecaster_UnexpectedCategory(t *testing.T) {
	X, y := trainingFrame(t, 20)
	f := quietForecaster(WithNEstimators(10))
	_, err := f.Train(X.Without(categoryCol), y)
	require.NoError(t, err)

	future, err := f.FutureFrame(3, true)
	require.NoError(t, err)
	assert.Empty(t, future.CategoricalNames())

	withCat, err := future.WithCategorical(categoryCol, repeat("A", 3))
	require.NoError(t, err)
	_, err = f.ForecastFuture(withCat)
	var fm *errors.FeatureMismatchError
	require.True(t, errors.As(err, &fm))
	assert.Equal(t, []string{categoryCol}, fm.Unexpected)
}

func TestForecaster_FutureFrameNeedsDayIndex(t *testing.T) {
	X, y := trainingFrame(t, 20)
	f := quietForecaster(WithNEstimators(10))
	_, err := f.Train(X.Without(DayIndex), y)
	require.NoError(t, err)

	_, err = f.FutureFrame(3, true)
	var ve *errors.ValueError
	assert.True(t, errors.As(err, &ve))
}

func TestForecaster_TrainErrors(t *testing.T) {
	f := quietForecaster()

	_, err := f.Train(NewFrame(), nil)
	var es *errors.EmptyTrainingSetError
	assert.True(t, errors.As(err, &es))
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	X, y := trainingFrame(t, 5)
	_, err = f.Train(X, y[:3])
	var de *errors.DimensionError
	assert.True(t, errors.As(err, &de))
	assert.False(t, f.IsTrained())
}

func TestForecaster_SingleRow(t *testing.T) {
	silenceWarnings(t)
	X, y := trainingFrame(t, 1)

	f := quietForecaster(WithNEstimators(5))
	res, err := f.Train(X, y)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.R2Score)
	assert.InDelta(t, 0.0, res.MAE, 1e-12)
}

func TestForecaster_RetrainOverwrites(t *testing.T) {
	X, y := trainingFrame(t, 20)
	f := quietForecaster(WithNEstimators(10))

	_, err := f.Train(X, y)
	require.NoError(t, err)
	assert.Equal(t, []string{categoryCol}, f.CategoricalColumns())

	_, err = f.Train(X.Without(categoryCol), y)
	require.NoError(t, err)
	assert.Empty(t, f.CategoricalColumns())
	assert.Equal(t, []string{DayIndex}, f.FeatureNames())

	// a failed retrain keeps the previous fit
	_, err = f.Train(X, y[:2])
	require.Error(t, err)
	assert.True(t, f.IsTrained())
	assert.Equal(t, []string{DayIndex}, f.FeatureNames())
}

func TestForecaster_SchemaFallbackEndToEnd(t *testing.T) {
	rows := make([][]dataset.Value, 12)
	for i := range rows {
		rows[i] = []dataset.Value{dataset.Number(float64(50 - i))}
	}
	ds, err := dataset.New([]string{dataset.StockQuantity}, rows)
	require.NoError(t, err)

	avail, err := ProbeDataset(ds)
	require.NoError(t, err)
	require.True(t, avail.SynthesizedTime())

	X, y, err := Build(ds, avail)
	require.NoError(t, err)
	f := quietForecaster(WithNEstimators(10))
	_, err = f.Train(X, y)
	require.NoError(t, err)

	preds, err := f.Predict(X)
	require.NoError(t, err)
	assert.Len(t, preds, 12)
}

func TestForecaster_Logging(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelInfo)
	X, y := trainingFrame(t, 20)

	f := NewForecaster(WithLogger(logger), WithNEstimators(5))
	_, err := f.Train(X, y)
	require.NoError(t, err)

	assert.True(t, logger.ContainsMessage("Forecaster trained"))
	assert.True(t, logger.ContainsField(log.ModelNameKey, "Forecaster"))
	assert.True(t, logger.ContainsField(log.SamplesKey, float64(20)))
}

func TestRank_TiesKeepFeatureOrder(t *testing.T) {
	got := rank([]string{"a", "b", "c", "d"}, []float64{0.2, 0.4, 0.2, 0.2})
	names := make([]string, len(got))
	for i, fs := range got {
		names[i] = fs.Name
	}
	assert.Equal(t, []string{"b", "a", "c", "d"}, names)
}

func TestMode_TieBreak(t *testing.T) {
	assert.Equal(t, "a", mode([]string{"b", "a"}))
	assert.Equal(t, "b", mode([]string{"b", "a", "b"}))
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}
