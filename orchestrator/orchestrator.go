// Package orchestrator runs the end-to-end demand forecast over a dataset:
// schema probe, feature build, training, future forecast and trend.
package orchestrator

import (
	"github.com/YuminosukeSato/stockcast/dataset"
	"github.com/YuminosukeSato/stockcast/forecast"
	"github.com/YuminosukeSato/stockcast/pkg/errors"
	"github.com/YuminosukeSato/stockcast/pkg/log"
)

// Config controls RunForecast.
type Config struct {
	// Horizon is the number of future days to forecast.
	Horizon int
	// TrendWindow is the moving-average window of the trend report.
	TrendWindow int
	// FillCategory annotates the future rows with the most frequent
	// training category.
	FillCategory bool

	NEstimators    int
	MinSamplesLeaf int
	RandomState    int64

	Logger log.Logger
}

// DefaultConfig は 7 日先、窓幅 5、100 本の木、葉の最小サンプル数 5、シード 42
func DefaultConfig() Config {
	return Config{
		Horizon:        7,
		TrendWindow:    5,
		FillCategory:   true,
		NEstimators:    100,
		MinSamplesLeaf: 5,
		RandomState:    42,
	}
}

// ForecastReport is the outcome of RunForecast.
type ForecastReport struct {
	Availability forecast.FeatureAvailability
	Training     forecast.TrainingResult
	// History is the training target in row order.
	History []float64
	// FutureDays holds the day_index of each predicted step.
	FutureDays  []float64
	Predictions []float64
	// FutureCategory is the category the future rows were annotated with;
	// empty when none was used.
	FutureCategory string
	// Retried is true when the category-aware forecast was rejected and
	// the predictions come from the reduced feature set.
	Retried bool
	Trend   forecast.TrendReport
}

// RunForecast trains a Forecaster on ds and forecasts cfg.Horizon days
// ahead.
//
// When ForecastFuture rejects the future frame with a FeatureMismatchError,
// the categorical columns are dropped and the forecast is retried exactly
// once through Predict. Any other error is returned unchanged.
func RunForecast(ds *dataset.Dataset, cfg Config) (*ForecastReport, error) {
	if cfg.Horizon <= 0 {
		return nil, errors.NewValidationError("Horizon", "must be positive", cfg.Horizon)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.GetLoggerWithName("orchestrator")
	}

	avail, err := forecast.ProbeDataset(ds)
	if err != nil {
		return nil, err
	}
	logger.Debug("Schema probed",
		log.TargetKey, avail.Target,
		"time_source", avail.TimeSource.String(),
		"category", avail.CategoryColumn,
	)

	X, y, err := forecast.Build(ds, avail)
	if err != nil {
		return nil, err
	}

	opts := []forecast.Option{forecast.WithLogger(logger)}
	if cfg.NEstimators > 0 {
		opts = append(opts, forecast.WithNEstimators(cfg.NEstimators))
	}
	if cfg.MinSamplesLeaf > 0 {
		opts = append(opts, forecast.WithMinSamplesLeaf(cfg.MinSamplesLeaf))
	}
	opts = append(opts, forecast.WithRandomState(cfg.RandomState))
	f := forecast.NewForecaster(opts...)

	res, err := f.Train(X, y)
	if err != nil {
		return nil, err
	}

	future, err := f.FutureFrame(cfg.Horizon, cfg.FillCategory)
	if err != nil {
		return nil, err
	}
	report := &ForecastReport{
		Availability: avail,
		Training:     res,
		History:      y,
	}
	report.FutureDays, _ = future.Numeric(forecast.DayIndex)
	if cfg.FillCategory && avail.HasCategory() {
		report.FutureCategory, _ = f.CategoryMode(avail.CategoryColumn)
	}

	preds, err := f.ForecastFuture(future)
	var mismatch *errors.FeatureMismatchError
	if errors.As(err, &mismatch) {
		logger.Warn("Forecast rejected the future frame, retrying without categorical features",
			log.OperationKey, log.OperationForecast,
			"missing", mismatch.Missing,
			"unexpected", mismatch.Unexpected,
		)
		report.Retried = true
		report.FutureCategory = ""
		preds, err = f.Predict(future.Without(f.CategoricalColumns()...))
	}
	if err != nil {
		return nil, err
	}
	report.Predictions = preds

	window := cfg.TrendWindow
	if window <= 0 {
		window = DefaultConfig().TrendWindow
	}
	if report.Trend, err = forecast.DetectTrend(y, window); err != nil {
		return nil, err
	}
	return report, nil
}
