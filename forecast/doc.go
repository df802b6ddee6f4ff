// Package forecast is the adaptive demand-forecasting core.
//
// The pipeline copes with inventory tables whose columns vary:
//
//	avail, err := forecast.ProbeDataset(ds)   // target, time and category columns
//	X, y, err := forecast.Build(ds, avail)    // day_index + category frame, target vector
//	f := forecast.NewForecaster()
//	res, err := f.Train(X, y)                 // R², MAE, feature importance
//	future, err := f.FutureFrame(7, true)
//	preds, err := f.ForecastFuture(future)    // FeatureMismatchError => retry via Predict
//	trend, err := forecast.DetectTrend(y, 5)
//
// Predict aligns any frame to the training features (missing columns become
// zeros, unknown columns are dropped); ForecastFuture is strict about the
// categorical columns so callers can detect a mismatch and degrade
// explicitly.
package forecast
