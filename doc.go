// Package stockcast is an inventory analytics toolkit with an adaptive
// demand forecaster.
//
// It loads a table of stock-keeping-unit records (.csv or .xlsx), reports
// low stock, reorder suggestions, expirations, turnover and seasonal sales,
// and trains a random-forest regressor to forecast near-term demand even
// when only part of the expected schema is present.
//
// # Packages
//
//   - dataset: typed, immutable inventory table, loading and cleaning
//   - forecast: schema probe, feature builder, Forecaster and trend detector
//   - orchestrator: end-to-end forecast with the reduced-feature retry
//   - analysis: low stock, reorder list, expirations, turnover, seasonal sales
//   - chart: stock level, seasonal and forecast charts (gonum/plot)
//   - preprocessing: OneHotEncoder
//   - sklearn/tree, sklearn/ensemble: regression tree and random forest
//   - sklearn/model_selection: seeded train/test split
//   - metrics: MSE, RMSE, MAE, R²
//   - core/model, core/parallel: estimator state and parallel helpers
//   - pkg/errors, pkg/log: typed errors, warnings and structured logging
//
// # Quick Start
//
//	ds, err := dataset.Load("inventory.xlsx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report, err := orchestrator.RunForecast(ds, orchestrator.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(report.Predictions)
//
// The stockcast command (cmd/stockcast) exposes the same operations as
// subcommands and as an interactive menu.
package stockcast
