package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/YuminosukeSato/stockcast/chart"
	"github.com/YuminosukeSato/stockcast/dataset"
	"github.com/YuminosukeSato/stockcast/orchestrator"
)

func (a *app) runForecast(w io.Writer, ds *dataset.Dataset, cfg orchestrator.Config, withChart bool) error {
	report, err := orchestrator.RunForecast(ds, cfg)
	if err != nil {
		return err
	}
	writeForecast(w, report)

	if withChart {
		path := filepath.Join(a.outDir, "forecast.png")
		if err := chart.Forecast(report.History, report.Predictions, path); err != nil {
			return err
		}
		fmt.Fprintf(w, "\nSaved chart to %s\n", path)
	}
	return nil
}
