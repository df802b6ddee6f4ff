// Package chart renders inventory and forecast charts to image files.
//
// The output format follows the file extension (.png, .svg, .pdf ...), as
// decided by gonum/plot.
package chart

import (
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/stockcast/dataset"
	"github.com/YuminosukeSato/stockcast/pkg/errors"
)

const (
	width  = 8 * vg.Inch
	height = 5 * vg.Inch
)

// StockLevels は Stock_Quantity をカテゴリ別に合計した棒グラフを path に保存する
func StockLevels(ds *dataset.Dataset, path string) error {
	names, totals, err := stockByCategory(ds)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = "Stock Levels by Category"
	p.X.Label.Text = "Category"
	p.Y.Label.Text = "Stock Quantity"

	bars, err := plotter.NewBarChart(plotter.Values(totals), vg.Points(20))
	if err != nil {
		return errors.Wrap(err, "chart: stock levels")
	}
	bars.Color = plotutil.Color(0)
	p.Add(bars)
	p.NominalX(names...)

	return save(p, path)
}

// SeasonalTurnover は月別の平均 Sales_Volume をカテゴリ別の折れ線で path に保存する
func SeasonalTurnover(ds *dataset.Dataset, path string) error {
	series, err := monthlyAverages(ds)
	if err != nil {
		return err
	}

	p := plot.New()
	p.X.Label.Text = "Month"
	p.Y.Label.Text = "Average Sales Volume"
	p.Add(plotter.NewGrid())

	if len(series) == 1 && series[0].name == "" {
		p.Title.Text = "Average Monthly Turnover"
	} else {
		p.Title.Text = "Average Monthly Turnover by Category"
	}

	for i, s := range series {
		line, points, err := plotter.NewLinePoints(s.points)
		if err != nil {
			return errors.Wrap(err, "chart: seasonal turnover")
		}
		line.Color = plotutil.Color(i)
		points.Color = plotutil.Color(i)
		points.Shape = plotutil.Shape(i)
		p.Add(line, points)
		if s.name != "" {
			p.Legend.Add(s.name, line, points)
		}
	}
	return save(p, path)
}

// Forecast は実績値と予測値を 1 枚の折れ線グラフとして path に保存する
//
// 予測は実績の直後の時点から描画し、実績の最終点と線でつなぐ。
func Forecast(history, predictions []float64, path string) error {
	if len(history) == 0 && len(predictions) == 0 {
		return errors.NewEmptyInputError("chart.Forecast")
	}

	p := plot.New()
	p.Title.Text = "Demand Forecast"
	p.X.Label.Text = "Time Step"
	p.Y.Label.Text = "Quantity"
	p.Add(plotter.NewGrid())

	hist := make(plotter.XYs, len(history))
	for i, v := range history {
		hist[i] = plotter.XY{X: float64(i), Y: v}
	}
	if len(hist) > 0 {
		line, err := plotter.NewLine(hist)
		if err != nil {
			return errors.Wrap(err, "chart: history")
		}
		line.Color = plotutil.Color(0)
		p.Add(line)
		p.Legend.Add("history", line)
	}

	if len(predictions) > 0 {
		var fc plotter.XYs
		if len(hist) > 0 {
			fc = append(fc, hist[len(hist)-1])
		}
		for i, v := range predictions {
			fc = append(fc, plotter.XY{X: float64(len(history) + i), Y: v})
		}
		line, points, err := plotter.NewLinePoints(fc)
		if err != nil {
			return errors.Wrap(err, "chart: forecast")
		}
		line.Color = plotutil.Color(1)
		line.Dashes = plotutil.Dashes(1)
		points.Color = plotutil.Color(1)
		p.Add(line, points)
		p.Legend.Add("forecast", line)
	}
	return save(p, path)
}

func save(p *plot.Plot, path string) error {
	if err := p.Save(width, height, path); err != nil {
		return errors.Wrapf(err, "chart: failed to save %s", path)
	}
	return nil
}

func stockByCategory(ds *dataset.Dataset) ([]string, []float64, error) {
	categoryCol, ok := ds.CategoryColumn()
	if !ok || !ds.Has(dataset.StockQuantity) {
		return nil, nil, errors.NewValueError("chart.StockLevels", "insufficient data for stock level visualization")
	}
	sums := make(map[string]float64)
	for i := 0; i < ds.Len(); i++ {
		if q, ok := ds.Float(i, dataset.StockQuantity); ok {
			sums[ds.Str(i, categoryCol)] += q
		}
	}
	names := make([]string, 0, len(sums))
	for name := range sums {
		names = append(names, name)
	}
	sort.Strings(names)
	totals := make([]float64, len(names))
	for i, name := range names {
		totals[i] = sums[name]
	}
	return names, totals, nil
}

type series struct {
	name   string
	points plotter.XYs
}

// monthlyAverages groups Sales_Volume by calendar month (1-12) and category.
// Without a category column a single unnamed series is returned.
func monthlyAverages(ds *dataset.Dataset) ([]series, error) {
	dateCol := ""
	for _, c := range []string{dataset.DateReceived, dataset.LastOrderDate, dataset.ExpirationDate} {
		if ds.Has(c) {
			dateCol = c
			break
		}
	}
	if dateCol == "" || !ds.Has(dataset.SalesVolume) {
		return nil, errors.NewValueError("chart.SeasonalTurnover", "insufficient data for seasonal turnover visualization")
	}
	categoryCol, hasCategory := ds.CategoryColumn()

	type acc struct {
		sum   [13]float64
		count [13]int
	}
	groups := make(map[string]*acc)
	for i := 0; i < ds.Len(); i++ {
		t, ok := ds.Time(i, dateCol)
		if !ok {
			continue
		}
		sales, ok := ds.Float(i, dataset.SalesVolume)
		if !ok {
			continue
		}
		name := ""
		if hasCategory {
			name = ds.Str(i, categoryCol)
		}
		a, ok := groups[name]
		if !ok {
			a = &acc{}
			groups[name] = a
		}
		a.sum[t.Month()] += sales
		a.count[t.Month()]++
	}
	if len(groups) == 0 {
		return nil, errors.NewEmptyInputError("chart.SeasonalTurnover")
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]series, 0, len(names))
	for _, name := range names {
		a := groups[name]
		s := series{name: name}
		for m := 1; m <= 12; m++ {
			if a.count[m] > 0 {
				s.points = append(s.points, plotter.XY{X: float64(m), Y: a.sum[m] / float64(a.count[m])})
			}
		}
		out = append(out, s)
	}
	return out, nil
}
