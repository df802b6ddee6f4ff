package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/stockcast/dataset"
	"github.com/YuminosukeSato/stockcast/pkg/errors"
)

// OverallGroup is the group name used when the dataset has no category column.
const OverallGroup = "Overall"

// TurnoverGroup は 1 グループ分の在庫回転率の要約統計量
type TurnoverGroup struct {
	Name   string
	Count  int
	Mean   float64
	Median float64
	// Std is the sample standard deviation; NaN when Count < 2.
	Std float64
}

// TurnoverStats は在庫回転率 (Sales_Volume / Stock_Quantity) をカテゴリ別に集計する
//
// Inventory_Turnover_Rate 列があればそれを使い、なければ販売数と在庫数から計算する。
// カテゴリ列がなければ全体を OverallGroup として 1 グループで返す。
// グループ名の昇順で返す。
func TurnoverStats(ds *dataset.Dataset) ([]TurnoverGroup, error) {
	rates, err := turnoverRates(ds)
	if err != nil {
		return nil, err
	}

	categoryCol, hasCategory := ds.CategoryColumn()
	groups := make(map[string][]float64)
	for i, r := range rates {
		if math.IsNaN(r) {
			continue
		}
		name := OverallGroup
		if hasCategory {
			name = ds.Str(i, categoryCol)
		}
		groups[name] = append(groups[name], r)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]TurnoverGroup, 0, len(names))
	for _, name := range names {
		values := groups[name]
		sort.Float64s(values)
		g := TurnoverGroup{
			Name:   name,
			Count:  len(values),
			Mean:   stat.Mean(values, nil),
			Median: median(values),
			Std:    math.NaN(),
		}
		if len(values) > 1 {
			g.Std = stat.StdDev(values, nil)
		}
		out = append(out, g)
	}
	return out, nil
}

// turnoverRates returns one rate per row; NaN marks rows without a rate.
func turnoverRates(ds *dataset.Dataset) ([]float64, error) {
	rates := make([]float64, ds.Len())
	switch {
	case ds.Has(dataset.InventoryTurnoverRate):
		for i := range rates {
			r, ok := ds.Float(i, dataset.InventoryTurnoverRate)
			if !ok {
				r = math.NaN()
			}
			rates[i] = r
		}
	case ds.Has(dataset.SalesVolume, dataset.StockQuantity):
		for i := range rates {
			sales, ok1 := ds.Float(i, dataset.SalesVolume)
			stock, ok2 := ds.Float(i, dataset.StockQuantity)
			if !ok1 || !ok2 {
				rates[i] = math.NaN()
				continue
			}
			rates[i] = errors.SafeDivide(sales, stock)
		}
	default:
		return nil, errors.NewValueError("TurnoverStats", "missing required 'Sales_Volume' and 'Stock_Quantity' columns")
	}
	return rates, nil
}

// median expects sorted input.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
