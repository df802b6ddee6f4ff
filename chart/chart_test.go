package chart

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/plotter"

	"github.com/YuminosukeSato/stockcast/dataset"
	"github.com/YuminosukeSato/stockcast/pkg/errors"
)

const inventoryCSV = `Product_Name,Catagory,Stock_Quantity,Sales_Volume,Date_Received
Milk,Dairy,5,60,2024-01-01
Bread,Bakery,20,30,2024-01-20
Eggs,Dairy,8,20,2024-01-08
Cheese,Dairy,7,10,2024-02-05
`

func load(t *testing.T, csv string) *dataset.Dataset {
	t.Helper()
	errors.SetZerologWarnFunc(func(error) {})
	t.Cleanup(func() { errors.SetZerologWarnFunc(nil) })
	ds, err := dataset.ReadCSV(strings.NewReader(csv))
	require.NoError(t, err)
	return ds
}

func assertWritten(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestStockByCategory(t *testing.T) {
	names, totals, err := stockByCategory(load(t, inventoryCSV))
	require.NoError(t, err)
	assert.Equal(t, []string{"Bakery", "Dairy"}, names)
	assert.Equal(t, []float64{20, 20}, totals)

	_, _, err = stockByCategory(load(t, "Stock_Quantity\n1\n"))
	assert.Error(t, err)
}

func TestMonthlyAverages(t *testing.T) {
	got, err := monthlyAverages(load(t, inventoryCSV))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Bakery", got[0].name)
	assert.Equal(t, plotter.XYs{{X: 1, Y: 30}}, got[0].points)
	assert.Equal(t, "Dairy", got[1].name)
	assert.Equal(t, plotter.XYs{{X: 1, Y: 40}, {X: 2, Y: 10}}, got[1].points)

	t.Run("no category", func(t *testing.T) {
		got, err := monthlyAverages(load(t, "Sales_Volume,Last_Order_Date\n4,2024-03-01\n6,2024-03-09\n"))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "", got[0].name)
		assert.Equal(t, plotter.XYs{{X: 3, Y: 5}}, got[0].points)
	})

	t.Run("no date column", func(t *testing.T) {
		_, err := monthlyAverages(load(t, "Sales_Volume\n4\n"))
		assert.Error(t, err)
	})
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	ds := load(t, inventoryCSV)

	tests := []struct {
		name string
		draw func(path string) error
	}{
		{"stock_levels.png", func(p string) error { return StockLevels(ds, p) }},
		{"seasonal.png", func(p string) error { return SeasonalTurnover(ds, p) }},
		{"forecast.png", func(p string) error { return Forecast([]float64{5, 20, 8, 7}, []float64{9, 10, 11}, p) }},
		{"forecast_only.svg", func(p string) error { return Forecast(nil, []float64{1, 2}, p) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			require.NoError(t, tt.draw(path))
			assertWritten(t, path)
		})
	}

	t.Run("empty forecast", func(t *testing.T) {
		err := Forecast(nil, nil, filepath.Join(dir, "empty.png"))
		assert.True(t, errors.Is(err, errors.ErrEmptyData))
	})
}
