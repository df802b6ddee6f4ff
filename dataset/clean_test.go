package dataset

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/stockcast/pkg/errors"
)

const inventoryCSV = `Product_ID,Product_Name,Catagory,Stock_Quantity,Reorder_Level,Unit_Price,Sales_Volume,Date_Received,Expiration_Date,Status,percentage,Supplier_Name,Shelf
P1,Milk,Dairy,10,15,$2.50,30,03/01/2024,2024-03-20, active ,5%,Acme,1
P2,Bread,Bakery,abc,5,"€1,200.00",0,2024-02-15,,discontinued,12.5%,Bake Co,
P3,Eggs,Dairy,0,5,£3,12,not a date,,Weird,,Acme,3
`

func captureWarnings(t *testing.T) *[]error {
	t.Helper()
	var warnings []error
	errors.SetZerologWarnFunc(func(w error) { warnings = append(warnings, w) })
	t.Cleanup(func() { errors.SetZerologWarnFunc(nil) })
	return &warnings
}

func TestReadCSV_Cleaning(t *testing.T) {
	warnings := captureWarnings(t)

	ds, err := ReadCSV(strings.NewReader(inventoryCSV))
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len())

	t.Run("quantities", func(t *testing.T) {
		f, ok := ds.Float(0, StockQuantity)
		assert.True(t, ok)
		assert.Equal(t, 10.0, f)
		f, ok = ds.Float(1, StockQuantity)
		assert.True(t, ok, "unparseable quantity becomes 0")
		assert.Equal(t, 0.0, f)
	})

	t.Run("prices", func(t *testing.T) {
		for i, want := range []float64{2.5, 1200, 3} {
			f, ok := ds.Float(i, UnitPrice)
			require.True(t, ok)
			assert.InDelta(t, want, f, 1e-9)
		}
	})

	t.Run("percentage", func(t *testing.T) {
		f, _ := ds.Float(0, Percentage)
		assert.InDelta(t, 0.05, f, 1e-12)
		f, _ = ds.Float(1, Percentage)
		assert.InDelta(t, 0.125, f, 1e-12)
		assert.True(t, ds.At(2, Percentage).IsNull())
	})

	t.Run("dates", func(t *testing.T) {
		got, ok := ds.Time(0, DateReceived)
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got)
		assert.True(t, ds.At(2, DateReceived).IsNull())
		assert.True(t, ds.At(1, ExpirationDate).IsNull())
	})

	t.Run("status", func(t *testing.T) {
		assert.Equal(t, StatusActive, ds.Str(0, Status))
		assert.Equal(t, StatusInactive, ds.Str(1, Status))
		assert.Equal(t, StatusActive, ds.Str(2, Status))
	})

	t.Run("inferred columns", func(t *testing.T) {
		assert.Equal(t, KindText, ds.At(0, ProductID).Kind())
		assert.Equal(t, KindText, ds.At(1, SupplierName).Kind())
		assert.Equal(t, KindNumber, ds.At(0, "Shelf").Kind())
		assert.True(t, ds.At(1, "Shelf").IsNull())
	})

	t.Run("derived metrics", func(t *testing.T) {
		days, _ := ds.Float(0, DaysOfInventory)
		assert.InDelta(t, 10.0/30.0, days, 1e-12)
		turnover, _ := ds.Float(0, InventoryTurnoverRate)
		assert.InDelta(t, 3.0, turnover, 1e-12)
		turnover, _ = ds.Float(2, InventoryTurnoverRate)
		assert.Equal(t, 0.0, turnover, "zero stock yields zero turnover")
		value, _ := ds.Float(0, InventoryValue)
		assert.InDelta(t, 25.0, value, 1e-12)
	})

	require.Len(t, *warnings, 2)
	var w *errors.DataConversionWarning
	assert.True(t, errors.As((*warnings)[0], &w))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2024-01-31", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), true},
		{"1/31/2024", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), true},
		{"2024/01/31", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), true},
		{"Jan 31, 2024", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), true},
		{"2024-01-31T10:00:00Z", time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"someday", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %v", got)
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	f, ok := ParseNumber(" 4.5 ")
	assert.True(t, ok)
	assert.Equal(t, 4.5, f)

	for _, s := range []string{"", "abc", "NaN", "Inf"} {
		_, ok := ParseNumber(s)
		assert.False(t, ok, s)
	}
}

func TestClean_HeaderHandling(t *testing.T) {
	ds, err := Clean([]string{"\ufeffProduct_Name", " "}, [][]string{{"Milk"}})
	require.NoError(t, err)
	assert.Equal(t, []string{ProductName, "col_1"}, ds.Columns())
	assert.True(t, ds.At(0, "col_1").IsNull())

	_, err = Clean([]string{"a"}, [][]string{{"1", "2"}})
	assert.Error(t, err)
}
