package analysis

import (
	"github.com/shopspring/decimal"

	"github.com/YuminosukeSato/stockcast/dataset"
)

// Summary is the dataset overview printed by the status command.
type Summary struct {
	Rows         int
	Columns      []string
	Active       int
	TotalStock   float64
	TotalValue   decimal.Decimal
	HasValue     bool
	Capabilities Capabilities
}

// Summarize counts rows, Active items, total stock and total inventory value.
func Summarize(ds *dataset.Dataset) Summary {
	s := Summary{
		Rows:         ds.Len(),
		Columns:      ds.Columns(),
		TotalValue:   decimal.Zero,
		HasValue:     ds.Has(dataset.InventoryValue),
		Capabilities: DetectCapabilities(ds),
	}
	for i := 0; i < ds.Len(); i++ {
		if ds.Str(i, dataset.Status) == dataset.StatusActive {
			s.Active++
		}
		if q, ok := ds.Float(i, dataset.StockQuantity); ok {
			s.TotalStock += q
		}
		if v, ok := ds.Float(i, dataset.InventoryValue); ok {
			s.TotalValue = s.TotalValue.Add(decimal.NewFromFloat(v))
		}
	}
	s.TotalValue = s.TotalValue.Round(2)
	return s
}
