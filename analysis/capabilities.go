// Package analysis implements the inventory reports: low stock, reorder
// suggestions, expirations, turnover and seasonal sales.
package analysis

import (
	"github.com/YuminosukeSato/stockcast/dataset"
)

// Capabilities lists which reports a dataset can support.
type Capabilities struct {
	LowStock      bool
	Reorder       bool
	Expiring      bool
	Turnover      bool
	Visualization bool
	Seasonal      bool
	Forecasting   bool
}

// DetectCapabilities derives the available reports from the column set.
func DetectCapabilities(ds *dataset.Dataset) Capabilities {
	_, hasCategory := ds.CategoryColumn()
	hasDate := ds.Has(dataset.DateReceived) || ds.Has(dataset.LastOrderDate)

	return Capabilities{
		LowStock:      ds.Has(dataset.StockQuantity, dataset.ReorderLevel),
		Reorder:       ds.Has(dataset.StockQuantity, dataset.ReorderLevel, dataset.Status),
		Expiring:      ds.Has(dataset.ExpirationDate),
		Turnover:      ds.Has(dataset.SalesVolume, dataset.StockQuantity),
		Visualization: hasCategory && ds.Has(dataset.StockQuantity),
		Seasonal:      hasDate && ds.Has(dataset.SalesVolume),
		Forecasting:   ds.Has(dataset.StockQuantity) && hasDate,
	}
}

// Names returns the enabled capability names in menu order.
func (c Capabilities) Names() []string {
	var out []string
	for _, e := range []struct {
		on   bool
		name string
	}{
		{c.LowStock, "low_stock"},
		{c.Reorder, "reorder"},
		{c.Expiring, "expiring"},
		{c.Turnover, "turnover"},
		{c.Visualization, "visualization"},
		{c.Seasonal, "seasonal"},
		{c.Forecasting, "forecasting"},
	} {
		if e.on {
			out = append(out, e.name)
		}
	}
	return out
}
