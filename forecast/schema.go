package forecast

import (
	"github.com/YuminosukeSato/stockcast/dataset"
	"github.com/YuminosukeSato/stockcast/pkg/errors"
)

// DayIndex is the name of the time feature, whether it comes from a date
// column or from row order.
const DayIndex = "day_index"

// TimeSource tells where the day_index feature comes from.
type TimeSource int

const (
	// TimeFromRowIndex synthesizes 0, 1, 2, ... over row order.
	TimeFromRowIndex TimeSource = iota
	// TimeFromReceived uses Date_Received.
	TimeFromReceived
	// TimeFromLastOrder uses Last_Order_Date.
	TimeFromLastOrder
)

func (s TimeSource) String() string {
	switch s {
	case TimeFromReceived:
		return "date_received"
	case TimeFromLastOrder:
		return "last_order_date"
	default:
		return "row_index"
	}
}

// FeatureAvailability is the result of probing a column set: which target
// and which feature groups the dataset can supply.
type FeatureAvailability struct {
	// Target is the regression target column (stock level or sales volume).
	Target string
	// TimeSource and TimeColumn describe the day_index feature. TimeColumn is
	// empty when TimeSource is TimeFromRowIndex.
	TimeSource TimeSource
	TimeColumn string
	// CategoryColumn is the product-category column, empty when absent.
	CategoryColumn string
}

// HasCategory reports whether a category feature is available.
func (a FeatureAvailability) HasCategory() bool { return a.CategoryColumn != "" }

// SynthesizedTime reports whether day_index falls back to row order.
func (a FeatureAvailability) SynthesizedTime() bool { return a.TimeSource == TimeFromRowIndex }

// Probe inspects a column set and picks the target, time and category
// columns. It fails only when no target column exists.
func Probe(columns map[string]struct{}) (FeatureAvailability, error) {
	has := func(c string) bool {
		_, ok := columns[c]
		return ok
	}

	var a FeatureAvailability
	switch {
	case has(dataset.StockQuantity):
		a.Target = dataset.StockQuantity
	case has(dataset.SalesVolume):
		a.Target = dataset.SalesVolume
	default:
		return FeatureAvailability{}, errors.NewNoTargetError(dataset.StockQuantity, dataset.SalesVolume)
	}

	switch {
	case has(dataset.DateReceived):
		a.TimeSource, a.TimeColumn = TimeFromReceived, dataset.DateReceived
	case has(dataset.LastOrderDate):
		a.TimeSource, a.TimeColumn = TimeFromLastOrder, dataset.LastOrderDate
	default:
		a.TimeSource = TimeFromRowIndex
	}

	switch {
	case has(dataset.Category):
		a.CategoryColumn = dataset.Category
	case has(dataset.CategoryAlias):
		a.CategoryColumn = dataset.CategoryAlias
	}
	return a, nil
}

// ProbeDataset probes the columns of ds.
func ProbeDataset(ds *dataset.Dataset) (FeatureAvailability, error) {
	return Probe(ds.ColumnSet())
}
