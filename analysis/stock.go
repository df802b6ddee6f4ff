package analysis

import (
	"math"
	"time"

	"github.com/YuminosukeSato/stockcast/dataset"
	"github.com/YuminosukeSato/stockcast/pkg/errors"
)

// DefaultLowStockThreshold is the stock level used when the dataset has no
// reorder level.
const DefaultLowStockThreshold = 10

// LowStockItem is one row of the low-stock report.
type LowStockItem struct {
	Row          int
	ProductName  string
	Stock        float64
	Category     string
	Supplier     string
	ReorderLevel float64
	// DaysUntilStockout is (stock / sales) * 30; +Inf when there are no
	// sales. Only meaningful when HasSales is true.
	DaysUntilStockout float64
	HasReorderLevel   bool
	HasSales          bool
}

// LowStockItems lists items at or below their reorder level (or at or below
// DefaultLowStockThreshold when there is no reorder level). When sales exist,
// that subset is narrowed to items that run out within thresholdDays. Only
// Active items are kept when a Status column exists.
func LowStockItems(ds *dataset.Dataset, thresholdDays float64) ([]LowStockItem, error) {
	if !ds.Has(dataset.StockQuantity) {
		return nil, errors.NewValueError("LowStockItems", "missing required 'Stock_Quantity' column")
	}
	hasReorder := ds.Has(dataset.ReorderLevel)
	hasSales := ds.Has(dataset.SalesVolume)
	hasStatus := ds.Has(dataset.Status)
	categoryCol, hasCategory := ds.CategoryColumn()

	var out []LowStockItem
	for i := 0; i < ds.Len(); i++ {
		stock, ok := ds.Float(i, dataset.StockQuantity)
		if !ok {
			continue
		}
		item := LowStockItem{
			Row:             i,
			ProductName:     ds.Str(i, dataset.ProductName),
			Stock:           stock,
			Supplier:        ds.Str(i, dataset.SupplierName),
			HasReorderLevel: hasReorder,
			HasSales:        hasSales,
		}
		if hasCategory {
			item.Category = ds.Str(i, categoryCol)
		}

		limit := float64(DefaultLowStockThreshold)
		if hasReorder {
			level, ok := ds.Float(i, dataset.ReorderLevel)
			if !ok {
				continue
			}
			item.ReorderLevel, limit = level, level
		}
		if stock > limit {
			continue
		}

		if hasSales {
			sales, _ := ds.Float(i, dataset.SalesVolume)
			item.DaysUntilStockout = daysUntilStockout(stock, sales)
			if item.DaysUntilStockout > thresholdDays {
				continue
			}
		}
		if hasStatus && ds.Str(i, dataset.Status) != dataset.StatusActive {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func daysUntilStockout(stock, sales float64) float64 {
	if sales <= 0 {
		return math.Inf(1)
	}
	return stock / sales * 30
}

// ExpiringItem is one row of the expiration report.
type ExpiringItem struct {
	Row            int
	ProductName    string
	ExpirationDate time.Time
	Category       string
	Stock          float64
	HasStock       bool
}

// ExpiringSoon lists items whose expiration date falls within
// [start of today, now + days].
func ExpiringSoon(ds *dataset.Dataset, now time.Time, days int) ([]ExpiringItem, error) {
	if !ds.Has(dataset.ExpirationDate) {
		return nil, errors.NewValueError("ExpiringSoon", "missing required 'Expiration_Date' column")
	}
	if days < 0 {
		return nil, errors.NewValidationError("days", "must not be negative", days)
	}
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	until := now.AddDate(0, 0, days)
	categoryCol, hasCategory := ds.CategoryColumn()

	var out []ExpiringItem
	for i := 0; i < ds.Len(); i++ {
		exp, ok := ds.Time(i, dataset.ExpirationDate)
		if !ok || exp.Before(from) || exp.After(until) {
			continue
		}
		item := ExpiringItem{
			Row:            i,
			ProductName:    ds.Str(i, dataset.ProductName),
			ExpirationDate: exp,
		}
		if hasCategory {
			item.Category = ds.Str(i, categoryCol)
		}
		item.Stock, item.HasStock = ds.Float(i, dataset.StockQuantity)
		out = append(out, item)
	}
	return out, nil
}
