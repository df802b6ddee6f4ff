package analysis

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/YuminosukeSato/stockcast/dataset"
	"github.com/YuminosukeSato/stockcast/pkg/errors"
)

const (
	// minSuggestedQty is the floor for computed order quantities.
	minSuggestedQty = 10
	// coverDays is the number of days of sales a computed order covers.
	coverDays = 14
)

// ReorderItem は発注候補の 1 行
type ReorderItem struct {
	ProductID    string
	ProductName  string
	CurrentStock float64
	ReorderLevel float64
	SuggestedQty float64
	SupplierID   string
	SupplierName string
	Warehouse    string
	// UnitPrice and EstimatedCost are set only when HasPrice is true.
	UnitPrice     decimal.Decimal
	EstimatedCost decimal.Decimal
	HasPrice      bool
}

// ReorderList は在庫が発注点以下の Active 品目の発注候補を返す
//
// 発注数量は Reorder_Quantity があればその値、なければ 2 週間分の販売数
// (Sales_Volume/30*14)、それもなければ発注点の 2 倍。計算値は最低 10 とする。
// 金額は decimal で小数第 2 位に丸める。
func ReorderList(ds *dataset.Dataset) ([]ReorderItem, error) {
	if !ds.Has(dataset.StockQuantity, dataset.ReorderLevel, dataset.Status) {
		return nil, errors.NewValueError("ReorderList",
			"missing required columns: Stock_Quantity, Reorder_Level, Status")
	}
	var out []ReorderItem
	for i := 0; i < ds.Len(); i++ {
		stock, ok1 := ds.Float(i, dataset.StockQuantity)
		level, ok2 := ds.Float(i, dataset.ReorderLevel)
		if !ok1 || !ok2 || stock > level || ds.Str(i, dataset.Status) != dataset.StatusActive {
			continue
		}
		item := ReorderItem{
			ProductID:    orNA(ds.Str(i, dataset.ProductID)),
			ProductName:  orNA(ds.Str(i, dataset.ProductName)),
			CurrentStock: stock,
			ReorderLevel: level,
			SuggestedQty: suggestedQty(ds, i, level),
			SupplierID:   ds.Str(i, dataset.SupplierID),
			SupplierName: ds.Str(i, dataset.SupplierName),
			Warehouse:    ds.Str(i, dataset.WarehouseLocation),
		}
		if price, ok := ds.Float(i, dataset.UnitPrice); ok {
			item.HasPrice = true
			item.UnitPrice = decimal.NewFromFloat(price).Round(2)
			item.EstimatedCost = item.UnitPrice.Mul(decimal.NewFromFloat(item.SuggestedQty)).Round(2)
		}
		out = append(out, item)
	}
	return out, nil
}

func suggestedQty(ds *dataset.Dataset, i int, level float64) float64 {
	if ds.Has(dataset.ReorderQuantity) {
		if q, ok := ds.Float(i, dataset.ReorderQuantity); ok {
			return q
		}
	}
	if sales, ok := ds.Float(i, dataset.SalesVolume); ok {
		return math.Max(minSuggestedQty, sales/30*coverDays)
	}
	return math.Max(minSuggestedQty, level*2)
}

// TotalCost sums the estimated cost of the priced items.
func TotalCost(items []ReorderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		if it.HasPrice {
			total = total.Add(it.EstimatedCost)
		}
	}
	return total
}

// PredictFutureDemand estimates demand over days from the first row of the
// product: round(Sales_Volume / 30 * days), with ties rounded to even.
// ok is false when the columns or the product are missing.
func PredictFutureDemand(ds *dataset.Dataset, productID string, days int) (demand int, ok bool) {
	if !ds.Has(dataset.ProductID, dataset.SalesVolume) {
		return 0, false
	}
	for i := 0; i < ds.Len(); i++ {
		if ds.Str(i, dataset.ProductID) != productID {
			continue
		}
		sales, ok := ds.Float(i, dataset.SalesVolume)
		if !ok {
			return 0, false
		}
		return int(math.RoundToEven(sales / 30 * float64(days))), true
	}
	return 0, false
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
