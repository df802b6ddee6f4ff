package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/YuminosukeSato/stockcast/analysis"
	"github.com/YuminosukeSato/stockcast/dataset"
	"github.com/YuminosukeSato/stockcast/orchestrator"
)

const rule = "=================================================="

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func num(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func writeStatus(w io.Writer, ds *dataset.Dataset, s analysis.Summary, head int) {
	fmt.Fprintln(w, "Current Inventory Status:")
	fmt.Fprintf(w, "Rows: %d  Active: %d  Total stock: %s\n", s.Rows, s.Active, num(s.TotalStock))
	if s.HasValue {
		fmt.Fprintf(w, "Inventory value: %s\n", s.TotalValue.StringFixed(2))
	}
	fmt.Fprintf(w, "Columns: %s\n", strings.Join(s.Columns, ", "))
	if caps := s.Capabilities.Names(); len(caps) > 0 {
		fmt.Fprintf(w, "Available analyses: %s\n", strings.Join(caps, ", "))
	}

	if head <= 0 || ds.Len() == 0 {
		return
	}
	fmt.Fprintln(w)
	tw := newTable(w)
	fmt.Fprintln(tw, strings.Join(s.Columns, "\t"))
	for i := 0; i < ds.Len() && i < head; i++ {
		cells := make([]string, len(s.Columns))
		for j, c := range s.Columns {
			cells[j] = ds.Str(i, c)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	tw.Flush()
}

func writeLowStock(w io.Writer, items []analysis.LowStockItem) {
	fmt.Fprintln(w, "Low Stock Items:")
	if len(items) == 0 {
		fmt.Fprintln(w, "No low stock items found.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "Product_Name\tStock_Quantity\tReorder_Level\tCategory\tSupplier\tDays_Until_Stockout")
	for _, it := range items {
		level, days := "-", "-"
		if it.HasReorderLevel {
			level = num(it.ReorderLevel)
		}
		if it.HasSales {
			days = num(it.DaysUntilStockout)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", it.ProductName, num(it.Stock), level, it.Category, it.Supplier, days)
	}
	tw.Flush()
}

func writeReorder(w io.Writer, items []analysis.ReorderItem) {
	fmt.Fprintln(w, "Reorder List:")
	if len(items) == 0 {
		fmt.Fprintln(w, "Nothing to reorder.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "Product_ID\tProduct_Name\tCurrent_Stock\tReorder_Level\tSuggested_Qty\tSupplier\tWarehouse\tUnit_Price\tEstimated_Cost")
	for _, it := range items {
		price, cost := "-", "-"
		if it.HasPrice {
			price, cost = it.UnitPrice.StringFixed(2), it.EstimatedCost.StringFixed(2)
		}
		supplier := it.SupplierName
		if supplier == "" {
			supplier = it.SupplierID
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			it.ProductID, it.ProductName, num(it.CurrentStock), num(it.ReorderLevel), num(it.SuggestedQty),
			supplier, it.Warehouse, price, cost)
	}
	tw.Flush()
	fmt.Fprintf(w, "Total estimated cost: %s\n", analysis.TotalCost(items).StringFixed(2))
}

func writeSeasonalReorder(w io.Writer, out []analysis.SeasonalSuggestion) {
	fmt.Fprintln(w, "\nSeasonal Reorder Suggestions:")
	tw := newTable(w)
	fmt.Fprintln(tw, "Season\tQuantity_Sold\tSuggested_Reorder_Quantity")
	for _, s := range out {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Season, num(s.Sold), num(s.Suggest))
	}
	tw.Flush()
}

func writeExpiring(w io.Writer, items []analysis.ExpiringItem) {
	fmt.Fprintln(w, "Items Expiring Soon:")
	if len(items) == 0 {
		fmt.Fprintln(w, "No items expiring in the selected window.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "Product_Name\tExpiration_Date\tCategory\tStock_Quantity")
	for _, it := range items {
		stock := "-"
		if it.HasStock {
			stock = num(it.Stock)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", it.ProductName, it.ExpirationDate.Format(time.DateOnly), it.Category, stock)
	}
	tw.Flush()
}

func writeTurnover(w io.Writer, groups []analysis.TurnoverGroup) {
	fmt.Fprintln(w, "Inventory Turnover Analysis:")
	tw := newTable(w)
	fmt.Fprintln(tw, "Group\tCount\tMean\tMedian\tStd")
	for _, g := range groups {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", g.Name, g.Count, num(g.Mean), num(g.Median), num(g.Std))
	}
	tw.Flush()
}

func writeSeasonal(w io.Writer, p analysis.Period, buckets []analysis.SeasonBucket) {
	fmt.Fprintf(w, "Seasonal Turnover (%s):\n", p)
	if len(buckets) == 0 {
		fmt.Fprintln(w, "No dated sales found.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "Period_Start\tCategory\tSales_Volume")
	for _, b := range buckets {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", b.Start.Format(time.DateOnly), b.Category, num(b.Sales))
	}
	tw.Flush()
}

func writeForecast(w io.Writer, r *orchestrator.ForecastReport) {
	fmt.Fprintf(w, "Target: %s  Time feature: %s\n", r.Availability.Target, r.Availability.TimeSource)
	fmt.Fprintln(w, "\nModel trained successfully.")
	fmt.Fprintf(w, "R² score: %.2f\n", r.Training.R2Score)
	fmt.Fprintf(w, "Mean Absolute Error: %.2f\n", r.Training.MAE)

	fmt.Fprintln(w, "\nFeature Importance:")
	tw := newTable(w)
	for _, s := range r.Training.FeatureImportance {
		fmt.Fprintf(tw, "%s:\t%.2f\n", s.Name, s.Score)
	}
	tw.Flush()

	if r.FutureCategory != "" && !r.Retried {
		fmt.Fprintf(w, "\nUsing category '%s' for forecasting\n", r.FutureCategory)
	}
	if r.Retried {
		fmt.Fprintln(w, "\nForecast without category features:")
	} else {
		fmt.Fprintf(w, "\nForecast for Next %d Days:\n", len(r.Predictions))
	}
	for i, v := range r.Predictions {
		fmt.Fprintf(w, "Day %d: %.2f units\n", i+1, v)
	}

	fmt.Fprintf(w, "\nOverall Trend Detected: %s\n", cases.Title(language.English).String(r.Trend.Direction.String()))
	fmt.Fprintf(w, "Trend Strength: %.2f%%\n", r.Trend.Strength*100)
}
