package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/YuminosukeSato/stockcast/pkg/errors"
)

// dateLayouts are tried in order; month-first wins over day-first for
// ambiguous slash dates.
var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	time.DateTime,
	"2006-01-02T15:04:05",
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/06",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2-Jan-2006",
	"02-Jan-06",
}

var (
	quantityColumns = []string{StockQuantity, ReorderLevel, SalesVolume, ReorderQuantity}
	dateColumns     = []string{DateReceived, LastOrderDate, ExpirationDate}
	priceReplacer   = strings.NewReplacer("$", "", "€", "", "£", "", ",", "")
)

// Clean converts a raw text table (header plus records) into a typed Dataset.
//
// Quantity columns become numbers with unparseable cells set to 0, date
// columns become dates with unparseable cells set to null, Status is
// normalized to Active/Inactive, and the derived columns Days_Of_Inventory,
// Inventory_Value and Inventory_Turnover_Rate are added when their inputs
// exist. Any other column is numeric when every non-empty cell parses as a
// number and text otherwise.
func Clean(header []string, records [][]string) (*Dataset, error) {
	names := make([]string, len(header))
	for j, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = fmt.Sprintf("col_%d", j)
		}
		names[j] = h
	}

	raw := make([][]string, len(names))
	for j := range raw {
		raw[j] = make([]string, len(records))
	}
	for i, rec := range records {
		if len(rec) > len(names) {
			return nil, errors.NewDimensionError(fmt.Sprintf("dataset.Clean[row %d]", i+2), len(names), len(rec), 1)
		}
		for j := range names {
			if j < len(rec) {
				raw[j][i] = strings.TrimSpace(rec[j])
			}
		}
	}

	cols := make([][]Value, len(names))
	for j, name := range names {
		switch {
		case name == Percentage:
			cols[j] = cleanPercentage(name, raw[j])
		case name == UnitPrice:
			cols[j] = cleanPrice(name, raw[j])
		case contains(quantityColumns, name):
			cols[j] = cleanQuantity(name, raw[j])
		case contains(dateColumns, name):
			cols[j] = cleanDate(name, raw[j])
		case name == Status:
			cols[j] = cleanStatus(raw[j])
		default:
			cols[j] = inferColumn(raw[j])
		}
	}

	ds, err := FromColumns(names, cols)
	if err != nil {
		return nil, err
	}
	return WithDerivedMetrics(ds)
}

// WithDerivedMetrics adds Days_Of_Inventory, Inventory_Value and
// Inventory_Turnover_Rate when the columns they depend on exist.
// Divisions by zero yield 0.
func WithDerivedMetrics(ds *Dataset) (*Dataset, error) {
	var err error
	n := ds.Len()

	if ds.Has(StockQuantity, SalesVolume) {
		days := make([]Value, n)
		turnover := make([]Value, n)
		for i := 0; i < n; i++ {
			stock, okS := ds.Float(i, StockQuantity)
			sales, okV := ds.Float(i, SalesVolume)
			if !okS || !okV {
				continue
			}
			days[i] = Number(errors.SafeDivide(stock, sales))
			turnover[i] = Number(errors.SafeDivide(sales, stock))
		}
		if ds, err = ds.WithColumn(DaysOfInventory, days); err != nil {
			return nil, err
		}
		if ds, err = ds.WithColumn(InventoryTurnoverRate, turnover); err != nil {
			return nil, err
		}
	}

	if ds.Has(StockQuantity, UnitPrice) {
		value := make([]Value, n)
		for i := 0; i < n; i++ {
			stock, okS := ds.Float(i, StockQuantity)
			price, okP := ds.Float(i, UnitPrice)
			if okS && okP {
				value[i] = Number(stock * price)
			}
		}
		if ds, err = ds.WithColumn(InventoryValue, value); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// ParseNumber parses a finite decimal number.
func ParseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseDate parses s with the first matching layout.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func cleanPercentage(name string, raw []string) []Value {
	out := make([]Value, len(raw))
	bad := 0
	for i, s := range raw {
		if s == "" {
			continue
		}
		f, ok := ParseNumber(strings.TrimSuffix(s, "%"))
		if !ok {
			bad++
			continue
		}
		out[i] = Number(f / 100)
	}
	warnCoerced(name, "number", "null", bad)
	return out
}

func cleanPrice(name string, raw []string) []Value {
	out := make([]Value, len(raw))
	bad := 0
	for i, s := range raw {
		if s == "" {
			continue
		}
		f, ok := ParseNumber(priceReplacer.Replace(s))
		if !ok {
			bad++
			continue
		}
		out[i] = Number(f)
	}
	warnCoerced(name, "number", "null", bad)
	return out
}

func cleanQuantity(name string, raw []string) []Value {
	out := make([]Value, len(raw))
	bad := 0
	for i, s := range raw {
		f, ok := ParseNumber(s)
		if !ok {
			if s != "" {
				bad++
			}
			f = 0
		}
		out[i] = Number(f)
	}
	warnCoerced(name, "number", "0", bad)
	return out
}

func cleanDate(name string, raw []string) []Value {
	out := make([]Value, len(raw))
	bad := 0
	for i, s := range raw {
		if s == "" {
			continue
		}
		t, ok := ParseDate(s)
		if !ok {
			bad++
			continue
		}
		out[i] = Date(t)
	}
	warnCoerced(name, "date", "null", bad)
	return out
}

func cleanStatus(raw []string) []Value {
	out := make([]Value, len(raw))
	title := cases.Title(language.Und)
	for i, s := range raw {
		switch title.String(s) {
		case "Inactive", "Discontinued":
			out[i] = Text(StatusInactive)
		default:
			out[i] = Text(StatusActive)
		}
	}
	return out
}

func inferColumn(raw []string) []Value {
	out := make([]Value, len(raw))
	numeric := true
	for i, s := range raw {
		if s == "" {
			continue
		}
		f, ok := ParseNumber(s)
		if !ok {
			numeric = false
			break
		}
		out[i] = Number(f)
	}
	if numeric {
		return out
	}
	for i, s := range raw {
		if s == "" {
			out[i] = Null()
			continue
		}
		out[i] = Text(s)
	}
	return out
}

func warnCoerced(column, toType, fill string, count int) {
	if count == 0 {
		return
	}
	errors.Warn(errors.NewDataConversionWarning("text", toType,
		fmt.Sprintf("%d unparseable cell(s) in column %s set to %s", count, column, fill)))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
