// Package dataset holds the in-memory inventory table and its loaders.
//
// A Dataset is immutable: every derivation (WithColumn, Filter) returns a new
// value and never changes the receiver, so a Dataset can be shared between the
// analysis and forecasting layers without copying.
package dataset

import (
	"fmt"
	"time"

	"github.com/YuminosukeSato/stockcast/pkg/errors"
)

// Well-known inventory column names. Category is spelled the way the
// upstream inventory exports spell it; CategoryAlias is accepted as well.
const (
	ProductID             = "Product_ID"
	ProductName           = "Product_Name"
	Category              = "Catagory"
	CategoryAlias         = "Category"
	SupplierID            = "Supplier_ID"
	SupplierName          = "Supplier_Name"
	WarehouseLocation     = "Warehouse_Location"
	Status                = "Status"
	StockQuantity         = "Stock_Quantity"
	ReorderLevel          = "Reorder_Level"
	ReorderQuantity       = "Reorder_Quantity"
	UnitPrice             = "Unit_Price"
	SalesVolume           = "Sales_Volume"
	DateReceived          = "Date_Received"
	LastOrderDate         = "Last_Order_Date"
	ExpirationDate        = "Expiration_Date"
	Percentage            = "percentage"
	DaysOfInventory       = "Days_Of_Inventory"
	InventoryValue        = "Inventory_Value"
	InventoryTurnoverRate = "Inventory_Turnover_Rate"
	Season                = "Season"
	QuantitySold          = "Quantity Sold"
)

// Status values after cleaning.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Dataset is an ordered, column-major table of cells.
type Dataset struct {
	columns []string
	index   map[string]int
	cells   [][]Value // cells[column][row]
	nRows   int
}

// New builds a Dataset from row-major cells. Every row must have one cell
// per column.
func New(columns []string, rows [][]Value) (*Dataset, error) {
	cols := make([][]Value, len(columns))
	for j := range cols {
		cols[j] = make([]Value, len(rows))
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, errors.NewDimensionError(fmt.Sprintf("dataset.New[row %d]", i), len(columns), len(row), 1)
		}
		for j, v := range row {
			cols[j][i] = v
		}
	}
	return FromColumns(columns, cols)
}

// FromColumns builds a Dataset from column-major cells. The slices are
// copied.
func FromColumns(columns []string, values [][]Value) (*Dataset, error) {
	if len(columns) != len(values) {
		return nil, errors.NewDimensionError("dataset.FromColumns", len(columns), len(values), 1)
	}
	d := &Dataset{
		columns: make([]string, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
		cells:   make([][]Value, 0, len(columns)),
	}
	for j, name := range columns {
		if name == "" {
			return nil, errors.NewValidationError("columns", "column name must not be empty", j)
		}
		if _, dup := d.index[name]; dup {
			return nil, errors.NewValidationError("columns", "duplicate column", name)
		}
		if j == 0 {
			d.nRows = len(values[j])
		} else if len(values[j]) != d.nRows {
			return nil, errors.NewDimensionError(fmt.Sprintf("dataset.FromColumns[%s]", name), d.nRows, len(values[j]), 0)
		}
		d.index[name] = j
		d.columns = append(d.columns, name)
		d.cells = append(d.cells, append([]Value(nil), values[j]...))
	}
	return d, nil
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return d.nRows }

// Columns returns the column names in order.
func (d *Dataset) Columns() []string { return append([]string(nil), d.columns...) }

// ColumnSet returns the column names as a set.
func (d *Dataset) ColumnSet() map[string]struct{} {
	set := make(map[string]struct{}, len(d.columns))
	for _, c := range d.columns {
		set[c] = struct{}{}
	}
	return set
}

// Has reports whether every named column exists.
func (d *Dataset) Has(names ...string) bool {
	for _, n := range names {
		if _, ok := d.index[n]; !ok {
			return false
		}
	}
	return true
}

// CategoryColumn returns the name of the product-category column, if any.
func (d *Dataset) CategoryColumn() (string, bool) {
	for _, c := range []string{Category, CategoryAlias} {
		if d.Has(c) {
			return c, true
		}
	}
	return "", false
}

// Column returns a copy of the named column.
func (d *Dataset) Column(name string) ([]Value, bool) {
	j, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return append([]Value(nil), d.cells[j]...), true
}

// At returns the cell at row i of the named column; null when the column
// does not exist.
func (d *Dataset) At(i int, name string) Value {
	j, ok := d.index[name]
	if !ok {
		return Null()
	}
	return d.cells[j][i]
}

// Float returns the numeric cell at row i of the named column.
func (d *Dataset) Float(i int, name string) (float64, bool) {
	return d.At(i, name).Float()
}

// Str returns the display string of the cell at row i of the named column.
func (d *Dataset) Str(i int, name string) string {
	return d.At(i, name).String()
}

// Time returns the date cell at row i of the named column.
func (d *Dataset) Time(i int, name string) (time.Time, bool) {
	return d.At(i, name).Time()
}

// WithColumn returns a new Dataset with the named column added (appended)
// or replaced (in place). The receiver is not modified.
func (d *Dataset) WithColumn(name string, values []Value) (*Dataset, error) {
	if name == "" {
		return nil, errors.NewValidationError("name", "column name must not be empty", name)
	}
	if len(d.columns) > 0 && len(values) != d.nRows {
		return nil, errors.NewDimensionError(fmt.Sprintf("dataset.WithColumn[%s]", name), d.nRows, len(values), 0)
	}

	out := &Dataset{
		columns: append([]string(nil), d.columns...),
		index:   make(map[string]int, len(d.columns)+1),
		cells:   append([][]Value(nil), d.cells...),
		nRows:   len(values),
	}
	for k, v := range d.index {
		out.index[k] = v
	}
	col := append([]Value(nil), values...)
	if j, ok := out.index[name]; ok {
		out.cells[j] = col
	} else {
		out.index[name] = len(out.columns)
		out.columns = append(out.columns, name)
		out.cells = append(out.cells, col)
	}
	return out, nil
}

// Filter returns a new Dataset with the rows for which keep returns true.
func (d *Dataset) Filter(keep func(i int) bool) *Dataset {
	var rows []int
	for i := 0; i < d.nRows; i++ {
		if keep(i) {
			rows = append(rows, i)
		}
	}
	return d.Rows(rows)
}

// Rows returns a new Dataset holding the given rows in the given order.
func (d *Dataset) Rows(rows []int) *Dataset {
	out := &Dataset{
		columns: append([]string(nil), d.columns...),
		index:   make(map[string]int, len(d.columns)),
		cells:   make([][]Value, len(d.cells)),
		nRows:   len(rows),
	}
	for k, v := range d.index {
		out.index[k] = v
	}
	for j, col := range d.cells {
		sub := make([]Value, len(rows))
		for k, i := range rows {
			sub[k] = col[i]
		}
		out.cells[j] = sub
	}
	return out
}
