package analysis

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/YuminosukeSato/stockcast/dataset"
	"github.com/YuminosukeSato/stockcast/pkg/errors"
)

// Period is the bucket width of the seasonal turnover report.
type Period int

const (
	Weekly Period = iota
	Monthly
)

func (p Period) String() string {
	if p == Monthly {
		return "monthly"
	}
	return "weekly"
}

// ParsePeriod accepts "weekly"/"1" and "monthly"/"2".
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "weekly", "week", "1":
		return Weekly, nil
	case "monthly", "month", "2":
		return Monthly, nil
	}
	return Weekly, errors.NewValidationError("period", "must be weekly or monthly", s)
}

// Start returns the first day of the period containing t. Weeks start on
// Monday.
func (p Period) Start(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	if p == Monthly {
		return day.AddDate(0, 0, 1-day.Day())
	}
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// SeasonBucket is the summed sales of one category within one period.
type SeasonBucket struct {
	Start    time.Time
	Category string
	Sales    float64
}

// SeasonalTurnover sums Sales_Volume per period and category. The date is
// taken from the first of Date_Received, Last_Order_Date and Expiration_Date
// that exists; rows without a date are skipped. Buckets are ordered by
// period start, then category.
func SeasonalTurnover(ds *dataset.Dataset, period Period) ([]SeasonBucket, error) {
	if !ds.Has(dataset.SalesVolume) {
		return nil, errors.NewValueError("SeasonalTurnover", "missing required 'Sales_Volume' column")
	}
	dateCol := ""
	for _, c := range []string{dataset.DateReceived, dataset.LastOrderDate, dataset.ExpirationDate} {
		if ds.Has(c) {
			dateCol = c
			break
		}
	}
	if dateCol == "" {
		return nil, errors.NewValueError("SeasonalTurnover", "no date column available")
	}
	categoryCol, hasCategory := ds.CategoryColumn()

	type key struct {
		start    time.Time
		category string
	}
	sums := make(map[key]float64)
	for i := 0; i < ds.Len(); i++ {
		t, ok := ds.Time(i, dateCol)
		if !ok {
			continue
		}
		sales, ok := ds.Float(i, dataset.SalesVolume)
		if !ok || math.IsNaN(sales) {
			continue
		}
		k := key{start: period.Start(t), category: OverallGroup}
		if hasCategory {
			k.category = ds.Str(i, categoryCol)
		}
		sums[k] += sales
	}

	out := make([]SeasonBucket, 0, len(sums))
	for k, v := range sums {
		out = append(out, SeasonBucket{Start: k.start, Category: k.category, Sales: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

// SeasonalSuggestion is the suggested order quantity for one season.
type SeasonalSuggestion struct {
	Season  string
	Sold    float64
	Suggest float64
}

// seasonalBuffer is the safety margin applied on top of past seasonal sales.
const seasonalBuffer = 1.1

// SeasonalReorder sums "Quantity Sold" per Season and suggests 110% of it.
// ok is false when either column is absent.
func SeasonalReorder(ds *dataset.Dataset) (out []SeasonalSuggestion, ok bool) {
	if !ds.Has(dataset.Season, dataset.QuantitySold) {
		return nil, false
	}
	sums := make(map[string]float64)
	for i := 0; i < ds.Len(); i++ {
		q, ok := ds.Float(i, dataset.QuantitySold)
		if !ok {
			continue
		}
		sums[ds.Str(i, dataset.Season)] += q
	}
	seasons := make([]string, 0, len(sums))
	for s := range sums {
		seasons = append(seasons, s)
	}
	sort.Strings(seasons)
	for _, s := range seasons {
		out = append(out, SeasonalSuggestion{Season: s, Sold: sums[s], Suggest: sums[s] * seasonalBuffer})
	}
	return out, true
}
