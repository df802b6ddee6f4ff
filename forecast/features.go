package forecast

import (
	"fmt"
	"math"
	"time"

	"github.com/YuminosukeSato/stockcast/dataset"
	"github.com/YuminosukeSato/stockcast/pkg/errors"
)

// Build turns a cleaned dataset into a feature Frame and a target vector,
// following the columns chosen by Probe.
//
//   - day_index: whole days since the earliest date of the time column, or
//     the row number when the time is synthesized. Rows with no date get 0
//     and raise a DataConversionWarning.
//   - the category column is passed through as a categorical column.
//   - the target is copied as is; a null or non-numeric cell fails with
//     MissingTargetError.
//
// Row order is preserved and ds is never modified.
func Build(ds *dataset.Dataset, avail FeatureAvailability) (*Frame, []float64, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, nil, errors.NewEmptyInputError("forecast.Build")
	}
	n := ds.Len()

	y, err := targetValues(ds, avail.Target)
	if err != nil {
		return nil, nil, err
	}

	days, err := dayIndex(ds, avail)
	if err != nil {
		return nil, nil, err
	}

	frame, err := NewFrame().WithNumeric(DayIndex, days)
	if err != nil {
		return nil, nil, err
	}

	if avail.HasCategory() {
		col, ok := ds.Column(avail.CategoryColumn)
		if !ok {
			return nil, nil, errors.NewValidationError("CategoryColumn", "column not in dataset", avail.CategoryColumn)
		}
		cats := make([]string, n)
		for i, v := range col {
			cats[i] = v.String()
		}
		if frame, err = frame.WithCategorical(avail.CategoryColumn, cats); err != nil {
			return nil, nil, err
		}
	}
	return frame, y, nil
}

func targetValues(ds *dataset.Dataset, column string) ([]float64, error) {
	if column == "" || !ds.Has(column) {
		return nil, errors.NewMissingTargetError(column, -1, "is absent from the dataset")
	}
	y := make([]float64, ds.Len())
	for i := range y {
		v := ds.At(i, column)
		f, ok := v.Float()
		switch {
		case v.IsNull():
			return nil, errors.NewMissingTargetError(column, i, "is null")
		case !ok:
			return nil, errors.NewMissingTargetError(column, i, fmt.Sprintf("is not numeric (%q)", v.String()))
		case math.IsNaN(f) || math.IsInf(f, 0):
			return nil, errors.NewMissingTargetError(column, i, "is not finite")
		}
		y[i] = f
	}
	return y, nil
}

func dayIndex(ds *dataset.Dataset, avail FeatureAvailability) ([]float64, error) {
	n := ds.Len()
	days := make([]float64, n)

	if avail.SynthesizedTime() {
		for i := range days {
			days[i] = float64(i)
		}
		return days, nil
	}
	if !ds.Has(avail.TimeColumn) {
		return nil, errors.NewValidationError("TimeColumn", "column not in dataset", avail.TimeColumn)
	}

	dates := make([]time.Time, n)
	valid := make([]bool, n)
	var earliest time.Time
	missing := 0
	for i := 0; i < n; i++ {
		t, ok := ds.Time(i, avail.TimeColumn)
		if !ok {
			missing++
			continue
		}
		dates[i], valid[i] = t, true
		if earliest.IsZero() || t.Before(earliest) {
			earliest = t
		}
	}

	for i := range days {
		if valid[i] {
			days[i] = math.Floor(dates[i].Sub(earliest).Hours() / 24)
		}
	}
	if missing > 0 {
		errors.Warn(errors.NewDataConversionWarning("date", DayIndex,
			fmt.Sprintf("%d row(s) without %s filled with day offset 0", missing, avail.TimeColumn)))
	}
	return days, nil
}
