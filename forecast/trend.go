package forecast

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/stockcast/dataset"
	"github.com/YuminosukeSato/stockcast/pkg/errors"
)

// Direction is the classified direction of a trend.
type Direction int

const (
	InsufficientData Direction = iota
	Increasing
	Decreasing
)

func (d Direction) String() string {
	switch d {
	case Increasing:
		return "increasing"
	case Decreasing:
		return "decreasing"
	default:
		return "insufficient data"
	}
}

// TrendReport is the result of DetectTrend.
type TrendReport struct {
	Direction Direction
	// Strength is |last - first| / |first| of the smoothed series; 0 when
	// first is 0 or the data is insufficient.
	Strength float64
	// Window is the moving-average window actually used.
	Window int
	// Smoothed holds one moving average per complete window.
	Smoothed []float64
}

// DetectTrend smooths series with a simple moving average and compares its
// first and last points.
//
// A window larger than the series is clamped to the series length. A window
// of zero or less, or fewer than two smoothed points, give InsufficientData
// with strength 0. Equal first and last points are classified as Decreasing.
func DetectTrend(series []float64, window int) (TrendReport, error) {
	if window <= 0 {
		return TrendReport{Direction: InsufficientData}, nil
	}
	if err := errors.CheckFinite("DetectTrend", series); err != nil {
		return TrendReport{}, err
	}

	w := window
	if w > len(series) {
		w = len(series)
	}
	report := TrendReport{Direction: InsufficientData, Window: w}
	if w == 0 {
		return report, nil
	}

	smoothed := make([]float64, 0, len(series)-w+1)
	for i := 0; i+w <= len(series); i++ {
		smoothed = append(smoothed, stat.Mean(series[i:i+w], nil))
	}
	report.Smoothed = smoothed
	if len(smoothed) < 2 {
		return report, nil
	}

	first, last := smoothed[0], smoothed[len(smoothed)-1]
	if last > first {
		report.Direction = Increasing
	} else {
		report.Direction = Decreasing
	}
	report.Strength = errors.SafeDivide(math.Abs(last-first), math.Abs(first))
	return report, nil
}

// DetectColumnTrend runs DetectTrend over the numeric cells of a dataset
// column in row order. Null cells are skipped.
func DetectColumnTrend(ds *dataset.Dataset, column string, window int) (TrendReport, error) {
	values, ok := ds.Column(column)
	if !ok {
		return TrendReport{}, errors.NewValueError("DetectColumnTrend", fmt.Sprintf("column '%s' not found in dataset", column))
	}
	series := make([]float64, 0, len(values))
	for i, v := range values {
		if v.IsNull() {
			continue
		}
		f, ok := v.Float()
		if !ok {
			return TrendReport{}, errors.NewValueError("DetectColumnTrend",
				fmt.Sprintf("column '%s' is not numeric at row %d", column, i))
		}
		series = append(series, f)
	}
	return DetectTrend(series, window)
}
