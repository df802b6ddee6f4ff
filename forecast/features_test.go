package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/stockcast/dataset"
	"github.com/YuminosukeSato/stockcast/pkg/errors"
)

func day(d int) dataset.Value {
	return dataset.Date(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d))
}

func TestBuild_DateAndCategory(t *testing.T) {
	ds, err := dataset.New(
		[]string{dataset.StockQuantity, dataset.DateReceived, dataset.Category},
		[][]dataset.Value{
			{dataset.Number(10), day(3), dataset.Text("Dairy")},
			{dataset.Number(12), day(0), dataset.Text("Bakery")},
			{dataset.Number(7), day(10), dataset.Text("Dairy")},
		},
	)
	require.NoError(t, err)

	avail, err := ProbeDataset(ds)
	require.NoError(t, err)
	X, y, err := Build(ds, avail)
	require.NoError(t, err)

	assert.Equal(t, []float64{10, 12, 7}, y)
	days, ok := X.Numeric(DayIndex)
	require.True(t, ok)
	assert.Equal(t, []float64{3, 0, 10}, days)
	cats, ok := X.Categorical(dataset.Category)
	require.True(t, ok)
	assert.Equal(t, []string{"Dairy", "Bakery", "Dairy"}, cats)

	// ds is unchanged
	assert.Equal(t, []string{dataset.StockQuantity, dataset.DateReceived, dataset.Category}, ds.Columns())
}

func TestBuild_SynthesizedTime(t *testing.T) {
	ds, err := dataset.New(
		[]string{dataset.SalesVolume},
		[][]dataset.Value{{dataset.Number(1)}, {dataset.Number(2)}, {dataset.Number(3)}},
	)
	require.NoError(t, err)

	avail, err := ProbeDataset(ds)
	require.NoError(t, err)
	X, y, err := Build(ds, avail)
	require.NoError(t, err)

	days, _ := X.Numeric(DayIndex)
	assert.Equal(t, []float64{0, 1, 2}, days)
	assert.Equal(t, []float64{1, 2, 3}, y)
	assert.Empty(t, X.CategoricalNames())
}

func TestBuild_NullDatesWarn(t *testing.T) {
	var warnings []error
	errors.SetZerologWarnFunc(func(w error) { warnings = append(warnings, w) })
	defer errors.SetZerologWarnFunc(nil)

	ds, err := dataset.New(
		[]string{dataset.StockQuantity, dataset.LastOrderDate},
		[][]dataset.Value{
			{dataset.Number(1), day(5)},
			{dataset.Number(2), dataset.Null()},
			{dataset.Number(3), day(7)},
		},
	)
	require.NoError(t, err)

	avail, err := ProbeDataset(ds)
	require.NoError(t, err)
	X, _, err := Build(ds, avail)
	require.NoError(t, err)

	days, _ := X.Numeric(DayIndex)
	assert.Equal(t, []float64{0, 0, 2}, days)
	require.Len(t, warnings, 1)
	var w *errors.DataConversionWarning
	assert.True(t, errors.As(warnings[0], &w))
}

func TestBuild_Errors(t *testing.T) {
	avail := FeatureAvailability{Target: dataset.StockQuantity}

	t.Run("empty dataset", func(t *testing.T) {
		ds, err := dataset.New([]string{dataset.StockQuantity}, nil)
		require.NoError(t, err)
		_, _, err = Build(ds, avail)
		var ee *errors.EmptyInputError
		assert.True(t, errors.As(err, &ee))
	})

	tests := []struct {
		name string
		cell dataset.Value
	}{
		{"null target", dataset.Null()},
		{"text target", dataset.Text("many")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := dataset.New(
				[]string{dataset.StockQuantity},
				[][]dataset.Value{{dataset.Number(1)}, {tt.cell}},
			)
			require.NoError(t, err)
			_, _, err = Build(ds, avail)
			var mt *errors.MissingTargetError
			require.True(t, errors.As(err, &mt))
			assert.Equal(t, 1, mt.Row)
		})
	}

	t.Run("absent target", func(t *testing.T) {
		ds, err := dataset.New([]string{"Other"}, [][]dataset.Value{{dataset.Number(1)}})
		require.NoError(t, err)
		_, _, err = Build(ds, avail)
		var mt *errors.MissingTargetError
		assert.True(t, errors.As(err, &mt))
	})
}
