package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/stockcast/pkg/errors"
)

func TestMSE(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   *mat.VecDense
		yPred   *mat.VecDense
		want    float64
		wantErr bool
	}{
		{
			name:  "perfect prediction",
			yTrue: mat.NewVecDense(3, []float64{1, 2, 3}),
			yPred: mat.NewVecDense(3, []float64{1, 2, 3}),
			want:  0,
		},
		{
			name:  "mixed errors",
			yTrue: mat.NewVecDense(3, []float64{10, 20, 30}),
			yPred: mat.NewVecDense(3, []float64{12, 18, 33}),
			want:  17.0 / 3.0, // (4 + 4 + 9) / 3
		},
		{
			name:    "dimension mismatch",
			yTrue:   mat.NewVecDense(3, []float64{1, 2, 3}),
			yPred:   mat.NewVecDense(2, []float64{1, 2}),
			wantErr: true,
		},
		{
			name:    "empty vectors",
			yTrue:   &mat.VecDense{},
			yPred:   &mat.VecDense{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MSE(tt.yTrue, tt.yPred)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-10)
		})
	}
}

func TestRMSE(t *testing.T) {
	got, err := RMSE(mat.NewVecDense(2, []float64{0, 0}), mat.NewVecDense(2, []float64{3, 4}))
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(12.5), got, 1e-10)
}

func TestMAE(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{name: "perfect", yTrue: []float64{5, 6}, yPred: []float64{5, 6}, want: 0},
		{name: "symmetric errors", yTrue: []float64{1, 2, 3, 4}, yPred: []float64{1.5, 2.5, 2.5, 3.5}, want: 0.5},
		{name: "single large error", yTrue: []float64{100, 0}, yPred: []float64{90, 0}, want: 5},
		{name: "mismatch", yTrue: []float64{1, 2}, yPred: []float64{1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MAE(mat.NewVecDense(len(tt.yTrue), tt.yTrue), mat.NewVecDense(len(tt.yPred), tt.yPred))
			if tt.wantErr {
				var dimErr *errors.DimensionError
				assert.True(t, errors.As(err, &dimErr))
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-10)
		})
	}
}

func TestR2Score(t *testing.T) {
	var warnings []error
	errors.SetZerologWarnFunc(func(w error) { warnings = append(warnings, w) })
	defer errors.SetZerologWarnFunc(nil)

	tests := []struct {
		name      string
		yTrue     []float64
		yPred     []float64
		want      float64
		wantWarn  bool
		tolerance float64
	}{
		{name: "perfect prediction", yTrue: []float64{1, 2, 3, 4, 5}, yPred: []float64{1, 2, 3, 4, 5}, want: 1, tolerance: 1e-10},
		{name: "worse than mean baseline", yTrue: []float64{1, 2, 3, 4}, yPred: []float64{4, 3, 2, 1}, want: -3, tolerance: 1e-10},
		{name: "partial fit", yTrue: []float64{1, 2, 3}, yPred: []float64{1, 2, 4}, want: 0.5, tolerance: 1e-10},
		{name: "single sample", yTrue: []float64{7}, yPred: []float64{3}, want: 0, wantWarn: true},
		{name: "constant target missed", yTrue: []float64{3, 3, 3}, yPred: []float64{2, 3, 4}, want: 0, wantWarn: true},
		{name: "constant target hit", yTrue: []float64{3, 3}, yPred: []float64{3, 3}, want: 1, wantWarn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings = nil
			got, err := R2Score(mat.NewVecDense(len(tt.yTrue), tt.yTrue), mat.NewVecDense(len(tt.yPred), tt.yPred))
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, tt.tolerance)
			if tt.wantWarn {
				require.Len(t, warnings, 1)
				var metricWarn *errors.UndefinedMetricWarning
				assert.True(t, errors.As(warnings[0], &metricWarn))
			} else {
				assert.Empty(t, warnings)
			}
		})
	}
}

func BenchmarkMAE(b *testing.B) {
	size := 10000
	yTrue := mat.NewVecDense(size, nil)
	yPred := mat.NewVecDense(size, nil)
	for i := 0; i < size; i++ {
		yTrue.SetVec(i, float64(i))
		yPred.SetVec(i, float64(i)+0.1*float64(i%10))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = MAE(yTrue, yPred)
	}
}
