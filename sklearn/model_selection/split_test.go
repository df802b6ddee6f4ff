package model_selection

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/stockcast/pkg/errors"
)

func TestTrainTestSplit_Sizes(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		testSize  float64
		wantTrain int
		wantTest  int
	}{
		{"ten rows", 10, 0.2, 8, 2},
		{"rounds test size up", 11, 0.2, 8, 3},
		{"two rows", 2, 0.2, 1, 1},
		{"keeps one training row", 3, 0.9, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			train, test, err := TrainTestSplit(tt.n, tt.testSize, 42)
			require.NoError(t, err)
			assert.Len(t, train, tt.wantTrain)
			assert.Len(t, test, tt.wantTest)

			all := append(append([]int(nil), train...), test...)
			sort.Ints(all)
			for i, v := range all {
				assert.Equal(t, i, v, "every sample appears exactly once")
			}
		})
	}
}

func TestTrainTestSplit_SingleSample(t *testing.T) {
	train, test, err := TrainTestSplit(1, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, train)
	assert.Equal(t, []int{0}, test)
}

func TestTrainTestSplit_Deterministic(t *testing.T) {
	train1, test1, err := TrainTestSplit(50, 0.2, 42)
	require.NoError(t, err)
	train2, test2, err := TrainTestSplit(50, 0.2, 42)
	require.NoError(t, err)

	assert.Equal(t, train1, train2)
	assert.Equal(t, test1, test2)
}

func TestTrainTestSplit_Errors(t *testing.T) {
	_, _, err := TrainTestSplit(0, 0.2, 42)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	for _, size := range []float64{0, 1, -0.5, 1.5} {
		_, _, err := TrainTestSplit(10, size, 42)
		var ve *errors.ValidationError
		assert.True(t, errors.As(err, &ve), "testSize=%v", size)
	}
}
