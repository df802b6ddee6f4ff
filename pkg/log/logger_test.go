package log

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scerrors "github.com/YuminosukeSato/stockcast/pkg/errors"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestZerologProvider_Fields(t *testing.T) {
	var buf bytes.Buffer
	provider := NewZerologProvider(&buf, LevelDebug)
	logger := provider.GetLoggerWithName("forecast").With(ModelNameKey, "Forecaster")

	logger.Info("Training completed", OperationKey, OperationFit, SamplesKey, 40)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "Training completed", lines[0]["message"])
	assert.Equal(t, "forecast", lines[0][ComponentKey])
	assert.Equal(t, "Forecaster", lines[0][ModelNameKey])
	assert.Equal(t, OperationFit, lines[0][OperationKey])
	assert.Equal(t, 40.0, lines[0][SamplesKey])
}

func TestZerologProvider_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	provider := NewZerologProvider(&buf, LevelWarn)
	logger := provider.GetLogger()

	logger.Debug("hidden")
	logger.Info("hidden too")
	logger.Warn("shown")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["message"])
	assert.False(t, logger.Enabled(context.Background(), LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), LevelError))
}

func TestZerologProvider_ErrorWithStack(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologProvider(&buf, LevelInfo).GetLogger()

	err := scerrors.NewModelNotTrainedError("Forecaster", "Predict")
	logger.Error("Forecast failed", err, OperationKey, OperationPredict)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0][ErrAttrKey], "not trained yet")
	assert.NotEmpty(t, lines[0][StacktraceKey])

	detail, ok := lines[0][errDetailAttrKey].(map[string]interface{})
	require.True(t, ok, "expected structured error detail")
	assert.Equal(t, "ModelNotTrainedError", detail["type"])
}

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SetupLogger("debug", &buf))
	defer func() {
		SetProvider(NewZerologProvider(&bytes.Buffer{}, LevelInfo))
		scerrors.SetZerologWarnFunc(nil)
	}()

	GetLoggerWithName("loader").Debug("loaded", PathKey, "inventory.csv")
	scerrors.Warn(scerrors.NewUndefinedMetricWarning("r2", "single sample", 0))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "loader", lines[0][ComponentKey])
	assert.Equal(t, "warnings", lines[1][ComponentKey])
	assert.Equal(t, "warn", lines[1]["level"])

	assert.Error(t, SetupLogger("verbose", &buf))
}

func TestToLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"trace", LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ToLogLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTestLogger(t *testing.T) {
	logger, _ := NewTestLogger(LevelInfo)
	logger.Debug("dropped")
	logger.With(ModelNameKey, "Forecaster").Info("fit done", R2ScoreKey, 0.5)
	logger.Error("boom", scerrors.New("bad input"))

	assert.False(t, logger.ContainsMessage("dropped"))
	assert.True(t, logger.ContainsMessage("fit done"))
	assert.True(t, logger.ContainsField(ModelNameKey, "Forecaster"))
	assert.True(t, logger.ContainsField(R2ScoreKey, 0.5))
	assert.True(t, logger.ContainsField(ErrAttrKey, "bad input"))

	entries, err := logger.GetLogEntries()
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	logger.Clear()
	assert.False(t, logger.ContainsMessage("fit done"))
}
