package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/havenmod/haven/internal/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWriteChartLogsPath(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)

	var matrix eval.ConfusionMatrix
	matrix.Add(true, true)
	matrix.Add(false, false)

	path := filepath.Join(t.TempDir(), "chart.png")
	require.NoError(t, writeChart(&matrix, path, zap.New(core)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	entries := logs.FilterMessage("Chart written").All()
	require.Len(t, entries, 1)
	assert.Equal(t, path, entries[0].ContextMap()["path"])
}

func TestWriteChartEmptyMatrix(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)

	err := writeChart(&eval.ConfusionMatrix{}, filepath.Join(t.TempDir(), "chart.png"), zap.New(core))
	require.ErrorIs(t, err, eval.ErrEmptyDataset)
	assert.Zero(t, logs.Len())
}
