package logger_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/havenmod/haven/internal/setup/telemetry/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestLineCapWriter(t *testing.T) {
	t.Parallel()

	t.Run("below cap keeps everything", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "main.log")
		w, err := logger.OpenLineCapWriter(path, 5)
		require.NoError(t, err)
		defer w.Close()

		for i := range 4 {
			_, err := fmt.Fprintf(w, "line %d\n", i)
			require.NoError(t, err)
		}

		assert.Equal(t, []string{"line 0", "line 1", "line 2", "line 3"}, readLines(t, path))
	})

	t.Run("compacts to newest lines", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "main.log")
		w, err := logger.OpenLineCapWriter(path, 3)
		require.NoError(t, err)
		defer w.Close()

		for i := range 6 {
			_, err := fmt.Fprintf(w, "line %d\n", i)
			require.NoError(t, err)
		}

		assert.Equal(t, []string{"line 3", "line 4", "line 5"}, readLines(t, path))

		_, err = w.Write([]byte("line 6\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"line 3", "line 4", "line 5", "line 6"}, readLines(t, path))
	})

	t.Run("multi-line writes", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "main.log")
		w, err := logger.OpenLineCapWriter(path, 2)
		require.NoError(t, err)
		defer w.Close()

		_, err = w.Write([]byte("a\nb\nc\nd\n"))
		require.NoError(t, err)

		assert.Equal(t, []string{"c", "d"}, readLines(t, path))
	})
}
