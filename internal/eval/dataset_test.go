package eval_test

import (
	"strings"
	"testing"

	"github.com/havenmod/haven/internal/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, ds *eval.CSVDataset) ([]eval.Example, error) {
	t.Helper()

	var out []eval.Example
	for example, err := range ds.All() {
		if err != nil {
			return out, err
		}
		out = append(out, example)
	}

	return out, nil
}

func TestCSVDataset(t *testing.T) {
	t.Parallel()

	input := "index,oh_label,Text\n" +
		"0,0,\"hello, friend\"\n" +
		"1,1.0,you are awful\n" +
		"2, 0.0 ,nice day\n"

	ds, err := eval.NewCSVDataset(strings.NewReader(input), "Text", "oh_label")
	require.NoError(t, err)

	examples, err := collect(t, ds)
	require.NoError(t, err)
	assert.Equal(t, []eval.Example{
		{Text: "hello, friend", Label: false},
		{Text: "you are awful", Label: true},
		{Text: "nice day", Label: false},
	}, examples)
}

func TestCSVDatasetErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		openErr error
		readErr error
	}{
		{
			name:    "missing text column",
			input:   "oh_label,Body\n0,hi\n",
			openErr: eval.ErrMissingColumn,
		},
		{
			name:    "missing label column",
			input:   "Text,label\nhi,0\n",
			openErr: eval.ErrMissingColumn,
		},
		{
			name:    "non numeric label",
			input:   "Text,oh_label\nhi,yes\n",
			readErr: eval.ErrInvalidLabel,
		},
		{
			name:    "short row",
			input:   "Text,extra,oh_label\nhi\n",
			readErr: eval.ErrMissingColumn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ds, err := eval.NewCSVDataset(strings.NewReader(tt.input), "Text", "oh_label")
			if tt.openErr != nil {
				require.ErrorIs(t, err, tt.openErr)
				return
			}
			require.NoError(t, err)

			_, err = collect(t, ds)
			require.ErrorIs(t, err, tt.readErr)
		})
	}
}

func TestParseLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"0", false},
		{"0.0", false},
		{"1", true},
		{"1.0", true},
		{"0.5", true},
		{" 1 ", true},
	}

	for _, tt := range tests {
		got, err := eval.ParseLabel(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	for _, input := range []string{"", "yes", "NaN", "nan", "Inf", "-Inf", "+infinity"} {
		_, err := eval.ParseLabel(input)
		require.ErrorIs(t, err, eval.ErrInvalidLabel, input)
	}
}
