package utils_test

import (
	"testing"

	"github.com/havenmod/haven/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func TestTextNormalizer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \n\t ",
			want:  "",
		},
		{
			name:  "basic keyword",
			input: "Report",
			want:  "report",
		},
		{
			name:  "surrounding whitespace",
			input: "  CANCEL \n",
			want:  "cancel",
		},
		{
			name:  "diacritics",
			input: "Révïew",
			want:  "review",
		},
		{
			name:  "inner whitespace compressed",
			input: "eval    data.csv",
			want:  "eval data.csv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			n := utils.NewTextNormalizer()
			assert.Equal(t, tt.want, n.Normalize(tt.input))
			assert.Equal(t, tt.want, utils.NormalizeCommand(tt.input))
		})
	}
}

func TestIsKeyword(t *testing.T) {
	t.Parallel()

	assert.True(t, utils.IsKeyword(" HELP ", "help"))
	assert.True(t, utils.IsKeyword("y", "Y"))
	assert.False(t, utils.IsKeyword("helper", "help"))
	assert.False(t, utils.IsKeyword("", "help"))
}
