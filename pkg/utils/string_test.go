package utils_test

import (
	"testing"

	"github.com/havenmod/haven/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func TestCompressAllWhitespace(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a b c", utils.CompressAllWhitespace(" a \n b\t\tc "))
	assert.Empty(t, utils.CompressAllWhitespace("\n\n"))
}

func TestCodeBlock(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "```alice: hi```", utils.CodeBlock("alice: hi"))
	assert.NotContains(t, utils.CodeBlock("a```b")[3:len(utils.CodeBlock("a```b"))-3], "```")
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{name: "short", input: "hello", limit: 10, want: "hello"},
		{name: "exact", input: "hello", limit: 5, want: "hello"},
		{name: "cut", input: "hello world", limit: 8, want: "hello..."},
		{name: "tiny limit", input: "hello", limit: 2, want: "he"},
		{name: "no limit", input: "hello", limit: 0, want: "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, utils.Truncate(tt.input, tt.limit))
		})
	}
}
