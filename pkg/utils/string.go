package utils

import (
	"regexp"
	"strings"
)

// MultipleSpaces matches any sequence of whitespace (including newlines).
var MultipleSpaces = regexp.MustCompile(`\s+`)

// CompressAllWhitespace replaces all whitespace sequences (including newlines) with a single space.
func CompressAllWhitespace(s string) string {
	return strings.TrimSpace(MultipleSpaces.ReplaceAllString(s, " "))
}

// CodeBlock wraps text in a Discord code block, escaping fences inside the text.
func CodeBlock(s string) string {
	return "```" + strings.ReplaceAll(s, "```", "`\u200b``") + "```"
}

// Truncate shortens s to at most limit runes, appending an ellipsis when cut.
func Truncate(s string, limit int) string {
	r := []rune(s)
	if limit <= 0 || len(r) <= limit {
		return s
	}

	if limit <= 3 {
		return string(r[:limit])
	}

	return string(r[:limit-3]) + "..."
}
