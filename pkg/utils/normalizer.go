package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TextNormalizer folds user input into a canonical form for keyword matching.
// This is not safe for concurrent use.
type TextNormalizer struct {
	transformer transform.Transformer
}

// NewTextNormalizer creates a new TextNormalizer instance.
func NewTextNormalizer() *TextNormalizer {
	return &TextNormalizer{
		transformer: transform.Chain(
			norm.NFKD,                          // Decompose with compatibility decomposition
			runes.Remove(runes.In(unicode.Mn)), // Remove non-spacing marks
			cases.Fold(),                       // Unicode case folding
			norm.NFKC,                          // Recompose
		),
	}
}

// Normalize compresses whitespace and folds the text.
// Returns empty string if normalization fails or input is empty.
func (n *TextNormalizer) Normalize(s string) string {
	s = CompressAllWhitespace(s)
	if s == "" {
		return ""
	}

	n.transformer.Reset()

	result, _, err := transform.String(n.transformer, s)
	if err != nil {
		return ""
	}

	return result
}

// NormalizeCommand returns the canonical form of a chat command.
// It is safe for concurrent use.
func NormalizeCommand(s string) string {
	return NewTextNormalizer().Normalize(s)
}

// IsKeyword reports whether the message is exactly the given keyword after folding.
func IsKeyword(message, keyword string) bool {
	return NormalizeCommand(message) == strings.ToLower(keyword)
}
