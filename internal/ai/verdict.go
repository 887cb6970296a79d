package ai

import (
	"strings"
	"unicode"
)

// Verdict tokens the classifier is asked to answer with.
const (
	VerdictYes = "yes"
	VerdictNo  = "no"
)

// Request is the content submitted for classification.
type Request struct {
	// Text of the message being judged.
	Text string
	// PrimaryImages are attached to the message itself.
	PrimaryImages []string
	// ReferencedImages are attached to the message it replies to.
	ReferencedImages []string
}

// Result is a parsed classification response.
type Result struct {
	// Verdict is the lower-cased first word of the response.
	Verdict string
	// Rationale is the remainder of the response.
	Rationale string
	// Raw is the unmodified response text.
	Raw string
	// FailedOpen is set when the response was empty or not a yes/no answer.
	FailedOpen bool
}

// IsViolation reports whether the verdict flags the content.
func (r *Result) IsViolation() bool {
	return r.Verdict == VerdictYes
}

// ParseVerdict splits a response into its verdict token and rationale.
// Responses that are empty or do not start with yes/no are non-violating.
func ParseVerdict(raw string) *Result {
	result := &Result{Raw: raw}

	fields := strings.Fields(raw)
	if len(fields) == 0 {
		result.FailedOpen = true
		return result
	}

	result.Verdict = strings.ToLower(strings.TrimFunc(fields[0], func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}))
	result.Rationale = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), fields[0]))

	if result.Verdict != VerdictYes && result.Verdict != VerdictNo {
		result.FailedOpen = true
	}

	return result
}
