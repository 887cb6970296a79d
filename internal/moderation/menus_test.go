package moderation_test

import (
	"testing"

	"github.com/havenmod/haven/internal/moderation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChoice(t *testing.T) {
	t.Parallel()

	options := []moderation.AbuseType{
		moderation.AbuseBullying,
		moderation.AbuseSpam,
		moderation.AbuseOffensiveContent,
		moderation.AbuseImminentDanger,
	}

	tests := []struct {
		input string
		want  moderation.AbuseType
		valid bool
	}{
		{input: "1", want: moderation.AbuseBullying, valid: true},
		{input: " 4 ", want: moderation.AbuseImminentDanger, valid: true},
		{input: "0"},
		{input: "5"},
		{input: "-1"},
		{input: "one"},
		{input: ""},
	}

	for _, tt := range tests {
		got, err := moderation.ParseChoice(tt.input, options)
		if !tt.valid {
			require.ErrorIs(t, err, moderation.ErrInvalidChoice, tt.input)
			continue
		}

		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseYesNo(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"Y", "y", "yes", " YES "} {
		got, err := moderation.ParseYesNo(input)
		require.NoError(t, err, input)
		assert.True(t, got, input)
	}

	for _, input := range []string{"N", "n", "No"} {
		got, err := moderation.ParseYesNo(input)
		require.NoError(t, err, input)
		assert.False(t, got, input)
	}

	for _, input := range []string{"", "maybe", "yep"} {
		_, err := moderation.ParseYesNo(input)
		require.ErrorIs(t, err, moderation.ErrInvalidChoice, input)
	}
}

func TestStateNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "AWAITING_ABUSE_TYPE", moderation.ReportAwaitingAbuseType.String())
	assert.Equal(t, "REPORT_COMPLETE", moderation.ReportComplete.String())
	assert.Equal(t, "VIOLATION_TYPE", moderation.ReviewViolationType.String())
	assert.Equal(t, "AWAITING_BAN_POSTER", moderation.ReviewAwaitingBanPoster.String())
	assert.Equal(t, "UNKNOWN", moderation.ReportState(99).String())
}
