package moderation_test

import (
	"testing"

	"github.com/havenmod/haven/internal/moderation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportIgnoresUsersWithoutSession(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	assert.Empty(t, h.dm(t, reporter, "hello there"))
	assert.Equal(t, 0, h.engine.Registry().Len())
}

func TestReportHelpDoesNotChangeState(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.dm(t, reporter, "report")

	lines := h.dm(t, reporter, "HELP")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "`report`")
	assert.Equal(t, moderation.ReportAwaitingMessage, h.session(t, reporter.ID).ReportState())
}

func TestReportFindsMessage(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	lines := h.dm(t, reporter, "Report")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "link to the message")

	lines = h.dm(t, reporter, reportLink)
	s := h.session(t, reporter.ID)

	assert.Equal(t, moderation.ReportAwaitingAbuseType, s.ReportState())
	assert.Equal(t, []moderation.SummaryEntry{
		{Key: "Author", Value: "mallory"},
		{Key: "Content", Value: "nobody likes you"},
	}, s.Summary())

	assert.Equal(t, []string{
		"I found this message:",
		"```mallory: nobody likes you```",
		"Attached image: https://cdn.example.com/a.png",
		"Please classify this message by replying with its number:",
		"1. Bullying",
		"2. Spam",
		"3. Offensive Content",
		"4. Imminent Danger",
	}, lines)
}

func TestReportBullyingMenu(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.dm(t, reporter, "report")
	h.dm(t, reporter, reportLink)

	lines := h.dm(t, reporter, "1")
	assert.Equal(t, []string{
		"Please specify the type of bullying:",
		"1. Threatening or Abusive Messages",
		"2. Doxxing or Exposing Private Information",
		"3. Sharing Nonconsensual Images",
	}, lines)
	assert.Equal(t, moderation.ReportAwaitingBullyingType, h.session(t, reporter.ID).ReportState())
}

func TestReportLinkErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "unparsable link", input: "not a link", want: "couldn't read that link"},
		{name: "unknown guild", input: "https://discord.com/channels/9/2/3", want: "guilds that I'm not in"},
		{name: "unknown channel", input: "https://discord.com/channels/1/9/3", want: "channel was deleted"},
		{name: "unknown message", input: "https://discord.com/channels/1/2/9", want: "message was deleted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t)
			h.dm(t, reporter, "report")

			lines := h.dm(t, reporter, tt.input)
			require.Len(t, lines, 1)
			assert.Contains(t, lines[0], tt.want)

			s := h.session(t, reporter.ID)
			assert.Equal(t, moderation.ReportAwaitingMessage, s.ReportState())
			assert.Empty(t, s.Summary())
		})
	}
}

func TestReportResolverFailureKeepsState(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.dm(t, reporter, "report")
	h.resolver.err = errService

	_, err := h.engine.HandleDirectMessage(t.Context(), reporter, reportLink)
	require.ErrorIs(t, err, errService)
	assert.Equal(t, moderation.ReportAwaitingMessage, h.session(t, reporter.ID).ReportState())
}

func TestReportInvalidChoiceReprompts(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.dm(t, reporter, "report")
	h.dm(t, reporter, reportLink)

	for _, input := range []string{"0", "5", "bullying", ""} {
		lines := h.dm(t, reporter, input)
		require.Len(t, lines, 6, input)
		assert.Equal(t, moderation.MsgInvalidChoice, lines[0])
		assert.Equal(t, "4. Imminent Danger", lines[5])
		assert.Equal(t, moderation.ReportAwaitingAbuseType, h.session(t, reporter.ID).ReportState())
	}

	assert.Len(t, h.session(t, reporter.ID).Summary(), 2)
}

func TestReportBullyingSelfWithResources(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	for _, input := range []string{"report", reportLink, "1", "1", "2"} {
		h.dm(t, reporter, input)
	}

	lines := h.dm(t, reporter, "1")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "(Y/N)")
	assert.Equal(t, moderation.ReportAwaitingResources, h.session(t, reporter.ID).ReportState())

	lines = h.dm(t, reporter, "maybe")
	assert.Equal(t, moderation.MsgInvalidYesNo, lines[0])
	assert.Equal(t, moderation.ReportAwaitingResources, h.session(t, reporter.ID).ReportState())

	lines = h.dm(t, reporter, "y")
	assert.Contains(t, lines, "988 Suicide & Crisis Lifeline")
	assert.Contains(t, lines, "3. Do not block")
	assert.Equal(t, moderation.ReportAwaitingBlockType, h.session(t, reporter.ID).ReportState())

	require.Len(t, h.classifier.reports, 1)
	assert.Equal(t, "Bullying type", h.classifier.reports[0][3].Key)
	assert.Equal(t, "Threatening or Abusive Messages", h.classifier.reports[0][3].Value)

	lines = h.dm(t, reporter, "2")
	assert.Contains(t, lines[0], "future accounts")

	s := h.session(t, reporter.ID)
	assert.Equal(t, moderation.ReportAwaitingReview, s.ReportState())
	assert.Equal(t, []moderation.SummaryEntry{
		{Key: "Author", Value: "mallory"},
		{Key: "Content", Value: "nobody likes you"},
		{Key: "Abuse type", Value: "Bullying"},
		{Key: "Bullying type", Value: "Threatening or Abusive Messages"},
		{Key: "Target already blocked poster", Value: "No"},
		{Key: "Target", Value: "Me"},
		{Key: "Block preference", Value: "Block this account and future accounts they create"},
	}, s.Summary())
}

func TestReportResourcesFailureKeepsState(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	for _, input := range []string{"report", reportLink, "1", "3", "3", "1"} {
		h.dm(t, reporter, input)
	}

	h.classifier.resourceErr = errService

	_, err := h.engine.HandleDirectMessage(t.Context(), reporter, "Y")
	require.ErrorIs(t, err, errService)
	assert.Equal(t, moderation.ReportAwaitingResources, h.session(t, reporter.ID).ReportState())

	lines := h.dm(t, reporter, "N")
	assert.Contains(t, lines, "Thank you for keeping our community safe!")
	assert.Equal(t, moderation.ReportAwaitingBlockType, h.session(t, reporter.ID).ReportState())
}

func TestReportBullyingOtherVictimSkipsResources(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	for _, input := range []string{"report", reportLink, "1", "2", "1"} {
		h.dm(t, reporter, input)
	}

	lines := h.dm(t, reporter, "2")
	assert.Contains(t, lines[0], "looking out for others")
	assert.Equal(t, moderation.ReportAwaitingBlockType, h.session(t, reporter.ID).ReportState())
	assert.Empty(t, h.classifier.reports)
}

func TestReportSubmittedIsQueuedAndAnnounced(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.fileReport(t, reporter)

	assert.Equal(t, 1, h.engine.Registry().Pending())
	require.Len(t, h.notifier.channels, 1)
	assert.Equal(t, modChannel, h.notifier.channels[0].to)
	assert.Contains(t, h.notifier.channels[0].text, "alice")

	lines := h.dm(t, reporter, "anything")
	assert.Equal(t, []string{"Your report is pending moderator review."}, lines)

	lines = h.dm(t, reporter, "report")
	assert.Equal(t, []string{"Your report is pending moderator review."}, lines)
	assert.Equal(t, 1, h.engine.Registry().Pending())
}

func TestReportCancelFromEveryState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		inputs []string
		state  moderation.ReportState
	}{
		{name: "awaiting message", inputs: []string{"report"}, state: moderation.ReportAwaitingMessage},
		{name: "awaiting abuse type", inputs: []string{"report", reportLink}, state: moderation.ReportAwaitingAbuseType},
		{name: "awaiting bullying type", inputs: []string{"report", reportLink, "1"}, state: moderation.ReportAwaitingBullyingType},
		{name: "awaiting victim block", inputs: []string{"report", reportLink, "1", "1"}, state: moderation.ReportAwaitingVictimBlock},
		{name: "awaiting victim type", inputs: []string{"report", reportLink, "1", "1", "1"}, state: moderation.ReportAwaitingVictimType},
		{name: "awaiting resources", inputs: []string{"report", reportLink, "1", "1", "1", "1"}, state: moderation.ReportAwaitingResources},
		{name: "awaiting block type", inputs: []string{"report", reportLink, "4"}, state: moderation.ReportAwaitingBlockType},
		{name: "awaiting review", inputs: []string{"report", reportLink, "4", "1"}, state: moderation.ReportAwaitingReview},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t)
			for _, input := range tt.inputs {
				h.dm(t, reporter, input)
			}
			require.Equal(t, tt.state, h.session(t, reporter.ID).ReportState())

			announcements := len(h.notifier.channels)

			lines := h.dm(t, reporter, " Cancel ")
			assert.Equal(t, []string{"Report cancelled."}, lines)

			_, ok := h.engine.Registry().Get(reporter.ID)
			assert.False(t, ok)
			assert.Equal(t, 0, h.engine.Registry().Pending())
			assert.Empty(t, h.notifier.dms())
			assert.Len(t, h.notifier.channels, announcements)
			assert.Zero(t, h.ledger.calls)
		})
	}
}

func TestReportCancelRefusedDuringReview(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.fileReport(t, reporter)
	h.mod(t, "review")

	lines := h.dm(t, reporter, "cancel")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "can no longer be cancelled")
	assert.True(t, h.session(t, reporter.ID).InReview())
}
