package moderation

import (
	"fmt"
	"sync"

	"github.com/havenmod/haven/internal/ai"
	"github.com/havenmod/haven/internal/ledger"
)

// AutoFlagKeyPrefix prefixes registry keys of auto-flagged sessions.
const AutoFlagKeyPrefix = "auto:"

// SummaryEntry is one line of a report summary.
type SummaryEntry struct {
	Key   string
	Value string
}

// Session is one report and, after the handoff, its review.
// Callers must hold the session lock while running a turn.
type Session struct {
	mu sync.Mutex

	key      string
	origin   Origin
	reporter User
	message  *Message

	reportState ReportState
	reviewState ReviewState

	abuseType    AbuseType
	bullyingType BullyingType
	victimBlock  VictimBlock
	victimType   VictimType
	blockType    BlockType

	summary []SummaryEntry

	// priors holds the pre-increment count per ledger kind once recorded.
	priors    map[ledger.Kind]int64
	banTarget User
	outcome   string
}

// NewReportSession starts a report dialogue for the reporter.
func NewReportSession(reporter User) *Session {
	return &Session{
		key:         reporter.ID,
		origin:      OriginReport,
		reporter:    reporter,
		reportState: ReportStart,
		priors:      make(map[ledger.Kind]int64),
	}
}

// NewAutoFlagSession creates a session for a message flagged by the classifier.
// It is pinned at AWAITING_REVIEW and has no human reporter.
func NewAutoFlagSession(msg *Message, result *ai.Result) *Session {
	s := &Session{
		key:         AutoFlagKeyPrefix + msg.ID,
		origin:      OriginAutoFlag,
		reporter:    msg.Author,
		reportState: ReportAwaitingReview,
		priors:      make(map[ledger.Kind]int64),
	}

	s.setMessage(msg)
	s.appendSummary("Source", "Auto-flagged by classifier")

	if result != nil && result.Rationale != "" {
		s.appendSummary("Classifier rationale", result.Rationale)
	}

	return s
}

// Key returns the registry key of the session.
func (s *Session) Key() string { return s.key }

// Origin returns how the session was created.
func (s *Session) Origin() Origin { return s.origin }

// Reporter returns the user who filed the report.
func (s *Session) Reporter() User { return s.reporter }

// Message returns the reported message, or nil before it is resolved.
func (s *Session) Message() *Message { return s.message }

// ReportState returns the reporter-side state.
func (s *Session) ReportState() ReportState { return s.reportState }

// ReviewState returns the moderator-side state.
func (s *Session) ReviewState() ReviewState { return s.reviewState }

// Outcome returns how the session ended, if it has.
func (s *Session) Outcome() string { return s.outcome }

// InReview reports whether a moderator has taken the session.
func (s *Session) InReview() bool { return s.reviewState != ReviewNone }

// Done reports whether the session reached a terminal state.
func (s *Session) Done() bool {
	return s.reportState == ReportComplete || s.reviewState == ReviewComplete
}

// Summary returns a copy of the summary entries in insertion order.
func (s *Session) Summary() []SummaryEntry {
	out := make([]SummaryEntry, len(s.summary))
	copy(out, s.summary)
	return out
}

// ReportFields returns the summary in the classifier's input form.
func (s *Session) ReportFields() []ai.ReportField {
	fields := make([]ai.ReportField, len(s.summary))
	for i, entry := range s.summary {
		fields[i] = ai.ReportField{Key: entry.Key, Value: entry.Value}
	}
	return fields
}

// SummaryLines renders the summary for the moderator.
func (s *Session) SummaryLines() []string {
	lines := make([]string, len(s.summary))
	for i, entry := range s.summary {
		lines[i] = fmt.Sprintf("%s: %s", entry.Key, entry.Value)
	}
	return lines
}

func (s *Session) appendSummary(key, value string) {
	s.summary = append(s.summary, SummaryEntry{Key: key, Value: value})
}

func (s *Session) setMessage(msg *Message) {
	s.message = msg
	s.appendSummary("Author", msg.Author.Name)
	s.appendSummary("Content", msg.Content)
}

func (s *Session) finishReview(outcome string) {
	s.reviewState = ReviewComplete
	s.reportState = ReportComplete
	s.outcome = outcome
}
