package moderation_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/havenmod/haven/internal/ai"
	"github.com/havenmod/haven/internal/ledger"
	"github.com/havenmod/haven/internal/moderation"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	modChannel = "900"
	reportLink = "https://discord.com/channels/1/2/3"
)

var (
	errService = errors.New("service unavailable")
	errStorage = errors.New("disk full")

	reporter  = moderation.User{ID: "100", Name: "alice"}
	poster    = moderation.User{ID: "200", Name: "mallory"}
	moderator = moderation.User{ID: "300", Name: "mod"}
)

type fakeResolver struct {
	messages map[moderation.Locator]*moderation.Message
	err      error
}

func (f *fakeResolver) ResolveMessage(_ context.Context, loc moderation.Locator) (*moderation.Message, error) {
	if f.err != nil {
		return nil, f.err
	}

	if loc.GuildID != 1 {
		return nil, moderation.ErrGuildNotFound
	}

	if loc.ChannelID != 2 {
		return nil, moderation.ErrChannelNotFound
	}

	msg, ok := f.messages[loc]
	if !ok {
		return nil, moderation.ErrMessageNotFound
	}

	return msg, nil
}

type sent struct {
	to   string
	text string
}

type fakeNotifier struct {
	mu       sync.Mutex
	users    []sent
	channels []sent
	err      error
}

func (f *fakeNotifier) SendToUser(_ context.Context, userID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}

	f.users = append(f.users, sent{to: userID, text: text})
	return nil
}

func (f *fakeNotifier) SendToChannel(_ context.Context, channelID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.channels = append(f.channels, sent{to: channelID, text: text})
	return nil
}

func (f *fakeNotifier) dms() []sent {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]sent(nil), f.users...)
}

type fakeClassifier struct {
	mu          sync.Mutex
	verdict     string
	classifyErr error
	explanation string
	explainErr  error
	resources   string
	resourceErr error
	reports     [][]ai.ReportField
	explains    int
}

func (f *fakeClassifier) Classify(_ context.Context, req ai.Request) (*ai.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.classifyErr != nil {
		return nil, f.classifyErr
	}

	return ai.ParseVerdict(f.verdict + " because " + req.Text), nil
}

func (f *fakeClassifier) Explain(_ context.Context, _ ai.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.explains++
	if f.explainErr != nil {
		return "", f.explainErr
	}

	return f.explanation, nil
}

func (f *fakeClassifier) SuggestResources(_ context.Context, report []ai.ReportField) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.reports = append(f.reports, report)
	if f.resourceErr != nil {
		return "", f.resourceErr
	}

	return f.resources, nil
}

type fakeLedger struct {
	mu       sync.Mutex
	counts   map[string]int64
	calls    int
	err      error
	countErr error
}

func ledgerKey(kind ledger.Kind, userID string) string {
	return kind.String() + ":" + userID
}

func (f *fakeLedger) Record(_ context.Context, kind ledger.Kind, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return 0, f.err
	}

	f.calls++
	prior := f.counts[ledgerKey(kind, userID)]
	f.counts[ledgerKey(kind, userID)] = prior + 1

	return prior, nil
}

func (f *fakeLedger) Count(_ context.Context, kind ledger.Kind, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.countErr != nil {
		return 0, f.countErr
	}

	return f.counts[ledgerKey(kind, userID)], nil
}

func (f *fakeLedger) set(kind ledger.Kind, userID string, n int64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.counts[ledgerKey(kind, userID)] = n
}

func (f *fakeLedger) count(kind ledger.Kind, userID string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.counts[ledgerKey(kind, userID)]
}

type harness struct {
	engine     *moderation.Engine
	resolver   *fakeResolver
	notifier   *fakeNotifier
	classifier *fakeClassifier
	ledger     *fakeLedger
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		resolver: &fakeResolver{messages: map[moderation.Locator]*moderation.Message{
			{GuildID: 1, ChannelID: 2, MessageID: 3}: {
				ID:        "3",
				GuildID:   "1",
				ChannelID: "2",
				Author:    poster,
				Content:   "nobody likes you",
				ImageURLs: []string{"https://cdn.example.com/a.png"},
			},
		}},
		notifier: &fakeNotifier{},
		classifier: &fakeClassifier{
			verdict:     "no",
			explanation: "The message insults a specific person.",
			resources:   "988 Suicide & Crisis Lifeline",
		},
		ledger: &fakeLedger{counts: make(map[string]int64)},
	}

	h.engine = moderation.NewEngine(moderation.Config{
		Resolver:     h.resolver,
		Notifier:     h.notifier,
		Classifier:   h.classifier,
		Ledger:       h.ledger,
		ModChannelID: modChannel,
	}, zap.NewNop())

	return h
}

// dm sends one reporter message and fails the test on error.
func (h *harness) dm(t *testing.T, user moderation.User, content string) []string {
	t.Helper()

	lines, err := h.engine.HandleDirectMessage(t.Context(), user, content)
	require.NoError(t, err)

	return lines
}

// mod sends one moderator message and fails the test on error.
func (h *harness) mod(t *testing.T, content string) []string {
	t.Helper()

	lines, err := h.engine.HandleModeratorMessage(t.Context(), modChannel, moderator, content)
	require.NoError(t, err)

	return lines
}

// fileReport runs a complete non-bullying report for the user.
func (h *harness) fileReport(t *testing.T, user moderation.User) {
	t.Helper()

	for _, input := range []string{"report", reportLink, "2", "3"} {
		h.dm(t, user, input)
	}

	s, ok := h.engine.Registry().Get(user.ID)
	require.True(t, ok)
	require.Equal(t, moderation.ReportAwaitingReview, s.ReportState())
}

func (h *harness) session(t *testing.T, key string) *moderation.Session {
	t.Helper()

	s, ok := h.engine.Registry().Get(key)
	require.True(t, ok, "session %s not found", key)

	return s
}
