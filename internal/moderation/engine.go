package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/havenmod/haven/internal/metrics"
	"github.com/havenmod/haven/pkg/utils"
	"go.uber.org/zap"
)

// Config holds the collaborators of an Engine.
type Config struct {
	Registry     *Registry
	Resolver     Resolver
	Notifier     Notifier
	Classifier   Classifier
	Ledger       OffenseLedger
	ModChannelID string
}

// Engine runs the report and review dialogues.
type Engine struct {
	registry     *Registry
	resolver     Resolver
	notifier     Notifier
	classifier   Classifier
	ledger       OffenseLedger
	modChannelID string
	logger       *zap.Logger
}

// NewEngine creates an Engine. A nil Registry gets a fresh one.
func NewEngine(cfg Config, logger *zap.Logger) *Engine {
	registry := cfg.Registry
	if registry == nil {
		registry = NewRegistry()
	}

	return &Engine{
		registry:     registry,
		resolver:     cfg.Resolver,
		notifier:     cfg.Notifier,
		classifier:   cfg.Classifier,
		ledger:       cfg.Ledger,
		modChannelID: cfg.ModChannelID,
		logger:       logger.Named("moderation"),
	}
}

// Registry returns the session registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// HandleDirectMessage runs one turn of the author's report dialogue.
// Messages from users without a session are ignored unless they start one.
// On error the session state is left as it was before the turn.
func (e *Engine) HandleDirectMessage(ctx context.Context, author User, content string) ([]string, error) {
	if utils.IsKeyword(content, KeywordHelp) {
		return []string{HelpDirect}, nil
	}

	s, ok := e.registry.Get(author.ID)
	if !ok {
		if !utils.IsKeyword(content, KeywordReport) {
			return nil, nil
		}

		var created bool
		if s, created = e.registry.Add(NewReportSession(author)); created {
			metrics.SessionsStarted.WithLabelValues(OriginReport.String()).Inc()
			e.logger.Debug("Report session started", zap.String("reporter", author.ID))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Finished by a moderator between lookup and lock.
	if s.Done() {
		return nil, nil
	}

	before := s.reportState

	lines, err := e.handleReport(ctx, s, content)
	if err != nil {
		return nil, fmt.Errorf("report turn in %s: %w", before, err)
	}

	switch {
	case s.Done():
		e.complete(s)
	case before != ReportAwaitingReview && s.reportState == ReportAwaitingReview:
		e.registry.Enqueue(s.key)
		e.announce(ctx, fmt.Sprintf(msgNewReportPending, s.reporter.Name))
	}

	return lines, nil
}

// HandleModeratorMessage runs one turn of the review in progress for a
// moderator channel, or starts one on the review keyword.
func (e *Engine) HandleModeratorMessage(ctx context.Context, channelID string, moderator User, content string) ([]string, error) {
	if utils.IsKeyword(content, KeywordHelp) {
		return []string{HelpModerator}, nil
	}

	if s, ok := e.registry.Active(channelID); ok {
		if utils.IsKeyword(content, KeywordReview) {
			return []string{msgReviewInProgress}, nil
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		before := s.reviewState

		lines, err := e.handleReview(ctx, s, content)
		if err != nil {
			return nil, fmt.Errorf("review turn in %s: %w", before, err)
		}

		if s.Done() {
			e.logger.Info("Review completed",
				zap.String("session", s.key),
				zap.String("moderator", moderator.ID),
				zap.String("outcome", s.outcome))
			e.complete(s)
		}

		return lines, nil
	}

	if !utils.IsKeyword(content, KeywordReview) {
		return nil, nil
	}

	for {
		s, err := e.registry.ClaimNext(channelID)
		switch {
		case errors.Is(err, ErrReviewInProgress):
			return []string{msgReviewInProgress}, nil
		case errors.Is(err, ErrNoPendingReviews):
			return []string{msgNoReports}, nil
		case err != nil:
			return nil, err
		}

		if lines, ok := e.beginReview(ctx, s); ok {
			e.logger.Info("Review started",
				zap.String("session", s.key),
				zap.String("moderator", moderator.ID))
			return lines, nil
		}

		// Cancelled by the reporter while queued.
		e.registry.Release(channelID, s.key)
	}
}

// complete removes a finished session and records its outcome.
func (e *Engine) complete(s *Session) {
	e.registry.Remove(s.key)

	outcome := s.outcome
	if outcome == "" {
		outcome = OutcomeCancelled
	}
	metrics.SessionsCompleted.WithLabelValues(outcome).Inc()
}

// announce posts to the moderator channel. Failures are logged only.
func (e *Engine) announce(ctx context.Context, text string) {
	if e.modChannelID == "" {
		return
	}

	if err := e.notifier.SendToChannel(ctx, e.modChannelID, text); err != nil {
		e.logger.Warn("Failed to notify moderator channel", zap.Error(err))
	}
}

func isCancel(content string) bool {
	return utils.IsKeyword(content, KeywordCancel)
}

func quote(author, content string) string {
	return utils.CodeBlock(strings.TrimSpace(author + ": " + content))
}
