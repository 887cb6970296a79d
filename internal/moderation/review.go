package moderation

import (
	"context"
	"fmt"

	"github.com/havenmod/haven/internal/ledger"
	"go.uber.org/zap"
)

// Escalation thresholds, compared against the count before the current event.
const (
	posterRestrictPriors   = 1
	posterBanPriors        = 3
	reporterRestrictPriors = 2
	reporterBanPriors      = 4
)

// beginReview hands a claimed report to a moderator. It returns false when the
// session is no longer waiting, such as after the reporter cancelled it.
func (e *Engine) beginReview(ctx context.Context, s *Session) ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reportState != ReportAwaitingReview || s.reviewState != ReviewNone {
		return nil, false
	}

	return e.openReview(ctx, s), true
}

// openReview moves a session waiting for review into the review dialogue and
// returns the summary, the poster's record and the violation menu.
func (e *Engine) openReview(ctx context.Context, s *Session) []string {
	s.reviewState = ReviewAwaitingReview

	header := fmt.Sprintf(msgReviewingReport, s.reporter.Name)
	if s.origin == OriginAutoFlag {
		header = msgReviewingAutoFlag
	}

	lines := append([]string{header}, s.SummaryLines()...)
	lines = append(lines, e.posterRecord(ctx, s)...)
	s.reviewState = ReviewViolationType

	return append(lines, menuLines(msgViolationPrompt, violationOptions)...)
}

// posterRecord reports the poster's recorded violations. A failed lookup is
// logged and left out of the review.
func (e *Engine) posterRecord(ctx context.Context, s *Session) []string {
	if s.message == nil {
		return nil
	}

	poster := s.message.Author

	count, err := e.ledger.Count(ctx, ledger.KindPoster, poster.ID)
	if err != nil {
		e.logger.Warn("Failed to look up poster record",
			zap.Error(err),
			zap.String("poster", poster.ID))
		return nil
	}

	return []string{fmt.Sprintf(msgPosterRecord, poster.Name, count)}
}

// handleReview advances the moderator dialogue by one message.
func (e *Engine) handleReview(ctx context.Context, s *Session, content string) ([]string, error) {
	if isCancel(content) {
		s.finishReview(OutcomeReviewCancelled)
		return []string{msgReviewCancelled}, nil
	}

	switch s.reviewState {
	case ReviewAwaitingReview:
		return e.openReview(ctx, s), nil

	case ReviewViolationType:
		choice, err := ParseChoice(content, violationOptions)
		if err != nil {
			return reprompt(msgViolationPrompt, violationOptions), nil
		}

		switch choice {
		case ViolationBullying:
			return e.adjudicatePoster(ctx, s)
		case ViolationDifferent:
			s.reviewState = ReviewAwaitingOtherViolationType
			return menuLines(msgOtherViolationPrompt, otherViolationOptions), nil
		default:
			if s.origin == OriginAutoFlag {
				s.finishReview(OutcomeDismissed)
				return []string{msgAutoFlagDismissed}, nil
			}

			s.reviewState = ReviewAwaitingAdversarialDecision
			return []string{msgAdversarialPrompt}, nil
		}

	case ReviewAwaitingOtherViolationType:
		choice, err := ParseChoice(content, otherViolationOptions)
		if err != nil {
			return reprompt(msgOtherViolationPrompt, otherViolationOptions), nil
		}

		s.finishReview(OutcomeForwarded)
		return []string{fmt.Sprintf(msgForwardedToTeam, choice.Label())}, nil

	case ReviewAwaitingAdversarialDecision:
		adversarial, err := ParseYesNo(content)
		if err != nil {
			return []string{MsgInvalidYesNo, msgAdversarialPrompt}, nil
		}

		if adversarial {
			return e.adjudicateReporter(ctx, s)
		}

		if err := e.notifier.SendToUser(ctx, s.reporter.ID, dmNoViolation); err != nil {
			return nil, fmt.Errorf("failed to notify reporter: %w", err)
		}

		s.finishReview(OutcomeNoViolation)
		return []string{fmt.Sprintf(msgReporterNotified, s.reporter.Name)}, nil

	case ReviewAwaitingBanPoster:
		ban, err := ParseYesNo(content)
		if err != nil {
			return []string{MsgInvalidYesNo, fmt.Sprintf(msgBanPrompt, s.banTarget.Name)}, nil
		}

		if ban {
			s.finishReview(OutcomeBanned)
			return []string{fmt.Sprintf(msgBanned, s.banTarget.Name)}, nil
		}

		s.finishReview(OutcomeRestricted)
		return []string{fmt.Sprintf(msgTemporarilyBanned, s.banTarget.Name)}, nil

	default:
		return nil, nil
	}
}

// adjudicatePoster handles a confirmed bullying violation.
func (e *Engine) adjudicatePoster(ctx context.Context, s *Session) ([]string, error) {
	poster := s.message.Author

	priors, err := e.recordOnce(ctx, s, ledger.KindPoster, poster.ID)
	if err != nil {
		return nil, err
	}

	lines := []string{fmt.Sprintf(msgPosterPriors, poster.Name, priors)}

	switch {
	case priors >= posterBanPriors:
		s.banTarget = poster
		s.reviewState = ReviewAwaitingBanPoster
		return append(lines, fmt.Sprintf(msgBanPrompt, poster.Name)), nil

	case priors >= posterRestrictPriors:
		s.finishReview(OutcomeRestricted)
		return append(lines, fmt.Sprintf(msgPostingRestricted, poster.Name)), nil
	}

	explanation, err := e.classifier.Explain(ctx, s.message.ClassificationRequest())
	if err != nil {
		return nil, fmt.Errorf("failed to explain violation: %w", err)
	}

	if err := e.notifier.SendToUser(ctx, poster.ID, fmt.Sprintf(dmQuotedContent, quote(poster.Name, s.message.Content))); err != nil {
		return nil, fmt.Errorf("failed to send warning: %w", err)
	}

	if err := e.notifier.SendToUser(ctx, poster.ID, explanation+"\n\n"+dmAdmonition); err != nil {
		return nil, fmt.Errorf("failed to send warning: %w", err)
	}

	s.finishReview(OutcomeWarned)
	return append(lines, msgWarningSent), nil
}

// adjudicateReporter handles a report judged to be made in bad faith.
func (e *Engine) adjudicateReporter(ctx context.Context, s *Session) ([]string, error) {
	reporter := s.reporter

	priors, err := e.recordOnce(ctx, s, ledger.KindReporter, reporter.ID)
	if err != nil {
		return nil, err
	}

	lines := []string{fmt.Sprintf(msgReporterPriors, reporter.Name, priors)}

	switch {
	case priors >= reporterBanPriors:
		s.banTarget = reporter
		s.reviewState = ReviewAwaitingBanPoster
		return append(lines, fmt.Sprintf(msgBanPrompt, reporter.Name)), nil

	case priors >= reporterRestrictPriors:
		s.finishReview(OutcomeRestricted)
		return append(lines, fmt.Sprintf(msgReportingRestricted, reporter.Name)), nil
	}

	if err := e.notifier.SendToUser(ctx, reporter.ID, dmAdversarial); err != nil {
		return nil, fmt.Errorf("failed to send admonition: %w", err)
	}

	s.finishReview(OutcomeAdmonished)
	return append(lines, fmt.Sprintf(msgAdmonitionSent, reporter.Name)), nil
}

// recordOnce increments the ledger the first time a session adjudicates a
// kind and replays the stored prior count on retries.
func (e *Engine) recordOnce(ctx context.Context, s *Session, kind ledger.Kind, userID string) (int64, error) {
	if priors, ok := s.priors[kind]; ok {
		return priors, nil
	}

	priors, err := e.ledger.Record(ctx, kind, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to record %s offense: %w", kind, err)
	}

	s.priors[kind] = priors

	e.logger.Info("Offense recorded",
		zap.String("kind", kind.String()),
		zap.String("user", userID),
		zap.Int64("priors", priors))

	return priors, nil
}
