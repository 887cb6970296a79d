package moderation

import (
	"context"
	"errors"
	"fmt"
)

// handleReport advances the reporter dialogue by one message.
// Every path that returns an error leaves the session untouched.
func (e *Engine) handleReport(ctx context.Context, s *Session, content string) ([]string, error) {
	if isCancel(content) {
		if s.InReview() {
			return []string{msgCancelRefused}, nil
		}

		s.reportState = ReportComplete
		s.outcome = OutcomeCancelled
		return []string{msgReportCancelled}, nil
	}

	switch s.reportState {
	case ReportStart:
		s.reportState = ReportAwaitingMessage
		return []string{msgReportStart}, nil

	case ReportAwaitingMessage:
		return e.handleMessageLink(ctx, s, content)

	case ReportAwaitingAbuseType:
		choice, err := ParseChoice(content, abuseOptions)
		if err != nil {
			return reprompt(msgAbusePrompt, abuseOptions), nil
		}

		s.abuseType = choice
		s.appendSummary("Abuse type", choice.Label())

		if choice == AbuseBullying {
			s.reportState = ReportAwaitingBullyingType
			return menuLines(msgBullyingPrompt, bullyingOptions), nil
		}

		s.reportState = ReportAwaitingBlockType
		return append([]string{msgThanksCommunity}, menuLines(msgBlockPrompt, blockOptions)...), nil

	case ReportAwaitingBullyingType:
		choice, err := ParseChoice(content, bullyingOptions)
		if err != nil {
			return reprompt(msgBullyingPrompt, bullyingOptions), nil
		}

		s.bullyingType = choice
		s.appendSummary("Bullying type", choice.Label())
		s.reportState = ReportAwaitingVictimBlock
		return menuLines(msgVictimBlockPrompt, victimBlockOptions), nil

	case ReportAwaitingVictimBlock:
		choice, err := ParseChoice(content, victimBlockOptions)
		if err != nil {
			return reprompt(msgVictimBlockPrompt, victimBlockOptions), nil
		}

		s.victimBlock = choice
		s.appendSummary("Target already blocked poster", choice.Label())
		s.reportState = ReportAwaitingVictimType
		return menuLines(msgVictimPrompt, victimOptions), nil

	case ReportAwaitingVictimType:
		choice, err := ParseChoice(content, victimOptions)
		if err != nil {
			return reprompt(msgVictimPrompt, victimOptions), nil
		}

		s.victimType = choice
		s.appendSummary("Target", choice.Label())
		s.reportState = ReportAwaitingVictim
		return routeVictim(s), nil

	case ReportAwaitingVictim:
		return routeVictim(s), nil

	case ReportAwaitingResources:
		return e.handleResources(ctx, s, content)

	case ReportAwaitingBlockType:
		choice, err := ParseChoice(content, blockOptions)
		if err != nil {
			return reprompt(msgBlockPrompt, blockOptions), nil
		}

		s.blockType = choice
		s.appendSummary("Block preference", choice.Label())
		s.reportState = ReportAwaitingReview
		return []string{blockAck(choice), msgReportSubmitted}, nil

	case ReportAwaitingReview:
		return []string{msgReportPending}, nil

	default:
		return nil, nil
	}
}

// handleMessageLink resolves the reported message from a link.
func (e *Engine) handleMessageLink(ctx context.Context, s *Session, content string) ([]string, error) {
	loc, reason := ParseLocator(content)
	if reason != LocatorOK {
		return []string{msgBadLink}, nil
	}

	msg, err := e.resolver.ResolveMessage(ctx, loc)
	switch {
	case errors.Is(err, ErrGuildNotFound):
		return []string{msgGuildNotFound}, nil
	case errors.Is(err, ErrChannelNotFound):
		return []string{msgChannelNotFound}, nil
	case errors.Is(err, ErrMessageNotFound):
		return []string{msgMessageNotFound}, nil
	case err != nil:
		return nil, fmt.Errorf("failed to resolve message: %w", err)
	}

	s.setMessage(msg)
	s.reportState = ReportAwaitingAbuseType

	lines := []string{msgFoundMessage, quote(msg.Author.Name, msg.Content)}
	for _, url := range msg.ImageURLs {
		lines = append(lines, fmt.Sprintf(msgAttachedImage, url))
	}

	return append(lines, menuLines(msgAbusePrompt, abuseOptions)...), nil
}

// handleResources answers the mental health resources offer.
func (e *Engine) handleResources(ctx context.Context, s *Session, content string) ([]string, error) {
	yes, err := ParseYesNo(content)
	if err != nil {
		return []string{MsgInvalidYesNo, msgResourcesOffer}, nil
	}

	var lines []string
	if yes {
		suggestions, err := e.classifier.SuggestResources(ctx, s.ReportFields())
		if err != nil {
			return nil, fmt.Errorf("failed to suggest resources: %w", err)
		}
		lines = append(lines, msgResourcesIntro, suggestions)
	} else {
		lines = append(lines, msgThanksCommunity)
	}

	s.reportState = ReportAwaitingBlockType
	return append(lines, menuLines(msgBlockPrompt, blockOptions)...), nil
}

// routeVictim is evaluated in the same turn the victim relation is chosen.
func routeVictim(s *Session) []string {
	if s.victimType == VictimMe {
		s.reportState = ReportAwaitingResources
		return []string{msgResourcesOffer}
	}

	s.reportState = ReportAwaitingBlockType
	return append([]string{msgThanksOthers}, menuLines(msgBlockPrompt, blockOptions)...)
}

func blockAck(choice BlockType) string {
	switch choice {
	case BlockAccount:
		return msgBlockedAccount
	case BlockAccountAndFuture:
		return msgBlockedFuture
	default:
		return msgNotBlocked
	}
}

func reprompt[T Option](prompt string, options []T) []string {
	return append([]string{MsgInvalidChoice}, menuLines(prompt, options)...)
}
