package moderation

import (
	"context"
	"fmt"

	"github.com/havenmod/haven/internal/metrics"
	"go.uber.org/zap"
)

// ScanMessage forwards a monitored channel message to moderators, classifies
// it, and seeds an auto-flag review when it is judged a violation. The
// returned lines are meant for the moderator channel and are valid even when
// an error is returned.
func (e *Engine) ScanMessage(ctx context.Context, msg *Message) ([]string, error) {
	lines := []string{fmt.Sprintf(msgForwardedMessage, msg.Author.Name, msg.Content)}

	if msg.ReferencedAuthor != nil {
		for _, url := range msg.ReferencedImageURLs {
			lines = append(lines, fmt.Sprintf(msgForwardedRefImage, msg.ReferencedAuthor.Name, url))
		}
	}

	for _, url := range msg.ImageURLs {
		lines = append(lines, fmt.Sprintf(msgForwardedImage, msg.Author.Name, url))
	}

	result, err := e.classifier.Classify(ctx, msg.ClassificationRequest())
	if err != nil {
		return lines, fmt.Errorf("failed to classify message %s: %w", msg.ID, err)
	}

	if result.FailedOpen {
		e.logger.Warn("Classifier gave no usable verdict",
			zap.String("message", msg.ID),
			zap.String("raw", result.Raw))
	}

	if !result.IsViolation() {
		return append(lines, fmt.Sprintf(msgEvaluatedClean, msg.Content)), nil
	}

	lines = append(lines, fmt.Sprintf(msgEvaluatedViolation, msg.Content))

	if _, created := e.registry.Add(NewAutoFlagSession(msg, result)); created {
		e.registry.Enqueue(AutoFlagKeyPrefix + msg.ID)
		metrics.SessionsStarted.WithLabelValues(OriginAutoFlag.String()).Inc()
		lines = append(lines, msgAutoFlagged)
	}

	return lines, nil
}
