package eval

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/havenmod/haven/internal/ai"
	"go.uber.org/zap"
)

// ErrEmptyDataset is returned when no example was evaluated.
var ErrEmptyDataset = errors.New("dataset contains no examples")

// progressInterval controls how often progress is logged.
const progressInterval = 25

// Classifier judges one piece of content.
type Classifier interface {
	Classify(ctx context.Context, req ai.Request) (*ai.Result, error)
}

// Evaluator measures a classifier against labeled examples.
type Evaluator struct {
	classifier Classifier
	logger     *zap.Logger
}

// New creates an Evaluator.
func New(classifier Classifier, logger *zap.Logger) *Evaluator {
	return &Evaluator{
		classifier: classifier,
		logger:     logger.Named("evaluator"),
	}
}

// Evaluate classifies examples one at a time, text only, until limit examples
// have been processed or the sequence ends. A limit of zero or less means no cap.
// The first classification or read error aborts the run.
func (e *Evaluator) Evaluate(ctx context.Context, examples iter.Seq2[Example, error], limit int) (*ConfusionMatrix, error) {
	matrix := &ConfusionMatrix{}

	for example, err := range examples {
		if limit > 0 && matrix.Total >= limit {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read example %d: %w", matrix.Total+1, err)
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := e.classifier.Classify(ctx, ai.Request{Text: example.Text})
		if err != nil {
			return nil, fmt.Errorf("failed to classify example %d: %w", matrix.Total+1, err)
		}

		matrix.Add(example.Label, result.IsViolation())

		if matrix.Total%progressInterval == 0 {
			e.logger.Info("Evaluation progress", zap.Int("processed", matrix.Total))
		}
	}

	if matrix.Total == 0 {
		return nil, ErrEmptyDataset
	}

	e.logger.Info("Evaluation completed",
		zap.Int("examples", matrix.Total),
		zap.Float64("accuracy", matrix.Accuracy()))

	return matrix, nil
}
