package bot

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/disgoorg/snowflake/v2"
	"github.com/havenmod/haven/internal/eval"
	"github.com/havenmod/haven/internal/moderation"
	"github.com/havenmod/haven/pkg/utils"
	"go.uber.org/zap"
)

// parseEvalCommand extracts the dataset path from "eval <path>".
func parseEvalCommand(content string) (string, bool) {
	keyword, path, found := strings.Cut(strings.TrimSpace(content), " ")
	if !found || !utils.IsKeyword(keyword, moderation.KeywordEval) {
		return "", false
	}

	path = strings.TrimSpace(path)
	return path, path != ""
}

// handleEvalCommand runs the dataset evaluator and posts the confusion matrix.
// The run is not bounded by the turn timeout since it makes one call per example.
func (b *Bot) handleEvalCommand(channelID snowflake.ID, path string) {
	ctx := context.Background()

	b.reply(ctx, channelID, []string{fmt.Sprintf("Evaluating up to %d examples from `%s`...", b.evalCfg.Limit, path)})

	matrix, err := b.runEval(ctx, path)
	if err != nil {
		b.logger.Error("Dataset evaluation failed", zap.Error(err), zap.String("path", path))
		b.reply(ctx, channelID, []string{fmt.Sprintf("Evaluation failed: %v", err)})
		return
	}

	b.reply(ctx, channelID, []string{"Confusion Matrix:", utils.CodeBlock(matrix.Format())})
}

func (b *Bot) runEval(ctx context.Context, path string) (*eval.ConfusionMatrix, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	dataset, err := eval.NewCSVDataset(file, b.evalCfg.TextColumn, b.evalCfg.LabelColumn)
	if err != nil {
		return nil, err
	}

	return b.evaluator.Evaluate(ctx, dataset.All(), b.evalCfg.Limit)
}
