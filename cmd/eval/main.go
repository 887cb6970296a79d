package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/havenmod/haven/internal/eval"
	"github.com/havenmod/haven/internal/setup"
	"github.com/havenmod/haven/internal/setup/config"
	"github.com/havenmod/haven/internal/setup/telemetry"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const (
	// EvalLogDir specifies where evaluator log files are stored.
	EvalLogDir = "logs/eval_logs"
)

var ErrDatasetRequired = errors.New("dataset path is required")

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.Command{
		Name:  "eval",
		Usage: "Evaluate the classifier against a labeled CSV dataset",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dataset",
				Aliases: []string{"d"},
				Usage:   "Path to the labeled CSV dataset",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of examples to classify (defaults to common.eval.limit)",
			},
			&cli.StringFlag{
				Name:  "text-column",
				Usage: "Column holding the example text (defaults to common.eval.text_column)",
			},
			&cli.StringFlag{
				Name:  "label-column",
				Usage: "Column holding the ground-truth label (defaults to common.eval.label_column)",
			},
			&cli.StringFlag{
				Name:    "chart",
				Aliases: []string{"c"},
				Usage:   "Write a PNG bar chart of the results to this path",
			},
			&cli.StringFlag{
				Name:  "log-dir",
				Value: EvalLogDir,
				Usage: "Directory for log sessions",
			},
		},
		Action: runEval,
	}

	return app.Run(context.Background(), os.Args)
}

func runEval(ctx context.Context, c *cli.Command) error {
	path := c.String("dataset")
	if path == "" && c.Args().Len() > 0 {
		path = c.Args().First()
	}

	if path == "" {
		return ErrDatasetRequired
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := setup.InitializeApp(ctx, telemetry.ServiceEval, c.String("log-dir"))
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Cleanup(context.Background())

	evalCfg := applyFlags(app.Config.Common.Eval, c)

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	dataset, err := eval.NewCSVDataset(file, evalCfg.TextColumn, evalCfg.LabelColumn)
	if err != nil {
		return err
	}

	app.Logger.Info("Starting evaluation",
		zap.String("dataset", path),
		zap.Int("limit", evalCfg.Limit))

	matrix, err := eval.New(app.Classifier, app.Logger).Evaluate(ctx, dataset.All(), evalCfg.Limit)
	if err != nil {
		return err
	}

	fmt.Println("Confusion Matrix:")
	fmt.Println(matrix.Format())

	if chartPath := c.String("chart"); chartPath != "" {
		if err := writeChart(matrix, chartPath, app.Logger); err != nil {
			return err
		}
	}

	return nil
}

// applyFlags overrides the configured evaluation settings with any flags given.
func applyFlags(cfg config.Eval, c *cli.Command) config.Eval {
	if limit := c.Int("limit"); limit > 0 {
		cfg.Limit = int(limit)
	}

	if column := c.String("text-column"); column != "" {
		cfg.TextColumn = column
	}

	if column := c.String("label-column"); column != "" {
		cfg.LabelColumn = column
	}

	return cfg
}

func writeChart(matrix *eval.ConfusionMatrix, path string, logger *zap.Logger) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer file.Close()

	if err := eval.RenderChart(matrix, file); err != nil {
		return err
	}

	logger.Info("Chart written", zap.String("path", path))
	return nil
}
