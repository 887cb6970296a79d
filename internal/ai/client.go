package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/generative-ai-go/genai"
	"github.com/havenmod/haven/internal/metrics"
	"github.com/havenmod/haven/internal/setup/config"
	"github.com/havenmod/haven/pkg/utils"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/json"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// ApplicationJSON is the MIME type used for structured prompt payloads.
const ApplicationJSON = "application/json"

// Operation names used in logs and metrics.
const (
	OpClassify  = "classify"
	OpExplain   = "explain"
	OpResources = "resources"
)

// Generator produces model output for a list of parts.
// *genai.GenerativeModel satisfies this interface.
type Generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// ReportField is one entry of a report summary.
type ReportField struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Options tunes a Client.
type Options struct {
	// MaxConcurrent caps simultaneous service calls.
	MaxConcurrent int64
	// RequestTimeout bounds each call including image downloads.
	RequestTimeout time.Duration
	// Retry configures retries of failed generations.
	Retry utils.RetryOptions
}

// OptionsFromConfig builds Options from the gemini config section.
func OptionsFromConfig(cfg *config.Gemini) Options {
	return Options{
		MaxConcurrent:  cfg.MaxConcurrent,
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Millisecond,
		Retry:          utils.GetAIRetryOptions(),
	}
}

// NewModel configures a generative model for moderation use.
// Safety filters are disabled so abusive content can be classified at all.
func NewModel(client *genai.Client, cfg *config.Gemini) *genai.GenerativeModel {
	model := client.GenerativeModel(cfg.Model)
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockNone},
	}
	model.SetTemperature(cfg.Temperature)
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(1024)

	return model
}

// Client invokes the classification service.
type Client struct {
	model   Generator
	images  *ImageFetcher
	minify  *minify.M
	sem     *semaphore.Weighted
	timeout time.Duration
	retry   utils.RetryOptions
	logger  *zap.Logger
}

// New creates a Client around a generator and an image fetcher.
func New(model Generator, images *ImageFetcher, opts Options, logger *zap.Logger) *Client {
	// Create minifier for JSON
	m := minify.New()
	m.AddFunc(ApplicationJSON, json.Minify)

	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 1
	}

	if opts.Retry == (utils.RetryOptions{}) {
		opts.Retry = utils.GetAIRetryOptions()
	}

	return &Client{
		model:   model,
		images:  images,
		minify:  m,
		sem:     semaphore.NewWeighted(opts.MaxConcurrent),
		timeout: opts.RequestTimeout,
		retry:   opts.Retry,
		logger:  logger.Named("ai_classifier"),
	}
}

// Classify judges the request against the policy.
// Empty or malformed responses are returned as non-violating results with FailedOpen set.
func (c *Client) Classify(ctx context.Context, req Request) (*Result, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	parts, cleanup, err := c.contentParts(ctx, req, fmt.Sprintf(ClassifyQuestion, req.Text))
	if err != nil {
		metrics.ClassificationRequests.WithLabelValues(OpClassify, "error").Inc()
		return nil, err
	}
	defer cleanup()

	raw, err := c.generate(ctx, OpClassify, parts)
	if err != nil {
		return nil, err
	}

	result := ParseVerdict(raw)
	if result.FailedOpen {
		metrics.ClassificationRequests.WithLabelValues(OpClassify, "empty").Inc()
		c.logger.Warn("Classification response was not a verdict, treating as non-violating",
			zap.String("raw", raw))
	}

	c.logger.Debug("Classified content",
		zap.String("verdict", result.Verdict),
		zap.Int("primaryImages", len(req.PrimaryImages)),
		zap.Int("referencedImages", len(req.ReferencedImages)))

	return result, nil
}

// Explain returns a short explanation, addressed to the author, of why the content violates the policy.
func (c *Client) Explain(ctx context.Context, req Request) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	parts, cleanup, err := c.contentParts(ctx, req, fmt.Sprintf(ExplainQuestion, req.Text))
	if err != nil {
		metrics.ClassificationRequests.WithLabelValues(OpExplain, "error").Inc()
		return "", err
	}
	defer cleanup()

	raw, err := c.generate(ctx, OpExplain, parts)
	if err != nil {
		return "", err
	}

	explanation := strings.TrimSpace(raw)
	if explanation == "" {
		return "", fmt.Errorf("%w: empty explanation", ErrModelResponse)
	}

	return explanation, nil
}

// SuggestResources selects up to three curated resources that fit the report.
// The model output is returned verbatim.
func (c *Client) SuggestResources(ctx context.Context, report []ReportField) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	type resourceRequest struct {
		Report    []ReportField `json:"report"`
		Resources []Resource    `json:"resources"`
	}

	requestJSON, err := sonic.Marshal(resourceRequest{
		Report:    report,
		Resources: CuratedResources,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	// Minify the JSON to reduce token usage
	minifiedJSON, err := c.minify.Bytes(ApplicationJSON, requestJSON)
	if err != nil {
		return "", fmt.Errorf("failed to minify JSON: %w", err)
	}

	raw, err := c.generate(ctx, OpResources, []genai.Part{
		genai.Text(fmt.Sprintf(ResourcesPrompt, minifiedJSON)),
	})
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("%w: empty resource suggestions", ErrModelResponse)
	}

	return raw, nil
}

// contentParts downloads the request images and lays out the parts for one call.
// The returned cleanup removes the transient image files.
func (c *Client) contentParts(ctx context.Context, req Request, question string) ([]genai.Part, func(), error) {
	var urls []string

	if len(req.ReferencedImages) > 0 {
		urls = append(urls, req.ReferencedImages[0])
	}

	if len(req.PrimaryImages) > 0 {
		urls = append(urls, req.PrimaryImages[0])
	}

	images, err := c.images.FetchAll(ctx, urls)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() { RemoveAll(images, c.logger) }

	imageParts := make([]genai.Part, 0, len(images))
	for _, img := range images {
		part, err := img.Part()
		if err != nil {
			cleanup()
			return nil, nil, err
		}

		imageParts = append(imageParts, part)
	}

	parts := []genai.Part{genai.Text(PolicyPrompt)}

	switch {
	case len(imageParts) == 2:
		parts = append(parts,
			genai.Text(OriginalPostLabel), imageParts[0],
			genai.Text(ResponseLabel), imageParts[1])
	case len(imageParts) == 1 && len(req.ReferencedImages) > 0:
		parts = append(parts, imageParts[0], genai.Text(ReferencedImageNote))
	case len(imageParts) == 1:
		parts = append(parts, imageParts[0], genai.Text(SingleImageNote))
	}

	parts = append(parts, genai.Text(question))

	return parts, cleanup, nil
}

// generate performs one rate-limited service call with retries and returns the response text.
func (c *Client) generate(ctx context.Context, op string, parts []genai.Part) (string, error) {
	// Acquire semaphore to limit concurrent AI calls
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("failed to acquire classification semaphore: %w", err)
	}
	defer c.sem.Release(1)

	start := time.Now()
	defer func() {
		metrics.ClassificationLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	text, err := utils.WithRetry(ctx, func() (string, error) {
		resp, err := c.model.GenerateContent(ctx, parts...)
		if err != nil {
			var blocked *genai.BlockedError
			if errors.As(err, &blocked) {
				return "", backoff.Permanent(fmt.Errorf("%w: %w", ErrContentBlocked, err))
			}

			return "", fmt.Errorf("%s generation failed: %w", op, err)
		}

		return responseText(resp), nil
	}, c.retry)
	if err != nil {
		outcome := "error"
		if errors.Is(err, ErrContentBlocked) {
			outcome = "blocked"
		}

		metrics.ClassificationRequests.WithLabelValues(op, outcome).Inc()
		c.logger.Error("Classification service call failed",
			zap.String("operation", op),
			zap.Error(err))

		return "", err
	}

	metrics.ClassificationRequests.WithLabelValues(op, "ok").Inc()

	return text, nil
}

// withTimeout applies the per-call timeout when configured.
func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.timeout)
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var b strings.Builder

	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	return b.String()
}
