package ai

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/havenmod/haven/pkg/utils"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// maxImageBytes caps a single attachment download.
const maxImageBytes = 20 << 20

// LocalImage is an image persisted to a transient local path.
type LocalImage struct {
	Path     string
	MIMEType string
}

// Part reads the image back from disk as a request part.
func (img *LocalImage) Part() (genai.Part, error) {
	data, err := os.ReadFile(img.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", img.Path, err)
	}

	return genai.ImageData(strings.TrimPrefix(img.MIMEType, "image/"), data), nil
}

// Remove deletes the local copy.
func (img *LocalImage) Remove() error {
	if err := os.Remove(img.Path); err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}

// ImageFetcher downloads image references into a local directory.
type ImageFetcher struct {
	httpClient *http.Client
	dir        string
	retry      utils.RetryOptions
	logger     *zap.Logger
}

// NewImageFetcher creates a fetcher writing into dir, or the OS temp dir when empty.
func NewImageFetcher(httpClient *http.Client, dir string, logger *zap.Logger) *ImageFetcher {
	if dir == "" {
		dir = os.TempDir()
	}

	return &ImageFetcher{
		httpClient: httpClient,
		dir:        dir,
		retry:      utils.GetImageRetryOptions(),
		logger:     logger.Named("ai_images"),
	}
}

// WithRetryOptions overrides the download retry policy.
func (f *ImageFetcher) WithRetryOptions(opts utils.RetryOptions) *ImageFetcher {
	f.retry = opts
	return f
}

// FetchAll downloads every URL concurrently and returns the images in input order.
// If any download fails, the images already written are removed and the error is returned.
func (f *ImageFetcher) FetchAll(ctx context.Context, urls []string) ([]*LocalImage, error) {
	images := make([]*LocalImage, len(urls))

	p := pool.New().WithErrors().WithContext(ctx)
	for i, url := range urls {
		p.Go(func(ctx context.Context) error {
			img, err := f.Fetch(ctx, url)
			if err != nil {
				return err
			}

			images[i] = img

			return nil
		})
	}

	if err := p.Wait(); err != nil {
		RemoveAll(images, f.logger)
		return nil, err
	}

	return images, nil
}

// Fetch downloads a single image and persists it under a random name.
func (f *ImageFetcher) Fetch(ctx context.Context, url string) (*LocalImage, error) {
	data, err := utils.WithRetry(ctx, func() ([]byte, error) {
		return f.download(ctx, url)
	}, f.retry)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrImageFetch, url, err)
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedImage, url, mtype.String())
	}

	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}

	path := filepath.Join(f.dir, uuid.New().String()+mtype.Extension())
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, fmt.Errorf("failed to persist image: %w", err)
	}

	f.logger.Debug("Fetched image",
		zap.String("url", url),
		zap.String("path", path),
		zap.String("mimeType", mtype.String()),
		zap.Int("bytes", len(data)))

	return &LocalImage{Path: path, MIMEType: mtype.String()}, nil
}

// download performs one HTTP attempt. Client errors are not retried.
func (f *ImageFetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status %d", resp.StatusCode)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, backoff.Permanent(err)
		}

		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, err
	}

	return data, nil
}

// RemoveAll deletes every non-nil image, logging failures.
func RemoveAll(images []*LocalImage, logger *zap.Logger) {
	for _, img := range images {
		if img == nil {
			continue
		}

		if err := img.Remove(); err != nil {
			logger.Warn("Failed to remove transient image",
				zap.String("path", img.Path),
				zap.Error(err))
		}
	}
}
