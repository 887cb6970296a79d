package ai

import "errors"

var (
	// ErrModelResponse indicates the model returned no usable content.
	ErrModelResponse = errors.New("invalid model response")
	// ErrContentBlocked is returned when the service refuses the request despite disabled safety filters.
	ErrContentBlocked = errors.New("content blocked by classification service")
	// ErrImageFetch is returned when an image reference cannot be downloaded.
	ErrImageFetch = errors.New("failed to fetch image")
	// ErrUnsupportedImage is returned when a downloaded file is not an image.
	ErrUnsupportedImage = errors.New("unsupported image type")
)
