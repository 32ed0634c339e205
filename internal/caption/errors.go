package caption

import "errors"

var (
	// ErrCaptionUnconfigured means no API key is set for the caption provider.
	ErrCaptionUnconfigured = errors.New("caption service not configured")

	// ErrCaptionFailed wraps any failure of the remote caption call,
	// including timeouts and cancellation.
	ErrCaptionFailed = errors.New("failed to generate caption")

	errEmptyResponse = errors.New("empty response")
)
