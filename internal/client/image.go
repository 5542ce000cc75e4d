package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ImageLoadTimeout bounds how long a question image may take before the
// placeholder wins. The load is torn down at the deadline so a late arrival
// cannot surface afterwards.
const ImageLoadTimeout = 5 * time.Second

// ImageLoader verifies that a question image is actually loadable within the
// timeout. It fetches the resource rather than trusting the URL, so the
// presenter only ever shows images that resolved.
type ImageLoader struct {
	client  *http.Client
	timeout time.Duration
}

// NewImageLoader creates an ImageLoader with the standard timeout.
func NewImageLoader() *ImageLoader {
	return &ImageLoader{
		client:  &http.Client{},
		timeout: ImageLoadTimeout,
	}
}

// WithTimeout overrides the load timeout. Used by tests.
func (l *ImageLoader) WithTimeout(d time.Duration) *ImageLoader {
	l.timeout = d
	return l
}

// Load fetches the image URL, failing on timeout, transport errors, non-OK
// status or a body that is not an image.
func (l *ImageLoader) Load(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("load image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("image status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return fmt.Errorf("not an image: %s", ct)
	}

	// Drain the body so the image fully arrives within the deadline.
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	return nil
}
