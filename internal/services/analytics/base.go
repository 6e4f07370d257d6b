package analytics

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"FitPrice/pkg/config"
	xhttp "FitPrice/pkg/http"
)

const retryBackoff = 50 * time.Millisecond

// HTTPServiceBase holds the client and base URL shared by the remote model
// backends and posts JSON with bounded retries.
type HTTPServiceBase struct {
	baseURL  string
	attempts int
	client   *xhttp.Client
}

// NewHTTPServiceBase builds an HTTP client with timeout, retries and base URL from config.
func NewHTTPServiceBase(cfg *config.Config, opts ...xhttp.ClientOption) *HTTPServiceBase {
	timeout := cfg.Analytics.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	opts = append([]xhttp.ClientOption{xhttp.WithTimeout(timeout)}, opts...)
	return &HTTPServiceBase{
		baseURL:  cfg.Analytics.ServiceURL,
		attempts: cfg.Analytics.Retries,
		client:   xhttp.NewClient(opts...),
	}
}

// PostJSON posts the given payload to `path` under baseURL and decodes JSON into dest.
func (b *HTTPServiceBase) PostJSON(ctx context.Context, path string, payload interface{}, dest interface{}) error {
	if b.client == nil || b.baseURL == "" {
		return fmt.Errorf("analytics http client not initialized")
	}
	err := b.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    b.baseURL + path,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: payload,
	}, dest)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	return nil
}

// PostJSONWithRetry retries transport failures and temporary statuses with a
// linear backoff. Client errors (4xx other than 429) and undecodable
// responses return immediately.
func (b *HTTPServiceBase) PostJSONWithRetry(ctx context.Context, path string, payload interface{}, dest interface{}) error {
	attempts := b.attempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 1; i <= attempts; i++ {
		err = b.PostJSON(ctx, path, payload, dest)
		if err == nil || !retryable(err) || i == attempts {
			return err
		}
		select {
		case <-time.After(time.Duration(i) * retryBackoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

// retryable is true for 429/5xx responses and for transport failures. Encode
// and decode errors repeat deterministically and are returned as is.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *xhttp.StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	var ue *url.Error
	return errors.As(err, &ue)
}
