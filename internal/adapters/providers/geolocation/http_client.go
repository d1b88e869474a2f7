package geolocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/zatekoja/placeviewer/internal/infrastructure/observability"
	"github.com/zatekoja/placeviewer/pkg/retry"
)

const defaultHTTPTimeout = 8 * time.Second

// HTTPOptions configures the HTTP side of a geocoder.
type HTTPOptions struct {
	BaseURL     string
	Client      *http.Client
	UserAgent   string
	MaxAttempts int
}

func (o HTTPOptions) client() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	return &http.Client{Timeout: defaultHTTPTimeout}
}

// statusError carries a non-2xx response status.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.code)
}

// getJSON issues a GET and decodes the JSON body into out. Server errors and
// transport failures are retried; client errors are not.
func getJSON(ctx context.Context, name string, opts HTTPOptions, params url.Values, out any) error {
	reqURL := fmt.Sprintf("%s?%s", opts.BaseURL, params.Encode())
	client := opts.client()

	return retry.DoWithLog(ctx, retry.HTTPConfig(opts.MaxAttempts), name, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return retry.Permanent(fmt.Errorf("failed to build %s request: %w", name, err))
		}
		req.Header.Set("Accept", "application/json")
		if opts.UserAgent != "" {
			req.Header.Set("User-Agent", opts.UserAgent)
		}

		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("%s request failed: %w", name, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			statusErr := &statusError{code: resp.StatusCode}
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return statusErr
			}
			return retry.Permanent(statusErr)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return retry.Permanent(fmt.Errorf("failed to decode %s response: %w", name, err))
		}
		return nil
	}, func(attempt int, err error, nextDelay time.Duration) {
		observability.LoggerFromContext(ctx).Debug().
			Str("provider", name).
			Int("attempt", attempt).
			Dur("next_delay", nextDelay).
			Err(err).
			Msg("retrying geocoder request")
	})
}

func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
