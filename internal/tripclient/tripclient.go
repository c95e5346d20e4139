// Package tripclient asks the trip service whether a trip exists before
// splits are recorded against it.
package tripclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TripChecker reports whether a trip exists.
type TripChecker interface {
	TripExists(ctx context.Context, tripID string) (bool, error)
}

// AllowAll accepts every trip. It is used when no trip service is configured.
type AllowAll struct{}

// TripExists always returns true.
func (AllowAll) TripExists(context.Context, string) (bool, error) {
	return true, nil
}

// HTTPChecker looks trips up with GET {BaseURL}/api/trips/{tripID}.
type HTTPChecker struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPChecker returns a checker for the trip service at baseURL.
func NewHTTPChecker(baseURL string, timeout time.Duration) *HTTPChecker {
	return &HTTPChecker{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

// TripExists returns true on any 2xx, false on 404 and an error otherwise.
func (c *HTTPChecker) TripExists(ctx context.Context, tripID string) (bool, error) {
	endpoint := fmt.Sprintf("%s/api/trips/%s", c.BaseURL, url.PathEscape(tripID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to reach trip service: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, fmt.Errorf("unexpected status code from trip service: %d, body: %s", resp.StatusCode, string(body))
	}
}
