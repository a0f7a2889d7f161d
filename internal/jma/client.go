// Package jma provides the transport layer for the public area-coded weather
// feed. All outbound HTTP calls are routed through the Client, which enforces
// consistent resilience patterns: circuit breaking, retries with exponential
// backoff, rate limiting against the public feed, and error mapping to typed
// AppErrors so callers can distinguish "offline" from "provider broken".
package jma

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/jiten-project/umbrella-app/internal/types"
)

// RetryPolicy configures the retry behavior for the Client.
type RetryPolicy struct {
	MaxRetries int
	MinWait    time.Duration
	MaxWait    time.Duration
}

// DefaultRetryPolicy returns sensible defaults for the public feed.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 2,
		MinWait:    500 * time.Millisecond,
		MaxWait:    5 * time.Second,
	}
}

// Client fetches raw forecast payloads from the area-coded feed. It wraps an
// *http.Client with a circuit breaker and a rate limiter and implements
// types.PayloadFetcher.
type Client struct {
	client      *http.Client
	breaker     *gobreaker.CircuitBreaker[*http.Response]
	limiter     *rate.Limiter
	retryPolicy RetryPolicy
	baseURL     string
	userAgent   string
	sleepFn     func(time.Duration) // for testability; defaults to time.Sleep
}

// ClientOption is a functional option for configuring a Client.
type ClientOption func(*Client)

// WithSleepFunc overrides the sleep function used between retries.
// This is intended for testing to avoid real delays.
func WithSleepFunc(fn func(time.Duration)) ClientOption {
	return func(c *Client) {
		c.sleepFn = fn
	}
}

// WithRetryPolicy overrides the default retry policy.
func WithRetryPolicy(p RetryPolicy) ClientOption {
	return func(c *Client) {
		c.retryPolicy = p
	}
}

// NewClient creates a Client for the given feed base URL.
// requestsPerSecond and burst throttle calls to the public feed.
func NewClient(httpClient *http.Client, baseURL, userAgent string, requestsPerSecond float64, burst int, opts ...ClientOption) *Client {
	cb := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        "forecast-feed",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil
		},
	})

	c := &Client{
		client:      httpClient,
		breaker:     cb,
		limiter:     rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
		retryPolicy: DefaultRetryPolicy(),
		baseURL:     strings.TrimRight(baseURL, "/"),
		userAgent:   userAgent,
		sleepFn:     time.Sleep,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchForecastPayload retrieves the raw forecast JSON for an area code.
// It implements types.PayloadFetcher.
//
// The request flow is:
//  1. Rate limiter wait (respects ctx cancellation).
//  2. Circuit breaker wrapping.
//  3. Retry on 429/5xx with exponential backoff and jitter.
//  4. Error mapping to types.AppError (offline_* vs api_*).
func (c *Client) FetchForecastPayload(ctx context.Context, areaCode string) ([]byte, error) {
	if areaCode == "" {
		return nil, types.NewAppError(types.ErrCodeValidationInvalidArea,
			"area code is required", nil)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, types.NewAppError(types.ErrCodeOfflineTimeout,
			"rate limiter wait aborted", err)
	}

	url := fmt.Sprintf("%s/%s.json", c.baseURL, areaCode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalUnexpected,
			"failed to build feed request", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	var lastResp *http.Response
	var lastErr error

	maxAttempts := 1 + c.retryPolicy.MaxRetries
	for attempt := 0; attempt < maxAttempts; attempt++ {
		resp, err := c.breaker.Execute(func() (*http.Response, error) {
			r, doErr := c.client.Do(req)
			if doErr != nil {
				return nil, doErr
			}
			// Treat 5xx and 429 as errors for the circuit breaker.
			if r.StatusCode >= 500 || r.StatusCode == http.StatusTooManyRequests {
				return r, fmt.Errorf("feed returned %d", r.StatusCode)
			}
			return r, nil
		})

		if err == nil {
			return c.readBody(resp, areaCode)
		}

		lastErr = err
		if resp != nil {
			if attempt < maxAttempts-1 {
				resp.Body.Close()
			} else {
				lastResp = resp
			}
		}

		// If the circuit breaker is open, do not retry.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			break
		}

		if attempt < maxAttempts-1 {
			c.sleepFn(c.computeBackoff(attempt))
		}
	}

	if lastResp != nil {
		lastResp.Body.Close()
	}

	return nil, c.mapError(lastResp, lastErr)
}

// readBody drains a successful response and maps non-2xx statuses to api_*.
func (c *Client) readBody(resp *http.Response, areaCode string) ([]byte, error) {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, types.NewAppError(types.ErrCodeAPIBadStatus,
			fmt.Sprintf("feed returned status %d for area %s", resp.StatusCode, areaCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeOfflineUnreachable,
			"connection lost while reading feed response", err)
	}
	if len(body) == 0 {
		return nil, types.NewAppError(types.ErrCodeAPIMalformed,
			fmt.Sprintf("feed returned an empty body for area %s", areaCode), nil)
	}
	return body, nil
}

// computeBackoff determines the wait duration before the next retry attempt
// using exponential backoff with full jitter clamped to [MinWait, MaxWait].
func (c *Client) computeBackoff(attempt int) time.Duration {
	base := float64(c.retryPolicy.MinWait) * math.Pow(2, float64(attempt))
	maxWait := float64(c.retryPolicy.MaxWait)
	if base > maxWait {
		base = maxWait
	}

	minWait := float64(c.retryPolicy.MinWait)
	if base <= minWait {
		return c.retryPolicy.MinWait
	}
	jittered := minWait + rand.Float64()*(base-minWait)
	return time.Duration(jittered)
}

// mapError translates transport-level failures into domain-level AppErrors,
// separating "offline" (network unreachable) from "api" (provider broken).
func (c *Client) mapError(resp *http.Response, err error) *types.AppError {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return types.NewAppError(types.ErrCodeAPIRateLimited,
			"circuit breaker is open; feed marked unavailable", err)
	}

	if resp != nil {
		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return types.NewAppError(types.ErrCodeAPIRateLimited,
				"feed rate limit exceeded", err)
		case resp.StatusCode >= 500:
			return types.NewAppError(types.ErrCodeAPIBadStatus,
				fmt.Sprintf("feed returned %d after retries", resp.StatusCode), err)
		}
	}

	return classifyTransportError(err)
}

// classifyTransportError decides whether a request failure means the network
// is unreachable (offline_*) or something unexpected happened. Timeout checks
// use the net.Error contract first, then fall back to message heuristics for
// wrapped errors that lose their type.
func classifyTransportError(err error) *types.AppError {
	if err == nil {
		return types.NewAppError(types.ErrCodeInternalUnexpected,
			"feed request failed", nil)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return types.NewAppError(types.ErrCodeOfflineTimeout,
			"feed request timed out", err)
	}

	var dnsErr *net.DNSError
	var opErr *net.OpError
	if errors.As(err, &dnsErr) || errors.As(err, &opErr) {
		return types.NewAppError(types.ErrCodeOfflineUnreachable,
			"network unreachable", err)
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "network") ||
		strings.Contains(msg, "failed to fetch") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "connection refused") {
		return types.NewAppError(types.ErrCodeOfflineUnreachable,
			"network unreachable", err)
	}

	return types.NewAppError(types.ErrCodeInternalUnexpected,
		"feed request failed", err)
}
