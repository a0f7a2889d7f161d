package jma

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiten-project/umbrella-app/internal/types"
)

func newTestClient(t *testing.T, baseURL string, opts ...ClientOption) *Client {
	t.Helper()
	opts = append([]ClientOption{WithSleepFunc(func(time.Duration) {})}, opts...)
	return NewClient(&http.Client{Timeout: 5 * time.Second}, baseURL, "umbrella-app-test", 100, 10, opts...)
}

func appErrCode(t *testing.T, err error) types.ErrorCode {
	t.Helper()
	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Code
}

func TestFetchForecastPayload(t *testing.T) {
	t.Run("fetches the area payload", func(t *testing.T) {
		var gotPath, gotAgent string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAgent = r.Header.Get("User-Agent")
			w.Write([]byte(`[{"publishingOffice": "気象庁"}]`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		body, err := client.FetchForecastPayload(context.Background(), "130000")
		require.NoError(t, err)

		assert.Equal(t, `[{"publishingOffice": "気象庁"}]`, string(body))
		assert.Equal(t, "/130000.json", gotPath)
		assert.Equal(t, "umbrella-app-test", gotAgent)
	})

	t.Run("empty area code is rejected without a request", func(t *testing.T) {
		client := newTestClient(t, "http://feed.invalid")
		_, err := client.FetchForecastPayload(context.Background(), "")
		assert.Equal(t, types.ErrCodeValidationInvalidArea, appErrCode(t, err))
	})

	t.Run("404 maps to a bad status error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		_, err := client.FetchForecastPayload(context.Background(), "999999")
		assert.Equal(t, types.ErrCodeAPIBadStatus, appErrCode(t, err))
	})

	t.Run("empty body maps to a malformed payload error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		_, err := client.FetchForecastPayload(context.Background(), "130000")
		assert.Equal(t, types.ErrCodeAPIMalformed, appErrCode(t, err))
	})

	t.Run("5xx responses are retried then reported", func(t *testing.T) {
		var calls int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		var sleeps []time.Duration
		client := newTestClient(t, server.URL, WithSleepFunc(func(d time.Duration) {
			sleeps = append(sleeps, d)
		}))

		_, err := client.FetchForecastPayload(context.Background(), "130000")
		assert.Equal(t, types.ErrCodeAPIBadStatus, appErrCode(t, err))
		assert.Equal(t, 3, calls)
		assert.Len(t, sleeps, 2)
		for _, d := range sleeps {
			assert.GreaterOrEqual(t, d, client.retryPolicy.MinWait)
			assert.LessOrEqual(t, d, client.retryPolicy.MaxWait)
		}
	})

	t.Run("retry stops at first success", func(t *testing.T) {
		var calls int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		body, err := client.FetchForecastPayload(context.Background(), "130000")
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(body))
		assert.Equal(t, 2, calls)
	})

	t.Run("429 maps to a rate limit error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		_, err := client.FetchForecastPayload(context.Background(), "130000")
		assert.Equal(t, types.ErrCodeAPIRateLimited, appErrCode(t, err))
	})

	t.Run("unreachable host maps to an offline error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		client := newTestClient(t, url)
		_, err := client.FetchForecastPayload(context.Background(), "130000")

		code := appErrCode(t, err)
		assert.Equal(t, types.KindOffline, code.Kind())
	})

	t.Run("request timeout maps to an offline timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		client := NewClient(
			&http.Client{Timeout: 20 * time.Millisecond},
			server.URL, "umbrella-app-test", 100, 10,
			WithSleepFunc(func(time.Duration) {}),
			WithRetryPolicy(RetryPolicy{MaxRetries: 0, MinWait: time.Millisecond, MaxWait: time.Millisecond}),
		)
		_, err := client.FetchForecastPayload(context.Background(), "130000")
		assert.Equal(t, types.ErrCodeOfflineTimeout, appErrCode(t, err))
	})

	t.Run("open circuit breaker short circuits to rate limited", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)

		// Two full fetch cycles accumulate six consecutive failures, which
		// trips the breaker.
		_, err := client.FetchForecastPayload(context.Background(), "130000")
		require.Error(t, err)
		_, err = client.FetchForecastPayload(context.Background(), "130000")
		require.Error(t, err)

		_, err = client.FetchForecastPayload(context.Background(), "130000")
		assert.Equal(t, types.ErrCodeAPIRateLimited, appErrCode(t, err))
	})

	t.Run("cancelled context aborts before the request", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := newTestClient(t, "http://feed.invalid")
		_, err := client.FetchForecastPayload(ctx, "130000")
		assert.Equal(t, types.ErrCodeOfflineTimeout, appErrCode(t, err))
	})
}

func TestComputeBackoff(t *testing.T) {
	client := newTestClient(t, "http://feed.invalid")

	assert.Equal(t, client.retryPolicy.MinWait, client.computeBackoff(0))

	for attempt := 1; attempt < 6; attempt++ {
		d := client.computeBackoff(attempt)
		assert.GreaterOrEqual(t, d, client.retryPolicy.MinWait, "attempt %d", attempt)
		assert.LessOrEqual(t, d, client.retryPolicy.MaxWait, "attempt %d", attempt)
	}
}
