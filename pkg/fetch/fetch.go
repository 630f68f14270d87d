// Package fetch retrieves economy documents over HTTP.
//
// Fetching is the only suspending operation around the economy core: it
// honors context cancellation, retries transient failures with exponential
// backoff, and consults a [cache.Cache] before going to the network. The
// decoded document is returned as-is; loading it into a graph stays with
// the caller.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fabrikdev/econdag/pkg/cache"
	"github.com/fabrikdev/econdag/pkg/economy"
	econerrors "github.com/fabrikdev/econdag/pkg/errors"
)

// DefaultTTL is how long fetched documents stay cached.
const DefaultTTL = 15 * time.Minute

// retryableError wraps an error to indicate it should trigger a retry.
// Transient failures (network errors, 5xx responses) are wrapped so that
// retry knows to attempt the operation again.
type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// retry executes fn up to attempts times with exponential backoff. Only
// errors wrapped with retryableError are retried; other errors return
// immediately. The delay doubles after each failed attempt.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !errors.As(err, new(*retryableError)) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

// Client fetches economy documents from URLs.
type Client struct {
	httpClient *http.Client
	cache      cache.Cache
	ttl        time.Duration
}

// NewClient creates a fetch client. A nil httpClient uses a 30-second
// timeout default; a nil c disables caching.
func NewClient(httpClient *http.Client, c cache.Cache) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{httpClient: httpClient, cache: c, ttl: DefaultTTL}
}

// Document fetches and decodes the economy document at url.
//
// A cached response is decoded without touching the network. Network
// failures and 5xx responses are retried up to three times with backoff;
// 4xx responses fail immediately with NOT_FOUND or NETWORK_ERROR. Decoding
// failures carry the codec's UNSUPPORTED_VERSION and MALFORMED codes.
func (c *Client) Document(ctx context.Context, url string) (economy.Document, error) {
	key := cache.Key("economy", url)
	if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		if doc, err := economy.UnmarshalDocument(data); err == nil {
			return doc, nil
		}
		// Stale or corrupt entry: drop it and refetch.
		_ = c.cache.Delete(ctx, key)
	}

	var body []byte
	err := retry(ctx, 3, time.Second, func() error {
		var err error
		body, err = c.get(ctx, url)
		return err
	})
	if err != nil {
		return economy.Document{}, err
	}

	doc, err := economy.UnmarshalDocument(body)
	if err != nil {
		return economy.Document{}, err
	}
	_ = c.cache.Set(ctx, key, body, c.ttl)
	return doc, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, econerrors.Wrap(econerrors.ErrCodeNetwork, err, "build request for %s", url)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &retryableError{err: econerrors.Wrap(econerrors.ErrCodeNetwork, err, "fetch %s", url)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, econerrors.New(econerrors.ErrCodeNotFound, "document not found at %s", url)
	case resp.StatusCode >= 500:
		err := econerrors.New(econerrors.ErrCodeNetwork, "%s returned %s", url, resp.Status)
		return nil, &retryableError{err: err}
	case resp.StatusCode != http.StatusOK:
		return nil, econerrors.New(econerrors.ErrCodeNetwork, "%s returned %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &retryableError{err: fmt.Errorf("read response from %s: %w", url, err)}
	}
	return body, nil
}
