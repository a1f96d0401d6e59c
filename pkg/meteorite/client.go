package meteorite

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	apperrors "github.com/perseids/meteorfall/pkg/errors"
	"github.com/perseids/meteorfall/pkg/httputil"
)

// DefaultURL is the NASA Meteorite Landings dataset endpoint. The Socrata
// export returns a single JSON array of records; no pagination, no auth.
const DefaultURL = "https://data.nasa.gov/resource/y77d-th95.json"

const httpTimeout = 10 * time.Second

// Client fetches the raw dataset over HTTP. It handles response caching
// and retry logic; transient failures (transport errors, 5xx) are retried
// with backoff, everything else fails fast with a coded error.
type Client struct {
	http  *http.Client
	cache *httputil.Cache
	url   string
}

// NewClient creates a Client for the given endpoint URL.
// If url is empty, [DefaultURL] is used. Pass a nil cache to disable
// response caching.
func NewClient(url string, cache *httputil.Cache) *Client {
	if url == "" {
		url = DefaultURL
	}
	if cache != nil {
		// Scope entries so other users of the shared cache directory
		// can never collide with raw dataset bodies.
		cache = cache.Namespace("dataset:")
	}
	return &Client{
		http:  &http.Client{Timeout: httpTimeout},
		cache: cache,
		url:   url,
	}
}

// URL returns the endpoint this client fetches from.
func (c *Client) URL() string { return c.url }

// Fetch retrieves the dataset, serving from the response cache when
// possible. If refresh is true the cache is bypassed and the endpoint is
// always contacted. The returned bool reports whether the records came
// from the cache.
//
// Failures are coded: NETWORK_ERROR or TIMEOUT for transport problems,
// NOT_FOUND for a 404, INVALID_INPUT for a body that is not a JSON array
// of records. Fetch never invents an empty result on failure; callers
// decide how to degrade.
func (c *Client) Fetch(ctx context.Context) ([]Record, bool, error) {
	return c.fetch(ctx, false)
}

// FetchFresh is like [Client.Fetch] but always bypasses the cache.
func (c *Client) FetchFresh(ctx context.Context) ([]Record, bool, error) {
	return c.fetch(ctx, true)
}

func (c *Client) fetch(ctx context.Context, refresh bool) ([]Record, bool, error) {
	var records []Record
	if c.cache != nil && !refresh {
		if ok, _ := c.cache.Get(c.url, &records); ok {
			return records, true, nil
		}
	}

	err := httputil.RetryTransient(ctx, func() error {
		var err error
		records, err = c.doRequest(ctx)
		return err
	})
	if err != nil {
		return nil, false, err
	}

	if c.cache != nil {
		_ = c.cache.Set(c.url, records)
	}
	return records, false, nil
}

func (c *Client) doRequest(ctx context.Context) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "build request for %s", c.url)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		code := apperrors.ErrCodeNetwork
		if ctx.Err() == nil && isTimeout(err) {
			code = apperrors.ErrCodeTimeout
		}
		return nil, &httputil.RetryableError{Err: apperrors.Wrap(code, err, "fetch %s", c.url)}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	var records []Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode dataset from %s", c.url)
	}
	return records, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return apperrors.New(apperrors.ErrCodeNotFound, "dataset not found (status 404)")
	case code >= 500:
		return &httputil.RetryableError{Err: apperrors.New(apperrors.ErrCodeNetwork, "status %d", code)}
	default:
		return apperrors.New(apperrors.ErrCodeNetwork, "unexpected status %d", code)
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
