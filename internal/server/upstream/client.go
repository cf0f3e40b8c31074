// Package upstream is the HTTP client for the REST Countries v3.1 API.
//
// Responses are returned as raw JSON; callers normalize them. A 404 or 400
// from the API becomes common.ErrorNotFound. Everything else that prevents a
// usable 2xx body (network errors, timeouts, 429, 5xx, oversized or
// truncated bodies) becomes common.ErrorUpstreamUnavailable, and only those
// failures are retried.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/countryexplorer/internal/common"
	"github.com/dmitrijs2005/countryexplorer/internal/logging"
	"github.com/sethvargo/go-retry"
)

// maxBodyBytes caps a single response. The full /all listing with the
// default field filter is well under 1 MiB.
const maxBodyBytes = 32 << 20

// Outcome labels passed to Observer.
const (
	OutcomeOK          = "ok"
	OutcomeNotFound    = "not_found"
	OutcomeUnavailable = "unavailable"
)

// Observer receives one call per attempt.
type Observer interface {
	ObserveUpstream(endpoint, outcome string, d time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveUpstream(string, string, time.Duration) {}

// Options configure a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Retries    uint64
	RetryDelay time.Duration
}

// Client performs GET requests against the country data source.
type Client struct {
	baseURL    string
	http       *http.Client
	retries    uint64
	retryDelay time.Duration
	observer   Observer
	log        logging.Logger
}

// New builds a Client. A nil observer disables metrics.
func New(opts Options, log logging.Logger, obs Observer) *Client {
	if obs == nil {
		obs = nopObserver{}
	}
	delay := opts.RetryDelay
	if delay <= 0 {
		delay = time.Millisecond
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		http:       &http.Client{Timeout: opts.Timeout},
		retries:    opts.Retries,
		retryDelay: delay,
		observer:   obs,
		log:        log.With("module", "upstream"),
	}
}

// Get fetches {base}/{segments...}?{query}. Segments are path-escaped. The
// first segment names the endpoint in logs and metrics.
func (c *Client) Get(ctx context.Context, query url.Values, segments ...string) ([]byte, error) {
	endpoint := ""
	if len(segments) > 0 {
		endpoint = segments[0]
	}

	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	u := c.baseURL + "/" + strings.Join(escaped, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body []byte
	attempt := 0
	backoff := retry.WithMaxRetries(c.retries, retry.NewConstant(c.retryDelay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		b, err := c.do(ctx, endpoint, u)
		if err != nil {
			if errors.Is(err, common.ErrorUpstreamUnavailable) {
				c.log.Warn(ctx, "upstream attempt failed", "endpoint", endpoint, "attempt", attempt, "error", err)
				return retry.RetryableError(err)
			}
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorUpstreamUnavailable) {
			return nil, err
		}
		// retry.Do gives up with the bare context error when ctx ends
		// between attempts.
		return nil, fmt.Errorf("%w: %v", common.ErrorUpstreamUnavailable, err)
	}

	return body, nil
}

func (c *Client) do(ctx context.Context, endpoint, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	outcome := OutcomeUnavailable
	defer func() { c.observer.ObserveUpstream(endpoint, outcome, time.Since(start)) }()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		outcome = OutcomeNotFound
		return nil, common.ErrorNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, fmt.Errorf("%w: status %d", common.ErrorUpstreamUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", common.ErrorUpstreamUnavailable, err)
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", common.ErrorUpstreamUnavailable, maxBodyBytes)
	}

	outcome = OutcomeOK
	return body, nil
}
