// Package crawlclient posts crawl requests to the crawl backend and decodes
// its reply.
package crawlclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Bahjat/crawl-insight/internal/model"
	"github.com/Bahjat/crawl-insight/internal/platform/errs"
	"github.com/Bahjat/crawl-insight/internal/platform/requestid"
)

const (
	crawlPath = "/crawl"
	userAgent = "CrawlInsight/1.0"

	// Backend replies embed extracted page text, so allow more than a
	// single page's worth.
	maxResponseBody = 64 << 20
	maxErrorBody    = 64 << 10
)

// Client calls the crawl backend over HTTP.
type Client struct {
	baseURL string
	client  *http.Client
}

// New returns a Client for the backend at baseURL. A crawl covers many
// pages, so timeout bounds the whole exchange rather than a single page.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// BaseURL returns the backend address the client posts to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Crawl validates req, posts it to the backend, and decodes the reply.
// On any failure it returns an *errs.AppError and no response.
func (c *Client) Crawl(ctx context.Context, req model.CrawlRequest) (*model.CrawlResponse, error) {
	req = req.WithDefaults()
	if err := req.Validate(); err != nil {
		return nil, &errs.AppError{
			Kind:    errs.InvalidInput,
			Message: err.Error(),
			Cause:   err,
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, &errs.AppError{
			Kind:    errs.InvalidInput,
			Message: "Failed to encode the crawl request.",
			Cause:   err,
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+crawlPath, bytes.NewReader(body))
	if err != nil {
		return nil, &errs.AppError{
			Kind:    errs.Unreachable,
			Message: "The crawl backend address is invalid.",
			Cause:   err,
		}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", userAgent)
	if id := requestid.FromContext(ctx); id != "" {
		httpReq.Header.Set(requestid.Header, id)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp)
	}

	var out model.CrawlResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&out); err != nil {
		if isTimeout(ctx, err) {
			return nil, timeoutError(err)
		}
		return nil, &errs.AppError{
			Kind:    errs.ParsingFailed,
			Message: "The crawl backend returned a response that could not be read.",
			Cause:   err,
		}
	}

	return &out, nil
}

func transportError(ctx context.Context, err error) error {
	if isTimeout(ctx, err) {
		return timeoutError(err)
	}
	return &errs.AppError{
		Kind:    errs.Unreachable,
		Message: "The crawl backend could not be reached.",
		Cause:   err,
	}
}

func timeoutError(err error) error {
	return &errs.AppError{
		Kind:    errs.Timeout,
		Message: "The crawl timed out. Try fewer URLs or a longer timeout.",
		Cause:   err,
	}
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// statusError maps a non-2xx backend reply. 4xx means the backend rejected
// the request; the backend's own message is surfaced when it sent one.
func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	cause := fmt.Errorf("crawl backend returned %s", resp.Status)

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		msg := "The crawl backend rejected the request."
		var be model.BackendError
		if json.Unmarshal(raw, &be) == nil && be.Error != "" {
			msg = be.Error
		}
		return &errs.AppError{
			Kind:           errs.InvalidInput,
			UpstreamStatus: resp.StatusCode,
			Message:        msg,
			Cause:          cause,
		}
	}

	return &errs.AppError{
		Kind:           errs.Unreachable,
		UpstreamStatus: resp.StatusCode,
		Message:        "The crawl backend returned an error status.",
		Cause:          cause,
	}
}
