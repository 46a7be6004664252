package crawlclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Bahjat/crawl-insight/internal/model"
	"github.com/Bahjat/crawl-insight/internal/platform/errs"
	"github.com/Bahjat/crawl-insight/internal/platform/requestid"
)

const okPayload = `{
	"results": [{"url": "https://a.com/", "size": 1024, "time": 0.5, "status": "成功"}],
	"stats": {"total_urls": 1, "success_count": 1, "failed_count": 0,
	          "domains": {"a.com": {"count": 1, "success_count": 1}}}
}`

func newRequest() model.CrawlRequest {
	return model.NewCrawlRequest([]string{"https://a.com/"}, 0, "")
}

func appErrorOf(t *testing.T, err error) *errs.AppError {
	t.Helper()
	var appErr *errs.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("error = %v (%T), want *errs.AppError", err, err)
	}
	return appErr
}

func TestNew(t *testing.T) {
	c := New("http://backend.test:5000/", time.Second)
	if c.BaseURL() != "http://backend.test:5000" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", c.BaseURL())
	}
	if c.client.Timeout != time.Second {
		t.Errorf("Timeout = %s, want 1s", c.client.Timeout)
	}
}

func TestClient_Crawl(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/crawl" {
			t.Errorf("request = %s %s, want POST /crawl", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != userAgent {
			t.Errorf("User-Agent = %q, want %q", got, userAgent)
		}
		if got := r.Header.Get(requestid.Header); got != "req-42" {
			t.Errorf("%s = %q, want req-42", requestid.Header, got)
		}

		var body model.CrawlRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		if body.MaxSize != model.DefaultMaxSizeKB || body.ContentType != model.ContentAll {
			t.Errorf("defaults not applied: %+v", body)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, okPayload)
	}))
	defer ts.Close()

	c := New(ts.URL, 5*time.Second)
	ctx := requestid.NewContext(context.Background(), "req-42")

	resp, err := c.Crawl(ctx, newRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].URL != "https://a.com/" {
		t.Errorf("Results = %+v", resp.Results)
	}
	if resp.Stats.TotalURLs != 1 {
		t.Errorf("TotalURLs = %v, want 1", resp.Stats.TotalURLs)
	}
	if resp.Stats.Domains.Len() != 1 {
		t.Errorf("Domains.Len = %d, want 1", resp.Stats.Domains.Len())
	}
}

func TestClient_Crawl_LocalValidation(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))
	defer ts.Close()

	c := New(ts.URL, time.Second)
	resp, err := c.Crawl(context.Background(), model.NewCrawlRequest([]string{" ", ""}, 0, ""))

	if resp != nil {
		t.Error("expected no response")
	}
	if appErr := appErrorOf(t, err); appErr.Kind != errs.InvalidInput {
		t.Errorf("Kind = %s, want %s", appErr.Kind, errs.InvalidInput)
	}
	if called {
		t.Error("backend should not be called for an invalid request")
	}
}

func TestClient_Crawl_StatusErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantKind    errs.Kind
		wantMessage string
	}{
		{
			name:        "backend rejects request",
			status:      http.StatusBadRequest,
			body:        `{"error": "请提供至少一个URL"}`,
			wantKind:    errs.InvalidInput,
			wantMessage: "请提供至少一个URL",
		},
		{
			name:        "rejection without body",
			status:      http.StatusBadRequest,
			body:        ``,
			wantKind:    errs.InvalidInput,
			wantMessage: "The crawl backend rejected the request.",
		},
		{
			name:        "bad gateway",
			status:      http.StatusBadGateway,
			body:        `upstream failed`,
			wantKind:    errs.Unreachable,
			wantMessage: "The crawl backend returned an error status.",
		},
		{
			name:        "internal error",
			status:      http.StatusInternalServerError,
			body:        `{"error": "boom"}`,
			wantKind:    errs.Unreachable,
			wantMessage: "The crawl backend returned an error status.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = fmt.Fprint(w, tt.body)
			}))
			defer ts.Close()

			resp, err := New(ts.URL, time.Second).Crawl(context.Background(), newRequest())

			if resp != nil {
				t.Error("expected no response")
			}
			appErr := appErrorOf(t, err)
			if appErr.Kind != tt.wantKind {
				t.Errorf("Kind = %s, want %s", appErr.Kind, tt.wantKind)
			}
			if appErr.UpstreamStatus != tt.status {
				t.Errorf("UpstreamStatus = %d, want %d", appErr.UpstreamStatus, tt.status)
			}
			if appErr.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", appErr.Message, tt.wantMessage)
			}
		})
	}
}

func TestClient_Crawl_MalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `{"results": [`)
	}))
	defer ts.Close()

	resp, err := New(ts.URL, time.Second).Crawl(context.Background(), newRequest())

	if resp != nil {
		t.Error("expected no partial response")
	}
	if appErr := appErrorOf(t, err); appErr.Kind != errs.ParsingFailed {
		t.Errorf("Kind = %s, want %s", appErr.Kind, errs.ParsingFailed)
	}
}

func TestClient_Crawl_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := ts.URL
	ts.Close()

	_, err := New(addr, time.Second).Crawl(context.Background(), newRequest())

	if appErr := appErrorOf(t, err); appErr.Kind != errs.Unreachable {
		t.Errorf("Kind = %s, want %s", appErr.Kind, errs.Unreachable)
	}
}

func TestClient_Crawl_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer ts.Close()

	_, err := New(ts.URL, 50*time.Millisecond).Crawl(context.Background(), newRequest())

	if appErr := appErrorOf(t, err); appErr.Kind != errs.Timeout {
		t.Errorf("Kind = %s, want %s", appErr.Kind, errs.Timeout)
	}
}

func TestClient_Crawl_ContextDeadline(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := New(ts.URL, 10*time.Second).Crawl(ctx, newRequest())

	if appErr := appErrorOf(t, err); appErr.Kind != errs.Timeout {
		t.Errorf("Kind = %s, want %s", appErr.Kind, errs.Timeout)
	}
}

func TestClient_Crawl_CancelledContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, okPayload)
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(ts.URL, time.Second).Crawl(ctx, newRequest())

	if appErr := appErrorOf(t, err); appErr.Kind != errs.Unreachable {
		t.Errorf("Kind = %s, want %s", appErr.Kind, errs.Unreachable)
	}
}
