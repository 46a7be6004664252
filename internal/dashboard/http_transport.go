package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Bahjat/crawl-insight/internal/model"
	"github.com/Bahjat/crawl-insight/internal/platform/errs"
	"github.com/Bahjat/crawl-insight/internal/render"
)

const (
	maxCrawlBody     = 1 << 20  // 1 MB
	maxSummarizeBody = 32 << 20 // 32 MB; backend payloads carry page text
)

// Transport handles HTTP requests for the crawl dashboard.
type Transport struct {
	service *Service
	logger  *slog.Logger
}

// NewTransport creates an HTTP transport backed by the given service.
func NewTransport(service *Service, logger *slog.Logger) *Transport {
	return &Transport{service: service, logger: logger}
}

// RegisterRoutes attaches the transport's handlers to the given mux.
func (t *Transport) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /crawl", t.handleCrawl)
	mux.HandleFunc("POST /summarize", t.handleSummarize)
	mux.HandleFunc("GET /healthz", t.handleHealth)
}

func (t *Transport) handleCrawl(w http.ResponseWriter, r *http.Request) {
	expand, err := render.ParseExpand(r.URL.Query().Get("expand"))
	if err != nil {
		t.renderError(w, http.StatusBadRequest, err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxCrawlBody)

	var req model.CrawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.renderError(w, http.StatusBadRequest, "Invalid request body. Please send a JSON object with a \"urls\" field.")
		return
	}

	if err := req.WithDefaults().Validate(); err != nil {
		t.renderError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := t.service.Crawl(r.Context(), req)
	if err != nil {
		t.handleServiceError(w, err)
		return
	}

	t.renderJSON(w, http.StatusOK, render.NewReport(summary, expand))
}

func (t *Transport) handleSummarize(w http.ResponseWriter, r *http.Request) {
	expand, err := render.ParseExpand(r.URL.Query().Get("expand"))
	if err != nil {
		t.renderError(w, http.StatusBadRequest, err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxSummarizeBody)

	var resp model.CrawlResponse
	if err := json.NewDecoder(r.Body).Decode(&resp); err != nil {
		t.renderError(w, http.StatusBadRequest, "Invalid request body. Please send a crawl backend response with \"results\" and \"stats\".")
		return
	}

	summary := t.service.Summarize(r.Context(), &resp)
	t.renderJSON(w, http.StatusOK, render.NewReport(summary, expand))
}

func (t *Transport) handleHealth(w http.ResponseWriter, _ *http.Request) {
	t.renderJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (t *Transport) handleServiceError(w http.ResponseWriter, err error) {
	var appErr *errs.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch appErr.Kind {
		case errs.InvalidInput:
			status = http.StatusBadRequest
		case errs.Unreachable:
			status = http.StatusBadGateway
		case errs.Timeout:
			status = http.StatusGatewayTimeout
		case errs.ParsingFailed, errs.Unknown:
			// 500 Internal Server Error
		}
		t.renderError(w, status, appErr.Message)
		return
	}

	t.renderError(w, http.StatusInternalServerError, "An unexpected error occurred.")
}

func (t *Transport) renderJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		t.logger.Error("failed to encode response", "error", err)
		http.Error(w, `{"error":"Internal Server Error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (t *Transport) renderError(w http.ResponseWriter, status int, message string) {
	t.renderJSON(w, status, model.ErrorResponse{
		Error:      http.StatusText(status),
		StatusCode: status,
		Message:    message,
	})
}
