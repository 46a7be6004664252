package dashboard

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Bahjat/crawl-insight/internal/crawlview"
	"github.com/Bahjat/crawl-insight/internal/model"
	"github.com/Bahjat/crawl-insight/internal/platform/errs"
	"github.com/Bahjat/crawl-insight/internal/platform/requestid"
)

// Service runs crawls through a CrawlProvider and summarizes the results.
type Service struct {
	provider CrawlProvider
	rewriter *crawlview.Rewriter
	logger   *slog.Logger
}

// NewService creates a Service backed by the given provider. Image URLs in
// expanded records are rewritten with rewriter.
func NewService(provider CrawlProvider, rewriter *crawlview.Rewriter, logger *slog.Logger) *Service {
	return &Service{provider: provider, rewriter: rewriter, logger: logger}
}

// Crawl delegates to the provider, logs the outcome, and summarizes the
// response.
func (s *Service) Crawl(ctx context.Context, req model.CrawlRequest) (*crawlview.Summary, error) {
	req = req.WithDefaults()
	logger := s.logger.With(
		"url_count", len(req.URLList()),
		"max_size_kb", req.MaxSize,
		"content_type", req.ContentType,
		"request_id", requestid.FromContext(ctx),
	)

	resp, err := s.provider.Crawl(ctx, req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			var appErr *errs.AppError
			if !errors.As(err, &appErr) || appErr.Kind != errs.Timeout {
				err = &errs.AppError{
					Kind:    errs.Timeout,
					Message: "The crawl timed out. Try fewer URLs or a longer timeout.",
					Cause:   err,
				}
			}
		}

		attrs := []any{"error", err}
		var appErr *errs.AppError
		if errors.As(err, &appErr) {
			attrs = append(attrs, "kind", appErr.Kind.String())
			if appErr.UpstreamStatus != 0 {
				attrs = append(attrs, "backend_status", appErr.UpstreamStatus)
			}
		}
		logger.Error("crawl failed", attrs...)
		return nil, err
	}

	summary := s.summarize(logger, resp)
	logger.Info("crawl complete",
		"total_urls", summary.TotalURLs,
		"success_count", summary.SuccessCount,
		"failed_count", summary.FailedCount,
		"domains", summary.Domains.Len(),
	)
	return summary, nil
}

// Summarize builds the Summary for a backend response the caller already
// holds. It never fails.
func (s *Service) Summarize(ctx context.Context, resp *model.CrawlResponse) *crawlview.Summary {
	logger := s.logger.With("request_id", requestid.FromContext(ctx))
	return s.summarize(logger, resp)
}

func (s *Service) summarize(logger *slog.Logger, resp *model.CrawlResponse) *crawlview.Summary {
	if resp == nil {
		resp = &model.CrawlResponse{}
	}

	summary := crawlview.Summarize(resp.Results, resp.Stats, crawlview.WithRewriter(s.rewriter))
	if !summary.Consistent {
		logger.Warn("backend totals are inconsistent",
			"total_urls", summary.TotalURLs,
			"success_count", summary.SuccessCount,
			"failed_count", summary.FailedCount,
		)
	}
	if summary.Len() != summary.TotalURLs {
		logger.Debug("result count differs from reported total",
			"results", summary.Len(),
			"total_urls", summary.TotalURLs,
		)
	}
	return summary
}
