// Package crawlview turns a raw crawl backend response into render-ready
// structures: totals in display units, per-domain aggregates, an error
// histogram, and per-record rows whose image URLs are routed through the
// referer-injecting image proxy where needed.
//
// Everything here is a pure, synchronous transform of its inputs. Nothing
// performs I/O and nothing is shared between calls.
package crawlview

import (
	"slices"

	"github.com/Bahjat/crawl-insight/internal/model"
)

// ErrorCount is one row of the error-type histogram.
type ErrorCount struct {
	Type  string `json:"type" yaml:"type"`
	Count int    `json:"count" yaml:"count"`
}

// Summary is the render-ready view of one crawl. Totals come from the
// backend as reported; per-domain rates are recomputed locally. Per-record
// display values are built on demand by Row and Detail.
type Summary struct {
	TotalURLs        int          `json:"total_urls" yaml:"total_urls"`
	SuccessCount     int          `json:"success_count" yaml:"success_count"`
	FailedCount      int          `json:"failed_count" yaml:"failed_count"`
	TotalSize        float64      `json:"total_size" yaml:"total_size"`
	AvgTimePerPage   float64      `json:"avg_time_per_page" yaml:"avg_time_per_page"`
	AvgSizePerPage   float64      `json:"avg_size_per_page" yaml:"avg_size_per_page"`
	TotalTime        float64      `json:"total_time" yaml:"total_time"`
	AvgTimePerPageMS float64      `json:"avg_time_per_page_ms" yaml:"avg_time_per_page_ms"`
	AvgSizePerPageKB float64      `json:"avg_size_per_page_kb" yaml:"avg_size_per_page_kb"`
	TotalTimeSeconds float64      `json:"total_time_s" yaml:"total_time_s"`
	Consistent       bool         `json:"consistent" yaml:"consistent"`
	Domains          *DomainTable `json:"domains" yaml:"domains"`
	ErrorTypes       []ErrorCount `json:"error_types,omitempty" yaml:"error_types,omitempty"`

	records  []model.CrawlRecord
	rewriter *Rewriter
}

type options struct {
	rewriter *Rewriter
}

// Option configures Summarize.
type Option func(*options)

// WithRewriter sets the image URL rewriter used by Detail.
func WithRewriter(r *Rewriter) Option {
	return func(o *options) {
		o.rewriter = r
	}
}

// Summarize builds the Summary for one backend response.
//
// Domains come from the backend's per-domain counters when it sent any
// (even an empty object) and are aggregated from results otherwise. The
// error histogram is nil when the backend sent no error types.
func Summarize(results []model.CrawlRecord, stats model.StatsPayload, opts ...Option) *Summary {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rewriter == nil {
		o.rewriter = NewRewriter(DefaultProxyBase)
	}

	s := &Summary{
		TotalURLs:      count(stats.TotalURLs),
		SuccessCount:   count(stats.SuccessCount),
		FailedCount:    count(stats.FailedCount),
		TotalSize:      positive(stats.TotalSize.Float()),
		AvgTimePerPage: positive(stats.AvgTimePerPage.Float()),
		AvgSizePerPage: positive(stats.AvgSizePerPage.Float()),
		TotalTime:      positive(stats.TotalTime.Float()),
		records:        slices.Clone(results),
		rewriter:       o.rewriter,
	}
	s.AvgTimePerPageMS = secondsToMS(s.AvgTimePerPage)
	s.AvgSizePerPageKB = bytesToKB(s.AvgSizePerPage)
	s.TotalTimeSeconds = round2(s.TotalTime)
	s.Consistent = s.SuccessCount+s.FailedCount == s.TotalURLs

	if stats.Domains != nil {
		s.Domains = DomainsFromCounters(stats.Domains)
	} else {
		s.Domains = AggregateRecords(results)
	}

	for _, kind := range stats.ErrorTypes.Keys() {
		n, _ := stats.ErrorTypes.Get(kind)
		s.ErrorTypes = append(s.ErrorTypes, ErrorCount{Type: kind, Count: count(n)})
	}

	return s
}

// HasErrorBreakdown reports whether the error-type histogram should be shown.
func (s *Summary) HasErrorBreakdown() bool {
	return len(s.ErrorTypes) > 0
}

// Len returns the number of crawl records.
func (s *Summary) Len() int {
	return len(s.records)
}

// RecordRow is the collapsed table row for one crawl record.
type RecordRow struct {
	Index     int     `json:"index" yaml:"index"`
	URL       string  `json:"url" yaml:"url"`
	SizeKB    float64 `json:"size_kb" yaml:"size_kb"`
	SizeLabel string  `json:"size_label" yaml:"size_label"`
	TimeS     float64 `json:"time_s" yaml:"time_s"`
	TimeLabel string  `json:"time_label" yaml:"time_label"`
	Status    string  `json:"status" yaml:"status"`
	Succeeded bool    `json:"succeeded" yaml:"succeeded"`
	ErrorType string  `json:"error_type,omitempty" yaml:"error_type,omitempty"`
}

// RecordDetail is the expanded view of one crawl record.
type RecordDetail struct {
	RecordRow    `yaml:",inline"`
	Performance  *DisplayMetrics `json:"performance,omitempty" yaml:"performance,omitempty"`
	Images       []string        `json:"images,omitempty" yaml:"images,omitempty"`
	ImageCount   int             `json:"image_count" yaml:"image_count"`
	Text         string          `json:"text,omitempty" yaml:"text,omitempty"`
	ErrorDetails string          `json:"error_details,omitempty" yaml:"error_details,omitempty"`
}

// Row returns the collapsed row for record i.
func (s *Summary) Row(i int) (RecordRow, bool) {
	if i < 0 || i >= len(s.records) {
		return RecordRow{}, false
	}
	return rowOf(i, s.records[i]), true
}

// Rows returns every collapsed row in backend order.
func (s *Summary) Rows() []RecordRow {
	rows := make([]RecordRow, len(s.records))
	for i, rec := range s.records {
		rows[i] = rowOf(i, rec)
	}
	return rows
}

// Detail returns the expanded view for record i, normalizing its
// performance sample and rewriting its image URLs.
func (s *Summary) Detail(i int) (RecordDetail, bool) {
	if i < 0 || i >= len(s.records) {
		return RecordDetail{}, false
	}
	rec := s.records[i]
	return RecordDetail{
		RecordRow:    rowOf(i, rec),
		Performance:  NormalizeMetrics(rec.Performance),
		Images:       s.rewriter.RewriteAll(rec.Images),
		ImageCount:   len(rec.Images),
		Text:         rec.Text,
		ErrorDetails: rec.ErrorDetails,
	}, true
}

func rowOf(i int, rec model.CrawlRecord) RecordRow {
	size := positive(rec.Size.Float())
	kb := bytesToKB(size)
	elapsed := positive(rec.Time.Float())
	secs := round2(elapsed)

	return RecordRow{
		Index:     i,
		URL:       rec.URL,
		SizeKB:    kb,
		SizeLabel: label(size, kb, " KB"),
		TimeS:     secs,
		TimeLabel: label(elapsed, secs, " s"),
		Status:    rec.Status,
		Succeeded: rec.Succeeded(),
		ErrorType: rec.ErrorType,
	}
}
