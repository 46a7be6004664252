package model

import "strings"

// StatusSuccess is the status text the crawl backend reports for a page it
// fetched and parsed. Every other status text describes a failure.
const StatusSuccess = "成功"

// CrawlResponse is the crawl backend's reply to a CrawlRequest.
type CrawlResponse struct {
	Results []CrawlRecord `json:"results"`
	Stats   StatsPayload  `json:"stats"`
}

// CrawlRecord is the backend-reported outcome for a single requested URL.
type CrawlRecord struct {
	URL          string             `json:"url"`
	Size         Number             `json:"size"`
	Time         Number             `json:"time"`
	Status       string             `json:"status"`
	Text         string             `json:"text,omitempty"`
	Images       []string           `json:"images,omitempty"`
	Performance  *PerformanceSample `json:"performance,omitempty"`
	Domain       string             `json:"domain,omitempty"`
	ContentType  string             `json:"content_type,omitempty"`
	StatusCode   Number             `json:"status_code,omitempty"`
	ImageCount   Number             `json:"image_count,omitempty"`
	TextLength   Number             `json:"text_length,omitempty"`
	ErrorType    string             `json:"error_type,omitempty"`
	ErrorDetails string             `json:"error_details,omitempty"`
}

// Succeeded reports whether the backend marked the record as a success.
func (r CrawlRecord) Succeeded() bool {
	return r.Status == StatusSuccess || strings.EqualFold(r.Status, "success")
}

// PerformanceSample holds the raw per-page timings (seconds) and HTML size
// (bytes) measured by the backend. Every field may be absent.
type PerformanceSample struct {
	DNSTime      Number `json:"dns_time"`
	ConnectTime  Number `json:"connect_time"`
	ResponseTime Number `json:"response_time"`
	DownloadTime Number `json:"download_time"`
	ParseTime    Number `json:"parse_time"`
	TotalTime    Number `json:"total_time"`
	HTMLSize     Number `json:"html_size"`
	ImageCount   Number `json:"image_count"`
	TextLength   Number `json:"text_length"`
	StatusCode   Number `json:"status_code"`
}

// StatsPayload is the backend's aggregate view of one crawl.
type StatsPayload struct {
	TotalURLs      Number                      `json:"total_urls"`
	SuccessCount   Number                      `json:"success_count"`
	FailedCount    Number                      `json:"failed_count"`
	TotalSize      Number                      `json:"total_size"`
	TotalTime      Number                      `json:"total_time"`
	AvgTimePerPage Number                      `json:"avg_time_per_page"`
	AvgSizePerPage Number                      `json:"avg_size_per_page"`
	Domains        *OrderedMap[DomainCounters] `json:"domains,omitempty"`
	ErrorTypes     *OrderedMap[Number]         `json:"error_types,omitempty"`
}

// DomainCounters are the raw per-domain counters the backend accumulates.
// The backend only accumulates time and size over successful fetches and
// only sets the averages when the domain had at least one success.
type DomainCounters struct {
	Count        Number  `json:"count"`
	SuccessCount Number  `json:"success_count"`
	FailedCount  Number  `json:"failed_count"`
	TotalSize    Number  `json:"total_size"`
	TotalTime    Number  `json:"total_time"`
	AvgTime      *Number `json:"avg_time,omitempty"`
	AvgSize      *Number `json:"avg_size,omitempty"`
}
