package crawlview

import "github.com/Bahjat/crawl-insight/internal/model"

// DisplayMetrics is a PerformanceSample converted to display units:
// milliseconds for timings and kilobytes for the HTML size, each rounded to
// two decimals.
type DisplayMetrics struct {
	DNSTimeMS      float64 `json:"dns_time_ms" yaml:"dns_time_ms"`
	ConnectTimeMS  float64 `json:"connect_time_ms" yaml:"connect_time_ms"`
	ResponseTimeMS float64 `json:"response_time_ms" yaml:"response_time_ms"`
	DownloadTimeMS float64 `json:"download_time_ms" yaml:"download_time_ms"`
	ParseTimeMS    float64 `json:"parse_time_ms" yaml:"parse_time_ms"`
	TotalTimeMS    float64 `json:"total_time_ms" yaml:"total_time_ms"`
	HTMLSizeKB     float64 `json:"html_size_kb" yaml:"html_size_kb"`
	ImageCount     int     `json:"image_count" yaml:"image_count"`
	TextLength     int     `json:"text_length" yaml:"text_length"`
	StatusCode     int     `json:"status_code" yaml:"status_code"`
}

// NormalizeMetrics converts a raw sample into display units. It returns nil
// when there is no sample. Missing, zero, negative and non-numeric raw
// values all display as 0.
func NormalizeMetrics(sample *model.PerformanceSample) *DisplayMetrics {
	if sample == nil {
		return nil
	}

	return &DisplayMetrics{
		DNSTimeMS:      secondsToMS(sample.DNSTime.Float()),
		ConnectTimeMS:  secondsToMS(sample.ConnectTime.Float()),
		ResponseTimeMS: secondsToMS(sample.ResponseTime.Float()),
		DownloadTimeMS: secondsToMS(sample.DownloadTime.Float()),
		ParseTimeMS:    secondsToMS(sample.ParseTime.Float()),
		TotalTimeMS:    secondsToMS(sample.TotalTime.Float()),
		HTMLSizeKB:     bytesToKB(sample.HTMLSize.Float()),
		ImageCount:     count(sample.ImageCount),
		TextLength:     count(sample.TextLength),
		StatusCode:     count(sample.StatusCode),
	}
}
