package crawlview

import (
	"encoding/json"
	"net"
	"net/url"
	"strings"

	"github.com/Bahjat/crawl-insight/internal/model"
	"golang.org/x/net/publicsuffix"
)

// UnknownDomain is the aggregation key for records whose URL has no
// recognizable host.
const UnknownDomain = "(unknown)"

// DomainStat is the per-domain aggregate shown in the dashboard's domain
// table. SuccessRate is always derived locally from the two counts.
type DomainStat struct {
	Domain       string  `json:"domain" yaml:"domain"`
	Site         string  `json:"site,omitempty" yaml:"site,omitempty"`
	Count        int     `json:"count" yaml:"count"`
	SuccessCount int     `json:"success_count" yaml:"success_count"`
	FailedCount  int     `json:"failed_count" yaml:"failed_count"`
	SuccessRate  float64 `json:"success_rate" yaml:"success_rate"`
	AvgTime      float64 `json:"avg_time" yaml:"avg_time"`
	AvgSize      float64 `json:"avg_size" yaml:"avg_size"`
	AvgTimeMS    float64 `json:"avg_time_ms" yaml:"avg_time_ms"`
	AvgSizeKB    float64 `json:"avg_size_kb" yaml:"avg_size_kb"`
	AvgTimeLabel string  `json:"avg_time_label" yaml:"avg_time_label"`
	AvgSizeLabel string  `json:"avg_size_label" yaml:"avg_size_label"`
}

// newDomainStat enforces 0 <= successCount <= count and zeroes the averages
// of an empty domain.
func newDomainStat(domain string, total, successes int, avgTime, avgSize float64) DomainStat {
	total = max(total, 0)
	successes = min(max(successes, 0), total)
	if total == 0 {
		avgTime, avgSize = 0, 0
	}
	avgTime, avgSize = positive(avgTime), positive(avgSize)

	ms := secondsToMS(avgTime)
	kb := bytesToKB(avgSize)

	return DomainStat{
		Domain:       domain,
		Site:         siteOf(domain),
		Count:        total,
		SuccessCount: successes,
		FailedCount:  total - successes,
		SuccessRate:  SuccessRate(successes, total),
		AvgTime:      avgTime,
		AvgSize:      avgSize,
		AvgTimeMS:    ms,
		AvgSizeKB:    kb,
		AvgTimeLabel: label(avgTime, ms, "ms"),
		AvgSizeLabel: label(avgSize, kb, "KB"),
	}
}

// SuccessRate returns successes/total as a percentage rounded to two
// decimals, clamped to [0, 100]. It is 0 when total is not positive.
func SuccessRate(successes, total int) float64 {
	if total <= 0 {
		return 0
	}
	rate := round2(float64(successes) / float64(total) * 100)
	return min(max(rate, 0), 100)
}

// DomainOf extracts the aggregation key from a crawled URL: the lower-cased
// host including any port. Scheme-less input is read as http.
func DomainOf(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	switch {
	case strings.HasPrefix(s, "//"):
		s = "http:" + s
	case s != "" && !strings.Contains(s, "://"):
		s = "http://" + s
	}

	parsed, err := url.Parse(s)
	if err != nil || parsed.Host == "" {
		return UnknownDomain
	}
	return strings.ToLower(parsed.Host)
}

// siteOf returns the registrable domain (eTLD+1) for a domain key, or ""
// for IP addresses, single-label hosts and the unknown domain.
func siteOf(domain string) string {
	if domain == UnknownDomain {
		return ""
	}

	host := domain
	if h, _, err := net.SplitHostPort(domain); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")
	if host == "" || net.ParseIP(host) != nil {
		return ""
	}

	site, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return ""
	}
	return site
}

// DomainTable is an ordered set of DomainStat keyed by domain. It keeps the
// order in which domains were first seen.
type DomainTable struct {
	order []string
	stats map[string]DomainStat
}

func newDomainTable() *DomainTable {
	return &DomainTable{stats: make(map[string]DomainStat)}
}

func (t *DomainTable) put(s DomainStat) {
	if _, ok := t.stats[s.Domain]; !ok {
		t.order = append(t.order, s.Domain)
	}
	t.stats[s.Domain] = s
}

// Len returns the number of domains.
func (t *DomainTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Get returns the aggregate for domain.
func (t *DomainTable) Get(domain string) (DomainStat, bool) {
	if t == nil {
		return DomainStat{}, false
	}
	s, ok := t.stats[domain]
	return s, ok
}

// Stats returns the aggregates in first-seen order. The slice is a copy
// and is never nil.
func (t *DomainTable) Stats() []DomainStat {
	if t == nil {
		return []DomainStat{}
	}
	out := make([]DomainStat, 0, len(t.order))
	for _, d := range t.order {
		out = append(out, t.stats[d])
	}
	return out
}

// MarshalJSON encodes the table as an ordered array.
func (t *DomainTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Stats())
}

// MarshalYAML encodes the table as an ordered sequence.
func (t *DomainTable) MarshalYAML() (any, error) {
	return t.Stats(), nil
}

// AggregateRecords groups records by DomainOf(record.URL). Average time and
// size are arithmetic means over every record of the domain, failures
// included.
func AggregateRecords(records []model.CrawlRecord) *DomainTable {
	type acc struct {
		total, successes int
		sumTime, sumSize float64
	}

	var order []string
	accs := make(map[string]*acc)
	for _, rec := range records {
		domain := DomainOf(rec.URL)
		a, ok := accs[domain]
		if !ok {
			a = &acc{}
			accs[domain] = a
			order = append(order, domain)
		}
		a.total++
		if rec.Succeeded() {
			a.successes++
		}
		a.sumTime += positive(rec.Time.Float())
		a.sumSize += positive(rec.Size.Float())
	}

	table := newDomainTable()
	for _, domain := range order {
		a := accs[domain]
		n := float64(a.total)
		table.put(newDomainStat(domain, a.total, a.successes, a.sumTime/n, a.sumSize/n))
	}
	return table
}

// DomainsFromCounters re-expresses the backend's per-domain counters as
// DomainStat. Backend averages are used when present; otherwise they are
// derived from the success totals the backend accumulates. The success
// rate is always recomputed.
func DomainsFromCounters(counters *model.OrderedMap[model.DomainCounters]) *DomainTable {
	table := newDomainTable()
	for _, domain := range counters.Keys() {
		c, _ := counters.Get(domain)
		total := count(c.Count)
		successes := count(c.SuccessCount)

		avgTime := model.FloatPtr(c.AvgTime)
		avgSize := model.FloatPtr(c.AvgSize)
		if successes > 0 {
			if c.AvgTime == nil {
				avgTime = c.TotalTime.Float() / float64(successes)
			}
			if c.AvgSize == nil {
				avgSize = c.TotalSize.Float() / float64(successes)
			}
		}

		table.put(newDomainStat(domain, total, successes, avgTime, avgSize))
	}
	return table
}
