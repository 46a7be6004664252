// Package render presents a crawl Summary as terminal tables, JSON or YAML.
package render

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Bahjat/crawl-insight/internal/crawlview"
)

var errBadExpand = errors.New("expand must be \"all\" or a comma-separated list of record indices")

// Expand selects which records are shown with full detail.
type Expand struct {
	all     bool
	indices []int
}

// ExpandNone shows no record in detail.
var ExpandNone = Expand{}

// ExpandAll shows every record in detail.
var ExpandAll = Expand{all: true}

// ExpandIndices shows the given records in detail. Indices outside the
// result set are skipped when the report is built.
func ExpandIndices(indices ...int) Expand {
	return Expand{indices: indices}
}

// ParseExpand reads the expand query value: empty for none, "all", or a
// comma-separated list of zero-based record indices.
func ParseExpand(raw string) (Expand, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return ExpandNone, nil
	case strings.EqualFold(raw, "all"):
		return ExpandAll, nil
	}

	var indices []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		i, err := strconv.Atoi(part)
		if err != nil {
			return ExpandNone, fmt.Errorf("%w: %q", errBadExpand, part)
		}
		indices = append(indices, i)
	}
	return ExpandIndices(indices...), nil
}

// Report is the presentation of one crawl: the summary, one row per record,
// and the expanded records.
type Report struct {
	Summary *crawlview.Summary       `json:"summary" yaml:"summary"`
	Rows    []crawlview.RecordRow    `json:"rows" yaml:"rows"`
	Details []crawlview.RecordDetail `json:"details,omitempty" yaml:"details,omitempty"`
}

// NewReport builds the Report for s. Selected records are expanded in the
// order requested, each at most once.
func NewReport(s *crawlview.Summary, expand Expand) Report {
	r := Report{Summary: s, Rows: s.Rows()}

	if expand.all {
		for i, n := 0, s.Len(); i < n; i++ {
			d, _ := s.Detail(i)
			r.Details = append(r.Details, d)
		}
		return r
	}

	seen := make(map[int]bool, len(expand.indices))
	for _, i := range expand.indices {
		if seen[i] {
			continue
		}
		seen[i] = true
		if d, ok := s.Detail(i); ok {
			r.Details = append(r.Details, d)
		}
	}
	return r
}
