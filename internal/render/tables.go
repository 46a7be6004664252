package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Bahjat/crawl-insight/internal/crawlview"
	"github.com/jedib0t/go-pretty/v6/table"
)

const maxTextPreview = 200

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	return t
}

func writeTables(w io.Writer, r Report) {
	s := r.Summary

	stats := newTable(w, "Crawl Summary")
	stats.AppendHeader(table.Row{"Total URLs", "Succeeded", "Failed", "Avg Time", "Avg Size", "Total Time"})
	stats.AppendRow(table.Row{
		s.TotalURLs,
		s.SuccessCount,
		s.FailedCount,
		fmt.Sprintf("%.2f ms", s.AvgTimePerPageMS),
		fmt.Sprintf("%.2f KB", s.AvgSizePerPageKB),
		fmt.Sprintf("%.2f s", s.TotalTimeSeconds),
	})
	stats.Render()

	domains := newTable(w, "Domains")
	domains.AppendHeader(table.Row{"Domain", "Pages", "Success Rate", "Avg Time", "Avg Size"})
	for _, d := range s.Domains.Stats() {
		domains.AppendRow(table.Row{
			d.Domain,
			d.Count,
			fmt.Sprintf("%.2f%%", d.SuccessRate),
			d.AvgTimeLabel,
			d.AvgSizeLabel,
		})
	}
	domains.Render()

	if s.HasErrorBreakdown() {
		errTable := newTable(w, "Error Types")
		errTable.AppendHeader(table.Row{"Type", "Count"})
		for _, e := range s.ErrorTypes {
			errTable.AppendRow(table.Row{e.Type, e.Count})
		}
		errTable.Render()
	}

	rows := newTable(w, "Results")
	rows.AppendHeader(table.Row{"#", "URL", "Size", "Time", "Status"})
	for _, row := range r.Rows {
		rows.AppendRow(table.Row{row.Index, row.URL, row.SizeLabel, row.TimeLabel, row.Status})
	}
	rows.Render()

	for _, d := range r.Details {
		writeDetail(w, d)
	}
}

func writeDetail(w io.Writer, d crawlview.RecordDetail) {
	t := newTable(w, fmt.Sprintf("#%d %s", d.Index, d.URL))
	t.AppendRow(table.Row{"Status", d.Status})
	if d.ErrorType != "" {
		t.AppendRow(table.Row{"Error Type", d.ErrorType})
	}
	if d.ErrorDetails != "" {
		t.AppendRow(table.Row{"Error Details", d.ErrorDetails})
	}
	if p := d.Performance; p != nil {
		t.AppendSeparator()
		t.AppendRow(table.Row{"DNS", ms(p.DNSTimeMS)})
		t.AppendRow(table.Row{"Connect", ms(p.ConnectTimeMS)})
		t.AppendRow(table.Row{"Response", ms(p.ResponseTimeMS)})
		t.AppendRow(table.Row{"Download", ms(p.DownloadTimeMS)})
		t.AppendRow(table.Row{"Parse", ms(p.ParseTimeMS)})
		t.AppendRow(table.Row{"Total", ms(p.TotalTimeMS)})
		t.AppendRow(table.Row{"HTML Size", fmt.Sprintf("%.2f KB", p.HTMLSizeKB)})
	}
	if d.ImageCount > 0 {
		t.AppendSeparator()
		t.AppendRow(table.Row{"Images", strconv.Itoa(d.ImageCount)})
		for _, img := range d.Images {
			t.AppendRow(table.Row{"", img})
		}
	}
	if d.Text != "" {
		t.AppendSeparator()
		t.AppendRow(table.Row{"Text", preview(d.Text)})
	}
	t.Render()
}

func ms(v float64) string {
	return fmt.Sprintf("%.2f ms", v)
}

func preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= maxTextPreview {
		return text
	}
	return string(runes[:maxTextPreview]) + "..."
}
