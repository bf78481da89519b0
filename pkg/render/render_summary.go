// Render HTML for viewing a summary

package render

import (
	"html/template"
	"io"
	"strings"

	"github.com/yumyai/rbhsum/logger"
	"github.com/yumyai/rbhsum/pkg/model"
	"go.uber.org/zap"
)

// statusColor maps a status to its cell background.
func statusColor(status model.HitStatus) string {
	switch status {
	case model.StatusPositive:
		return "#1A9850"
	case model.StatusTentative:
		return "#91CF60"
	case model.StatusUnlikely:
		return "#FEE08B"
	}
	return "#CCCCCC"
}

// HitRow is one hit line of a result block.
type HitRow struct {
	Status    model.HitStatus
	Color     string
	Hit       model.Hit
	Aggregate *model.AggregateHit
}

// ResultBlock is one (query, database) result of the page.
type ResultBlock struct {
	QueryID    string
	DatabaseID string
	Status     model.HitStatus
	Color      string
	Hits       []HitRow
}

// arrangeResults flattens the summary tree into blocks in traversal order.
func arrangeResults(s *model.Summary) []ResultBlock {
	blocks := []ResultBlock{}
	s.Walk(func(qid, db string, rs *model.ResultSummary) {
		block := ResultBlock{QueryID: qid, DatabaseID: db, Status: rs.Status, Color: statusColor(rs.Status)}
		for _, status := range []model.HitStatus{model.StatusPositive, model.StatusTentative, model.StatusUnlikely} {
			for _, hitID := range rs.HitIDs(status) {
				block.Hits = append(block.Hits, HitRow{
					Status:    status,
					Color:     statusColor(status),
					Hit:       rs.Hits[hitID],
					Aggregate: rs.Aggregates[hitID],
				})
			}
		}
		blocks = append(blocks, block)
	})
	return blocks
}

var summary_page_template *template.Template

// init initializes the templates used for rendering the summary page.
func init() {
	mainTmpl := `
	<!DOCTYPE html>
	<html>
	<head>
	    <link href="/static/style.css" rel="stylesheet"></link>
		<title>Summary: {{ .Summary.Name }}</title>
	</head>
	<body>
		<h1>Summary: {{ .Summary.Name }}</h1>
		{{template "summary_info" . }}
		<h2>Resources</h2>
		    <ul>
				<li>[<a href="/summaries/{{ .Summary.ID }}/csv">CSV</a>] Tabular export</li>
				<li>[<a href="/summaries/{{ .Summary.ID }}/fasta?status=positive" target="_blank">FASTA</a>] Positive hit sequences</li>
				<li>[<a href="/api/v1/summaries/{{ .Summary.ID }}">JSON</a>] Full summary tree</li>
			</ul>
		{{template "results" . }}
	</body>
	</html>`

	summaryInfoTmpl := `
	{{define "summary_info"}}
		<div>
			<p>Mode: {{ .Summary.Mode }}</p>
			{{ if .Summary.Params.FwdSearch }}<p>Forward search: {{ .Summary.Params.FwdSearch }}</p>{{ end }}
			{{ if .Summary.Params.RevSearch }}<p>Reverse search: {{ .Summary.Params.RevSearch }}</p>{{ end }}
			{{ if .Summary.Sources }}<p>Sources: {{ join .Summary.Sources ", " }}</p>{{ end }}
			<p>{{ len .Summary.QueryList }} queries, {{ .Counts.positive }} positive, {{ .Counts.tentative }} tentative, {{ .Counts.unlikely }} unlikely, {{ .Counts.negative }} negative results.</p>
		</div>
	{{end}}
	`

	resultsTmpl := `
	{{define "results"}}
		<table border="1">
		<tr>
			<th>Query ID</th>
			<th>Database ID</th>
			<th>Status</th>
			<th>Forward hit</th>
			<th>Forward e-value</th>
			<th>Reverse match</th>
			<th>Reverse non-match</th>
			<th>Reverse gap</th>
			{{ if .Aggregate }}<th>Sources</th>{{ end }}
		</tr>
		{{ range $block := .Results }}
			{{ if not $block.Hits }}
				<tr>
					<td>{{ $block.QueryID }}</td>
					<td>{{ $block.DatabaseID }}</td>
					<td bgcolor="{{ $block.Color }}">{{ $block.Status }}</td>
					<td colspan="{{ if $.Aggregate }}6{{ else }}5{{ end }}">No hits</td>
				</tr>
			{{ end }}
			{{ range $row := $block.Hits }}
				<tr>
					<td>{{ $block.QueryID }}</td>
					<td>{{ $block.DatabaseID }}</td>
					<td bgcolor="{{ $row.Color }}">{{ $row.Status }}</td>
					<td>{{ $row.Hit.FwdID }}</td>
					<td>{{ evalue $row.Hit.FwdEValue }}</td>
					<td>{{ $row.Hit.PosRevID }} {{ evaluePtr $row.Hit.PosRevEValue }}</td>
					<td>{{ $row.Hit.NegRevID }} {{ evaluePtr $row.Hit.NegRevEValue }}</td>
					<td>{{ evaluePtr $row.Hit.RevEValueGap }}</td>
					{{ if $.Aggregate }}
						<td>{{ with $row.Aggregate }}
							{{ if .Positive }}positive: {{ join .Positive ", " }}<br>{{ end }}
							{{ if .Tentative }}tentative: {{ join .Tentative ", " }}<br>{{ end }}
							{{ if .Unlikely }}unlikely: {{ join .Unlikely ", " }}{{ end }}
						{{ end }}</td>
					{{ end }}
				</tr>
			{{ end }}
		{{ end }}
		</table>
	{{end}}`

	funcMap := template.FuncMap{
		"evalue":    formatEValue,
		"evaluePtr": formatEValuePtr,
		"join":      strings.Join,
	}

	summary_page_template = template.New("summary_page").Funcs(funcMap)
	summary_page_template = template.Must(summary_page_template.Parse(mainTmpl))
	summary_page_template = template.Must(summary_page_template.Parse(summaryInfoTmpl))
	summary_page_template = template.Must(summary_page_template.Parse(resultsTmpl))
}

// RenderSummaryPage renders the result table of one summary.
func RenderSummaryPage(w io.Writer, s *model.Summary) error {
	results := arrangeResults(s)
	counts := map[string]int{"positive": 0, "tentative": 0, "unlikely": 0, "negative": 0}
	for _, b := range results {
		counts[string(b.Status)]++
	}

	data := struct {
		Summary   *model.Summary
		Results   []ResultBlock
		Counts    map[string]int
		Aggregate bool
	}{
		Summary:   s,
		Results:   results,
		Counts:    counts,
		Aggregate: s.Mode == model.ModeAggregate,
	}

	logger.Debug("Rendering summary page", zap.String("summary_id", s.ID), zap.Int("results", len(results)))
	return summary_page_template.Execute(w, data)
}
