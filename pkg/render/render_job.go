package render

import (
	"html/template"
	"io"

	"github.com/yumyai/rbhsum/logger"
	"go.uber.org/zap"
)

var job_page_template *template.Template

// JobPageData describes the state of a background job for rendering.
type JobPageData struct {
	JobID                  string
	Kind                   string
	Status                 string
	ResultLink             string
	ErrorMessage           string
	ShouldRefresh          bool
	RefreshIntervalSeconds int
}

// init initializes the templates used for rendering the job page.
func init() {
	mainTmpl := `
	<!DOCTYPE html>
	<html>
	<head>
	    <title>rbhsum job {{ .JobID }}</title>
		{{ if .ShouldRefresh }}
        <script>
	        setTimeout(function () { window.location.reload(); }, {{ mul .RefreshIntervalSeconds 1000 }});
        </script>
		{{ end }}
	</head>
	<body>
		<h1>Reciprocal best hit summaries</h1>
		<p><strong>Job ID:</strong> {{ .JobID }}</p>
		<p><strong>Job type:</strong> {{ .Kind }}</p>
		<p><strong>Status:</strong> {{ .Status }}</p>
		{{ if .ErrorMessage }}
			<p style="color: red;">{{ .ErrorMessage }}</p>
		{{ else if .ResultLink }}
			<p><a href="{{ .ResultLink }}">View result</a></p>
		{{ else }}
			<p>Your job is still running. This page refreshes every {{ .RefreshIntervalSeconds }} seconds.</p>
		{{ end }}
	</body>
	</html>`

	job_page_template = template.New("job_page").Funcs(template.FuncMap{
		"mul": func(a, b int) int { return a * b },
	})
	job_page_template = template.Must(job_page_template.Parse(mainTmpl))
}

// RenderJobPage renders the status page of one job.
func RenderJobPage(w io.Writer, data JobPageData) error {
	logger.Info("Rendering job page", zap.String("job_id", data.JobID), zap.String("status", data.Status))
	return job_page_template.Execute(w, data)
}
