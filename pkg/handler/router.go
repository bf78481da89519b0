package handler

import (
	"mime"
	"net/http"

	"github.com/yumyai/rbhsum/pkg/metrics"
)

func NewRouter(dbctx *DBContext) *http.ServeMux {
	mux := http.NewServeMux()

	// Error route
	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	// Pages
	mux.HandleFunc("GET /summaries/{summary_id}", dbctx.SummaryPage)
	mux.HandleFunc("GET /summaries/{summary_id}/csv", dbctx.SummaryCSVHandler)
	mux.HandleFunc("GET /summaries/{summary_id}/fasta", dbctx.SummaryFastaHandler)
	mux.HandleFunc("GET /jobs/{job_id}", dbctx.JobPage)

	// API routes
	mux.HandleFunc("GET /api/v1/health", HealthCheck)
	mux.HandleFunc("POST /api/v1/queries", dbctx.CreateQueriesHandler)
	mux.HandleFunc("POST /api/v1/queries/reverse", dbctx.SpawnReverseQueriesHandler)
	mux.HandleFunc("POST /api/v1/results", dbctx.IngestResultHandler)
	mux.HandleFunc("POST /api/v1/search", dbctx.RunSearchHandler)
	mux.HandleFunc("POST /api/v1/summaries", dbctx.CreateSummaryHandler)
	mux.HandleFunc("POST /api/v1/summaries/aggregate", dbctx.AggregateSummariesHandler)
	mux.HandleFunc("GET /api/v1/summaries", dbctx.ListSummariesHandler)
	mux.HandleFunc("GET /api/v1/summaries/{summary_id}", dbctx.GetSummaryHandler)
	mux.HandleFunc("DELETE /api/v1/summaries/{summary_id}", dbctx.DeleteSummaryHandler)
	mux.HandleFunc("GET /api/v1/jobs/{job_id}", dbctx.JobStatusHandler)

	mux.Handle("GET /metrics", metrics.Handler())

	// Static files
	setupStaticFiles(mux)

	return mux
}

// Manually add static for all route that use this
func setupStaticFiles(mux *http.ServeMux) {
	_ = mime.AddExtensionType(".js", "text/javascript")
	_ = mime.AddExtensionType(".css", "text/css")
	fs := http.FileServer(http.Dir("./static/"))
	mux.Handle("GET /static/", http.StripPrefix("/static/", fs))
}
