package handler

import (
	"bytes"
	"net/http"

	"go.uber.org/zap"

	"github.com/yumyai/rbhsum/logger"
	"github.com/yumyai/rbhsum/pkg/render"
)

const jobRefreshSeconds = 5

// SummaryPage renders a summary as an HTML table.
func (dbctx *DBContext) SummaryPage(w http.ResponseWriter, r *http.Request) {
	s, err := dbctx.Summaries.GetSummary(r.Context(), r.PathValue("summary_id"))
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	var page bytes.Buffer
	if err := render.RenderSummaryPage(&page, s); err != nil {
		logger.Error("Render summary page", zap.String("summary_id", s.ID), zap.Error(err))
		http.Error(w, "Unable to render summary", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page.Bytes())
}

// SummaryCSVHandler exports a summary in tabular form.
func (dbctx *DBContext) SummaryCSVHandler(w http.ResponseWriter, r *http.Request) {
	s, err := dbctx.Summaries.GetSummary(r.Context(), r.PathValue("summary_id"))
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	var out bytes.Buffer
	if err := render.WriteCSV(&out, s); err != nil {
		logger.Error("Write summary csv", zap.String("summary_id", s.ID), zap.Error(err))
		http.Error(w, "Unable to export summary", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+s.ID+".csv\"")
	w.Write(out.Bytes())
}

// JobStatusHandler reports a job as JSON.
func (dbctx *DBContext) JobStatusHandler(w http.ResponseWriter, r *http.Request) {
	job, ok := dbctx.Jobs.GetJob(r.PathValue("job_id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// JobPage renders a self-refreshing job status page.
func (dbctx *DBContext) JobPage(w http.ResponseWriter, r *http.Request) {
	job, ok := dbctx.Jobs.GetJob(r.PathValue("job_id"))
	if !ok {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	data := render.JobPageData{
		JobID:                  job.ID,
		Kind:                   job.Kind,
		Status:                 string(job.Status),
		ErrorMessage:           job.Error,
		ShouldRefresh:          !job.Finished(),
		RefreshIntervalSeconds: jobRefreshSeconds,
	}
	if job.Status == JobCompleted && job.Kind == "summary" {
		data.ResultLink = "/summaries/" + job.ResultID
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.RenderJobPage(w, data); err != nil {
		logger.Error("Render job page", zap.String("job_id", job.ID), zap.Error(err))
	}
}
