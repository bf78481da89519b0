package handler

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yumyai/rbhsum/logger"
	"github.com/yumyai/rbhsum/pkg/handler/request"
	"github.com/yumyai/rbhsum/pkg/metrics"
	"github.com/yumyai/rbhsum/pkg/model"
)

type ResultResponse struct {
	ResultID string `json:"result_id"`
	Hits     int    `json:"hits"`
}

type JobResponse struct {
	JobID  string    `json:"job_id"`
	Status JobStatus `json:"status"`
	Link   string    `json:"link"`
}

func jobAccepted(w http.ResponseWriter, job Job) {
	w.Header().Set("Location", "/api/v1/jobs/"+job.ID)
	writeJSON(w, http.StatusAccepted, JobResponse{JobID: job.ID, Status: job.Status, Link: "/jobs/" + job.ID})
}

// IngestResultHandler parses raw tabular output and stores it as a parsed
// search result.
func (dbctx *DBContext) IngestResultHandler(w http.ResponseWriter, r *http.Request) {
	var req request.ResultRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.SearchName == "" || req.QueryID == "" || req.DatabaseID == "" {
		writeError(w, http.StatusBadRequest, "search_name, query_id and database_id are required")
		return
	}
	format, err := model.ParseTabularFormat(req.Format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hits, err := model.ParseTabularHits(strings.NewReader(req.Output), format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res := &model.SearchResult{
		ID:         req.ID,
		SearchName: req.SearchName,
		QueryID:    req.QueryID,
		DatabaseID: req.DatabaseID,
		Hits:       hits,
		Parsed:     true,
	}
	if err := dbctx.Results.PutResult(r.Context(), res); err != nil {
		logger.Error("Store result", zap.Error(err))
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, ResultResponse{ResultID: res.ID, Hits: len(hits)})
}

// RunSearchHandler runs a search program for a stored query in the
// background. The result is registered unparsed first and filled in when
// the program finishes.
func (dbctx *DBContext) RunSearchHandler(w http.ResponseWriter, r *http.Request) {
	var req request.SearchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.SearchName == "" || req.QueryID == "" || req.Database == "" || req.Program == "" {
		writeError(w, http.StatusBadRequest, "search_name, query_id, program and database are required")
		return
	}
	if req.DatabaseID == "" {
		req.DatabaseID = filepath.Base(req.Database)
	}

	query, err := dbctx.Queries.GetQuery(r.Context(), req.QueryID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	job := dbctx.Jobs.Start("search", func(ctx context.Context, _ *JobHandle) (string, error) {
		return dbctx.runSearch(ctx, req, query)
	})
	jobAccepted(w, job)
}

func (dbctx *DBContext) runSearch(ctx context.Context, req request.SearchRequest, query *model.Query) (string, error) {
	res := &model.SearchResult{
		SearchName: req.SearchName,
		QueryID:    req.QueryID,
		DatabaseID: req.DatabaseID,
		Hits:       []model.HitRecord{},
	}
	if err := dbctx.Results.PutResult(ctx, res); err != nil {
		return "", fmt.Errorf("register result: %w", err)
	}

	start := time.Now()
	hits, err := model.RunSearch(ctx, model.SearchCommand{
		Program:  req.Program,
		Database: req.Database,
		Query:    query.Record,
		EValue:   req.EValue,
		MaxHits:  req.MaxHits,
		BinDir:   dbctx.BinDir,
	})
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.SearchDurationSeconds.WithLabelValues(req.Program, outcome).Observe(time.Since(start).Seconds())
	if err != nil {
		// The unparsed result stays behind so summaries report the pair as skipped.
		return res.ID, err
	}

	res.Hits = hits
	res.Parsed = true
	if err := dbctx.Results.PutResult(ctx, res); err != nil {
		return res.ID, fmt.Errorf("store result: %w", err)
	}
	return res.ID, nil
}
