package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yumyai/rbhsum/logger"
	"github.com/yumyai/rbhsum/pkg/db"
	"github.com/yumyai/rbhsum/pkg/handler/request"
	"github.com/yumyai/rbhsum/pkg/metrics"
	"github.com/yumyai/rbhsum/pkg/model"
)

const (
	defaultPageSize   = 100
	defaultPageNumber = 1
)

type SummaryListResponse struct {
	SummaryIDs []string `json:"summary_ids"`
	Page       int      `json:"page"`
	TotalPage  int      `json:"total_page"`
}

func parsePositiveIntFallback(v string, fallback int) int {
	num, err := strconv.Atoi(v)
	if err != nil || num <= 0 {
		return fallback
	}
	return num
}

// CreateSummaryHandler starts a single-search or reciprocal summarization.
func (dbctx *DBContext) CreateSummaryHandler(w http.ResponseWriter, r *http.Request) {
	var req request.SummaryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Params.FwdSearch) == "" {
		writeError(w, http.StatusBadRequest, "params.fwd_search is required")
		return
	}
	if err := validateParams(req.Params); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summaryID := uuid.NewString()
	if req.Name == "" {
		req.Name = summaryID
	}

	job := dbctx.Jobs.Start("summary", func(ctx context.Context, h *JobHandle) (string, error) {
		return summaryID, dbctx.runSummary(ctx, h, summaryID, req)
	})
	jobAccepted(w, job)
}

func validateParams(p model.SearchParams) error {
	for name, v := range map[string]*float64{"fwd_evalue": p.FwdEValue, "rev_evalue": p.RevEValue, "next_evalue": p.NextEValue} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	for name, v := range map[string]*int{"fwd_max_hits": p.FwdMaxHits, "rev_max_hits": p.RevMaxHits} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	return nil
}

func (dbctx *DBContext) runSummary(ctx context.Context, h *JobHandle, summaryID string, req request.SummaryRequest) error {
	s := model.NewSummary(summaryID, req.Name, model.ModeSearch, req.Params)
	for k, v := range req.Settings {
		s.Settings[k] = v
	}

	kind := "search"
	if req.Params.Reciprocal() {
		kind = "reciprocal"
	}
	// One read transaction for the whole pass, then one write for the result.
	var report *model.RunReport
	err := dbctx.Store.View(ctx, func(tx *db.Tx) error {
		reader := db.NewTxReader(tx)
		var runErr error
		report, runErr = model.NewSummarizer(reader, reader).Summarize(ctx, s)
		return runErr
	})
	metrics.ObserveReport(kind, report, err)
	if report != nil {
		h.SetReport(report)
	}
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("summary %s is inconsistent: %w", s.ID, err)
	}

	logger.Info("Summary built",
		zap.String("summary_id", s.ID),
		zap.String("kind", kind),
		zap.Int("results", report.Results),
		zap.Int("skipped", len(report.Skipped)))
	return dbctx.Summaries.PutSummary(ctx, s)
}

// AggregateSummariesHandler folds stored summaries into a new one.
func (dbctx *DBContext) AggregateSummariesHandler(w http.ResponseWriter, r *http.Request) {
	var req request.AggregateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.SummaryIDs) == 0 {
		writeError(w, http.StatusBadRequest, "summary_ids is required")
		return
	}

	ctx := r.Context()
	sources, err := dbctx.Summaries.GetSummaries(ctx, req.SummaryIDs...)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	target := model.NewSummary(uuid.NewString(), req.Name, model.ModeAggregate, model.SearchParams{})
	if target.Name == "" {
		target.Name = target.ID
	}
	err = model.AggregateSummaries(target, sources...)
	if err == nil {
		err = target.Validate()
	}
	metrics.ObserveReport("aggregate", nil, err)
	if err != nil {
		logger.Error("Aggregate summaries", zap.Strings("summary_ids", req.SummaryIDs), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := dbctx.Summaries.PutSummary(ctx, target); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, target)
}

// ListSummariesHandler pages through stored summary ids.
func (dbctx *DBContext) ListSummariesHandler(w http.ResponseWriter, r *http.Request) {
	ids, err := dbctx.Summaries.ListSummaries(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	page := parsePositiveIntFallback(r.URL.Query().Get("page"), defaultPageNumber)
	pageSize := parsePositiveIntFallback(r.URL.Query().Get("page_size"), defaultPageSize)
	totalPage := (len(ids) + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start > len(ids) {
		start = len(ids)
	}
	end := start + pageSize
	if end > len(ids) {
		end = len(ids)
	}

	writeJSON(w, http.StatusOK, SummaryListResponse{SummaryIDs: ids[start:end], Page: page, TotalPage: totalPage})
}

// GetSummaryHandler returns the whole summary tree as JSON.
func (dbctx *DBContext) GetSummaryHandler(w http.ResponseWriter, r *http.Request) {
	s, err := dbctx.Summaries.GetSummary(r.Context(), r.PathValue("summary_id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// DeleteSummaryHandler removes a summary and everything under it.
func (dbctx *DBContext) DeleteSummaryHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("summary_id")
	if err := dbctx.Summaries.RemoveSummary(r.Context(), id); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	logger.Info("Summary removed", zap.String("summary_id", id))
	w.WriteHeader(http.StatusNoContent)
}
