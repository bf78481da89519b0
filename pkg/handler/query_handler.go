package handler

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/yumyai/rbhsum/logger"
	"github.com/yumyai/rbhsum/pkg/db"
	"github.com/yumyai/rbhsum/pkg/handler/request"
	"github.com/yumyai/rbhsum/pkg/model"
)

type QueriesResponse struct {
	QueryIDs []string `json:"query_ids"`
}

// CreateQueriesHandler registers forward queries.
func (dbctx *DBContext) CreateQueriesHandler(w http.ResponseWriter, r *http.Request) {
	var req request.QueryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Queries) == 0 {
		writeError(w, http.StatusBadRequest, "No queries given")
		return
	}

	ids := make([]string, 0, len(req.Queries))
	for _, q := range req.Queries {
		if q == nil || strings.TrimSpace(q.ID) == "" {
			writeError(w, http.StatusBadRequest, "Every query needs an id")
			return
		}
		if q.Identity == "" {
			q.Identity = q.ID
		}
		ids = append(ids, q.ID)
	}

	if err := dbctx.Queries.PutQueries(r.Context(), req.Queries...); err != nil {
		logger.Error("Store queries", zap.Error(err))
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, QueriesResponse{QueryIDs: ids})
}

// SpawnReverseQueriesHandler creates one reverse query per forward hit of a
// stored result, pulling the hit sequences out of the sequence store.
func (dbctx *DBContext) SpawnReverseQueriesHandler(w http.ResponseWriter, r *http.Request) {
	var req request.ReverseQueryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ResultID == "" {
		writeError(w, http.StatusBadRequest, "result_id is required")
		return
	}
	if dbctx.Sequence_DB == nil {
		writeError(w, http.StatusServiceUnavailable, "No sequence store configured")
		return
	}

	ctx := r.Context()
	fwd, err := dbctx.Results.GetResult(ctx, req.ResultID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if !fwd.Parsed {
		writeError(w, http.StatusConflict, model.ErrResultNotParsed.Error())
		return
	}
	fwdQuery, err := dbctx.Queries.GetQuery(ctx, fwd.QueryID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	window := model.Window{MaxHits: req.MaxHits, EValueCutoff: req.EValue}
	visible := window.Visible(fwd.Hits)
	hitIDs := make([]string, 0, len(visible))
	for _, h := range visible {
		hitIDs = append(hitIDs, h.TargetID)
	}

	sequenceDB := req.SequenceDB
	if sequenceDB == "" {
		sequenceDB = fwd.DatabaseID
	}
	fasta, err := dbctx.Sequence_DB.GetSequences(ctx, sequenceDB, hitIDs)
	if err != nil {
		logger.Error("Fetch hit sequences", zap.String("database_id", sequenceDB), zap.Error(err))
		writeError(w, statusFor(err), err.Error())
		return
	}

	spawned := model.SpawnReverseQueries(fwdQuery, fwd, window, db.SplitFasta(fasta))
	ids := make([]string, 0, len(spawned))
	for _, q := range spawned {
		ids = append(ids, q.ID)
	}
	if len(spawned) > 0 {
		if err := dbctx.Queries.PutQueries(ctx, spawned...); err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
	}
	if missing := len(hitIDs) - len(spawned); missing > 0 {
		logger.Warn("Hits without sequence record", zap.String("result_id", fwd.ID), zap.Int("missing", missing))
	}
	writeJSON(w, http.StatusCreated, QueriesResponse{QueryIDs: ids})
}
