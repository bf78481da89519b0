package handler

import (
	"bytes"
	"net/http"

	"go.uber.org/zap"

	"github.com/yumyai/rbhsum/logger"
	"github.com/yumyai/rbhsum/pkg/handler/request"
	"github.com/yumyai/rbhsum/pkg/model"
)

// hitIDsByDatabase groups the hit ids of s under the selected statuses by
// database, keeping first-seen order for both.
func hitIDsByDatabase(s *model.Summary, statuses []model.HitStatus) ([]string, map[string][]string) {
	var dbOrder []string
	byDB := map[string][]string{}
	seen := map[string]map[string]struct{}{}

	s.Walk(func(_, db string, rs *model.ResultSummary) {
		for _, status := range statuses {
			for _, hitID := range rs.HitIDs(status) {
				if _, ok := seen[db]; !ok {
					seen[db] = map[string]struct{}{}
					dbOrder = append(dbOrder, db)
				}
				if _, dup := seen[db][hitID]; dup {
					continue
				}
				seen[db][hitID] = struct{}{}
				byDB[db] = append(byDB[db], hitID)
			}
		}
	})
	return dbOrder, byDB
}

// SummaryFastaHandler returns the sequences of the hits of one status class
// as FASTA, pulled from each database's sequence file.
func (dbctx *DBContext) SummaryFastaHandler(w http.ResponseWriter, r *http.Request) {
	if dbctx.Sequence_DB == nil {
		http.Error(w, "No sequence store configured", http.StatusServiceUnavailable)
		return
	}

	ctx := r.Context()
	s, err := dbctx.Summaries.GetSummary(ctx, r.PathValue("summary_id"))
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	filter := request.ParseStatusFilter(r.URL.Query().Get("status"))
	dbOrder, byDB := hitIDsByDatabase(s, filter.Statuses())

	var out bytes.Buffer
	for _, db := range dbOrder {
		fasta, err := dbctx.Sequence_DB.GetSequences(ctx, db, byDB[db])
		if err != nil {
			logger.Error("Fetch summary sequences",
				zap.String("summary_id", s.ID),
				zap.String("database_id", db),
				zap.Error(err))
			http.Error(w, "Not found (maybe Samtools isn't available?)", statusFor(err))
			return
		}
		out.Write(fasta)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+s.ID+"_"+filter.String()+".fasta\"")
	w.Write(out.Bytes())
}
