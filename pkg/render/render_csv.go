package render

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/yumyai/rbhsum/pkg/model"
)

// ExportHeader is the column set of the tabular export.
var ExportHeader = []string{
	"query_id",
	"database_id",
	"result_status",
	"hit_status",
	"fwd_id",
	"fwd_evalue",
	"pos_rev_id",
	"pos_rev_evalue",
	"neg_rev_id",
	"neg_rev_evalue",
	"rev_evalue_gap",
}

// ExportRows flattens a summary to one row per (query, database, hit).
// A negative result has no hits and yields a single short row.
func ExportRows(s *model.Summary) [][]string {
	rows := [][]string{}
	s.Walk(func(qid, db string, rs *model.ResultSummary) {
		if rs.Status == model.StatusNegative {
			rows = append(rows, []string{qid, db, string(model.StatusNegative)})
			return
		}
		for _, status := range []model.HitStatus{model.StatusPositive, model.StatusTentative, model.StatusUnlikely} {
			for _, hitID := range rs.HitIDs(status) {
				hit := rs.Hits[hitID]
				rows = append(rows, []string{
					qid,
					db,
					string(rs.Status),
					string(status),
					hit.FwdID,
					formatEValue(hit.FwdEValue),
					hit.PosRevID,
					formatEValuePtr(hit.PosRevEValue),
					hit.NegRevID,
					formatEValuePtr(hit.NegRevEValue),
					formatEValuePtr(hit.RevEValueGap),
				})
			}
		}
	})
	return rows
}

// WriteCSV writes the header and the export rows of s.
func WriteCSV(w io.Writer, s *model.Summary) error {
	cw := csv.NewWriter(w)
	// Negative rows are shorter than the header.
	if err := cw.Write(ExportHeader); err != nil {
		return err
	}
	if err := cw.WriteAll(ExportRows(s)); err != nil {
		return err
	}
	return cw.Error()
}

func formatEValue(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatEValuePtr(v *float64) string {
	if v == nil {
		return ""
	}
	return formatEValue(*v)
}
