package model

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yumyai/rbhsum/logger"
	"go.uber.org/zap"
)

var (
	ErrResultNotParsed = errors.New("search result has not been parsed")
	ErrQueryNotFound   = errors.New("query not found")
	ErrResultNotFound  = errors.New("search result not found")
)

// QueryStore resolves query ids.
type QueryStore interface {
	GetQuery(ctx context.Context, id string) (*Query, error)
}

// ResultStore lists and loads search results.
type ResultStore interface {
	ListResults(ctx context.Context, searchName string) ([]string, error)
	GetResult(ctx context.Context, id string) (*SearchResult, error)
}

// Skip records a (query, database) pair left out of a run.
type Skip struct {
	ResultID   string `json:"result_id"`
	QueryID    string `json:"query_id"`
	DatabaseID string `json:"database_id"`
	Reason     string `json:"reason"`
}

// RunReport describes what one summarization pass did.
type RunReport struct {
	Results int               `json:"results"`
	Skipped []Skip            `json:"skipped"`
	Hits    map[HitStatus]int `json:"hits"`
}

func newRunReport() *RunReport {
	return &RunReport{Skipped: []Skip{}, Hits: map[HitStatus]int{}}
}

func (r *RunReport) skip(res *SearchResult, resultID string, err error) {
	s := Skip{ResultID: resultID, Reason: err.Error()}
	if res != nil {
		s.QueryID = res.QueryID
		s.DatabaseID = res.DatabaseID
	}
	r.Skipped = append(r.Skipped, s)
	logger.Warn("Skipping result",
		zap.String("result_id", s.ResultID),
		zap.String("query_id", s.QueryID),
		zap.String("database_id", s.DatabaseID),
		zap.Error(err))
}

func (r *RunReport) count(rs *ResultSummary) {
	r.Results++
	for _, status := range []HitStatus{StatusPositive, StatusTentative, StatusUnlikely} {
		r.Hits[status] += len(rs.HitIDs(status))
	}
}

// Summarizer fills Summary trees from stored search results. It assumes
// exclusive write access to the Summary it is given.
type Summarizer struct {
	queries QueryStore
	results ResultStore
}

func NewSummarizer(queries QueryStore, results ResultStore) *Summarizer {
	return &Summarizer{queries: queries, results: results}
}

// Summarize runs the single-search or reciprocal pass depending on the
// summary parameters.
func (sm *Summarizer) Summarize(ctx context.Context, s *Summary) (*RunReport, error) {
	if s.Params.Reciprocal() {
		return sm.SummarizeReciprocal(ctx, s)
	}
	return sm.SummarizeSearch(ctx, s)
}

// SummarizeOneResult classifies one forward result and upserts it into s.
// Running it again for the same result replaces the earlier outcome.
func (sm *Summarizer) SummarizeOneResult(s *Summary, res *SearchResult) (*ResultSummary, error) {
	if !res.Parsed {
		return nil, fmt.Errorf("result %s: %w", res.ID, ErrResultNotParsed)
	}

	rs := NewResultSummary()
	for _, c := range ClassifyForwardHits(res.Hits, s.Params.ForwardWindow()) {
		hit := Hit{FwdID: c.Hit.TargetID, FwdEValue: c.Hit.EValue, Status: c.Status}
		if err := rs.AddHit(c.Status, c.Hit.TargetID, hit); err != nil {
			return nil, err
		}
	}
	s.UpsertResult(res.QueryID, res.DatabaseID, rs)
	return rs, nil
}

// SummarizeSearch summarizes every result of the forward search.
func (sm *Summarizer) SummarizeSearch(ctx context.Context, s *Summary) (*RunReport, error) {
	ids, err := sm.results.ListResults(ctx, s.Params.FwdSearch)
	if err != nil {
		return nil, fmt.Errorf("list results for %s: %w", s.Params.FwdSearch, err)
	}

	report := newRunReport()
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res, err := sm.results.GetResult(ctx, id)
		if err != nil {
			report.skip(nil, id, err)
			continue
		}
		rs, err := sm.SummarizeOneResult(s, res)
		if err != nil {
			report.skip(res, id, err)
			continue
		}
		report.count(rs)
	}
	return report, nil
}

// ReverseCandidate is a reverse result together with its query.
type ReverseCandidate struct {
	Query  *Query
	Result *SearchResult
}

// linksTo reports whether the reverse query was spawned from fwdHit in
// database dbID. Queries without provenance fall back to looking for the
// reverse query id inside the forward hit title.
func (c ReverseCandidate) linksTo(fwdHit HitRecord, dbID string) bool {
	if c.Query.SourceHitID != "" {
		if c.Query.SourceDatabase != "" && c.Query.SourceDatabase != dbID {
			return false
		}
		return c.Query.SourceHitID == fwdHit.TargetID
	}
	title := fwdHit.Title
	if title == "" {
		title = fwdHit.TargetID
	}
	return strings.Contains(title, c.Query.ID)
}

// SummarizeTwoResults resolves every forward hit of fwd against the reverse
// candidates spawned from it and upserts the outcome into s.
func (sm *Summarizer) SummarizeTwoResults(s *Summary, fwdQuery *Query, fwd *SearchResult, candidates []ReverseCandidate) (*ResultSummary, error) {
	if !fwd.Parsed {
		return nil, fmt.Errorf("forward result %s: %w", fwd.ID, ErrResultNotParsed)
	}
	for _, c := range candidates {
		if !c.Result.Parsed {
			return nil, fmt.Errorf("reverse result %s: %w", c.Result.ID, ErrResultNotParsed)
		}
	}

	fwdWindow := s.Params.ForwardWindow()
	revWindow := s.Params.ReverseWindow()
	equivalents := fwdQuery.equivalentSet()

	rs := NewResultSummary()
	for _, c := range candidates {
		linked := false
		for i, fh := range fwd.Hits {
			if fwdWindow.Stops(i, fh) {
				break
			}
			if !c.linksTo(fh, fwd.DatabaseID) {
				continue
			}
			linked = true
			res := ResolveReverseStatus(fwdQuery.ID, equivalents, c.Result.Hits, revWindow)
			if res.Status == StatusNegative {
				continue
			}
			if err := rs.AddHit(res.Status, fh.TargetID, res.Hit(fh)); err != nil {
				return nil, err
			}
		}
		if !linked {
			logger.Debug("Reverse query has no forward hit in window",
				zap.String("query_id", fwdQuery.ID),
				zap.String("database_id", fwd.DatabaseID),
				zap.String("reverse_query_id", c.Query.ID))
		}
	}
	s.UpsertResult(fwd.QueryID, fwd.DatabaseID, rs)
	return rs, nil
}

// SummarizeReciprocal pairs every forward result with the reverse results
// whose queries trace back to it.
func (sm *Summarizer) SummarizeReciprocal(ctx context.Context, s *Summary) (*RunReport, error) {
	fwdIDs, err := sm.results.ListResults(ctx, s.Params.FwdSearch)
	if err != nil {
		return nil, fmt.Errorf("list results for %s: %w", s.Params.FwdSearch, err)
	}
	byOrigin, err := sm.ReverseCandidates(ctx, s.Params.RevSearch)
	if err != nil {
		return nil, err
	}

	report := newRunReport()
	for _, id := range fwdIDs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		fwd, err := sm.results.GetResult(ctx, id)
		if err != nil {
			report.skip(nil, id, err)
			continue
		}
		fwdQuery, err := sm.queries.GetQuery(ctx, fwd.QueryID)
		if err != nil {
			report.skip(fwd, id, err)
			continue
		}

		var candidates []ReverseCandidate
		for _, c := range byOrigin[fwd.QueryID] {
			if c.Query.SourceDatabase != "" && c.Query.SourceDatabase != fwd.DatabaseID {
				continue
			}
			candidates = append(candidates, c)
		}
		if len(candidates) == 0 {
			logger.Debug("No reverse results trace back to query",
				zap.String("query_id", fwd.QueryID),
				zap.String("database_id", fwd.DatabaseID))
		}

		rs, err := sm.SummarizeTwoResults(s, fwdQuery, fwd, candidates)
		if err != nil {
			report.skip(fwd, id, err)
			continue
		}
		report.count(rs)
	}
	return report, nil
}

// ReverseCandidates loads the reverse search and groups it by the forward
// query each reverse query was spawned from.
func (sm *Summarizer) ReverseCandidates(ctx context.Context, searchName string) (map[string][]ReverseCandidate, error) {
	ids, err := sm.results.ListResults(ctx, searchName)
	if err != nil {
		return nil, fmt.Errorf("list results for %s: %w", searchName, err)
	}

	byOrigin := map[string][]ReverseCandidate{}
	for _, id := range ids {
		res, err := sm.results.GetResult(ctx, id)
		if err != nil {
			logger.Warn("Reverse result unavailable", zap.String("result_id", id), zap.Error(err))
			continue
		}
		q, err := sm.queries.GetQuery(ctx, res.QueryID)
		if err != nil {
			logger.Warn("Reverse query unavailable", zap.String("result_id", id), zap.String("query_id", res.QueryID), zap.Error(err))
			continue
		}
		if !q.IsReverse() {
			logger.Warn("Reverse result has no original query", zap.String("result_id", id), zap.String("query_id", q.ID))
			continue
		}
		byOrigin[q.OriginalQuery] = append(byOrigin[q.OriginalQuery], ReverseCandidate{Query: q, Result: res})
	}
	return byOrigin, nil
}

// SpawnReverseQueries builds one reverse query per forward hit inside the
// forward window, each carrying provenance back to fwdQuery and the hit.
// The caller supplies the sequence record for each hit id; hits without a
// record are left out.
func SpawnReverseQueries(fwdQuery *Query, fwd *SearchResult, w Window, records map[string]string) []*Query {
	var spawned []*Query
	for i, h := range fwd.Hits {
		if w.Stops(i, h) {
			break
		}
		record, ok := records[h.TargetID]
		if !ok {
			continue
		}
		spawned = append(spawned, &Query{
			ID:             ReverseQueryID(fwdQuery.ID, fwd.DatabaseID, h.TargetID),
			Identity:       h.TargetID,
			Alphabet:       fwdQuery.Alphabet,
			Record:         record,
			OriginalQuery:  fwdQuery.ID,
			SourceHitID:    h.TargetID,
			SourceDatabase: fwd.DatabaseID,
		})
	}
	return spawned
}

// ReverseQueryID names the reverse query spawned for queryID from hitID in dbID.
func ReverseQueryID(queryID, dbID, hitID string) string {
	return queryID + "|" + dbID + "|" + hitID
}
