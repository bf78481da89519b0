package model

import (
	"fmt"
	"time"
)

// SummaryMode tells whether a Summary was built from searches or by
// aggregating other Summaries.
type SummaryMode string

const (
	ModeSearch    SummaryMode = "search"
	ModeAggregate SummaryMode = "aggregate"
)

// Hit is the classification record of one forward hit. The reverse fields
// are only filled for reciprocal summaries.
type Hit struct {
	FwdID        string    `json:"fwd_id"`
	FwdEValue    float64   `json:"fwd_evalue"`
	PosRevID     string    `json:"pos_rev_id,omitempty"`
	PosRevEValue *float64  `json:"pos_rev_evalue,omitempty"`
	NegRevID     string    `json:"neg_rev_id,omitempty"`
	NegRevEValue *float64  `json:"neg_rev_evalue,omitempty"`
	RevEValueGap *float64  `json:"rev_evalue_gap,omitempty"`
	Status       HitStatus `json:"status"`
}

// AggregateHit records which source summaries called a hit what.
type AggregateHit struct {
	HitID     string    `json:"hit_id"`
	Positive  []string  `json:"positive_hit_list"`
	Tentative []string  `json:"tentative_hit_list"`
	Unlikely  []string  `json:"unlikely_hit_list"`
	Status    HitStatus `json:"status"`
}

func (a *AggregateHit) add(status HitStatus, source string) {
	switch status {
	case StatusPositive:
		a.Positive = appendUnique(a.Positive, source)
	case StatusTentative:
		a.Tentative = appendUnique(a.Tentative, source)
	case StatusUnlikely:
		a.Unlikely = appendUnique(a.Unlikely, source)
	}
	a.Status = listStatus(a.Positive, a.Tentative, a.Unlikely)
}

// ResultSummary is the outcome for one (query, database) pair.
type ResultSummary struct {
	Status     HitStatus                `json:"status"`
	Positive   []string                 `json:"positive_hit_list"`
	Tentative  []string                 `json:"tentative_hit_list"`
	Unlikely   []string                 `json:"unlikely_hit_list"`
	Hits       map[string]Hit           `json:"hits"`
	Aggregates map[string]*AggregateHit `json:"aggregates,omitempty"`
}

func NewResultSummary() *ResultSummary {
	return &ResultSummary{
		Status:    StatusNegative,
		Positive:  []string{},
		Tentative: []string{},
		Unlikely:  []string{},
		Hits:      map[string]Hit{},
	}
}

// AddHit files hitID under the list for status, stores the detail record
// and re-derives the result status. Adding the same id twice to a list is
// a no-op for the list; the detail record is replaced.
func (rs *ResultSummary) AddHit(status HitStatus, hitID string, hit Hit) error {
	switch status {
	case StatusPositive:
		rs.Positive = appendUnique(rs.Positive, hitID)
	case StatusTentative:
		rs.Tentative = appendUnique(rs.Tentative, hitID)
	case StatusUnlikely:
		rs.Unlikely = appendUnique(rs.Unlikely, hitID)
	default:
		return fmt.Errorf("cannot file hit %q under status %q", hitID, status)
	}
	if rs.Hits == nil {
		rs.Hits = map[string]Hit{}
	}
	rs.Hits[hitID] = hit
	rs.Status = listStatus(rs.Positive, rs.Tentative, rs.Unlikely)
	return nil
}

// HitIDs returns the ids filed under status, in insertion order.
func (rs *ResultSummary) HitIDs(status HitStatus) []string {
	switch status {
	case StatusPositive:
		return rs.Positive
	case StatusTentative:
		return rs.Tentative
	case StatusUnlikely:
		return rs.Unlikely
	}
	return nil
}

// QuerySummary holds the results of one query over every database searched.
type QuerySummary struct {
	DBList []string                  `json:"db_list"`
	DBs    map[string]*ResultSummary `json:"dbs"`
}

func NewQuerySummary() *QuerySummary {
	return &QuerySummary{
		DBList: []string{},
		DBs:    map[string]*ResultSummary{},
	}
}

// AddDBSummary appends dbID if absent and always replaces the mapped result.
func (qs *QuerySummary) AddDBSummary(dbID string, rs *ResultSummary) {
	qs.DBList = appendUnique(qs.DBList, dbID)
	qs.DBs[dbID] = rs
}

// Summary is the root of a classification tree.
type Summary struct {
	ID        string                   `json:"id"`
	Name      string                   `json:"name"`
	Mode      SummaryMode              `json:"mode"`
	Params    SearchParams             `json:"params"`
	Sources   []string                 `json:"sources,omitempty"`
	Settings  map[string]string        `json:"settings,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
	QueryList []string                 `json:"query_list"`
	Queries   map[string]*QuerySummary `json:"queries"`
}

func NewSummary(id, name string, mode SummaryMode, params SearchParams) *Summary {
	return &Summary{
		ID:        id,
		Name:      name,
		Mode:      mode,
		Params:    params,
		Settings:  map[string]string{},
		CreatedAt: time.Now().UTC(),
		QueryList: []string{},
		Queries:   map[string]*QuerySummary{},
	}
}

// AddQuerySummary appends queryID if absent and always replaces the mapped
// query summary.
func (s *Summary) AddQuerySummary(queryID string, qs *QuerySummary) {
	s.QueryList = appendUnique(s.QueryList, queryID)
	s.Queries[queryID] = qs
}

// UpsertResult places rs under (queryID, dbID), creating the query summary
// on first use.
func (s *Summary) UpsertResult(queryID, dbID string, rs *ResultSummary) {
	qs, ok := s.Queries[queryID]
	if !ok {
		qs = NewQuerySummary()
	}
	qs.AddDBSummary(dbID, rs)
	s.AddQuerySummary(queryID, qs)
}

// Result looks up the result for (queryID, dbID).
func (s *Summary) Result(queryID, dbID string) (*ResultSummary, bool) {
	qs, ok := s.Queries[queryID]
	if !ok {
		return nil, false
	}
	rs, ok := qs.DBs[dbID]
	return rs, ok
}

// Walk visits every result in query then database order.
func (s *Summary) Walk(fn func(queryID, dbID string, rs *ResultSummary)) {
	for _, qid := range s.QueryList {
		qs := s.Queries[qid]
		if qs == nil {
			continue
		}
		for _, db := range qs.DBList {
			if rs := qs.DBs[db]; rs != nil {
				fn(qid, db, rs)
			}
		}
	}
}

// Validate checks the structural invariants of the tree and reports the
// first violation found.
func (s *Summary) Validate() error {
	if len(s.QueryList) != len(s.Queries) {
		return fmt.Errorf("query_list has %d ids but %d query summaries", len(s.QueryList), len(s.Queries))
	}
	if dup := firstDuplicate(s.QueryList); dup != "" {
		return fmt.Errorf("query %q listed twice", dup)
	}
	for _, qid := range s.QueryList {
		qs, ok := s.Queries[qid]
		if !ok {
			return fmt.Errorf("query %q listed but not mapped", qid)
		}
		if len(qs.DBList) != len(qs.DBs) {
			return fmt.Errorf("query %q: db_list has %d ids but %d results", qid, len(qs.DBList), len(qs.DBs))
		}
		if dup := firstDuplicate(qs.DBList); dup != "" {
			return fmt.Errorf("query %q: database %q listed twice", qid, dup)
		}
		for _, db := range qs.DBList {
			rs, ok := qs.DBs[db]
			if !ok {
				return fmt.Errorf("query %q: database %q listed but not mapped", qid, db)
			}
			if err := rs.validate(); err != nil {
				return fmt.Errorf("query %q, database %q: %w", qid, db, err)
			}
		}
	}
	return nil
}

func (rs *ResultSummary) validate() error {
	for _, list := range [][]string{rs.Positive, rs.Tentative, rs.Unlikely} {
		if dup := firstDuplicate(list); dup != "" {
			return fmt.Errorf("hit %q listed twice", dup)
		}
		for _, id := range list {
			if _, ok := rs.Hits[id]; !ok {
				return fmt.Errorf("hit %q listed without detail", id)
			}
		}
	}
	if want := listStatus(rs.Positive, rs.Tentative, rs.Unlikely); rs.Status != want {
		return fmt.Errorf("status %q does not match hit lists (want %q)", rs.Status, want)
	}
	return nil
}

// listStatus derives a status from three precedence-ordered lists.
func listStatus(positive, tentative, unlikely []string) HitStatus {
	switch {
	case len(positive) > 0:
		return StatusPositive
	case len(tentative) > 0:
		return StatusTentative
	case len(unlikely) > 0:
		return StatusUnlikely
	}
	return StatusNegative
}

func appendUnique(list []string, id string) []string {
	for _, v := range list {
		if v == id {
			return list
		}
	}
	return append(list, id)
}

func firstDuplicate(list []string) string {
	seen := make(map[string]struct{}, len(list))
	for _, v := range list {
		if _, ok := seen[v]; ok {
			return v
		}
		seen[v] = struct{}{}
	}
	return ""
}
