package model

import "math"

// Floor used in place of an e-value of exactly zero. BLAST reports 0 for
// underflowed e-values.
const EValueFloor = 1e-179

// HitRecord is one line of a parsed search output.
type HitRecord struct {
	TargetID string   `json:"target_id"`
	Title    string   `json:"title,omitempty"`
	EValue   float64  `json:"evalue"`
	Score    *float64 `json:"score,omitempty"`
}

// NormalizedEValue is the value used for every comparison and logarithm.
// Zero maps to EValueFloor, negative or NaN values sort last.
func (h HitRecord) NormalizedEValue() float64 {
	return normalizeEValue(h.EValue)
}

func normalizeEValue(e float64) float64 {
	switch {
	case math.IsNaN(e) || e < 0:
		return math.Inf(1)
	case e == 0:
		return EValueFloor
	}
	return e
}

// Query is a sequence that was (or will be) searched. Reverse queries carry
// provenance back to the forward query and hit that spawned them.
type Query struct {
	ID                    string            `json:"id"`
	Identity              string            `json:"identity"`
	Alphabet              string            `json:"alphabet"`
	Record                string            `json:"record"`
	AcceptedEquivalentIDs []string          `json:"accepted_equivalent_ids,omitempty"`
	OriginalQuery         string            `json:"original_query,omitempty"`
	SourceHitID           string            `json:"source_hit_id,omitempty"`
	SourceDatabase        string            `json:"source_database,omitempty"`
	Extra                 map[string]string `json:"extra,omitempty"`
}

// IsReverse reports whether q was spawned from a forward hit.
func (q *Query) IsReverse() bool {
	return q.OriginalQuery != ""
}

// equivalentSet returns the ids a reverse hit may carry and still count as
// the query: its identity (the database accession) and the accepted
// equivalent ids.
func (q *Query) equivalentSet() map[string]struct{} {
	set := make(map[string]struct{}, len(q.AcceptedEquivalentIDs)+1)
	if q.Identity != "" {
		set[q.Identity] = struct{}{}
	}
	for _, id := range q.AcceptedEquivalentIDs {
		set[id] = struct{}{}
	}
	return set
}

// SearchResult is the outcome of searching one query against one database.
type SearchResult struct {
	ID         string      `json:"id"`
	SearchName string      `json:"search_name"`
	QueryID    string      `json:"query_id"`
	DatabaseID string      `json:"database_id"`
	Hits       []HitRecord `json:"hits"`
	Parsed     bool        `json:"parsed"`
}

// SearchParams are the immutable parameters of one summarization run.
// Nil pointers mean "no cutoff" / "unbounded".
type SearchParams struct {
	FwdSearch    string   `json:"fwd_search"`
	RevSearch    string   `json:"rev_search,omitempty"`
	QueryType    string   `json:"query_type,omitempty"`
	DatabaseType string   `json:"database_type,omitempty"`
	Algorithm    string   `json:"algorithm,omitempty"`
	FwdEValue    *float64 `json:"fwd_evalue"`
	RevEValue    *float64 `json:"rev_evalue"`
	FwdMaxHits   *int     `json:"fwd_max_hits"`
	RevMaxHits   *int     `json:"rev_max_hits"`
	NextEValue   *float64 `json:"next_evalue"`
}

// Reciprocal reports whether these parameters describe a forward/reverse run.
func (p SearchParams) Reciprocal() bool {
	return p.RevSearch != ""
}

// ForwardWindow is the scan window applied to forward hit lists.
func (p SearchParams) ForwardWindow() Window {
	return Window{MaxHits: p.FwdMaxHits, EValueCutoff: p.FwdEValue, NextEValueGap: p.NextEValue}
}

// ReverseWindow is the scan window applied to reverse hit lists.
func (p SearchParams) ReverseWindow() Window {
	return Window{MaxHits: p.RevMaxHits, EValueCutoff: p.RevEValue, NextEValueGap: p.NextEValue}
}

// Float and Int are helpers for filling the nullable parameter fields.
func Float(v float64) *float64 { return &v }

func Int(v int) *int { return &v }
