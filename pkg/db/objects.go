package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/yumyai/rbhsum/pkg/model"
)

// Partitions used by the service.
const (
	PartitionQueries   = "queries"
	PartitionResults   = "results"
	PartitionSearches  = "searches"
	PartitionSummaries = "summaries"
)

// QueryStore keeps query records keyed by id.
type QueryStore struct {
	store *Store
}

func NewQueryStore(store *Store) *QueryStore {
	return &QueryStore{store: store}
}

func (qs *QueryStore) GetQuery(ctx context.Context, id string) (*model.Query, error) {
	var q *model.Query
	err := qs.store.View(ctx, func(tx *Tx) error {
		var err error
		q, err = getQuery(ctx, tx, id)
		return err
	})
	return q, err
}

func getQuery(ctx context.Context, tx *Tx, id string) (*model.Query, error) {
	var q model.Query
	err := tx.Get(ctx, PartitionQueries, id, &q)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("query %s: %w", id, model.ErrQueryNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// PutQueries stores every query in one transaction.
func (qs *QueryStore) PutQueries(ctx context.Context, queries ...*model.Query) error {
	return qs.store.Update(ctx, func(tx *Tx) error {
		for _, q := range queries {
			if q.ID == "" {
				return errors.New("query id is empty")
			}
			if err := tx.Put(ctx, PartitionQueries, q.ID, q); err != nil {
				return err
			}
		}
		return nil
	})
}

func (qs *QueryStore) ListQueries(ctx context.Context) ([]string, error) {
	var ids []string
	err := qs.store.View(ctx, func(tx *Tx) error {
		var err error
		ids, err = tx.List(ctx, PartitionQueries)
		return err
	})
	return ids, err
}

// ResultStore keeps search results plus a per-search index of result ids.
type ResultStore struct {
	store *Store
}

func NewResultStore(store *Store) *ResultStore {
	return &ResultStore{store: store}
}

// ListResults returns the result ids of a search in the order they were
// stored. An unknown search has no results.
func (rs *ResultStore) ListResults(ctx context.Context, searchName string) ([]string, error) {
	var ids []string
	err := rs.store.View(ctx, func(tx *Tx) error {
		var err error
		ids, err = listResults(ctx, tx, searchName)
		return err
	})
	return ids, err
}

func listResults(ctx context.Context, tx *Tx, searchName string) ([]string, error) {
	ids := []string{}
	err := tx.Get(ctx, PartitionSearches, searchName, &ids)
	if errors.Is(err, ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (rs *ResultStore) GetResult(ctx context.Context, id string) (*model.SearchResult, error) {
	var res *model.SearchResult
	err := rs.store.View(ctx, func(tx *Tx) error {
		var err error
		res, err = getResult(ctx, tx, id)
		return err
	})
	return res, err
}

func getResult(ctx context.Context, tx *Tx, id string) (*model.SearchResult, error) {
	var res model.SearchResult
	err := tx.Get(ctx, PartitionResults, id, &res)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("result %s: %w", id, model.ErrResultNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// PutResult stores res and indexes it under its search. A result without an
// id gets a fresh one. Storing the same id again replaces the result
// without re-indexing it.
func (rs *ResultStore) PutResult(ctx context.Context, res *model.SearchResult) error {
	if res.SearchName == "" {
		return errors.New("search name is empty")
	}
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	return rs.store.Update(ctx, func(tx *Tx) error {
		ids := []string{}
		if err := tx.Get(ctx, PartitionSearches, res.SearchName, &ids); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		found := false
		for _, id := range ids {
			if id == res.ID {
				found = true
				break
			}
		}
		if !found {
			ids = append(ids, res.ID)
			if err := tx.Put(ctx, PartitionSearches, res.SearchName, ids); err != nil {
				return err
			}
		}
		return tx.Put(ctx, PartitionResults, res.ID, res)
	})
}

// TxReader serves queries and results from one open transaction, so a
// summarization pass sees a single consistent snapshot of both.
type TxReader struct {
	tx *Tx
}

func NewTxReader(tx *Tx) *TxReader {
	return &TxReader{tx: tx}
}

func (r *TxReader) GetQuery(ctx context.Context, id string) (*model.Query, error) {
	return getQuery(ctx, r.tx, id)
}

func (r *TxReader) ListResults(ctx context.Context, searchName string) ([]string, error) {
	return listResults(ctx, r.tx, searchName)
}

func (r *TxReader) GetResult(ctx context.Context, id string) (*model.SearchResult, error) {
	return getResult(ctx, r.tx, id)
}

// ListSearches returns the names of every search with stored results.
func (rs *ResultStore) ListSearches(ctx context.Context) ([]string, error) {
	var names []string
	err := rs.store.View(ctx, func(tx *Tx) error {
		var err error
		names, err = tx.List(ctx, PartitionSearches)
		return err
	})
	return names, err
}

// SummaryStore keeps whole Summary trees keyed by summary id.
type SummaryStore struct {
	store *Store
}

func NewSummaryStore(store *Store) *SummaryStore {
	return &SummaryStore{store: store}
}

func (ss *SummaryStore) PutSummary(ctx context.Context, s *model.Summary) error {
	if s.ID == "" {
		return errors.New("summary id is empty")
	}
	return ss.store.Update(ctx, func(tx *Tx) error {
		return tx.Put(ctx, PartitionSummaries, s.ID, s)
	})
}

func (ss *SummaryStore) GetSummary(ctx context.Context, id string) (*model.Summary, error) {
	var s model.Summary
	err := ss.store.View(ctx, func(tx *Tx) error {
		return tx.Get(ctx, PartitionSummaries, id, &s)
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetSummaries loads several summaries in one transaction.
func (ss *SummaryStore) GetSummaries(ctx context.Context, ids ...string) ([]*model.Summary, error) {
	out := make([]*model.Summary, 0, len(ids))
	err := ss.store.View(ctx, func(tx *Tx) error {
		for _, id := range ids {
			var s model.Summary
			if err := tx.Get(ctx, PartitionSummaries, id, &s); err != nil {
				return err
			}
			out = append(out, &s)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (ss *SummaryStore) ListSummaries(ctx context.Context) ([]string, error) {
	var ids []string
	err := ss.store.View(ctx, func(tx *Tx) error {
		var err error
		ids, err = tx.List(ctx, PartitionSummaries)
		return err
	})
	return ids, err
}

// RemoveSummary deletes a whole summary tree.
func (ss *SummaryStore) RemoveSummary(ctx context.Context, id string) error {
	return ss.store.Update(ctx, func(tx *Tx) error {
		return tx.Remove(ctx, PartitionSummaries, id)
	})
}
