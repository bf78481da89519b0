package handler

// DI for all handlers and models alike.

import (
	"context"

	"github.com/yumyai/rbhsum/pkg/db"
)

type DBContext struct {
	Store       *db.Store
	Queries     *db.QueryStore
	Results     *db.ResultStore
	Summaries   *db.SummaryStore
	Sequence_DB *db.SequenceDB
	BinDir      string
	Jobs        *JobManager
}

// NewDBContext wires the object stores on top of store. seqdb may be nil
// when no sequence files are available.
func NewDBContext(ctx context.Context, store *db.Store, seqdb *db.SequenceDB, binDir string) *DBContext {
	return &DBContext{
		Store:       store,
		Queries:     db.NewQueryStore(store),
		Results:     db.NewResultStore(store),
		Summaries:   db.NewSummaryStore(store),
		Sequence_DB: seqdb,
		BinDir:      binDir,
		Jobs:        NewJobManager(ctx),
	}
}
