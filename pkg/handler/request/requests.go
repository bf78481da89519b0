package request

import "github.com/yumyai/rbhsum/pkg/model"

// Register one or more queries.
type QueryRequest struct {
	Queries []*model.Query `json:"queries"`
}

// Ingest raw tabular output of one (search, query, database) run.
type ResultRequest struct {
	ID         string `json:"id"`
	SearchName string `json:"search_name"`
	QueryID    string `json:"query_id"`
	DatabaseID string `json:"database_id"`
	Format     string `json:"format"`
	Output     string `json:"output"`
}

// Run an external search for a stored query.
type SearchRequest struct {
	SearchName string   `json:"search_name"`
	QueryID    string   `json:"query_id"`
	Program    string   `json:"program"`
	Database   string   `json:"database"`    // Path handed to the search program
	DatabaseID string   `json:"database_id"` // Defaults to the base name of Database
	EValue     *float64 `json:"evalue"`
	MaxHits    *int     `json:"max_hits"`
}

// Spawn reverse queries from the hits of a forward result.
type ReverseQueryRequest struct {
	ResultID   string   `json:"result_id"`
	SequenceDB string   `json:"sequence_db"` // Defaults to the result's database id
	EValue     *float64 `json:"evalue"`
	MaxHits    *int     `json:"max_hits"`
}

// Build a summary from one search, or two for reciprocal summaries.
type SummaryRequest struct {
	Name     string             `json:"name"`
	Params   model.SearchParams `json:"params"`
	Settings map[string]string  `json:"settings"`
}

// Fold stored summaries into a new aggregate summary.
type AggregateRequest struct {
	Name       string   `json:"name"`
	SummaryIDs []string `json:"summary_ids"`
}
