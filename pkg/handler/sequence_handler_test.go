package handler

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumyai/rbhsum/pkg/db"
	"github.com/yumyai/rbhsum/pkg/model"
)

// helper to create a fake 'samtools' executable that echoes each requested
// id back as a FASTA record
func createFakeSamtools(t *testing.T, dir string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake samtools needs a POSIX shell")
	}
	content := "#!/bin/sh\n" +
		"while read id; do\n" +
		"  printf '>%s\\nMKVLA\\n' \"$id\"\n" +
		"done\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "samtools"), []byte(content), 0o755))
}

// prepend a directory to PATH for this test
func prependPath(t *testing.T, dir string) {
	t.Helper()
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func newSequenceDB(t *testing.T, databaseIDs ...string) *db.SequenceDB {
	t.Helper()
	dir := t.TempDir()
	for _, id := range databaseIDs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, id+".fa"), []byte(""), 0o644))
	}
	seqdb, err := db.NewSequenceDB(dir)
	require.NoError(t, err)
	return seqdb
}

func TestSummaryFastaHandler_MockSamtools(t *testing.T) {
	bin := t.TempDir()
	createFakeSamtools(t, bin)
	prependPath(t, bin)

	env := newTestEnv(t, newSequenceDB(t, "db1", "db2"))
	ctx := context.Background()

	s := model.NewSummary("s1", "s1", model.ModeSearch, model.SearchParams{FwdSearch: "fwd"})
	rs1 := model.NewResultSummary()
	require.NoError(t, rs1.AddHit(model.StatusPositive, "A", model.Hit{FwdID: "A", Status: model.StatusPositive}))
	require.NoError(t, rs1.AddHit(model.StatusUnlikely, "U", model.Hit{FwdID: "U", Status: model.StatusUnlikely}))
	s.UpsertResult("Q1", "db1", rs1)
	rs2 := model.NewResultSummary()
	require.NoError(t, rs2.AddHit(model.StatusPositive, "B", model.Hit{FwdID: "B", Status: model.StatusPositive}))
	s.UpsertResult("Q2", "db2", rs2)
	s.UpsertResult("Q3", "db1", model.NewResultSummary())
	require.NoError(t, env.dbctx.Summaries.PutSummary(ctx, s))

	rr := env.do(t, http.MethodGet, "/summaries/s1/fasta?status=positive", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, ">A\nMKVLA\n>B\nMKVLA\n", rr.Body.String())

	rr = env.do(t, http.MethodGet, "/summaries/s1/fasta?status=all", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, ">A\nMKVLA\n>U\nMKVLA\n>B\nMKVLA\n", rr.Body.String())

	rr = env.do(t, http.MethodGet, "/summaries/s1/fasta?status=tentative", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Body.String())

	rr = env.do(t, http.MethodGet, "/summaries/missing/fasta", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSummaryFastaHandler_MissingSequenceFile(t *testing.T) {
	env := newTestEnv(t, newSequenceDB(t))

	s := model.NewSummary("s1", "s1", model.ModeSearch, model.SearchParams{FwdSearch: "fwd"})
	rs := model.NewResultSummary()
	require.NoError(t, rs.AddHit(model.StatusPositive, "A", model.Hit{FwdID: "A", Status: model.StatusPositive}))
	s.UpsertResult("Q1", "db1", rs)
	require.NoError(t, env.dbctx.Summaries.PutSummary(context.Background(), s))

	rr := env.do(t, http.MethodGet, "/summaries/s1/fasta", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Samtools")
}

func TestSummaryFastaHandler_NoSequenceStore(t *testing.T) {
	env := newTestEnv(t, nil)
	rr := env.do(t, http.MethodGet, "/summaries/s1/fasta", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
