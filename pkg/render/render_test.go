package render

import (
	"bytes"
	"encoding/csv"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumyai/rbhsum/pkg/model"
)

func sampleSummary(t *testing.T) *model.Summary {
	t.Helper()
	s := model.NewSummary("s1", "rbh <run>", model.ModeSearch, model.SearchParams{FwdSearch: "fwd", RevSearch: "rev"})

	rs := model.NewResultSummary()
	require.NoError(t, rs.AddHit(model.StatusTentative, "B", model.Hit{
		FwdID: "B", FwdEValue: 1e-70,
		PosRevID: "Q1", PosRevEValue: model.Float(1e-40),
		NegRevID: "X", NegRevEValue: model.Float(1e-41),
		RevEValueGap: model.Float(1), Status: model.StatusTentative,
	}))
	require.NoError(t, rs.AddHit(model.StatusPositive, "A", model.Hit{
		FwdID: "A", FwdEValue: 0,
		PosRevID: "Q1", PosRevEValue: model.Float(math.Inf(1)),
		Status: model.StatusPositive,
	}))
	s.UpsertResult("Q1", "db1", rs)
	s.UpsertResult("Q1", "db2", model.NewResultSummary())
	return s
}

func TestExportRows(t *testing.T) {
	rows := ExportRows(sampleSummary(t))
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Q1", "db1", "positive", "positive", "A", "0", "Q1", "inf", "", "", ""}, rows[0])
	assert.Equal(t, []string{"Q1", "db1", "positive", "tentative", "B", "1e-70", "Q1", "1e-40", "X", "1e-41", "1"}, rows[1])
	assert.Equal(t, []string{"Q1", "db2", "negative"}, rows[2])

	for _, row := range rows[:2] {
		assert.Len(t, row, len(ExportHeader))
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleSummary(t)))

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, ExportHeader, records[0])
	assert.Equal(t, "negative", records[3][2])
}

func TestWriteCSVEmptySummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, model.NewSummary("e", "e", model.ModeSearch, model.SearchParams{})))
	assert.Equal(t, strings.Join(ExportHeader, ",")+"\n", buf.String())
}

func TestRenderSummaryPage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSummaryPage(&buf, sampleSummary(t)))
	page := buf.String()

	assert.Contains(t, page, "rbh &lt;run&gt;")
	assert.Contains(t, page, "1 positive, 0 tentative, 0 unlikely, 1 negative results")
	assert.Contains(t, page, "/summaries/s1/csv")
	assert.Contains(t, page, "No hits")
	assert.Contains(t, page, "1e-70")
	assert.NotContains(t, page, "<th>Sources</th>")
}

func TestRenderAggregatePage(t *testing.T) {
	s1 := model.NewSummary("a", "first", model.ModeSearch, model.SearchParams{})
	rs := model.NewResultSummary()
	require.NoError(t, rs.AddHit(model.StatusUnlikely, "h", model.Hit{FwdID: "h", Status: model.StatusUnlikely}))
	s1.UpsertResult("Q1", "db1", rs)

	agg := model.NewSummary("agg", "agg", model.ModeAggregate, model.SearchParams{})
	require.NoError(t, model.AggregateSummaries(agg, s1))

	var buf bytes.Buffer
	require.NoError(t, RenderSummaryPage(&buf, agg))
	assert.Contains(t, buf.String(), "<th>Sources</th>")
	assert.Contains(t, buf.String(), "unlikely: first")
}

func TestRenderJobPage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderJobPage(&buf, JobPageData{JobID: "j1", Kind: "summary", Status: "running", ShouldRefresh: true, RefreshIntervalSeconds: 5}))
	assert.Contains(t, buf.String(), "5000")
	assert.Contains(t, buf.String(), "still running")

	buf.Reset()
	require.NoError(t, RenderJobPage(&buf, JobPageData{JobID: "j1", Status: "completed", ResultLink: "/summaries/s1"}))
	assert.Contains(t, buf.String(), `href="/summaries/s1"`)
}
