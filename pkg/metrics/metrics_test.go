package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumyai/rbhsum/pkg/model"
)

func TestObserveReport(t *testing.T) {
	Register()
	Register()

	before := testutil.ToFloat64(ClassifiedHitsTotal.WithLabelValues("positive"))
	skippedBefore := testutil.ToFloat64(SkippedPairsTotal)

	ObserveReport("search", &model.RunReport{
		Results: 2,
		Skipped: []model.Skip{{ResultID: "r9", Reason: "unparsed"}},
		Hits:    map[model.HitStatus]int{model.StatusPositive: 3, model.StatusUnlikely: 1},
	}, nil)
	ObserveReport("reciprocal", nil, errors.New("boom"))

	assert.Equal(t, before+3, testutil.ToFloat64(ClassifiedHitsTotal.WithLabelValues("positive")))
	assert.Equal(t, skippedBefore+1, testutil.ToFloat64(SkippedPairsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(SummaryRunsTotal.WithLabelValues("reciprocal", "error")))

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "rbhsum_summarizer_runs_total")
}
