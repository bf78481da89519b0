package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ids(cs []Classified) []string {
	out := []string{}
	for _, c := range cs {
		out = append(out, c.Hit.TargetID)
	}
	return out
}

func TestClassifyForwardHits(t *testing.T) {
	tests := []struct {
		name   string
		hits   []HitRecord
		window Window
		want   []string
	}{
		{
			name:   "CutoffWithoutGapAcceptsAll",
			hits:   []HitRecord{{TargetID: "A", EValue: 1e-50}, {TargetID: "B", EValue: 1e-48}, {TargetID: "C", EValue: 0.04}},
			window: Window{EValueCutoff: Float(0.05)},
			want:   []string{"A", "B", "C"},
		},
		{
			name:   "GapEndsScan",
			hits:   []HitRecord{{TargetID: "A", EValue: 1e-50}, {TargetID: "B", EValue: 1e-10}, {TargetID: "C", EValue: 1e-9}},
			window: Window{NextEValueGap: Float(5)},
			want:   []string{"A"},
		},
		{
			name:   "LastHitHasNothingToCompare",
			hits:   []HitRecord{{TargetID: "A", EValue: 1e-50}, {TargetID: "B", EValue: 1e-10}},
			window: Window{NextEValueGap: Float(5)},
			want:   []string{"A", "B"},
		},
		{
			name:   "CutoffStopsBeforeWorseHits",
			hits:   []HitRecord{{TargetID: "A", EValue: 1e-50}, {TargetID: "B", EValue: 0.1}, {TargetID: "C", EValue: 1e-60}},
			window: Window{EValueCutoff: Float(0.05)},
			want:   []string{"A"},
		},
		{
			name:   "MaxHits",
			hits:   []HitRecord{{TargetID: "A", EValue: 1e-50}, {TargetID: "B", EValue: 1e-40}, {TargetID: "C", EValue: 1e-30}},
			window: Window{MaxHits: Int(2)},
			want:   []string{"A", "B"},
		},
		{
			name:   "ZeroMaxHits",
			hits:   []HitRecord{{TargetID: "A", EValue: 1e-50}},
			window: Window{MaxHits: Int(0)},
			want:   []string{},
		},
		{
			name:   "UnboundedAcceptsEverything",
			hits:   []HitRecord{{TargetID: "A", EValue: 1e-50}, {TargetID: "B", EValue: 10}},
			window: Window{},
			want:   []string{"A", "B"},
		},
		{
			name:   "MalformedEValueExcludedByCutoff",
			hits:   []HitRecord{{TargetID: "A", EValue: 1e-50}, {TargetID: "B", EValue: math.Inf(1)}},
			window: Window{EValueCutoff: Float(10)},
			want:   []string{"A"},
		},
		{
			name:   "EmptyList",
			hits:   nil,
			window: Window{NextEValueGap: Float(1)},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyForwardHits(tt.hits, tt.window)
			assert.Equal(t, tt.want, ids(got))
			for _, c := range got {
				assert.Equal(t, StatusPositive, c.Status)
			}
		})
	}
}

func TestZeroEValueFloor(t *testing.T) {
	zero := HitRecord{TargetID: "Z", EValue: 0}

	assert.Equal(t, EValueFloor, zero.NormalizedEValue())
	assert.InDelta(t, -179, LogEValue(0), 1e-9)
	assert.False(t, math.IsInf(LogEValue(0), 0))
	assert.InDelta(t, 79, LogGap(0, 1e-100), 1e-9)

	// A zero e-value against a 1e-179 neighbour has no gap at all.
	got := ClassifyForwardHits([]HitRecord{zero, {TargetID: "F", EValue: 1e-179}}, Window{NextEValueGap: Float(0.5)})
	assert.Empty(t, got)
}

func TestLogGapUnusableValues(t *testing.T) {
	assert.Equal(t, 0.0, LogGap(math.Inf(1), -1))
	assert.True(t, math.IsInf(LogGap(1e-10, math.NaN()), 1))
}

func TestWindowVisible(t *testing.T) {
	hits := []HitRecord{{TargetID: "A", EValue: 1e-9}, {TargetID: "B", EValue: 1e-3}, {TargetID: "C", EValue: 1}}
	assert.Len(t, Window{EValueCutoff: Float(0.01)}.Visible(hits), 2)
	assert.Len(t, Window{MaxHits: Int(1)}.Visible(hits), 1)
	assert.Len(t, Window{}.Visible(hits), 3)
}
