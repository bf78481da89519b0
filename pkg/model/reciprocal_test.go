package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveReverseStatus(t *testing.T) {
	equiv := map[string]struct{}{"Q1-alt": {}}

	tests := []struct {
		name    string
		hits    []HitRecord
		window  Window
		want    HitStatus
		wantPos string
		wantNeg string
		wantGap *float64
	}{
		{
			name:    "NonMatchFirstLargeGapIsPositive",
			hits:    []HitRecord{{TargetID: "X", EValue: 1e-60}, {TargetID: "Q1", EValue: 1e-40}},
			window:  Window{NextEValueGap: Float(2)},
			want:    StatusPositive,
			wantPos: "Q1",
			wantNeg: "X",
			wantGap: Float(20),
		},
		{
			name:    "NonMatchFirstSmallGapIsTentative",
			hits:    []HitRecord{{TargetID: "X", EValue: 1e-41}, {TargetID: "Q1", EValue: 1e-40}},
			window:  Window{NextEValueGap: Float(2)},
			want:    StatusTentative,
			wantPos: "Q1",
			wantNeg: "X",
			wantGap: Float(1),
		},
		{
			name:    "NonMatchFirstWithoutThresholdIsPositive",
			hits:    []HitRecord{{TargetID: "X", EValue: 1e-41}, {TargetID: "Q1", EValue: 1e-40}},
			window:  Window{},
			want:    StatusPositive,
			wantPos: "Q1",
			wantNeg: "X",
			wantGap: Float(1),
		},
		{
			name:    "MatchFirstSmallGapIsUnlikely",
			hits:    []HitRecord{{TargetID: "Q1", EValue: 1e-41}, {TargetID: "X", EValue: 1e-40}},
			window:  Window{NextEValueGap: Float(2)},
			want:    StatusUnlikely,
			wantPos: "Q1",
			wantNeg: "X",
			wantGap: Float(1),
		},
		{
			name:    "MatchFirstLargeGapIsNegative",
			hits:    []HitRecord{{TargetID: "Q1", EValue: 1e-60}, {TargetID: "X", EValue: 1e-40}},
			window:  Window{NextEValueGap: Float(2)},
			want:    StatusNegative,
			wantPos: "Q1",
			wantNeg: "X",
			wantGap: Float(20),
		},
		{
			name:    "OnlyMatchIsPositive",
			hits:    []HitRecord{{TargetID: "Q1", EValue: 1e-60}},
			window:  Window{NextEValueGap: Float(2)},
			want:    StatusPositive,
			wantPos: "Q1",
		},
		{
			name:    "EquivalentIdMatches",
			hits:    []HitRecord{{TargetID: "Q1-alt", EValue: 1e-60}, {TargetID: "Q1", EValue: 1e-59}},
			window:  Window{},
			want:    StatusPositive,
			wantPos: "Q1-alt",
		},
		{
			name:    "NoMatchIsNegative",
			hits:    []HitRecord{{TargetID: "X", EValue: 1e-60}, {TargetID: "Y", EValue: 1e-50}},
			window:  Window{},
			want:    StatusNegative,
			wantNeg: "X",
		},
		{
			name:    "MatchOutsideCutoffIsNegative",
			hits:    []HitRecord{{TargetID: "X", EValue: 1e-60}, {TargetID: "Q1", EValue: 1}},
			window:  Window{EValueCutoff: Float(1e-3)},
			want:    StatusNegative,
			wantNeg: "X",
		},
		{
			name:    "TruncatedNonMatchLeavesPositive",
			hits:    []HitRecord{{TargetID: "Q1", EValue: 1e-60}, {TargetID: "X", EValue: 1e-59}},
			window:  Window{MaxHits: Int(1), NextEValueGap: Float(2)},
			want:    StatusPositive,
			wantPos: "Q1",
		},
		{
			name:   "EmptyIsNegative",
			hits:   nil,
			window: Window{},
			want:   StatusNegative,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveReverseStatus("Q1", equiv, tt.hits, tt.window)
			assert.Equal(t, tt.want, got.Status)

			if tt.wantPos == "" {
				assert.Nil(t, got.FirstPositive)
			} else {
				require.NotNil(t, got.FirstPositive)
				assert.Equal(t, tt.wantPos, got.FirstPositive.TargetID)
			}
			if tt.wantNeg == "" {
				assert.Nil(t, got.FirstNegative)
			} else {
				require.NotNil(t, got.FirstNegative)
				assert.Equal(t, tt.wantNeg, got.FirstNegative.TargetID)
			}
			if tt.wantGap == nil {
				assert.Nil(t, got.EValueGap)
			} else {
				require.NotNil(t, got.EValueGap)
				assert.InDelta(t, *tt.wantGap, *got.EValueGap, 1e-9)
			}
		})
	}
}

func TestResolutionHit(t *testing.T) {
	res := ResolveReverseStatus("Q1", nil,
		[]HitRecord{{TargetID: "X", EValue: 1e-60}, {TargetID: "Q1", EValue: 1e-40}},
		Window{NextEValueGap: Float(2)})

	hit := res.Hit(HitRecord{TargetID: "fwdA", EValue: 1e-80})
	assert.Equal(t, "fwdA", hit.FwdID)
	assert.Equal(t, 1e-80, hit.FwdEValue)
	assert.Equal(t, "Q1", hit.PosRevID)
	assert.Equal(t, 1e-40, *hit.PosRevEValue)
	assert.Equal(t, "X", hit.NegRevID)
	assert.Equal(t, 1e-60, *hit.NegRevEValue)
	assert.InDelta(t, 20, *hit.RevEValueGap, 1e-9)
	assert.Equal(t, StatusPositive, hit.Status)
}
