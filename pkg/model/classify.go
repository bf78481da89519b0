package model

import "math"

// Window bounds how far down an e-value sorted hit list a scan may go.
// A nil field never triggers.
type Window struct {
	MaxHits       *int
	EValueCutoff  *float64
	NextEValueGap *float64
}

// Stops reports whether a scan must end before looking at hit i.
func (w Window) Stops(i int, h HitRecord) bool {
	if w.MaxHits != nil && i >= *w.MaxHits {
		return true
	}
	if w.EValueCutoff != nil && h.NormalizedEValue() > *w.EValueCutoff {
		return true
	}
	return false
}

// Visible returns the prefix of hits a scan is allowed to see.
func (w Window) Visible(hits []HitRecord) []HitRecord {
	for i, h := range hits {
		if w.Stops(i, h) {
			return hits[:i]
		}
	}
	return hits
}

// gapExceeds reports whether gap is above the configured gap threshold.
// Without a threshold every gap counts as large.
func (w Window) gapExceeds(gap float64) bool {
	return w.NextEValueGap == nil || gap > *w.NextEValueGap
}

// LogEValue is log10 of the normalized e-value.
func LogEValue(e float64) float64 {
	return math.Log10(normalizeEValue(e))
}

// LogGap is the absolute log10 distance between two e-values. Two
// unusable values are treated as indistinguishable.
func LogGap(a, b float64) float64 {
	la, lb := LogEValue(a), LogEValue(b)
	if math.IsInf(la, 1) && math.IsInf(lb, 1) {
		return 0
	}
	return math.Abs(la - lb)
}

// Classified is one accepted forward hit.
type Classified struct {
	Hit    HitRecord
	Status HitStatus
}

// ClassifyForwardHits accepts hits from the top of an ascending e-value list
// until the window closes. With a gap threshold set, a hit is only accepted
// when the next hit in the list sits more than the threshold away on the
// log10 scale; the first small gap ends the scan.
func ClassifyForwardHits(hits []HitRecord, w Window) []Classified {
	var accepted []Classified
	for i, h := range hits {
		if w.Stops(i, h) {
			break
		}
		if w.NextEValueGap != nil && i+1 < len(hits) {
			if !w.gapExceeds(LogGap(h.EValue, hits[i+1].EValue)) {
				break
			}
		}
		accepted = append(accepted, Classified{Hit: h, Status: StatusPositive})
	}
	return accepted
}
