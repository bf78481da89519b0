package model

// Resolution is the outcome of scanning one reverse hit list.
type Resolution struct {
	Status        HitStatus
	FirstPositive *HitRecord
	FirstNegative *HitRecord
	EValueGap     *float64
}

// Hit builds the detail record for the forward hit this resolution belongs to.
func (r Resolution) Hit(fwd HitRecord) Hit {
	h := Hit{
		FwdID:        fwd.TargetID,
		FwdEValue:    fwd.EValue,
		RevEValueGap: r.EValueGap,
		Status:       r.Status,
	}
	if r.FirstPositive != nil {
		h.PosRevID = r.FirstPositive.TargetID
		h.PosRevEValue = Float(r.FirstPositive.EValue)
	}
	if r.FirstNegative != nil {
		h.NegRevID = r.FirstNegative.TargetID
		h.NegRevEValue = Float(r.FirstNegative.EValue)
	}
	return h
}

// ResolveReverseStatus scans the reverse hits of a forward hit and decides
// how well the original query is recovered.
//
// A reverse hit matches when it is the original query or one of the accepted
// equivalent ids. The first matching and first non-matching hits are
// tracked; as soon as both have been seen the log10 gap between them decides:
//
//	non-match first, match later:  gap above threshold -> positive, else tentative
//	match first, non-match later:  gap within threshold -> unlikely, else negative
//
// A match with no non-match inside the window is positive; no match at all
// is negative.
func ResolveReverseStatus(originalQueryID string, equivalents map[string]struct{}, reverseHits []HitRecord, w Window) Resolution {
	var res Resolution
	matches := func(id string) bool {
		if id == originalQueryID {
			return true
		}
		_, ok := equivalents[id]
		return ok
	}

	for i := range reverseHits {
		h := reverseHits[i]
		if w.Stops(i, h) {
			break
		}
		if matches(h.TargetID) {
			if res.FirstPositive != nil {
				continue
			}
			res.FirstPositive = &h
			if res.FirstNegative == nil {
				continue
			}
			gap := LogGap(res.FirstNegative.EValue, h.EValue)
			res.EValueGap = &gap
			if w.gapExceeds(gap) {
				res.Status = StatusPositive
			} else {
				res.Status = StatusTentative
			}
			return res
		}

		if res.FirstNegative != nil {
			continue
		}
		res.FirstNegative = &h
		if res.FirstPositive == nil {
			continue
		}
		gap := LogGap(res.FirstPositive.EValue, h.EValue)
		res.EValueGap = &gap
		if w.NextEValueGap != nil && gap <= *w.NextEValueGap {
			res.Status = StatusUnlikely
		} else {
			res.Status = StatusNegative
		}
		return res
	}

	if res.FirstPositive != nil && res.FirstNegative == nil {
		res.Status = StatusPositive
	} else {
		res.Status = StatusNegative
	}
	return res
}
