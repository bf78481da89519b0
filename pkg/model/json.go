package model

import (
	"encoding/json"
	"math"
)

// encoding/json refuses non-finite floats. Unusable e-values are written as
// null and read back as +Inf, which is where they sort anyway.

func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

func finitePtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return finite(*v)
}

func orInf(v *float64) float64 {
	if v == nil {
		return math.Inf(1)
	}
	return *v
}

func (h HitRecord) MarshalJSON() ([]byte, error) {
	type alias HitRecord
	return json.Marshal(struct {
		alias
		EValue *float64 `json:"evalue"`
		Score  *float64 `json:"score,omitempty"`
	}{alias(h), finite(h.EValue), finitePtr(h.Score)})
}

func (h *HitRecord) UnmarshalJSON(b []byte) error {
	type alias HitRecord
	aux := struct {
		*alias
		EValue *float64 `json:"evalue"`
	}{alias: (*alias)(h)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	h.EValue = orInf(aux.EValue)
	return nil
}

func (h Hit) MarshalJSON() ([]byte, error) {
	type alias Hit
	return json.Marshal(struct {
		alias
		FwdEValue    *float64 `json:"fwd_evalue"`
		PosRevEValue *float64 `json:"pos_rev_evalue,omitempty"`
		NegRevEValue *float64 `json:"neg_rev_evalue,omitempty"`
		RevEValueGap *float64 `json:"rev_evalue_gap,omitempty"`
	}{alias(h), finite(h.FwdEValue), finitePtr(h.PosRevEValue), finitePtr(h.NegRevEValue), finitePtr(h.RevEValueGap)})
}

func (h *Hit) UnmarshalJSON(b []byte) error {
	type alias Hit
	aux := struct {
		*alias
		FwdEValue *float64 `json:"fwd_evalue"`
	}{alias: (*alias)(h)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	h.FwdEValue = orInf(aux.FwdEValue)
	if h.PosRevID != "" && h.PosRevEValue == nil {
		h.PosRevEValue = Float(math.Inf(1))
	}
	if h.NegRevID != "" && h.NegRevEValue == nil {
		h.NegRevEValue = Float(math.Inf(1))
	}
	if h.PosRevID != "" && h.NegRevID != "" && h.RevEValueGap == nil {
		h.RevEValueGap = Float(math.Inf(1))
	}
	return nil
}
