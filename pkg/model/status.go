package model

import "fmt"

// HitStatus is the confidence label assigned to a hit, a result or an
// aggregate record.
type HitStatus string

const (
	StatusPositive  HitStatus = "positive"
	StatusTentative HitStatus = "tentative"
	StatusUnlikely  HitStatus = "unlikely"
	StatusNegative  HitStatus = "negative"
)

// Rank orders statuses by precedence, higher wins.
func (s HitStatus) Rank() int {
	switch s {
	case StatusPositive:
		return 3
	case StatusTentative:
		return 2
	case StatusUnlikely:
		return 1
	default:
		return 0
	}
}

func (s HitStatus) Valid() bool {
	switch s {
	case StatusPositive, StatusTentative, StatusUnlikely, StatusNegative:
		return true
	}
	return false
}

func (s HitStatus) String() string {
	return string(s)
}

// ParseHitStatus accepts the four status names. Anything else is an error.
func ParseHitStatus(raw string) (HitStatus, error) {
	s := HitStatus(raw)
	if !s.Valid() {
		return StatusNegative, fmt.Errorf("unknown hit status %q", raw)
	}
	return s, nil
}

// BestStatus returns the highest precedence status in the list, negative
// when the list is empty.
func BestStatus(statuses ...HitStatus) HitStatus {
	best := StatusNegative
	for _, s := range statuses {
		if s.Rank() > best.Rank() {
			best = s
		}
	}
	return best
}
