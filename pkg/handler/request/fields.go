package request

import "github.com/yumyai/rbhsum/pkg/model"

// StatusFilter selects which hit lists a sequence export covers.
type StatusFilter int

const (
	StatusFilterPositive StatusFilter = iota
	StatusFilterTentative
	StatusFilterUnlikely
	StatusFilterAll
)

func (s StatusFilter) String() string {
	switch s {
	case StatusFilterPositive:
		return "positive"
	case StatusFilterTentative:
		return "tentative"
	case StatusFilterUnlikely:
		return "unlikely"
	case StatusFilterAll:
		return "all"
	default:
		return "positive"
	}
}

// Statuses lists the hit statuses the filter covers, in precedence order.
func (s StatusFilter) Statuses() []model.HitStatus {
	switch s {
	case StatusFilterTentative:
		return []model.HitStatus{model.StatusTentative}
	case StatusFilterUnlikely:
		return []model.HitStatus{model.StatusUnlikely}
	case StatusFilterAll:
		return []model.HitStatus{model.StatusPositive, model.StatusTentative, model.StatusUnlikely}
	default:
		return []model.HitStatus{model.StatusPositive}
	}
}

func ParseStatusFilter(field string) StatusFilter {
	switch field {
	case "positive":
		return StatusFilterPositive
	case "tentative":
		return StatusFilterTentative
	case "unlikely":
		return StatusFilterUnlikely
	case "all":
		return StatusFilterAll
	default:
		return StatusFilterPositive // default to positive
	}
}
