package models

import "fmt"

// GenerationScope identifies the subset of groups a generation run targets:
// a whole period, one program cycle within a period, or a single group.
type GenerationScope struct {
	PeriodID string `json:"period_id"`
	Cycle    *int   `json:"cycle,omitempty"`
	GroupID  string `json:"group_id,omitempty"`
}

// PeriodScope targets every group in a period.
func PeriodScope(periodID string) GenerationScope {
	return GenerationScope{PeriodID: periodID}
}

// CycleScope targets the groups of one semester cycle within a period.
func CycleScope(periodID string, cycle int) GenerationScope {
	return GenerationScope{PeriodID: periodID, Cycle: &cycle}
}

// GroupScope targets a single group. The period is resolved from the group.
func GroupScope(groupID string) GenerationScope {
	return GenerationScope{GroupID: groupID}
}

// Key returns a stable identifier for locking and logging.
func (s GenerationScope) Key() string {
	switch {
	case s.GroupID != "":
		return "group:" + s.GroupID
	case s.Cycle != nil:
		return fmt.Sprintf("period:%s/cycle:%d", s.PeriodID, *s.Cycle)
	default:
		return "period:" + s.PeriodID
	}
}
