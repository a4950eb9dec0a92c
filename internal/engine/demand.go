package engine

import (
	"sort"

	"github.com/acadplan/timetable-api/internal/models"
)

// ClassSession is one (group, subject) pairing and its session demand.
// Committed is advanced only by the orchestrator as placements succeed.
type ClassSession struct {
	Group     models.Group
	Subject   models.Subject
	Required  int
	Committed int
}

// Shortfall returns how many required sessions remain unplaced.
func (cs *ClassSession) Shortfall() int {
	return cs.Required - cs.Committed
}

// BuildDemand expands (group × subject) pairs into class-sessions. Required
// sessions are the ceiling of total instructional hours over the standard
// session length; subjects with zero hours produce no demand.
func BuildDemand(groups []models.Group, subjectsByGroup map[string][]models.Subject, sessionHours int) []*ClassSession {
	var sessions []*ClassSession
	for _, group := range groups {
		for _, subject := range subjectsByGroup[group.ID] {
			if subject.TotalHours <= 0 {
				continue
			}
			required := (subject.TotalHours + sessionHours - 1) / sessionHours
			sessions = append(sessions, &ClassSession{
				Group:    group,
				Subject:  subject,
				Required: required,
			})
		}
	}
	return sessions
}

// PrioritizeSessions orders class-sessions for the greedy pass: earlier
// cycles first, subjects pinned to a room type first, higher demand first,
// then stable id order.
func PrioritizeSessions(sessions []*ClassSession) {
	sort.SliceStable(sessions, func(i, j int) bool {
		a, b := sessions[i], sessions[j]
		if a.Group.Cycle != b.Group.Cycle {
			return a.Group.Cycle < b.Group.Cycle
		}
		aTyped := a.Subject.RequiredRoomType != nil
		bTyped := b.Subject.RequiredRoomType != nil
		if aTyped != bTyped {
			return aTyped
		}
		if a.Required != b.Required {
			return a.Required > b.Required
		}
		if a.Group.ID != b.Group.ID {
			return a.Group.ID < b.Group.ID
		}
		return a.Subject.ID < b.Subject.ID
	})
}
