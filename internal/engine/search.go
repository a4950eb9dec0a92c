package engine

import (
	"github.com/acadplan/timetable-api/internal/models"
)

// candidate is one viable (teacher, room, slot) triple with its soft score.
type candidate struct {
	Teacher models.Teacher
	Room    models.Room
	Slot    models.TimeSlot
	Penalty int
}

// findBestAssignment scans every (slot, teacher, room) triple open to the
// class-session and keeps the lowest-penalty survivor. The scan is exhaustive
// and greedy: earlier commitments are never undone. Enumeration order is
// deterministic (slots by day/start, teachers by id, rooms by fit then id)
// and ties keep the first candidate found, which makes the tie-break a stable
// lexicographic one rather than an accident of map iteration.
func (r *run) findBestAssignment(cs *ClassSession) (candidate, bool) {
	var best candidate
	found := false

	for _, slot := range r.snap.Slots {
		if cs.Group.PreferredShift != nil && slot.Shift != *cs.Group.PreferredShift {
			continue
		}
		if r.tracker.GroupBusy(cs.Group.ID, slot.DayOfWeek, slot.ID) {
			continue
		}

		teachers := r.eligibleTeachers(cs, slot)
		if len(teachers) == 0 {
			continue
		}
		rooms := r.eligibleRooms(cs, slot)
		if len(rooms) == 0 {
			continue
		}

		for _, teacher := range teachers {
			if r.tracker.TeacherBusy(teacher.ID, slot.DayOfWeek, slot.ID) {
				continue
			}
			for _, room := range rooms {
				if r.tracker.RoomBusy(room.ID, slot.DayOfWeek, slot.ID) {
					continue
				}
				// Defensive re-check with the full triple; the per-axis
				// filters cannot see rules that need both entities.
				if !satisfiesHard(r.snap.Rules, cs.Group, cs.Subject, teacher.ID, room.ID, slot) {
					continue
				}
				score := penalty(r.snap, cs.Group, cs.Subject, teacher, room, slot)
				if !found || score < best.Penalty {
					best = candidate{Teacher: teacher, Room: room, Slot: slot, Penalty: score}
					found = true
				}
			}
		}
	}

	return best, found
}
