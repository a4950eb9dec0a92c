package engine

import (
	"sort"

	"github.com/acadplan/timetable-api/internal/models"
)

// run bundles the per-invocation state the candidate filter and the search
// operate on. The snapshot is read-only; the tracker belongs to this run.
type run struct {
	snap    *Snapshot
	tracker *Tracker
}

// eligibleTeachers returns every teacher who may take the class-session at
// the given slot: available there, holding all required specialties, below
// the daily session cap, and passing the teacher-scoped hard rules.
func (r *run) eligibleTeachers(cs *ClassSession, slot models.TimeSlot) []models.Teacher {
	var eligible []models.Teacher
	for _, teacher := range r.snap.Teachers {
		if r.snap.Preference(teacher.ID, slot.DayOfWeek, slot.ID) <= availabilityCutoff {
			continue
		}
		if !r.snap.HasSpecialties(teacher.ID, cs.Subject.RequiredSpecialties) {
			continue
		}
		if r.tracker.TeacherDailyLoad(teacher.ID, slot.DayOfWeek) >= r.snap.DailySessionCap(teacher.ID) {
			continue
		}
		if !satisfiesHard(r.snap.Rules, cs.Group, cs.Subject, teacher.ID, "", slot) {
			continue
		}
		eligible = append(eligible, teacher)
	}
	return eligible
}

// eligibleRooms returns rooms matching the subject's required type and the
// group's enrollment, passing the room-scoped hard rules, ordered tightest
// capacity fit first (room id breaks ties).
func (r *run) eligibleRooms(cs *ClassSession, slot models.TimeSlot) []models.Room {
	var eligible []models.Room
	for _, room := range r.snap.Rooms {
		if cs.Subject.RequiredRoomType != nil {
			if room.Type == nil || *room.Type != *cs.Subject.RequiredRoomType {
				continue
			}
		}
		if room.Capacity < cs.Group.Enrollment {
			continue
		}
		if !satisfiesHard(r.snap.Rules, cs.Group, cs.Subject, "", room.ID, slot) {
			continue
		}
		eligible = append(eligible, room)
	}

	enrollment := cs.Group.Enrollment
	sort.SliceStable(eligible, func(i, j int) bool {
		fitI := absInt(eligible[i].Capacity - enrollment)
		fitJ := absInt(eligible[j].Capacity - enrollment)
		if fitI != fitJ {
			return fitI < fitJ
		}
		return eligible[i].ID < eligible[j].ID
	})
	return eligible
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
