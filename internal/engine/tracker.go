package engine

// Tracker records which (entity, day, slot) triples one run has committed so
// candidate pruning is O(1). It is owned by a single run: created at the
// start of the generation scope and discarded with it, never shared.
type Tracker struct {
	teacherSlots map[string]map[int]map[string]struct{}
	roomSlots    map[string]map[int]map[string]struct{}
	groupSlots   map[string]map[int]map[string]struct{}
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		teacherSlots: make(map[string]map[int]map[string]struct{}),
		roomSlots:    make(map[string]map[int]map[string]struct{}),
		groupSlots:   make(map[string]map[int]map[string]struct{}),
	}
}

// TeacherBusy reports whether the teacher already has a committed session at
// (day, slot).
func (t *Tracker) TeacherBusy(teacherID string, day int, slotID string) bool {
	return busy(t.teacherSlots, teacherID, day, slotID)
}

// RoomBusy reports whether the room is already occupied at (day, slot).
func (t *Tracker) RoomBusy(roomID string, day int, slotID string) bool {
	return busy(t.roomSlots, roomID, day, slotID)
}

// GroupBusy reports whether the group already has a session at (day, slot).
func (t *Tracker) GroupBusy(groupID string, day int, slotID string) bool {
	return busy(t.groupSlots, groupID, day, slotID)
}

// TeacherDailyLoad counts the sessions committed for a teacher on one day.
func (t *Tracker) TeacherDailyLoad(teacherID string, day int) int {
	return len(t.teacherSlots[teacherID][day])
}

// Commit records a placement on all three axes.
func (t *Tracker) Commit(teacherID, roomID, groupID string, day int, slotID string) {
	mark(t.teacherSlots, teacherID, day, slotID)
	mark(t.roomSlots, roomID, day, slotID)
	mark(t.groupSlots, groupID, day, slotID)
}

func busy(axis map[string]map[int]map[string]struct{}, id string, day int, slotID string) bool {
	_, ok := axis[id][day][slotID]
	return ok
}

func mark(axis map[string]map[int]map[string]struct{}, id string, day int, slotID string) {
	days := axis[id]
	if days == nil {
		days = make(map[int]map[string]struct{})
		axis[id] = days
	}
	slots := days[day]
	if slots == nil {
		slots = make(map[string]struct{})
		days[day] = slots
	}
	slots[slotID] = struct{}{}
}
