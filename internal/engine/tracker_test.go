package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackerCommitMarksAllThreeAxes(t *testing.T) {
	tr := NewTracker()

	assert.False(t, tr.TeacherBusy("t1", 1, "sl1"))
	assert.False(t, tr.RoomBusy("r1", 1, "sl1"))
	assert.False(t, tr.GroupBusy("g1", 1, "sl1"))

	tr.Commit("t1", "r1", "g1", 1, "sl1")

	assert.True(t, tr.TeacherBusy("t1", 1, "sl1"))
	assert.True(t, tr.RoomBusy("r1", 1, "sl1"))
	assert.True(t, tr.GroupBusy("g1", 1, "sl1"))

	// Same slot id on another day stays free.
	assert.False(t, tr.TeacherBusy("t1", 2, "sl1"))
	assert.False(t, tr.RoomBusy("r1", 2, "sl1"))
}

func TestTrackerTeacherDailyLoad(t *testing.T) {
	tr := NewTracker()

	assert.Equal(t, 0, tr.TeacherDailyLoad("t1", 1))

	tr.Commit("t1", "r1", "g1", 1, "sl1")
	tr.Commit("t1", "r2", "g2", 1, "sl2")
	tr.Commit("t1", "r1", "g1", 2, "sl1")

	assert.Equal(t, 2, tr.TeacherDailyLoad("t1", 1))
	assert.Equal(t, 1, tr.TeacherDailyLoad("t1", 2))
	assert.Equal(t, 0, tr.TeacherDailyLoad("t2", 1))
}
