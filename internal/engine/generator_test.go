package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadplan/timetable-api/internal/models"
	appErrors "github.com/acadplan/timetable-api/pkg/errors"
)

// stubStores is an in-memory implementation of every generator collaborator.
type stubStores struct {
	period       models.Period
	groups       []models.Group
	subjects     map[string][]models.Subject
	teachers     []models.Teacher
	rooms        []models.Room
	slots        []models.TimeSlot
	rules        []models.ConstraintRule
	availability []models.TeacherAvailability

	deleted []models.GenerationScope
	saved   []models.Assignment
	saveErr error
}

func (s *stubStores) FindPeriod(_ context.Context, periodID string) (*models.Period, error) {
	if s.period.ID != periodID {
		return nil, sql.ErrNoRows
	}
	period := s.period
	return &period, nil
}

func (s *stubStores) FindGroup(_ context.Context, groupID string) (*models.Group, error) {
	for _, group := range s.groups {
		if group.ID == groupID {
			g := group
			return &g, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubStores) ListGroups(_ context.Context, scope models.GenerationScope) ([]models.Group, error) {
	var out []models.Group
	for _, group := range s.groups {
		switch {
		case scope.GroupID != "":
			if group.ID == scope.GroupID {
				out = append(out, group)
			}
		case scope.Cycle != nil:
			if group.PeriodID == scope.PeriodID && group.Cycle == *scope.Cycle {
				out = append(out, group)
			}
		default:
			if group.PeriodID == scope.PeriodID {
				out = append(out, group)
			}
		}
	}
	return out, nil
}

func (s *stubStores) ListSubjectsForGroup(_ context.Context, groupID string) ([]models.Subject, error) {
	return s.subjects[groupID], nil
}

func (s *stubStores) ListActiveTeachers(_ context.Context) ([]models.Teacher, error) {
	return s.teachers, nil
}

func (s *stubStores) ListRooms(_ context.Context) ([]models.Room, error) {
	return s.rooms, nil
}

func (s *stubStores) ListTimeSlots(_ context.Context) ([]models.TimeSlot, error) {
	return s.slots, nil
}

func (s *stubStores) ListAvailability(_ context.Context, _ string) ([]models.TeacherAvailability, error) {
	return s.availability, nil
}

func (s *stubStores) ListActiveRules(_ context.Context, _ string) ([]models.ConstraintRule, error) {
	return s.rules, nil
}

func (s *stubStores) DeleteByScope(_ context.Context, scope models.GenerationScope) error {
	s.deleted = append(s.deleted, scope)
	return nil
}

func (s *stubStores) Save(_ context.Context, assignment *models.Assignment) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, *assignment)
	return nil
}

// newStub builds a small campus: three weekday mornings with two slots each,
// two teachers available everywhere, two rooms.
func newStub() *stubStores {
	s := &stubStores{
		period: models.Period{ID: "p1", Name: "2026-I"},
		teachers: []models.Teacher{
			{ID: "t1", FullName: "Ada Vega", Specialties: []string{"math"}, Active: true},
			{ID: "t2", FullName: "Bo Chen", Specialties: []string{"math", "physics"}, Active: true},
		},
		rooms: []models.Room{
			{ID: "r1", Name: "A-101", Capacity: 30},
			{ID: "r2", Name: "A-102", Capacity: 35},
		},
		subjects: map[string][]models.Subject{},
	}
	starts := []string{"07:30", "09:30"}
	ends := []string{"09:30", "11:30"}
	for day := 1; day <= 3; day++ {
		for i := range starts {
			s.slots = append(s.slots, models.TimeSlot{
				ID:        fmt.Sprintf("sl-%d-%d", day, i),
				DayOfWeek: day,
				StartTime: starts[i],
				EndTime:   ends[i],
				Shift:     models.ShiftMorning,
			})
		}
	}
	for _, teacher := range s.teachers {
		for _, slot := range s.slots {
			s.availability = append(s.availability, models.TeacherAvailability{
				TeacherID:  teacher.ID,
				DayOfWeek:  slot.DayOfWeek,
				SlotID:     slot.ID,
				Preference: 1,
			})
		}
	}
	return s
}

func newTestGenerator(s *stubStores) *Generator {
	return New(s, s, s, s, s, s, Config{SessionHours: 2, DefaultDailyHours: 6})
}

func TestGenerateForPeriodPlacesFullDemand(t *testing.T) {
	s := newStub()
	s.groups = []models.Group{{ID: "g1", Code: "G1", PeriodID: "p1", Cycle: 1, Enrollment: 28}}
	s.subjects["g1"] = []models.Subject{{ID: "s1", Name: "Calculus", TotalHours: 4, RequiredSpecialties: []string{"math"}}}

	result, err := newTestGenerator(s).GenerateForPeriod(context.Background(), "p1")
	require.NoError(t, err)

	assert.Len(t, result.Committed, 2)
	assert.Empty(t, result.Unresolved)
	assert.Equal(t, 2, result.Stats["sessions_required"])
	assert.Equal(t, 2, result.Stats["sessions_committed"])
	assert.Equal(t, 0, result.Stats["sessions_unplaced"])
	assert.Equal(t, 1, result.Stats["class_sessions_full"])
	assert.Len(t, s.saved, 2)
	for _, a := range s.saved {
		assert.Equal(t, models.AssignmentStatusScheduled, a.Status)
		assert.Equal(t, "p1", a.PeriodID)
	}
}

func TestGenerateRecordsShortfallWhenSlotsRunOut(t *testing.T) {
	s := newStub()
	s.slots = s.slots[:1]
	s.availability = nil
	for _, teacher := range s.teachers {
		s.availability = append(s.availability, models.TeacherAvailability{
			TeacherID: teacher.ID, DayOfWeek: 1, SlotID: "sl-1-0", Preference: 1,
		})
	}
	s.groups = []models.Group{{ID: "g1", Code: "G1", PeriodID: "p1", Cycle: 1, Enrollment: 28}}
	s.subjects["g1"] = []models.Subject{{ID: "s1", Name: "Calculus", TotalHours: 4, RequiredSpecialties: []string{"math"}}}

	result, err := newTestGenerator(s).GenerateForPeriod(context.Background(), "p1")
	require.NoError(t, err)

	assert.Len(t, result.Committed, 1)
	require.Len(t, result.Unresolved, 1)
	assert.Equal(t, "s1", result.Unresolved[0].SubjectID)
	assert.Equal(t, 2, result.Unresolved[0].Required)
	assert.Equal(t, 1, result.Unresolved[0].Committed)
	assert.Equal(t, 1, result.Unresolved[0].Shortfall)
	assert.Equal(t, 1, result.Stats["class_sessions_partial"])
	assert.Equal(t, 1, result.Stats["sessions_unplaced"])
}

func TestGenerateUnknownPeriodIsFatalWithNoSideEffects(t *testing.T) {
	s := newStub()

	_, err := newTestGenerator(s).GenerateForPeriod(context.Background(), "missing")

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrScopeNotFound.Code, appErr.Code)
	assert.Empty(t, s.deleted)
	assert.Empty(t, s.saved)
}

func TestGenerateForGroupUnknownGroupIsFatal(t *testing.T) {
	s := newStub()

	_, err := newTestGenerator(s).GenerateForGroup(context.Background(), "missing")

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrScopeNotFound.Code, appErr.Code)
	assert.Empty(t, s.deleted)
}

func TestGenerateForGroupResolvesPeriodFromGroup(t *testing.T) {
	s := newStub()
	s.groups = []models.Group{
		{ID: "g1", Code: "G1", PeriodID: "p1", Cycle: 1, Enrollment: 20},
		{ID: "g2", Code: "G2", PeriodID: "p1", Cycle: 1, Enrollment: 20},
	}
	s.subjects["g1"] = []models.Subject{{ID: "s1", Name: "Algebra", TotalHours: 2}}
	s.subjects["g2"] = []models.Subject{{ID: "s2", Name: "Physics", TotalHours: 2}}

	result, err := newTestGenerator(s).GenerateForGroup(context.Background(), "g1")
	require.NoError(t, err)

	assert.Equal(t, "p1", result.Scope.PeriodID)
	assert.Equal(t, "g1", result.Scope.GroupID)
	require.Len(t, result.Committed, 1)
	assert.Equal(t, "g1", result.Committed[0].GroupID)
	require.Len(t, s.deleted, 1)
	assert.Equal(t, "g1", s.deleted[0].GroupID)
}

func TestGenerateForCycleTargetsOnlyThatCycle(t *testing.T) {
	s := newStub()
	s.groups = []models.Group{
		{ID: "g1", Code: "G1", PeriodID: "p1", Cycle: 1, Enrollment: 20},
		{ID: "g2", Code: "G2", PeriodID: "p1", Cycle: 2, Enrollment: 20},
	}
	s.subjects["g1"] = []models.Subject{{ID: "s1", Name: "Algebra", TotalHours: 2}}
	s.subjects["g2"] = []models.Subject{{ID: "s2", Name: "Physics", TotalHours: 2}}

	result, err := newTestGenerator(s).GenerateForCycle(context.Background(), "p1", 2)
	require.NoError(t, err)

	require.Len(t, result.Committed, 1)
	assert.Equal(t, "g2", result.Committed[0].GroupID)
}

func TestGenerateClearsScopeBeforePlacing(t *testing.T) {
	s := newStub()
	s.groups = []models.Group{{ID: "g1", Code: "G1", PeriodID: "p1", Cycle: 1, Enrollment: 20}}
	s.subjects["g1"] = []models.Subject{{ID: "s1", Name: "Algebra", TotalHours: 2}}
	gen := newTestGenerator(s)

	_, err := gen.GenerateForPeriod(context.Background(), "p1")
	require.NoError(t, err)
	_, err = gen.GenerateForPeriod(context.Background(), "p1")
	require.NoError(t, err)

	require.Len(t, s.deleted, 2)
	assert.Equal(t, "period:p1", s.deleted[0].Key())
}

func TestGenerateNeverDoubleBooksAnyAxis(t *testing.T) {
	s := newStub()
	s.groups = []models.Group{
		{ID: "g1", Code: "G1", PeriodID: "p1", Cycle: 1, Enrollment: 20},
		{ID: "g2", Code: "G2", PeriodID: "p1", Cycle: 1, Enrollment: 20},
	}
	s.subjects["g1"] = []models.Subject{
		{ID: "s1", Name: "Algebra", TotalHours: 6},
		{ID: "s2", Name: "Geometry", TotalHours: 4},
	}
	s.subjects["g2"] = []models.Subject{
		{ID: "s3", Name: "Physics", TotalHours: 6},
	}

	result, err := newTestGenerator(s).GenerateForPeriod(context.Background(), "p1")
	require.NoError(t, err)

	seen := map[string]struct{}{}
	for _, a := range result.Committed {
		for _, key := range []string{
			fmt.Sprintf("teacher/%s/%d/%s", a.TeacherID, a.DayOfWeek, a.SlotID),
			fmt.Sprintf("room/%s/%d/%s", a.RoomID, a.DayOfWeek, a.SlotID),
			fmt.Sprintf("group/%s/%d/%s", a.GroupID, a.DayOfWeek, a.SlotID),
		} {
			_, dup := seen[key]
			assert.False(t, dup, "conflicting placement %s", key)
			seen[key] = struct{}{}
		}
	}
}

func TestGenerateHonorsTeacherBarRule(t *testing.T) {
	s := newStub()
	s.teachers = s.teachers[:1]
	s.groups = []models.Group{{ID: "g1", Code: "G1", PeriodID: "p1", Cycle: 1, Enrollment: 20}}
	s.subjects["g1"] = []models.Subject{{ID: "s1", Name: "Algebra", TotalHours: 2}}
	t1 := "t1"
	subj := "s1"
	s.rules = []models.ConstraintRule{{
		ID: "rule1", Code: models.RuleCodeTeacherBarredFromSubject,
		AppliesTo: models.RuleScopeTeacherSubject, Entity1: &t1, Entity2: &subj, Active: true,
	}}

	result, err := newTestGenerator(s).GenerateForPeriod(context.Background(), "p1")
	require.NoError(t, err)

	assert.Empty(t, result.Committed)
	require.Len(t, result.Unresolved, 1)
	assert.Equal(t, 1, result.Stats["class_sessions_unplaced"])
}

func TestGenerateRespectsDailySessionCap(t *testing.T) {
	s := newStub()
	// All slots on one day, a global two-hour daily limit, one teacher.
	s.teachers = s.teachers[:1]
	var daySlots []models.TimeSlot
	for _, slot := range s.slots {
		if slot.DayOfWeek == 1 {
			daySlots = append(daySlots, slot)
		}
	}
	s.slots = daySlots
	s.rules = []models.ConstraintRule{{
		ID: "rule1", Code: models.RuleCodeMaxDailyTeacherHours,
		AppliesTo: models.RuleScopeGlobal, Param: "2", Active: true,
	}}
	s.groups = []models.Group{{ID: "g1", Code: "G1", PeriodID: "p1", Cycle: 1, Enrollment: 20}}
	s.subjects["g1"] = []models.Subject{{ID: "s1", Name: "Algebra", TotalHours: 4, RequiredSpecialties: []string{"math"}}}

	result, err := newTestGenerator(s).GenerateForPeriod(context.Background(), "p1")
	require.NoError(t, err)

	assert.Len(t, result.Committed, 1)
	require.Len(t, result.Unresolved, 1)
	assert.Equal(t, 1, result.Unresolved[0].Shortfall)
}

func TestGenerateScopesSlotsToPreferredShift(t *testing.T) {
	s := newStub()
	evening := models.ShiftEvening
	s.groups = []models.Group{{ID: "g1", Code: "G1", PeriodID: "p1", Cycle: 1, Enrollment: 20, PreferredShift: &evening}}
	s.subjects["g1"] = []models.Subject{{ID: "s1", Name: "Algebra", TotalHours: 2}}

	result, err := newTestGenerator(s).GenerateForPeriod(context.Background(), "p1")
	require.NoError(t, err)

	// Only morning slots exist, so an evening-shift group gets nothing.
	assert.Empty(t, result.Committed)
	require.Len(t, result.Unresolved, 1)
}

func TestGeneratePrefersHigherTeacherPreference(t *testing.T) {
	s := newStub()
	// t1 is neutral everywhere, t2 positive everywhere.
	s.availability = nil
	for _, slot := range s.slots {
		s.availability = append(s.availability,
			models.TeacherAvailability{TeacherID: "t1", DayOfWeek: slot.DayOfWeek, SlotID: slot.ID, Preference: 0},
			models.TeacherAvailability{TeacherID: "t2", DayOfWeek: slot.DayOfWeek, SlotID: slot.ID, Preference: 2},
		)
	}
	s.groups = []models.Group{{ID: "g1", Code: "G1", PeriodID: "p1", Cycle: 1, Enrollment: 20}}
	s.subjects["g1"] = []models.Subject{{ID: "s1", Name: "Algebra", TotalHours: 2}}

	result, err := newTestGenerator(s).GenerateForPeriod(context.Background(), "p1")
	require.NoError(t, err)

	require.Len(t, result.Committed, 1)
	assert.Equal(t, "t2", result.Committed[0].TeacherID)
}

func TestGenerateBreaksScoreTiesDeterministically(t *testing.T) {
	s := newStub()
	s.groups = []models.Group{{ID: "g1", Code: "G1", PeriodID: "p1", Cycle: 1, Enrollment: 30}}
	s.subjects["g1"] = []models.Subject{{ID: "s1", Name: "Algebra", TotalHours: 2}}

	// Identical inputs, repeated runs, identical picks.
	var first *Result
	for i := 0; i < 5; i++ {
		run := newStub()
		run.groups = s.groups
		run.subjects = s.subjects
		result, err := newTestGenerator(run).GenerateForPeriod(context.Background(), "p1")
		require.NoError(t, err)
		require.Len(t, result.Committed, 1)
		if first == nil {
			first = result
			continue
		}
		assert.Equal(t, first.Committed[0].TeacherID, result.Committed[0].TeacherID)
		assert.Equal(t, first.Committed[0].RoomID, result.Committed[0].RoomID)
		assert.Equal(t, first.Committed[0].SlotID, result.Committed[0].SlotID)
	}
	// Equal scores keep the first candidate in enumeration order.
	assert.Equal(t, "t1", first.Committed[0].TeacherID)
	assert.Equal(t, "r1", first.Committed[0].RoomID)
	assert.Equal(t, "sl-1-0", first.Committed[0].SlotID)
}

func TestGeneratePicksTightestFittingRoom(t *testing.T) {
	s := newStub()
	s.rooms = []models.Room{
		{ID: "r1", Name: "Auditorium", Capacity: 120},
		{ID: "r2", Name: "A-102", Capacity: 32},
	}
	s.groups = []models.Group{{ID: "g1", Code: "G1", PeriodID: "p1", Cycle: 1, Enrollment: 30}}
	s.subjects["g1"] = []models.Subject{{ID: "s1", Name: "Algebra", TotalHours: 2}}

	result, err := newTestGenerator(s).GenerateForPeriod(context.Background(), "p1")
	require.NoError(t, err)

	require.Len(t, result.Committed, 1)
	assert.Equal(t, "r2", result.Committed[0].RoomID)
}

func TestGenerateSkipsRoomsBelowEnrollment(t *testing.T) {
	s := newStub()
	s.rooms = []models.Room{{ID: "r1", Name: "A-101", Capacity: 15}}
	s.groups = []models.Group{{ID: "g1", Code: "G1", PeriodID: "p1", Cycle: 1, Enrollment: 30}}
	s.subjects["g1"] = []models.Subject{{ID: "s1", Name: "Algebra", TotalHours: 2}}

	result, err := newTestGenerator(s).GenerateForPeriod(context.Background(), "p1")
	require.NoError(t, err)

	assert.Empty(t, result.Committed)
	require.Len(t, result.Unresolved, 1)
}

func TestGenerateRequiresRoomTypeMatch(t *testing.T) {
	s := newStub()
	lab := "LAB"
	s.rooms = []models.Room{
		{ID: "r1", Name: "A-101", Capacity: 30},
		{ID: "r2", Name: "Lab-1", Capacity: 30, Type: &lab},
	}
	s.groups = []models.Group{{ID: "g1", Code: "G1", PeriodID: "p1", Cycle: 1, Enrollment: 20}}
	s.subjects["g1"] = []models.Subject{{ID: "s1", Name: "Chemistry", TotalHours: 2, RequiredRoomType: &lab}}

	result, err := newTestGenerator(s).GenerateForPeriod(context.Background(), "p1")
	require.NoError(t, err)

	require.Len(t, result.Committed, 1)
	assert.Equal(t, "r2", result.Committed[0].RoomID)
}

func TestGenerateSurfacesRuleWarnings(t *testing.T) {
	s := newStub()
	s.rules = []models.ConstraintRule{{
		ID: "rule1", Code: models.RuleCodeMaxDailyTeacherHours,
		AppliesTo: models.RuleScopeGlobal, Param: "soon", Active: true,
	}}
	s.groups = []models.Group{{ID: "g1", Code: "G1", PeriodID: "p1", Cycle: 1, Enrollment: 20}}
	s.subjects["g1"] = []models.Subject{{ID: "s1", Name: "Algebra", TotalHours: 2}}

	result, err := newTestGenerator(s).GenerateForPeriod(context.Background(), "p1")
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "rule1")
	assert.Len(t, result.Committed, 1)
}

func TestGenerateSaveFailureIsFatal(t *testing.T) {
	s := newStub()
	s.saveErr = errors.New("connection reset")
	s.groups = []models.Group{{ID: "g1", Code: "G1", PeriodID: "p1", Cycle: 1, Enrollment: 20}}
	s.subjects["g1"] = []models.Subject{{ID: "s1", Name: "Algebra", TotalHours: 2}}

	_, err := newTestGenerator(s).GenerateForPeriod(context.Background(), "p1")

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
}
