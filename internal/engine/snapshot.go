package engine

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/acadplan/timetable-api/internal/models"
	appErrors "github.com/acadplan/timetable-api/pkg/errors"
)

// UnavailableScore is the sentinel preference recorded for any (teacher, day,
// slot) without an availability row. Candidates at or below the cutoff are
// never considered.
const (
	UnavailableScore   = -999
	availabilityCutoff = -900
)

type availabilityKey struct {
	teacherID string
	day       int
	slotID    string
}

// Snapshot is the immutable read-model one generation run works against.
// Everything is loaded up front; nothing touches the stores mid-run.
type Snapshot struct {
	Period   models.Period
	Teachers []models.Teacher
	Rooms    []models.Room
	Slots    []models.TimeSlot
	Rules    []Rule
	Warnings []string

	preferences   map[availabilityKey]int
	specialties   map[string]map[string]struct{}
	sessionHours  int
	defaultDailyH int
}

// Preference returns the availability score for a teacher at (day, slot),
// or UnavailableScore when no availability row exists.
func (s *Snapshot) Preference(teacherID string, day int, slotID string) int {
	if score, ok := s.preferences[availabilityKey{teacherID: teacherID, day: day, slotID: slotID}]; ok {
		return score
	}
	return UnavailableScore
}

// HasSpecialties reports whether the teacher holds every required specialty.
func (s *Snapshot) HasSpecialties(teacherID string, required []string) bool {
	if len(required) == 0 {
		return true
	}
	held := s.specialties[teacherID]
	for _, specialty := range required {
		if _, ok := held[specialty]; !ok {
			return false
		}
	}
	return true
}

// DailySessionCap converts the applicable max-daily-hours rule into a session
// count. A teacher-specific rule overrides a global one.
func (s *Snapshot) DailySessionCap(teacherID string) int {
	hours := s.defaultDailyH
	haveTeacherRule := false
	for _, rule := range s.Rules {
		if rule.Kind != RuleMaxDailyTeacherHours {
			continue
		}
		if rule.TeacherID == teacherID {
			hours = rule.MaxHours
			haveTeacherRule = true
		} else if rule.TeacherID == "" && !haveTeacherRule {
			hours = rule.MaxHours
		}
	}
	return hours / s.sessionHours
}

func (g *Generator) loadSnapshot(ctx context.Context, periodID string) (*Snapshot, error) {
	period, err := g.catalog.FindPeriod(ctx, periodID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrScopeNotFound, "period not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load period")
	}

	teachers, err := g.directory.ListActiveTeachers(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}
	rooms, err := g.directory.ListRooms(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	slots, err := g.calendar.ListTimeSlots(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load time slots")
	}
	ruleRecords, err := g.rules.ListActiveRules(ctx, periodID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load constraint rules")
	}
	availability, err := g.availability.ListAvailability(ctx, periodID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher availability")
	}

	// Candidate enumeration order is part of the tie-break contract, so the
	// snapshot fixes a deterministic order regardless of store ordering.
	sort.Slice(teachers, func(i, j int) bool { return teachers[i].ID < teachers[j].ID })
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].DayOfWeek != slots[j].DayOfWeek {
			return slots[i].DayOfWeek < slots[j].DayOfWeek
		}
		if slots[i].StartTime != slots[j].StartTime {
			return slots[i].StartTime < slots[j].StartTime
		}
		return slots[i].EndTime < slots[j].EndTime
	})

	rules, warnings := DecodeRules(ruleRecords)

	preferences := make(map[availabilityKey]int, len(availability))
	for _, window := range availability {
		preferences[availabilityKey{teacherID: window.TeacherID, day: window.DayOfWeek, slotID: window.SlotID}] = window.Preference
	}

	specialties := make(map[string]map[string]struct{}, len(teachers))
	for _, teacher := range teachers {
		held := make(map[string]struct{}, len(teacher.Specialties))
		for _, specialty := range teacher.Specialties {
			held[specialty] = struct{}{}
		}
		specialties[teacher.ID] = held
	}

	return &Snapshot{
		Period:        *period,
		Teachers:      teachers,
		Rooms:         rooms,
		Slots:         slots,
		Rules:         rules,
		Warnings:      warnings,
		preferences:   preferences,
		specialties:   specialties,
		sessionHours:  g.cfg.SessionHours,
		defaultDailyH: g.cfg.DefaultDailyHours,
	}, nil
}
