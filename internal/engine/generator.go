package engine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/acadplan/timetable-api/internal/models"
	appErrors "github.com/acadplan/timetable-api/pkg/errors"
)

// Catalog resolves academic-structure records: periods, groups and the
// subjects each group studies.
type Catalog interface {
	FindPeriod(ctx context.Context, periodID string) (*models.Period, error)
	FindGroup(ctx context.Context, groupID string) (*models.Group, error)
	ListGroups(ctx context.Context, scope models.GenerationScope) ([]models.Group, error)
	ListSubjectsForGroup(ctx context.Context, groupID string) ([]models.Subject, error)
}

// Directory lists the placeable resources: active teachers and rooms.
type Directory interface {
	ListActiveTeachers(ctx context.Context) ([]models.Teacher, error)
	ListRooms(ctx context.Context) ([]models.Room, error)
}

// Calendar lists the institution's weekly time slots.
type Calendar interface {
	ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error)
}

// AvailabilityStore lists teacher availability windows for a period.
type AvailabilityStore interface {
	ListAvailability(ctx context.Context, periodID string) ([]models.TeacherAvailability, error)
}

// RuleStore lists the constraint rules in force for a period.
type RuleStore interface {
	ListActiveRules(ctx context.Context, periodID string) ([]models.ConstraintRule, error)
}

// AssignmentSink persists generation output. DeleteByScope clears previous
// assignments for the scope before a rerun.
type AssignmentSink interface {
	DeleteByScope(ctx context.Context, scope models.GenerationScope) error
	Save(ctx context.Context, assignment *models.Assignment) error
}

// Config carries the tunables of the generation pass.
type Config struct {
	SessionHours      int
	DefaultDailyHours int
}

// Generator runs the greedy timetable construction over a generation scope.
type Generator struct {
	catalog      Catalog
	directory    Directory
	calendar     Calendar
	availability AvailabilityStore
	rules        RuleStore
	sink         AssignmentSink
	cfg          Config
}

// New wires a Generator from its collaborators.
func New(catalog Catalog, directory Directory, calendar Calendar, availability AvailabilityStore, rules RuleStore, sink AssignmentSink, cfg Config) *Generator {
	if cfg.SessionHours <= 0 {
		cfg.SessionHours = 2
	}
	if cfg.DefaultDailyHours <= 0 {
		cfg.DefaultDailyHours = 6
	}
	return &Generator{
		catalog:      catalog,
		directory:    directory,
		calendar:     calendar,
		availability: availability,
		rules:        rules,
		sink:         sink,
		cfg:          cfg,
	}
}

// Unresolved describes a class-session the run could not fully place.
type Unresolved struct {
	GroupID     string `json:"group_id"`
	GroupCode   string `json:"group_code"`
	SubjectID   string `json:"subject_id"`
	SubjectName string `json:"subject_name"`
	Required    int    `json:"required_sessions"`
	Committed   int    `json:"committed_sessions"`
	Shortfall   int    `json:"shortfall"`
}

// Result is the outcome of one generation run.
type Result struct {
	Scope      models.GenerationScope `json:"scope"`
	Committed  []models.Assignment    `json:"committed"`
	Unresolved []Unresolved           `json:"unresolved"`
	Stats      map[string]int         `json:"stats"`
	Warnings   []string               `json:"warnings"`
}

// GenerateForPeriod builds the timetable for every group in a period,
// replacing any previous assignments within the period.
func (g *Generator) GenerateForPeriod(ctx context.Context, periodID string) (*Result, error) {
	return g.run(ctx, models.PeriodScope(periodID))
}

// GenerateForCycle builds the timetable for the groups of one semester cycle
// within a period.
func (g *Generator) GenerateForCycle(ctx context.Context, periodID string, cycle int) (*Result, error) {
	return g.run(ctx, models.CycleScope(periodID, cycle))
}

// GenerateForGroup builds the timetable for a single group. The group's
// period provides the resource and rule context.
func (g *Generator) GenerateForGroup(ctx context.Context, groupID string) (*Result, error) {
	scope := models.GroupScope(groupID)
	group, err := g.catalog.FindGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrScopeNotFound, "group not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load group")
	}
	scope.PeriodID = group.PeriodID
	return g.run(ctx, scope)
}

// run executes the generation pipeline: load a snapshot, expand demand,
// clear the scope's previous output, then place class-sessions greedily in
// priority order. Scope resolution failures happen before any deletion, so a
// bad scope leaves existing assignments untouched.
func (g *Generator) run(ctx context.Context, scope models.GenerationScope) (*Result, error) {
	snap, err := g.loadSnapshot(ctx, scope.PeriodID)
	if err != nil {
		return nil, err
	}

	groups, err := g.catalog.ListGroups(ctx, scope)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load groups")
	}
	if scope.GroupID == "" && scope.Cycle != nil && len(groups) == 0 {
		return nil, appErrors.Clone(appErrors.ErrScopeNotFound, "no groups in cycle")
	}

	subjectsByGroup := make(map[string][]models.Subject, len(groups))
	for _, group := range groups {
		subjects, err := g.catalog.ListSubjectsForGroup(ctx, group.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load group subjects")
		}
		subjectsByGroup[group.ID] = subjects
	}

	if err := g.sink.DeleteByScope(ctx, scope); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear previous assignments")
	}

	sessions := BuildDemand(groups, subjectsByGroup, g.cfg.SessionHours)
	PrioritizeSessions(sessions)

	r := &run{snap: snap, tracker: NewTracker()}
	result := &Result{
		Scope:    scope,
		Stats:    make(map[string]int),
		Warnings: snap.Warnings,
	}

	for _, cs := range sessions {
		result.Stats["sessions_required"] += cs.Required
		for cs.Committed < cs.Required {
			best, ok := r.findBestAssignment(cs)
			if !ok {
				// A failed placement only gets harder as the tracker fills,
				// so remaining sessions of this pairing are abandoned now.
				break
			}

			assignment := models.Assignment{
				ID:        uuid.NewString(),
				PeriodID:  snap.Period.ID,
				GroupID:   cs.Group.ID,
				SubjectID: cs.Subject.ID,
				TeacherID: best.Teacher.ID,
				RoomID:    best.Room.ID,
				SlotID:    best.Slot.ID,
				DayOfWeek: best.Slot.DayOfWeek,
				Status:    models.AssignmentStatusScheduled,
				CreatedAt: time.Now().UTC(),
			}
			if err := g.sink.Save(ctx, &assignment); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save assignment")
			}

			r.tracker.Commit(best.Teacher.ID, best.Room.ID, cs.Group.ID, best.Slot.DayOfWeek, best.Slot.ID)
			cs.Committed++
			result.Committed = append(result.Committed, assignment)
		}

		result.Stats["sessions_committed"] += cs.Committed
		result.Stats["class_sessions_total"]++
		switch {
		case cs.Committed == cs.Required:
			result.Stats["class_sessions_full"]++
		case cs.Committed == 0:
			result.Stats["class_sessions_unplaced"]++
		default:
			result.Stats["class_sessions_partial"]++
		}

		if shortfall := cs.Shortfall(); shortfall > 0 {
			result.Unresolved = append(result.Unresolved, Unresolved{
				GroupID:     cs.Group.ID,
				GroupCode:   cs.Group.Code,
				SubjectID:   cs.Subject.ID,
				SubjectName: cs.Subject.Name,
				Required:    cs.Required,
				Committed:   cs.Committed,
				Shortfall:   shortfall,
			})
		}
	}

	result.Stats["sessions_unplaced"] = result.Stats["sessions_required"] - result.Stats["sessions_committed"]
	return result, nil
}
