package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/acadplan/timetable-api/internal/models"
)

// CatalogRepository provides access to the academic structure: periods,
// groups and the subjects each group's curriculum demands.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository creates a new catalog repository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// FindPeriod loads a period by id.
func (r *CatalogRepository) FindPeriod(ctx context.Context, periodID string) (*models.Period, error) {
	const query = `SELECT id, name, start_date, end_date, is_active, created_at, updated_at FROM periods WHERE id = $1`
	var period models.Period
	if err := r.db.GetContext(ctx, &period, query, periodID); err != nil {
		return nil, err
	}
	return &period, nil
}

// FindGroup loads a group by id.
func (r *CatalogRepository) FindGroup(ctx context.Context, groupID string) (*models.Group, error) {
	const query = `SELECT id, code, period_id, program_id, cycle, preferred_shift, enrollment, created_at, updated_at FROM groups WHERE id = $1`
	var group models.Group
	if err := r.db.GetContext(ctx, &group, query, groupID); err != nil {
		return nil, err
	}
	return &group, nil
}

// ListGroups returns the groups a generation scope targets, ordered by id so
// downstream processing is stable.
func (r *CatalogRepository) ListGroups(ctx context.Context, scope models.GenerationScope) ([]models.Group, error) {
	const base = `SELECT id, code, period_id, program_id, cycle, preferred_shift, enrollment, created_at, updated_at FROM groups`

	var (
		query string
		args  []interface{}
	)
	switch {
	case scope.GroupID != "":
		query = base + ` WHERE id = $1 ORDER BY id`
		args = []interface{}{scope.GroupID}
	case scope.Cycle != nil:
		query = base + ` WHERE period_id = $1 AND cycle = $2 ORDER BY id`
		args = []interface{}{scope.PeriodID, *scope.Cycle}
	default:
		query = base + ` WHERE period_id = $1 ORDER BY id`
		args = []interface{}{scope.PeriodID}
	}

	var groups []models.Group
	if err := r.db.SelectContext(ctx, &groups, query, args...); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// ListSubjectsForGroup returns the subjects on a group's curriculum with the
// instructional demand attached by the group_subjects link.
func (r *CatalogRepository) ListSubjectsForGroup(ctx context.Context, groupID string) ([]models.Subject, error) {
	const query = `
		SELECT s.id, s.code, s.name, gs.total_hours, s.required_room_type, s.required_specialties, s.created_at, s.updated_at
		FROM group_subjects gs
		JOIN subjects s ON s.id = gs.subject_id
		WHERE gs.group_id = $1
		ORDER BY s.id`
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, groupID); err != nil {
		return nil, fmt.Errorf("list subjects for group: %w", err)
	}
	return subjects, nil
}
