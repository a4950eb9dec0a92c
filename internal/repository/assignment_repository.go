package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/acadplan/timetable-api/internal/models"
)

// AssignmentFilter narrows detailed assignment listings.
type AssignmentFilter struct {
	GroupID   string
	TeacherID string
	DayOfWeek int
	Page      int
	PageSize  int
}

// AssignmentRepository provides persistence for committed placements.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository creates a new assignment repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Save stores a committed assignment.
func (r *AssignmentRepository) Save(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO timetable_assignments (id, period_id, group_id, subject_id, teacher_id, room_id, slot_id, day_of_week, status, created_at) VALUES (:id, :period_id, :group_id, :subject_id, :teacher_id, :room_id, :slot_id, :day_of_week, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("save assignment: %w", err)
	}
	return nil
}

// DeleteByScope removes every assignment a generation scope targets, making
// regeneration an idempotent replace.
func (r *AssignmentRepository) DeleteByScope(ctx context.Context, scope models.GenerationScope) error {
	var (
		query string
		args  []interface{}
	)
	switch {
	case scope.GroupID != "":
		query = `DELETE FROM timetable_assignments WHERE group_id = $1`
		args = []interface{}{scope.GroupID}
	case scope.Cycle != nil:
		query = `DELETE FROM timetable_assignments WHERE period_id = $1 AND group_id IN (SELECT id FROM groups WHERE period_id = $1 AND cycle = $2)`
		args = []interface{}{scope.PeriodID, *scope.Cycle}
	default:
		query = `DELETE FROM timetable_assignments WHERE period_id = $1`
		args = []interface{}{scope.PeriodID}
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete assignments by scope: %w", err)
	}
	return nil
}

const assignmentDetailColumns = `a.id, a.period_id, a.group_id, a.subject_id, a.teacher_id, a.room_id, a.slot_id, a.day_of_week, a.status, a.created_at,
	g.code AS group_code, s.name AS subject_name, t.full_name AS teacher_name, r.name AS room_name,
	sl.label AS slot_label, sl.start_time, sl.end_time`

const assignmentDetailJoins = `FROM timetable_assignments a
	JOIN groups g ON g.id = a.group_id
	JOIN subjects s ON s.id = a.subject_id
	JOIN teachers t ON t.id = a.teacher_id
	JOIN rooms r ON r.id = a.room_id
	JOIN time_slots sl ON sl.id = a.slot_id`

// ListDetailedByPeriod returns a period's assignments joined with display
// data, filtered and paginated.
func (r *AssignmentRepository) ListDetailedByPeriod(ctx context.Context, periodID string, filter AssignmentFilter) ([]models.AssignmentDetail, int, error) {
	base := assignmentDetailJoins + " WHERE a.period_id = $1"
	args := []interface{}{periodID}

	var conditions []string
	if filter.GroupID != "" {
		conditions = append(conditions, fmt.Sprintf("a.group_id = $%d", len(args)+1))
		args = append(args, filter.GroupID)
	}
	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("a.teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.DayOfWeek > 0 {
		conditions = append(conditions, fmt.Sprintf("a.day_of_week = $%d", len(args)+1))
		args = append(args, filter.DayOfWeek)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY a.day_of_week ASC, sl.start_time ASC, g.code ASC LIMIT %d OFFSET %d", assignmentDetailColumns, base, size, offset)
	var details []models.AssignmentDetail
	if err := r.db.SelectContext(ctx, &details, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list assignments by period: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count assignments by period: %w", err)
	}

	return details, total, nil
}

// ListDetailedByGroup returns a group's full weekly timetable ordered by day
// and start time.
func (r *AssignmentRepository) ListDetailedByGroup(ctx context.Context, groupID string) ([]models.AssignmentDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE a.group_id = $1 ORDER BY a.day_of_week ASC, sl.start_time ASC", assignmentDetailColumns, assignmentDetailJoins)
	var details []models.AssignmentDetail
	if err := r.db.SelectContext(ctx, &details, query, groupID); err != nil {
		return nil, fmt.Errorf("list assignments by group: %w", err)
	}
	return details, nil
}

// ListDetailedByTeacher returns a teacher's weekly timetable across all
// groups of a period.
func (r *AssignmentRepository) ListDetailedByTeacher(ctx context.Context, periodID, teacherID string) ([]models.AssignmentDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE a.period_id = $1 AND a.teacher_id = $2 ORDER BY a.day_of_week ASC, sl.start_time ASC", assignmentDetailColumns, assignmentDetailJoins)
	var details []models.AssignmentDetail
	if err := r.db.SelectContext(ctx, &details, query, periodID, teacherID); err != nil {
		return nil, fmt.Errorf("list assignments by teacher: %w", err)
	}
	return details, nil
}
