package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/acadplan/timetable-api/internal/models"
)

// TeacherRepository provides access to instructor records.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository creates a new teacher repository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// ListActiveTeachers returns every active teacher with specialty tags.
func (r *TeacherRepository) ListActiveTeachers(ctx context.Context) ([]models.Teacher, error) {
	const query = `SELECT id, code, full_name, email, specialties, active, created_at, updated_at FROM teachers WHERE active = TRUE ORDER BY id`
	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, query); err != nil {
		return nil, fmt.Errorf("list active teachers: %w", err)
	}
	return teachers, nil
}
