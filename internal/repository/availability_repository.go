package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/acadplan/timetable-api/internal/models"
)

// AvailabilityRepository provides access to teacher availability windows.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository creates a new availability repository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// ListAvailability returns every availability window declared for a period.
func (r *AvailabilityRepository) ListAvailability(ctx context.Context, periodID string) ([]models.TeacherAvailability, error) {
	const query = `SELECT teacher_id, day_of_week, slot_id, preference FROM teacher_availability WHERE period_id = $1`
	var windows []models.TeacherAvailability
	if err := r.db.SelectContext(ctx, &windows, query, periodID); err != nil {
		return nil, fmt.Errorf("list teacher availability: %w", err)
	}
	return windows, nil
}
