package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/acadplan/timetable-api/internal/models"
)

// TimeSlotRepository provides access to the weekly slot grid.
type TimeSlotRepository struct {
	db *sqlx.DB
}

// NewTimeSlotRepository creates a new time slot repository.
func NewTimeSlotRepository(db *sqlx.DB) *TimeSlotRepository {
	return &TimeSlotRepository{db: db}
}

// ListTimeSlots returns every slot ordered by day and start time.
func (r *TimeSlotRepository) ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error) {
	const query = `SELECT id, label, day_of_week, start_time, end_time, shift FROM time_slots ORDER BY day_of_week ASC, start_time ASC`
	var slots []models.TimeSlot
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("list time slots: %w", err)
	}
	return slots, nil
}
