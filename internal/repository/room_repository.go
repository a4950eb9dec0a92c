package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/acadplan/timetable-api/internal/models"
)

// RoomRepository provides access to teaching spaces.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository creates a new room repository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// ListRooms returns every room.
func (r *RoomRepository) ListRooms(ctx context.Context) ([]models.Room, error) {
	const query = `SELECT id, name, capacity, room_type, created_at, updated_at FROM rooms ORDER BY id`
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}
