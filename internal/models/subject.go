package models

import (
	"time"

	"github.com/lib/pq"
)

// Subject represents an academic subject as taught to one group: the catalog
// record plus the instructional demand the curriculum attaches to it.
type Subject struct {
	ID                  string         `db:"id" json:"id"`
	Code                string         `db:"code" json:"code"`
	Name                string         `db:"name" json:"name"`
	TotalHours          int            `db:"total_hours" json:"total_hours"`
	RequiredRoomType    *string        `db:"required_room_type" json:"required_room_type,omitempty"`
	RequiredSpecialties pq.StringArray `db:"required_specialties" json:"required_specialties"`
	CreatedAt           time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at" json:"updated_at"`
}
