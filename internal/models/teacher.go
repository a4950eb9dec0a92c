package models

import (
	"time"

	"github.com/lib/pq"
)

// Teacher represents an instructor record with specialty tags.
type Teacher struct {
	ID          string         `db:"id" json:"id"`
	Code        string         `db:"code" json:"code"`
	FullName    string         `db:"full_name" json:"full_name"`
	Email       string         `db:"email" json:"email"`
	Specialties pq.StringArray `db:"specialties" json:"specialties"`
	Active      bool           `db:"active" json:"active"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// TeacherAvailability is one availability window of a teacher within a period.
// Preference ranks how much the teacher wants the slot; an absent record means
// the teacher is unavailable at that (day, slot).
type TeacherAvailability struct {
	TeacherID  string `db:"teacher_id" json:"teacher_id"`
	DayOfWeek  int    `db:"day_of_week" json:"day_of_week"`
	SlotID     string `db:"slot_id" json:"slot_id"`
	Preference int    `db:"preference" json:"preference"`
}
