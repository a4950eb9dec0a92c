package models

import "time"

// Group is a cohort of students enrolled in one program cycle for a period.
type Group struct {
	ID             string    `db:"id" json:"id"`
	Code           string    `db:"code" json:"code"`
	PeriodID       string    `db:"period_id" json:"period_id"`
	ProgramID      string    `db:"program_id" json:"program_id"`
	Cycle          int       `db:"cycle" json:"cycle"`
	PreferredShift *Shift    `db:"preferred_shift" json:"preferred_shift,omitempty"`
	Enrollment     int       `db:"enrollment" json:"enrollment"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
