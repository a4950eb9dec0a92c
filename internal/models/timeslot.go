package models

// TimeSlot is a discrete teaching period on one day of the week.
// Slots are immutable reference data uniquely keyed by (day, start, end).
type TimeSlot struct {
	ID        string `db:"id" json:"id"`
	Label     string `db:"label" json:"label"`
	DayOfWeek int    `db:"day_of_week" json:"day_of_week"`
	StartTime string `db:"start_time" json:"start_time"`
	EndTime   string `db:"end_time" json:"end_time"`
	Shift     Shift  `db:"shift" json:"shift"`
}
