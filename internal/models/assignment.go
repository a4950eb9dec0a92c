package models

import "time"

// AssignmentStatusScheduled is the status written for every committed assignment.
const AssignmentStatusScheduled = "SCHEDULED"

// Assignment is one committed (group, subject, teacher, room, slot) placement.
// Immutable once written; regeneration deletes and rewrites the whole scope.
type Assignment struct {
	ID        string    `db:"id" json:"id"`
	PeriodID  string    `db:"period_id" json:"period_id"`
	GroupID   string    `db:"group_id" json:"group_id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	RoomID    string    `db:"room_id" json:"room_id"`
	SlotID    string    `db:"slot_id" json:"slot_id"`
	DayOfWeek int       `db:"day_of_week" json:"day_of_week"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AssignmentDetail joins an assignment with display data for listings/exports.
type AssignmentDetail struct {
	Assignment
	GroupCode   string `db:"group_code" json:"group_code"`
	SubjectName string `db:"subject_name" json:"subject_name"`
	TeacherName string `db:"teacher_name" json:"teacher_name"`
	RoomName    string `db:"room_name" json:"room_name"`
	SlotLabel   string `db:"slot_label" json:"slot_label"`
	StartTime   string `db:"start_time" json:"start_time"`
	EndTime     string `db:"end_time" json:"end_time"`
}
