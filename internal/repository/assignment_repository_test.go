package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadplan/timetable-api/internal/models"
)

func newAssignmentMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAssignmentRepositorySaveAssignsIDAndTimestamp(t *testing.T) {
	db, mock, cleanup := newAssignmentMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectExec("INSERT INTO timetable_assignments").
		WillReturnResult(sqlmock.NewResult(1, 1))

	assignment := &models.Assignment{
		PeriodID:  "p1",
		GroupID:   "g1",
		SubjectID: "s1",
		TeacherID: "t1",
		RoomID:    "r1",
		SlotID:    "sl1",
		DayOfWeek: 2,
		Status:    models.AssignmentStatusScheduled,
	}
	err := repo.Save(context.Background(), assignment)
	require.NoError(t, err)

	assert.NotEmpty(t, assignment.ID)
	assert.False(t, assignment.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryDeleteByScope(t *testing.T) {
	db, mock, cleanup := newAssignmentMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectExec(`DELETE FROM timetable_assignments WHERE period_id = \$1$`).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 12))
	err := repo.DeleteByScope(context.Background(), models.PeriodScope("p1"))
	require.NoError(t, err)

	mock.ExpectExec(`DELETE FROM timetable_assignments WHERE period_id = \$1 AND group_id IN`).
		WithArgs("p1", 3).
		WillReturnResult(sqlmock.NewResult(0, 4))
	err = repo.DeleteByScope(context.Background(), models.CycleScope("p1", 3))
	require.NoError(t, err)

	mock.ExpectExec(`DELETE FROM timetable_assignments WHERE group_id = \$1`).
		WithArgs("g1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	err = repo.DeleteByScope(context.Background(), models.GroupScope("g1"))
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryListDetailedByPeriod(t *testing.T) {
	db, mock, cleanup := newAssignmentMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "period_id", "group_id", "subject_id", "teacher_id", "room_id", "slot_id", "day_of_week", "status", "created_at",
		"group_code", "subject_name", "teacher_name", "room_name", "slot_label", "start_time", "end_time",
	}).AddRow("a1", "p1", "g1", "s1", "t1", "r1", "sl1", 1, "SCHEDULED", now,
		"G1", "Calculus", "Ada Vega", "A-101", "Mon 1", "07:30", "09:30")

	mock.ExpectQuery("SELECT a.id, .+ FROM timetable_assignments a").
		WithArgs("p1", "t1").
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM timetable_assignments a`).
		WithArgs("p1", "t1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	details, total, err := repo.ListDetailedByPeriod(context.Background(), "p1", AssignmentFilter{TeacherID: "t1"})
	require.NoError(t, err)

	assert.Equal(t, 1, total)
	require.Len(t, details, 1)
	assert.Equal(t, "Calculus", details[0].SubjectName)
	assert.Equal(t, "07:30", details[0].StartTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}
