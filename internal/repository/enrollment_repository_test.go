package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrvillar/campus-console-api/internal/models"
)

func newEnrollmentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var enrollmentCols = []string{"id", "group_id", "student_id", "course_id", "section_id", "slot_id",
	"semester", "year", "status", "created_at", "dropped_at"}

func TestEnrollmentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO enrollments")).
		WithArgs(sqlmock.AnyArg(), "grp-1", "stu-1", "course-math", "sec-1", "slot-1",
			"1", 2026, "ENROLLED", sqlmock.AnyArg(), nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	slotID := "slot-1"
	enrollment := models.Enrollment{
		GroupID:   "grp-1",
		StudentID: "stu-1",
		CourseID:  "course-math",
		SectionID: "sec-1",
		SlotID:    &slotID,
		Semester:  "1",
		Year:      2026,
	}
	require.NoError(t, repo.Create(context.Background(), &enrollment))
	assert.NotEmpty(t, enrollment.ID)
	assert.Equal(t, models.EnrollmentStatusEnrolled, enrollment.Status)
	assert.False(t, enrollment.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryListActiveByStudent(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows(enrollmentCols).
		AddRow("enr-1", "grp-1", "stu-1", "course-math", "sec-1", "slot-1", "1", 2026, "ENROLLED", time.Now(), nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM enrollments WHERE student_id = $1 AND status = $2")).
		WithArgs("stu-1", models.EnrollmentStatusEnrolled).
		WillReturnRows(rows)

	enrollments, err := repo.ListActiveByStudent(context.Background(), "stu-1")
	require.NoError(t, err)
	require.Len(t, enrollments, 1)
	assert.Equal(t, "course-math", enrollments[0].CourseID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryListByGroup(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows(enrollmentCols).
		AddRow("enr-1", "grp-1", "stu-1", "course-math", "sec-1", nil, "1", 2026, "ENROLLED", time.Now(), nil).
		AddRow("enr-2", "grp-1", "stu-1", "course-eng", "sec-1", nil, "1", 2026, "DROPPED", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM enrollments WHERE group_id = $1")).
		WithArgs("grp-1").
		WillReturnRows(rows)

	enrollments, err := repo.ListByGroup(context.Background(), "grp-1")
	require.NoError(t, err)
	require.Len(t, enrollments, 2)
	assert.Nil(t, enrollments[0].SlotID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	droppedAt := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE enrollments SET status = $2, dropped_at = $3 WHERE id = $1")).
		WithArgs("enr-1", models.EnrollmentStatusDropped, &droppedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), "enr-1", models.EnrollmentStatusDropped, &droppedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	cols := append(append([]string{}, enrollmentCols...), "course_code", "section_name", "student_name")
	rows := sqlmock.NewRows(cols).
		AddRow("enr-1", "grp-1", "stu-1", "course-math", "sec-1", "slot-1", "1", 2026, "ENROLLED", time.Now(), nil,
			"MATH101", "BSIT 1-A", "Ana Reyes")
	mock.ExpectQuery("SELECT e.id, .+ FROM enrollments e").
		WithArgs("stu-1", models.EnrollmentStatusEnrolled).
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM enrollments e").
		WithArgs("stu-1", models.EnrollmentStatusEnrolled).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	enrollments, total, err := repo.List(context.Background(), models.EnrollmentFilter{
		StudentID: "stu-1",
		Status:    models.EnrollmentStatusEnrolled,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, enrollments, 1)
	assert.Equal(t, "MATH101", enrollments[0].CourseCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}
