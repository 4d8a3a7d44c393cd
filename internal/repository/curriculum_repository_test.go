package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrvillar/campus-console-api/internal/models"
)

func newCurriculumRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestCurriculumRepositoryRequirementsOrdered(t *testing.T) {
	db, mock, cleanup := newCurriculumRepoMock(t)
	defer cleanup()
	repo := NewCurriculumRepository(db)

	rows := sqlmock.NewRows([]string{"curriculum_id", "course_id", "year_level", "semester", "position",
		"course_code", "description", "units"}).
		AddRow("curr-1", "course-math", 1, "1", 0, "MATH101", "Calculus I", 3).
		AddRow("curr-1", "course-eng", 1, "1", 1, "ENG101", "English I", 3)
	mock.ExpectQuery("FROM curriculum_requirements cr").
		WithArgs("curr-1").
		WillReturnRows(rows)

	requirements, err := repo.Requirements(context.Background(), "curr-1")
	require.NoError(t, err)
	require.Len(t, requirements, 2)
	assert.Equal(t, 0, requirements[0].Position)
	assert.Equal(t, "MATH101", requirements[0].CourseCode)
	assert.Equal(t, "course-eng", requirements[1].CourseID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCurriculumRepositoryReplaceRequirements(t *testing.T) {
	db, mock, cleanup := newCurriculumRepoMock(t)
	defer cleanup()
	repo := NewCurriculumRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM curriculum_requirements WHERE curriculum_id = $1")).
		WithArgs("curr-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO curriculum_requirements")).
		WithArgs("curr-1", "course-math", 1, "1", 0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO curriculum_requirements")).
		WithArgs("curr-1", "course-eng", 1, "2", 1).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	requirements := []models.CurriculumRequirement{
		{CourseID: "course-math", YearLevel: 1, Semester: "1", Position: 0},
		{CourseID: "course-eng", YearLevel: 1, Semester: "2", Position: 1},
	}
	require.NoError(t, repo.ReplaceRequirements(context.Background(), "curr-1", requirements))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCurriculumRepositoryList(t *testing.T) {
	db, mock, cleanup := newCurriculumRepoMock(t)
	defer cleanup()
	repo := NewCurriculumRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "program_id"}).
		AddRow("curr-1", "BSIT 2024", "prog-1")
	mock.ExpectQuery(regexp.QuoteMeta("FROM curricula WHERE program_id = $1")).
		WithArgs("prog-1").
		WillReturnRows(rows)

	curricula, err := repo.List(context.Background(), "prog-1")
	require.NoError(t, err)
	require.Len(t, curricula, 1)
	assert.Equal(t, "BSIT 2024", curricula[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
