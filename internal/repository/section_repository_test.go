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

func newSectionRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "postgres"), mock, func() { db.Close() }
}

var sectionCols = []string{"id", "name", "program_id", "semester", "year_level", "faculty_id", "course_id",
	"day_of_week", "start_minute", "end_minute", "room", "slot_status"}

func TestSectionRepositoryListAllMixedShapes(t *testing.T) {
	db, mock, cleanup := newSectionRepoMock(t)
	defer cleanup()
	repo := NewSectionRepository(db)

	rows := sqlmock.NewRows(sectionCols).
		AddRow("sec-1", "BSIT 1-A", "prog-1", "1", 1, nil, nil, nil, nil, nil, nil, nil).
		AddRow("legacy-1", "HIST 1-A", "prog-1", "1", 1, nil, "course-hist", "FRIDAY", 13*60, 14*60, "R-201", "ACTIVE")
	mock.ExpectQuery("FROM sections ORDER BY name ASC").
		WillReturnRows(rows)

	slotRows := sqlmock.NewRows([]string{"id", "section_id", "course_id", "day_of_week", "start_minute", "end_minute", "room", "status"}).
		AddRow("slot-1", "sec-1", "course-math", "MONDAY", 9*60, 10*60, "R-101", "ACTIVE")
	mock.ExpectQuery(regexp.QuoteMeta("FROM schedule_slots WHERE section_id IN ($1)")).
		WithArgs("sec-1").
		WillReturnRows(slotRows)

	records, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	// The canonical section carries its joined slots.
	assert.Nil(t, records[0].LegacySlot)
	require.Len(t, records[0].Slots, 1)
	assert.Equal(t, "slot-1", records[0].Slots[0].ID)

	// The legacy section surfaces its embedded schedule as LegacySlot and
	// is excluded from the slot join.
	require.NotNil(t, records[1].LegacySlot)
	assert.Equal(t, models.DayFriday, records[1].LegacySlot.Day)
	assert.Equal(t, 13*60, records[1].LegacySlot.StartMinute)
	assert.Empty(t, records[1].Slots)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newSectionRepoMock(t)
	defer cleanup()
	repo := NewSectionRepository(db)

	rows := sqlmock.NewRows(sectionCols).
		AddRow("sec-1", "BSIT 1-A", "prog-1", "1", 1, "fac-1", nil, nil, nil, nil, nil, nil)
	mock.ExpectQuery("FROM sections WHERE id = \\$1").
		WithArgs("sec-1").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("FROM schedule_slots WHERE section_id IN ($1)")).
		WithArgs("sec-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "section_id", "course_id", "day_of_week", "start_minute", "end_minute", "room", "status"}))

	rec, err := repo.FindByID(context.Background(), "sec-1")
	require.NoError(t, err)
	assert.Equal(t, "BSIT 1-A", rec.Name)
	require.NotNil(t, rec.FacultyID)
	assert.Equal(t, "fac-1", *rec.FacultyID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionRepositoryCreateSlot(t *testing.T) {
	db, mock, cleanup := newSectionRepoMock(t)
	defer cleanup()
	repo := NewSectionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schedule_slots")).
		WithArgs(sqlmock.AnyArg(), "sec-1", nil, "MONDAY", 9*60, 10*60, "R-101", "ACTIVE").
		WillReturnResult(sqlmock.NewResult(1, 1))

	slot := models.ScheduleSlot{
		SectionID:   "sec-1",
		Day:         models.DayMonday,
		StartMinute: 9 * 60,
		EndMinute:   10 * 60,
		Room:        "R-101",
		Status:      models.SlotStatusActive,
	}
	require.NoError(t, repo.CreateSlot(context.Background(), &slot))
	assert.NotEmpty(t, slot.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionRepositoryDeleteCascadesSlots(t *testing.T) {
	db, mock, cleanup := newSectionRepoMock(t)
	defer cleanup()
	repo := NewSectionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedule_slots WHERE section_id = $1")).
		WithArgs("sec-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sections WHERE id = $1")).
		WithArgs("sec-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), "sec-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
