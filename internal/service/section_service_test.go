package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jrvillar/campus-console-api/internal/models"
	appErrors "github.com/jrvillar/campus-console-api/pkg/errors"
)

type mockSectionRepo struct {
	records      map[string]models.SectionRecord
	createdSlot  *models.ScheduleSlot
	updatedSlot  *models.ScheduleSlot
	deletedSlots []string
}

func (m *mockSectionRepo) List(ctx context.Context, filter models.SectionFilter) ([]models.SectionRecord, int, error) {
	var records []models.SectionRecord
	for _, rec := range m.records {
		records = append(records, rec)
	}
	return records, len(records), nil
}

func (m *mockSectionRepo) FindByID(ctx context.Context, id string) (*models.SectionRecord, error) {
	if rec, ok := m.records[id]; ok {
		return &rec, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSectionRepo) Create(ctx context.Context, section *models.Section) error {
	if section.ID == "" {
		section.ID = "new-section"
	}
	if m.records == nil {
		m.records = make(map[string]models.SectionRecord)
	}
	m.records[section.ID] = models.SectionRecord{
		ID: section.ID, Name: section.Name, ProgramID: section.ProgramID,
		Semester: section.Semester, YearLevel: section.YearLevel,
		FacultyID: section.FacultyID, CourseID: section.CourseID,
	}
	return nil
}

func (m *mockSectionRepo) Update(ctx context.Context, section *models.Section) error {
	rec := m.records[section.ID]
	rec.Name = section.Name
	rec.Semester = section.Semester
	rec.YearLevel = section.YearLevel
	rec.FacultyID = section.FacultyID
	rec.CourseID = section.CourseID
	m.records[section.ID] = rec
	return nil
}

func (m *mockSectionRepo) Delete(ctx context.Context, id string) error {
	delete(m.records, id)
	return nil
}

func (m *mockSectionRepo) CreateSlot(ctx context.Context, slot *models.ScheduleSlot) error {
	if slot.ID == "" {
		slot.ID = "new-slot"
	}
	m.createdSlot = slot
	rec := m.records[slot.SectionID]
	rec.Slots = append(rec.Slots, *slot)
	m.records[slot.SectionID] = rec
	return nil
}

func (m *mockSectionRepo) UpdateSlot(ctx context.Context, slot *models.ScheduleSlot) error {
	m.updatedSlot = slot
	rec := m.records[slot.SectionID]
	for i := range rec.Slots {
		if rec.Slots[i].ID == slot.ID {
			rec.Slots[i] = *slot
		}
	}
	m.records[slot.SectionID] = rec
	return nil
}

func (m *mockSectionRepo) DeleteSlot(ctx context.Context, id string) error {
	m.deletedSlots = append(m.deletedSlots, id)
	return nil
}

type mockCatalogInvalidator struct {
	sections    []models.Section
	invalidated int
}

func (m *mockCatalogInvalidator) Snapshot(ctx context.Context) ([]models.Section, error) {
	return m.sections, nil
}

func (m *mockCatalogInvalidator) Invalidate(ctx context.Context) {
	m.invalidated++
}

func sectionFixture() *mockSectionRepo {
	math := "course-math"
	return &mockSectionRepo{records: map[string]models.SectionRecord{
		"sec-1": {
			ID: "sec-1", Name: "BSIT 1-A", ProgramID: "prog-1", Semester: "1", YearLevel: 1,
			Slots: []models.ScheduleSlot{
				{ID: "slot-1", SectionID: "sec-1", CourseID: &math, Day: models.DayMonday, StartMinute: 9 * 60, EndMinute: 10 * 60, Status: models.SlotStatusActive},
			},
		},
	}}
}

func catalogFromRepo(repo *mockSectionRepo) *mockCatalogInvalidator {
	var sections []models.Section
	for _, rec := range repo.records {
		sections = append(sections, models.NormalizeSection(rec))
	}
	return &mockCatalogInvalidator{sections: sections}
}

func TestSectionAddSlot(t *testing.T) {
	repo := sectionFixture()
	catalog := catalogFromRepo(repo)
	svc := NewSectionService(repo, catalog, nil, zap.NewNop())

	eng := "course-eng"
	slot, err := svc.AddSlot(context.Background(), "sec-1", SlotRequest{
		CourseID: &eng,
		Day:      "tuesday",
		Start:    "08:00",
		End:      "09:30",
		Room:     "R-102",
	})
	require.NoError(t, err)
	assert.Equal(t, models.DayTuesday, slot.Day)
	assert.Equal(t, 8*60, slot.StartMinute)
	assert.Equal(t, 9*60+30, slot.EndMinute)
	assert.Equal(t, models.SlotStatusActive, slot.Status)
	assert.NotNil(t, repo.createdSlot)
	assert.Equal(t, 1, catalog.invalidated)
}

func TestSectionAddSlotConflict(t *testing.T) {
	repo := sectionFixture()
	catalog := catalogFromRepo(repo)
	svc := NewSectionService(repo, catalog, nil, zap.NewNop())

	eng := "course-eng"
	_, err := svc.AddSlot(context.Background(), "sec-1", SlotRequest{
		CourseID: &eng,
		Day:      "MONDAY",
		Start:    "09:30",
		End:      "10:30",
	})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrScheduleConflict))
	assert.Nil(t, repo.createdSlot)
	assert.Zero(t, catalog.invalidated)
}

func TestSectionAddSlotBackToBack(t *testing.T) {
	repo := sectionFixture()
	catalog := catalogFromRepo(repo)
	svc := NewSectionService(repo, catalog, nil, zap.NewNop())

	eng := "course-eng"
	_, err := svc.AddSlot(context.Background(), "sec-1", SlotRequest{
		CourseID: &eng,
		Day:      "MONDAY",
		Start:    "10:00",
		End:      "11:00",
	})
	require.NoError(t, err)
}

func TestSectionAddSlotDuplicateCourse(t *testing.T) {
	repo := sectionFixture()
	catalog := catalogFromRepo(repo)
	svc := NewSectionService(repo, catalog, nil, zap.NewNop())

	math := "course-math"
	_, err := svc.AddSlot(context.Background(), "sec-1", SlotRequest{
		CourseID: &math,
		Day:      "MONDAY",
		Start:    "09:30",
		End:      "10:30",
	})
	require.Error(t, err)
	// The global scan fires first: the overlapping slot is active, so this
	// surfaces as a schedule conflict rather than a duplicate.
	assert.True(t, appErrors.HasCode(err, appErrors.ErrScheduleConflict))
}

func TestSectionAddSlotDuplicateCourseCancelledSlot(t *testing.T) {
	repo := sectionFixture()
	rec := repo.records["sec-1"]
	rec.Slots[0].Status = models.SlotStatusCancelled
	repo.records["sec-1"] = rec
	catalog := catalogFromRepo(repo)
	svc := NewSectionService(repo, catalog, nil, zap.NewNop())

	// The cancelled slot no longer triggers the global scan but still
	// counts as a duplicate meeting for the same course.
	math := "course-math"
	_, err := svc.AddSlot(context.Background(), "sec-1", SlotRequest{
		CourseID: &math,
		Day:      "MONDAY",
		Start:    "09:30",
		End:      "10:30",
	})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrDuplicateCourseSchedule))
}

func TestSectionAddSlotInvalidTiming(t *testing.T) {
	repo := sectionFixture()
	catalog := catalogFromRepo(repo)
	svc := NewSectionService(repo, catalog, nil, zap.NewNop())

	tests := []struct {
		name string
		req  SlotRequest
	}{
		{"end before start", SlotRequest{Day: "MONDAY", Start: "10:00", End: "09:00"}},
		{"zero length", SlotRequest{Day: "MONDAY", Start: "10:00", End: "10:00"}},
		{"unknown day", SlotRequest{Day: "FUNDAY", Start: "09:00", End: "10:00"}},
		{"bad time literal", SlotRequest{Day: "MONDAY", Start: "25:00", End: "26:00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddSlot(context.Background(), "sec-1", tt.req)
			require.Error(t, err)
			assert.True(t, appErrors.HasCode(err, appErrors.ErrInvalidSlot))
		})
	}
}

func TestSectionUpdateSlotExcludesSelf(t *testing.T) {
	repo := sectionFixture()
	catalog := catalogFromRepo(repo)
	svc := NewSectionService(repo, catalog, nil, zap.NewNop())

	// Shifting slot-1 within its own window must not self-conflict.
	math := "course-math"
	slot, err := svc.UpdateSlot(context.Background(), "sec-1", "slot-1", SlotRequest{
		CourseID: &math,
		Day:      "MONDAY",
		Start:    "09:15",
		End:      "10:15",
	})
	require.NoError(t, err)
	assert.Equal(t, "slot-1", slot.ID)
	assert.NotNil(t, repo.updatedSlot)
}

func TestSectionDeleteSlot(t *testing.T) {
	repo := sectionFixture()
	catalog := catalogFromRepo(repo)
	svc := NewSectionService(repo, catalog, nil, zap.NewNop())

	require.NoError(t, svc.DeleteSlot(context.Background(), "sec-1", "slot-1"))
	assert.Contains(t, repo.deletedSlots, "slot-1")
	assert.Equal(t, 1, catalog.invalidated)

	err := svc.DeleteSlot(context.Background(), "sec-1", "ghost")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}

func TestSectionCreateAndUpdate(t *testing.T) {
	repo := &mockSectionRepo{records: map[string]models.SectionRecord{}}
	catalog := &mockCatalogInvalidator{}
	svc := NewSectionService(repo, catalog, nil, zap.NewNop())

	created, err := svc.Create(context.Background(), CreateSectionRequest{
		Name: "1-2", ProgramID: "prog-1", Semester: "1", YearLevel: 1,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotNil(t, created.Slots)

	updated, err := svc.Update(context.Background(), created.ID, UpdateSectionRequest{
		Name: "1-3", Semester: "2", YearLevel: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "1-3", updated.Name)
	assert.Equal(t, 2, catalog.invalidated)
}

func TestSectionFindNotFound(t *testing.T) {
	repo := &mockSectionRepo{}
	svc := NewSectionService(repo, &mockCatalogInvalidator{}, nil, zap.NewNop())

	_, err := svc.Find(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}
