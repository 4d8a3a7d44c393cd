package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jrvillar/campus-console-api/internal/models"
	appErrors "github.com/jrvillar/campus-console-api/pkg/errors"
)

type sectionRepository interface {
	List(ctx context.Context, filter models.SectionFilter) ([]models.SectionRecord, int, error)
	FindByID(ctx context.Context, id string) (*models.SectionRecord, error)
	Create(ctx context.Context, section *models.Section) error
	Update(ctx context.Context, section *models.Section) error
	Delete(ctx context.Context, id string) error
	CreateSlot(ctx context.Context, slot *models.ScheduleSlot) error
	UpdateSlot(ctx context.Context, slot *models.ScheduleSlot) error
	DeleteSlot(ctx context.Context, id string) error
}

type catalogInvalidator interface {
	Snapshot(ctx context.Context) ([]models.Section, error)
	Invalidate(ctx context.Context)
}

// CreateSectionRequest describes payload for creating a section.
type CreateSectionRequest struct {
	Name      string  `json:"name" validate:"required"`
	ProgramID string  `json:"program_id" validate:"required"`
	Semester  string  `json:"semester" validate:"required"`
	YearLevel int     `json:"year_level" validate:"required,min=1"`
	FacultyID *string `json:"faculty_id"`
	CourseID  *string `json:"course_id"`
}

// UpdateSectionRequest updates an existing section.
type UpdateSectionRequest struct {
	Name      string  `json:"name" validate:"required"`
	Semester  string  `json:"semester" validate:"required"`
	YearLevel int     `json:"year_level" validate:"required,min=1"`
	FacultyID *string `json:"faculty_id"`
	CourseID  *string `json:"course_id"`
}

// SlotRequest describes payload for adding or updating a schedule slot.
type SlotRequest struct {
	CourseID *string `json:"course_id"`
	Day      string  `json:"day_of_week" validate:"required"`
	Start    string  `json:"start_time" validate:"required"`
	End      string  `json:"end_time" validate:"required"`
	Room     string  `json:"room"`
	Status   string  `json:"status"`
}

// SectionService manages sections and their schedule slots. Every slot write
// is conflict-checked against the full catalog before persisting and
// invalidates the catalog snapshot afterwards.
type SectionService struct {
	repo      sectionRepository
	catalog   catalogInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSectionService constructs SectionService.
func NewSectionService(repo sectionRepository, catalog catalogInvalidator, validate *validator.Validate, logger *zap.Logger) *SectionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SectionService{repo: repo, catalog: catalog, validator: validate, logger: logger}
}

// List returns sections with pagination metadata, normalized.
func (s *SectionService) List(ctx context.Context, filter models.SectionFilter) ([]models.Section, *models.Pagination, error) {
	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sections")
	}
	sections := make([]models.Section, 0, len(records))
	for _, rec := range records {
		sections = append(sections, models.NormalizeSection(rec))
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return sections, pagination, nil
}

// Find returns one section in canonical form.
func (s *SectionService) Find(ctx context.Context, id string) (*models.Section, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "section not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section")
	}
	section := models.NormalizeSection(*rec)
	return &section, nil
}

// Create inserts a new section without slots (timing may stay TBA).
func (s *SectionService) Create(ctx context.Context, req CreateSectionRequest) (*models.Section, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid section payload")
	}
	section := models.Section{
		Name:      req.Name,
		ProgramID: req.ProgramID,
		Semester:  req.Semester,
		YearLevel: req.YearLevel,
		FacultyID: req.FacultyID,
		CourseID:  req.CourseID,
		Slots:     []models.ScheduleSlot{},
	}
	if err := s.repo.Create(ctx, &section); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create section")
	}
	s.catalog.Invalidate(ctx)
	return &section, nil
}

// Update modifies an existing section's descriptive fields.
func (s *SectionService) Update(ctx context.Context, id string, req UpdateSectionRequest) (*models.Section, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid section payload")
	}
	existing, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.Name = req.Name
	existing.Semester = req.Semester
	existing.YearLevel = req.YearLevel
	existing.FacultyID = req.FacultyID
	existing.CourseID = req.CourseID
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update section")
	}
	s.catalog.Invalidate(ctx)
	return existing, nil
}

// Delete removes a section.
func (s *SectionService) Delete(ctx context.Context, id string) error {
	if _, err := s.Find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete section")
	}
	s.catalog.Invalidate(ctx)
	return nil
}

// AddSlot validates, conflict-checks and persists a new schedule slot.
func (s *SectionService) AddSlot(ctx context.Context, sectionID string, req SlotRequest) (*models.ScheduleSlot, error) {
	return s.writeSlot(ctx, sectionID, "", req)
}

// UpdateSlot replaces an existing slot's timing, excluding the slot itself
// from conflict scans.
func (s *SectionService) UpdateSlot(ctx context.Context, sectionID, slotID string, req SlotRequest) (*models.ScheduleSlot, error) {
	if slotID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "slot id required")
	}
	return s.writeSlot(ctx, sectionID, slotID, req)
}

// DeleteSlot removes a slot from a section.
func (s *SectionService) DeleteSlot(ctx context.Context, sectionID, slotID string) error {
	section, err := s.Find(ctx, sectionID)
	if err != nil {
		return err
	}
	found := false
	for _, slot := range section.Slots {
		if slot.ID == slotID {
			found = true
			break
		}
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "slot not found in section")
	}
	if err := s.repo.DeleteSlot(ctx, slotID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete slot")
	}
	s.catalog.Invalidate(ctx)
	return nil
}

func (s *SectionService) writeSlot(ctx context.Context, sectionID, slotID string, req SlotRequest) (*models.ScheduleSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload")
	}
	if _, err := s.Find(ctx, sectionID); err != nil {
		return nil, err
	}

	start, err := models.ParseMinute(req.Start)
	if err != nil {
		return nil, err
	}
	end, err := models.ParseMinute(req.End)
	if err != nil {
		return nil, err
	}
	status := models.SlotStatus(strings.ToUpper(req.Status))
	if req.Status == "" {
		status = models.SlotStatusActive
	}
	slot, err := models.NewScheduleSlot(slotID, sectionID, req.CourseID, models.DayOfWeek(strings.ToUpper(req.Day)), start, end, req.Room, status)
	if err != nil {
		return nil, err
	}

	catalog, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if conflicts := FindGlobalConflicts(catalog, slot, slotID); len(conflicts) > 0 {
		detail := &models.EnrollmentConflictError{
			Message:   fmt.Sprintf("%s %s collides with %d existing slot(s)", slot.Day, slot.TimeRange(), len(conflicts)),
			Conflicts: conflicts,
		}
		return nil, appErrors.Wrap(detail, appErrors.ErrScheduleConflict.Code, appErrors.ErrScheduleConflict.Status, detail.Message)
	}
	if req.CourseID != nil {
		if dup := FindCourseScheduleConflict(catalog, sectionID, *req.CourseID, slot, slotID); dup != nil {
			detail := &models.EnrollmentConflictError{
				Message:   fmt.Sprintf("course already meets %s %s in this section", dup.Day, dup.TimeRange),
				Conflicts: []models.SlotConflict{*dup},
			}
			return nil, appErrors.Wrap(detail, appErrors.ErrDuplicateCourseSchedule.Code, appErrors.ErrDuplicateCourseSchedule.Status, detail.Message)
		}
	}

	if slotID == "" {
		if err := s.repo.CreateSlot(ctx, &slot); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create slot")
		}
	} else {
		if err := s.repo.UpdateSlot(ctx, &slot); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update slot")
		}
	}
	s.catalog.Invalidate(ctx)
	return &slot, nil
}
