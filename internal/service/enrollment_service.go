package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jrvillar/campus-console-api/internal/models"
	appErrors "github.com/jrvillar/campus-console-api/pkg/errors"
)

type enrollmentRepository interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	ListActiveByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error)
	ListByGroup(ctx context.Context, groupID string) ([]models.Enrollment, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus, droppedAt *time.Time) error
}

type catalogProvider interface {
	Snapshot(ctx context.Context) ([]models.Section, error)
}

type curriculumReader interface {
	Requirements(ctx context.Context, curriculumID string) ([]models.CurriculumRequirement, error)
}

type enrollmentStudentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// EnrollmentSelection is one (course, section, slot) choice submitted by a
// student. SlotID is empty for legacy direct-course sections.
type EnrollmentSelection struct {
	CourseID  string `json:"course_id" validate:"required"`
	SectionID string `json:"section_id"`
	SlotID    string `json:"slot_id"`
}

// EnrollRequest describes a single enrollment attempt.
type EnrollRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	CourseID  string `json:"course_id" validate:"required"`
	SectionID string `json:"section_id"`
	SlotID    string `json:"slot_id"`
	Semester  string `json:"semester" validate:"required"`
	Year      int    `json:"year" validate:"required"`
}

// BulkEnrollRequest submits several selections in one confirmation. Order is
// significant: selections are processed sequentially and later conflict
// checks see earlier commits.
type BulkEnrollRequest struct {
	StudentID  string                `json:"student_id" validate:"required"`
	Semester   string                `json:"semester" validate:"required"`
	Year       int                   `json:"year" validate:"required"`
	Selections []EnrollmentSelection `json:"selections" validate:"required,min=1,dive"`
}

// FailedSelection reports why one selection in a batch was rejected.
type FailedSelection struct {
	CourseID  string                `json:"course_id"`
	Reason    string                `json:"reason"`
	Detail    string                `json:"detail"`
	Conflicts []models.SlotConflict `json:"conflicts,omitempty"`
}

// BulkEnrollResult aggregates per-selection outcomes. A failure never aborts
// the rest of the batch and committed selections are never rolled back.
type BulkEnrollResult struct {
	Committed []models.Enrollment `json:"committed"`
	Failed    []FailedSelection   `json:"failed"`
}

// EnrollmentService orchestrates curriculum resolution and enroll/drop
// workflows. It is stateless between calls: every operation works on a
// catalog snapshot fetched at its start.
type EnrollmentService struct {
	repo      enrollmentRepository
	catalog   catalogProvider
	curricula curriculumReader
	students  enrollmentStudentReader
	validator *validator.Validate
	logger    *zap.Logger
	maxBulk   int
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, catalog catalogProvider, curricula curriculumReader, students enrollmentStudentReader, maxBulk int, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxBulk <= 0 {
		maxBulk = 12
	}
	return &EnrollmentService{repo: repo, catalog: catalog, curricula: curricula, students: students, maxBulk: maxBulk, validator: validate, logger: logger}
}

// List returns enrollments with pagination metadata.
func (s *EnrollmentService) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, *models.Pagination, error) {
	enrollments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
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
	return enrollments, pagination, nil
}

// AvailableCourses resolves the student's curriculum against the current
// catalog and returns the requirements still open for enrollment, each with
// its bookable (section, slot) candidates.
func (s *EnrollmentService) AvailableCourses(ctx context.Context, studentID, semester string) ([]models.EnrollableCourse, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "failed to load student")
	}
	curriculum, err := s.curricula.Requirements(ctx, student.CurriculumID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "failed to load curriculum")
	}
	catalog, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "failed to load catalog")
	}
	active, err := s.repo.ListActiveByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "failed to load enrollments")
	}
	return ResolveEnrollable(curriculum, catalog, active, semester), nil
}

// Enroll validates and commits a single enrollment. Rejections carry a typed
// reason; the only successful terminal state creates an ENROLLED row.
func (s *EnrollmentService) Enroll(ctx context.Context, req EnrollRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	catalog, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "failed to load catalog")
	}
	active, err := s.repo.ListActiveByStudent(ctx, req.StudentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "failed to load enrollments")
	}
	schedule := studentSchedule(catalog, active)
	enrollment, err := s.enrollOne(ctx, catalog, schedule, active, req.StudentID, req.Semester, req.Year, "", EnrollmentSelection{
		CourseID:  req.CourseID,
		SectionID: req.SectionID,
		SlotID:    req.SlotID,
	})
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}

// EnrollMany processes selections sequentially and independently: each
// selection is validated against a running snapshot that includes the
// commits made earlier in the same batch, and one rejection never aborts or
// rolls back the rest.
func (s *EnrollmentService) EnrollMany(ctx context.Context, req BulkEnrollRequest) (*BulkEnrollResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk enrollment payload")
	}
	if len(req.Selections) > s.maxBulk {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("at most %d selections per batch", s.maxBulk))
	}
	catalog, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "failed to load catalog")
	}
	active, err := s.repo.ListActiveByStudent(ctx, req.StudentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "failed to load enrollments")
	}

	groupID := newGroupID()
	schedule := studentSchedule(catalog, active)
	result := &BulkEnrollResult{Committed: []models.Enrollment{}, Failed: []FailedSelection{}}

	for _, selection := range req.Selections {
		enrollment, err := s.enrollOne(ctx, catalog, schedule, active, req.StudentID, req.Semester, req.Year, groupID, selection)
		if err != nil {
			result.Failed = append(result.Failed, failedSelection(selection.CourseID, err))
			continue
		}
		result.Committed = append(result.Committed, *enrollment)
		// Later selections must see this commit: fold the booked slot into
		// the running schedule and the active set before the next check.
		active = append(active, *enrollment)
		schedule = appendBookedSlot(schedule, catalog, *enrollment)
	}

	s.logger.Info("bulk enrollment processed",
		zap.String("student_id", req.StudentID),
		zap.Int("committed", len(result.Committed)),
		zap.Int("failed", len(result.Failed)))
	return result, nil
}

// Drop transitions an enrollment to DROPPED. With courseID only the matching
// row inside the enrollment group is dropped; without it every row sharing
// the group is dropped, which keeps the legacy one-course-per-section drop
// working.
func (s *EnrollmentService) Drop(ctx context.Context, enrollmentID, courseID string) ([]models.Enrollment, error) {
	enrollment, err := s.repo.FindByID(ctx, enrollmentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "failed to load enrollment")
	}
	rows, err := s.repo.ListByGroup(ctx, enrollment.GroupID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "failed to load enrollment group")
	}

	droppedAt := time.Now().UTC()
	var dropped []models.Enrollment
	for _, row := range rows {
		if row.Status != models.EnrollmentStatusEnrolled {
			continue
		}
		if courseID != "" && row.CourseID != courseID {
			continue
		}
		if err := s.repo.UpdateStatus(ctx, row.ID, models.EnrollmentStatusDropped, &droppedAt); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "failed to drop enrollment")
		}
		row.Status = models.EnrollmentStatusDropped
		row.DroppedAt = &droppedAt
		dropped = append(dropped, row)
	}
	if len(dropped) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no active enrollment matched the drop request")
	}
	return dropped, nil
}

// enrollOne runs the Selected -> Validating -> {Committed | Rejected} state
// machine for one selection against the supplied snapshots.
func (s *EnrollmentService) enrollOne(ctx context.Context, catalog, schedule []models.Section, active []models.Enrollment, studentID, semester string, year int, groupID string, selection EnrollmentSelection) (*models.Enrollment, error) {
	if selection.SectionID == "" {
		return nil, appErrors.Clone(appErrors.ErrNoSelection, fmt.Sprintf("no schedule selected for course %s", selection.CourseID))
	}

	section, chosen, err := findSelection(catalog, selection)
	if err != nil {
		return nil, err
	}

	if chosen != nil {
		if conflicts := FindGlobalConflicts(schedule, *chosen, ""); len(conflicts) > 0 {
			detail := &models.EnrollmentConflictError{
				Message:   fmt.Sprintf("%s %s collides with %d booked slot(s)", chosen.Day, chosen.TimeRange(), len(conflicts)),
				Conflicts: conflicts,
			}
			return nil, appErrors.Wrap(detail, appErrors.ErrScheduleConflict.Code, appErrors.ErrScheduleConflict.Status, detail.Message)
		}
		if dup := FindCourseScheduleConflict(catalog, section.ID, selection.CourseID, *chosen, chosen.ID); dup != nil {
			detail := &models.EnrollmentConflictError{
				Message:   fmt.Sprintf("course already meets %s %s in section %s", dup.Day, dup.TimeRange, section.Name),
				Conflicts: []models.SlotConflict{*dup},
			}
			return nil, appErrors.Wrap(detail, appErrors.ErrDuplicateCourseSchedule.Code, appErrors.ErrDuplicateCourseSchedule.Status, detail.Message)
		}
	}

	// Re-checked here, not only at resolution time, so a concurrent bulk
	// commit for the same course is caught before writing.
	for _, e := range active {
		if e.Status == models.EnrollmentStatusEnrolled && e.CourseID == selection.CourseID {
			return nil, appErrors.Clone(appErrors.ErrAlreadyEnrolled, fmt.Sprintf("already enrolled in course %s", selection.CourseID))
		}
	}

	if groupID == "" {
		groupID = newGroupID()
	}
	enrollment := &models.Enrollment{
		GroupID:   groupID,
		StudentID: studentID,
		CourseID:  selection.CourseID,
		SectionID: section.ID,
		Semester:  semester,
		Year:      year,
		Status:    models.EnrollmentStatusEnrolled,
		CreatedAt: time.Now().UTC(),
	}
	if chosen != nil {
		slotID := chosen.ID
		enrollment.SlotID = &slotID
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "failed to commit enrollment")
	}
	return enrollment, nil
}

// findSelection resolves the chosen section and slot from the snapshot. The
// slot is nil only for legacy direct-course sections that carry no timing.
func findSelection(catalog []models.Section, selection EnrollmentSelection) (*models.Section, *models.ScheduleSlot, error) {
	for i := range catalog {
		if catalog[i].ID != selection.SectionID {
			continue
		}
		section := &catalog[i]
		if selection.SlotID != "" {
			for _, slot := range section.Slots {
				if slot.ID == selection.SlotID {
					chosen := slot
					return section, &chosen, nil
				}
			}
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("slot %s not found in section %s", selection.SlotID, section.Name))
		}
		if matched := section.SlotsForCourse(selection.CourseID); len(matched) > 0 {
			chosen := matched[0]
			return section, &chosen, nil
		}
		return section, nil, nil
	}
	return nil, nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("section %s not found", selection.SectionID))
}

// studentSchedule projects the catalog down to the slots the student is
// actively enrolled in. This is the snapshot global conflict checks run
// against when booking: a new slot must not collide with anything already
// on the student's week.
func studentSchedule(catalog []models.Section, active []models.Enrollment) []models.Section {
	bySlot := make(map[string]struct{})
	legacyCourses := make(map[string]map[string]struct{})
	for _, e := range active {
		if e.Status != models.EnrollmentStatusEnrolled {
			continue
		}
		if e.SlotID != nil {
			bySlot[*e.SlotID] = struct{}{}
			continue
		}
		if legacyCourses[e.SectionID] == nil {
			legacyCourses[e.SectionID] = make(map[string]struct{})
		}
		legacyCourses[e.SectionID][e.CourseID] = struct{}{}
	}

	var schedule []models.Section
	for _, section := range catalog {
		var booked []models.ScheduleSlot
		for _, slot := range section.Slots {
			if _, ok := bySlot[slot.ID]; ok {
				booked = append(booked, slot)
				continue
			}
			if courses, ok := legacyCourses[section.ID]; ok {
				for courseID := range courses {
					if slotMatchesCourse(section, slot, courseID) {
						booked = append(booked, slot)
						break
					}
				}
			}
		}
		if len(booked) > 0 {
			projected := section
			projected.Slots = booked
			schedule = append(schedule, projected)
		}
	}
	return schedule
}

func slotMatchesCourse(section models.Section, slot models.ScheduleSlot, courseID string) bool {
	if slot.BoundTo(courseID) {
		return true
	}
	return slot.CourseID == nil && section.CourseID != nil && *section.CourseID == courseID
}

// appendBookedSlot folds a freshly committed enrollment into the running
// schedule snapshot used by the remainder of a bulk batch.
func appendBookedSlot(schedule, catalog []models.Section, enrollment models.Enrollment) []models.Section {
	var booked []models.ScheduleSlot
	var source *models.Section
	for i := range catalog {
		if catalog[i].ID == enrollment.SectionID {
			source = &catalog[i]
			break
		}
	}
	if source == nil {
		return schedule
	}
	if enrollment.SlotID != nil {
		for _, slot := range source.Slots {
			if slot.ID == *enrollment.SlotID {
				booked = append(booked, slot)
			}
		}
	} else {
		booked = source.SlotsForCourse(enrollment.CourseID)
	}
	if len(booked) == 0 {
		return schedule
	}

	for i := range schedule {
		if schedule[i].ID == enrollment.SectionID {
			schedule[i].Slots = append(schedule[i].Slots, booked...)
			return schedule
		}
	}
	projected := *source
	projected.Slots = booked
	return append(schedule, projected)
}

func failedSelection(courseID string, err error) FailedSelection {
	appErr := appErrors.FromError(err)
	failed := FailedSelection{CourseID: courseID, Reason: appErr.Code, Detail: appErr.Message}
	var conflictErr *models.EnrollmentConflictError
	if errors.As(err, &conflictErr) {
		failed.Conflicts = conflictErr.Conflicts
	}
	return failed
}

func newGroupID() string {
	return uuid.NewString()
}
