package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jrvillar/campus-console-api/internal/models"
	appErrors "github.com/jrvillar/campus-console-api/pkg/errors"
)

type curriculumRepository interface {
	List(ctx context.Context, programID string) ([]models.Curriculum, error)
	FindByID(ctx context.Context, id string) (*models.Curriculum, error)
	Requirements(ctx context.Context, curriculumID string) ([]models.CurriculumRequirement, error)
	ReplaceRequirements(ctx context.Context, curriculumID string, requirements []models.CurriculumRequirement) error
}

// CurriculumRequirementInput is one requirement row in declaration order.
type CurriculumRequirementInput struct {
	CourseID  string `json:"course_id" validate:"required"`
	YearLevel int    `json:"year_level" validate:"required,min=1"`
	Semester  string `json:"semester" validate:"required"`
}

// SetRequirementsRequest replaces a curriculum's requirement list.
type SetRequirementsRequest struct {
	Requirements []CurriculumRequirementInput `json:"requirements" validate:"required,min=1,dive"`
}

// CurriculumService handles curriculum and requirement workflows.
type CurriculumService struct {
	repo      curriculumRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCurriculumService creates a new curriculum service.
func NewCurriculumService(repo curriculumRepository, validate *validator.Validate, logger *zap.Logger) *CurriculumService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CurriculumService{repo: repo, validator: validate, logger: logger}
}

// List returns curricula, optionally filtered by program.
func (s *CurriculumService) List(ctx context.Context, programID string) ([]models.Curriculum, error) {
	curricula, err := s.repo.List(ctx, programID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list curricula")
	}
	return curricula, nil
}

// Requirements returns the ordered requirement rows of a curriculum.
func (s *CurriculumService) Requirements(ctx context.Context, curriculumID string) ([]models.CurriculumRequirement, error) {
	if _, err := s.repo.FindByID(ctx, curriculumID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "curriculum not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load curriculum")
	}
	requirements, err := s.repo.Requirements(ctx, curriculumID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load requirements")
	}
	return requirements, nil
}

// SetRequirements replaces the requirement list preserving declaration order
// and rejecting duplicate courses.
func (s *CurriculumService) SetRequirements(ctx context.Context, curriculumID string, req SetRequirementsRequest) ([]models.CurriculumRequirement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid requirements payload")
	}
	if _, err := s.repo.FindByID(ctx, curriculumID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "curriculum not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load curriculum")
	}

	seen := make(map[string]struct{}, len(req.Requirements))
	rows := make([]models.CurriculumRequirement, 0, len(req.Requirements))
	for i, input := range req.Requirements {
		if _, dup := seen[input.CourseID]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, "duplicate course in requirements")
		}
		seen[input.CourseID] = struct{}{}
		rows = append(rows, models.CurriculumRequirement{
			CurriculumID: curriculumID,
			CourseID:     input.CourseID,
			YearLevel:    input.YearLevel,
			Semester:     input.Semester,
			Position:     i,
		})
	}
	if err := s.repo.ReplaceRequirements(ctx, curriculumID, rows); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save requirements")
	}
	return rows, nil
}
