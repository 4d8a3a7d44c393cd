package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jrvillar/campus-console-api/internal/models"
)

// CurriculumRepository handles persistence of curricula and their ordered
// requirement rows.
type CurriculumRepository struct {
	db *sqlx.DB
}

// NewCurriculumRepository constructs the repository.
func NewCurriculumRepository(db *sqlx.DB) *CurriculumRepository {
	return &CurriculumRepository{db: db}
}

// List returns curricula, optionally scoped to a program.
func (r *CurriculumRepository) List(ctx context.Context, programID string) ([]models.Curriculum, error) {
	query := `SELECT id, name, program_id FROM curricula`
	var args []interface{}
	if programID != "" {
		query += ` WHERE program_id = $1`
		args = append(args, programID)
	}
	query += ` ORDER BY name ASC`

	var curricula []models.Curriculum
	if err := r.db.SelectContext(ctx, &curricula, query, args...); err != nil {
		return nil, fmt.Errorf("list curricula: %w", err)
	}
	return curricula, nil
}

// FindByID returns a curriculum by its ID.
func (r *CurriculumRepository) FindByID(ctx context.Context, id string) (*models.Curriculum, error) {
	const query = `SELECT id, name, program_id FROM curricula WHERE id = $1`
	var curriculum models.Curriculum
	if err := r.db.GetContext(ctx, &curriculum, query, id); err != nil {
		return nil, err
	}
	return &curriculum, nil
}

// Requirements returns the curriculum's requirement rows in declaration
// order, enriched with course display fields.
func (r *CurriculumRepository) Requirements(ctx context.Context, curriculumID string) ([]models.CurriculumRequirement, error) {
	const query = `SELECT cr.curriculum_id, cr.course_id, cr.year_level, cr.semester, cr.position,
        COALESCE(c.code, '') AS course_code, COALESCE(c.description, '') AS description, COALESCE(c.units, 0) AS units
        FROM curriculum_requirements cr
        LEFT JOIN courses c ON c.id = cr.course_id
        WHERE cr.curriculum_id = $1
        ORDER BY cr.position ASC`
	var requirements []models.CurriculumRequirement
	if err := r.db.SelectContext(ctx, &requirements, query, curriculumID); err != nil {
		return nil, fmt.Errorf("list curriculum requirements: %w", err)
	}
	return requirements, nil
}

// ReplaceRequirements swaps the curriculum's requirement list atomically.
func (r *CurriculumRepository) ReplaceRequirements(ctx context.Context, curriculumID string, requirements []models.CurriculumRequirement) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace requirements: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM curriculum_requirements WHERE curriculum_id = $1`, curriculumID); err != nil {
		return fmt.Errorf("clear curriculum requirements: %w", err)
	}
	const insert = `INSERT INTO curriculum_requirements (curriculum_id, course_id, year_level, semester, position)
        VALUES ($1, $2, $3, $4, $5)`
	for _, req := range requirements {
		if _, err := tx.ExecContext(ctx, insert, curriculumID, req.CourseID, req.YearLevel, req.Semester, req.Position); err != nil {
			return fmt.Errorf("insert curriculum requirement: %w", err)
		}
	}
	return tx.Commit()
}
