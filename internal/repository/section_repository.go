package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jrvillar/campus-console-api/internal/models"
)

// SectionRepository handles persistence of sections and their schedule slots.
// Two row shapes coexist in the sections table: canonical sections keep their
// timing in schedule_slots, legacy sections embed a single schedule in the
// day_of_week..slot_status columns and bind the course at section level. Both
// come out as SectionRecord and are normalized by the caller.
type SectionRepository struct {
	db *sqlx.DB
}

// NewSectionRepository constructs the repository.
func NewSectionRepository(db *sqlx.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

type sectionRow struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	ProgramID   string         `db:"program_id"`
	Semester    string         `db:"semester"`
	YearLevel   int            `db:"year_level"`
	FacultyID   sql.NullString `db:"faculty_id"`
	CourseID    sql.NullString `db:"course_id"`
	Day         sql.NullString `db:"day_of_week"`
	StartMinute sql.NullInt64  `db:"start_minute"`
	EndMinute   sql.NullInt64  `db:"end_minute"`
	Room        sql.NullString `db:"room"`
	SlotStatus  sql.NullString `db:"slot_status"`
}

const sectionColumns = `id, name, program_id, semester, year_level, faculty_id, course_id,
        day_of_week, start_minute, end_minute, room, slot_status`

func (row sectionRow) toRecord() models.SectionRecord {
	rec := models.SectionRecord{
		ID:        row.ID,
		Name:      row.Name,
		ProgramID: row.ProgramID,
		Semester:  row.Semester,
		YearLevel: row.YearLevel,
	}
	if row.FacultyID.Valid {
		v := row.FacultyID.String
		rec.FacultyID = &v
	}
	if row.CourseID.Valid {
		v := row.CourseID.String
		rec.CourseID = &v
	}
	if row.Day.Valid && row.StartMinute.Valid && row.EndMinute.Valid {
		status := models.SlotStatusActive
		if row.SlotStatus.Valid {
			status = models.SlotStatus(row.SlotStatus.String)
		}
		rec.LegacySlot = &models.ScheduleSlot{
			ID:          "legacy-" + row.ID,
			Day:         models.DayOfWeek(row.Day.String),
			StartMinute: int(row.StartMinute.Int64),
			EndMinute:   int(row.EndMinute.Int64),
			Room:        row.Room.String,
			Status:      status,
		}
	}
	return rec
}

// List returns section records filtered and paginated.
func (r *SectionRepository) List(ctx context.Context, filter models.SectionFilter) ([]models.SectionRecord, int, error) {
	var conditions []string
	var args []interface{}

	if filter.ProgramID != "" {
		conditions = append(conditions, fmt.Sprintf("program_id = $%d", len(args)+1))
		args = append(args, filter.ProgramID)
	}
	if filter.Semester != "" {
		conditions = append(conditions, fmt.Sprintf("semester = $%d", len(args)+1))
		args = append(args, filter.Semester)
	}
	if filter.YearLevel > 0 {
		conditions = append(conditions, fmt.Sprintf("year_level = $%d", len(args)+1))
		args = append(args, filter.YearLevel)
	}
	if filter.FacultyID != "" {
		conditions = append(conditions, fmt.Sprintf("faculty_id = $%d", len(args)+1))
		args = append(args, filter.FacultyID)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"name":       "name",
		"year_level": "year_level",
		"semester":   "semester",
	}
	orderBy := allowedSorts[filter.SortBy]
	if orderBy == "" {
		orderBy = "name"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s FROM sections%s ORDER BY %s %s LIMIT %d OFFSET %d",
		sectionColumns, clause, orderBy, order, size, offset)

	var rows []sectionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list sections: %w", err)
	}

	countQuery := "SELECT COUNT(*) FROM sections" + clause
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count sections: %w", err)
	}

	records, err := r.attachSlots(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ListAll returns every section record. This feeds the catalog snapshot, so
// no filtering or pagination applies.
func (r *SectionRepository) ListAll(ctx context.Context) ([]models.SectionRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM sections ORDER BY name ASC", sectionColumns)
	var rows []sectionRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list all sections: %w", err)
	}
	return r.attachSlots(ctx, rows)
}

// FindByID returns one section record with its slots.
func (r *SectionRepository) FindByID(ctx context.Context, id string) (*models.SectionRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM sections WHERE id = $1", sectionColumns)
	var row sectionRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	records, err := r.attachSlots(ctx, []sectionRow{row})
	if err != nil {
		return nil, err
	}
	return &records[0], nil
}

// attachSlots loads schedule_slots rows for every non-legacy section in one
// query and folds them into the records.
func (r *SectionRepository) attachSlots(ctx context.Context, rows []sectionRow) ([]models.SectionRecord, error) {
	records := make([]models.SectionRecord, 0, len(rows))
	var ids []string
	for _, row := range rows {
		rec := row.toRecord()
		if rec.LegacySlot == nil {
			ids = append(ids, rec.ID)
		}
		records = append(records, rec)
	}
	if len(ids) == 0 {
		return records, nil
	}

	query, args, err := sqlx.In(`SELECT id, section_id, course_id, day_of_week, start_minute, end_minute, room, status
        FROM schedule_slots WHERE section_id IN (?) ORDER BY day_of_week, start_minute`, ids)
	if err != nil {
		return nil, fmt.Errorf("build slot query: %w", err)
	}
	query = r.db.Rebind(query)

	var slots []models.ScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, query, args...); err != nil {
		return nil, fmt.Errorf("list schedule slots: %w", err)
	}

	bySection := make(map[string][]models.ScheduleSlot, len(ids))
	for _, slot := range slots {
		bySection[slot.SectionID] = append(bySection[slot.SectionID], slot)
	}
	for i := range records {
		if records[i].LegacySlot == nil {
			records[i].Slots = bySection[records[i].ID]
		}
	}
	return records, nil
}

// Create persists a new section without slots.
func (r *SectionRepository) Create(ctx context.Context, section *models.Section) error {
	if section.ID == "" {
		section.ID = uuid.NewString()
	}
	const query = `INSERT INTO sections (id, name, program_id, semester, year_level, faculty_id, course_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.db.ExecContext(ctx, query, section.ID, section.Name, section.ProgramID,
		section.Semester, section.YearLevel, section.FacultyID, section.CourseID, time.Now().UTC()); err != nil {
		return fmt.Errorf("create section: %w", err)
	}
	return nil
}

// Update modifies the descriptive fields of a section.
func (r *SectionRepository) Update(ctx context.Context, section *models.Section) error {
	const query = `UPDATE sections SET name = $2, semester = $3, year_level = $4, faculty_id = $5, course_id = $6, updated_at = $7
        WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, section.ID, section.Name, section.Semester,
		section.YearLevel, section.FacultyID, section.CourseID, time.Now().UTC()); err != nil {
		return fmt.Errorf("update section: %w", err)
	}
	return nil
}

// Delete removes a section and its slots.
func (r *SectionRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete section: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_slots WHERE section_id = $1`, id); err != nil {
		return fmt.Errorf("delete section slots: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sections WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	return tx.Commit()
}

// CreateSlot inserts a schedule slot.
func (r *SectionRepository) CreateSlot(ctx context.Context, slot *models.ScheduleSlot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	const query = `INSERT INTO schedule_slots (id, section_id, course_id, day_of_week, start_minute, end_minute, room, status)
        VALUES (:id, :section_id, :course_id, :day_of_week, :start_minute, :end_minute, :room, :status)`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("create slot: %w", err)
	}
	return nil
}

// UpdateSlot replaces the timing of an existing slot.
func (r *SectionRepository) UpdateSlot(ctx context.Context, slot *models.ScheduleSlot) error {
	const query = `UPDATE schedule_slots SET course_id = :course_id, day_of_week = :day_of_week,
        start_minute = :start_minute, end_minute = :end_minute, room = :room, status = :status
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("update slot: %w", err)
	}
	return nil
}

// DeleteSlot removes a slot.
func (r *SectionRepository) DeleteSlot(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedule_slots WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	return nil
}
