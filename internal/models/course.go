package models

import "time"

// Course is a catalog course owned by a program.
type Course struct {
	ID          string    `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Description string    `db:"description" json:"description"`
	Units       int       `db:"units" json:"units"`
	ProgramID   string    `db:"program_id" json:"program_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CourseFilter describes query params for listing courses.
type CourseFilter struct {
	ProgramID string
	Code      string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
