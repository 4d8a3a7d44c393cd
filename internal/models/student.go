package models

import "time"

// Student represents an enrolled learner tied to a program and curriculum.
type Student struct {
	ID           string    `db:"id" json:"id"`
	Number       string    `db:"number" json:"number"`
	FullName     string    `db:"full_name" json:"full_name"`
	ProgramID    string    `db:"program_id" json:"program_id"`
	CurriculumID string    `db:"curriculum_id" json:"curriculum_id"`
	YearLevel    int       `db:"year_level" json:"year_level"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// StudentFilter captures filtering criteria for listing students.
type StudentFilter struct {
	ProgramID string
	YearLevel int
	Active    *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
