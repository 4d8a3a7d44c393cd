package models

import "time"

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses. Dropped rows are retained, never hard-deleted.
const (
	EnrollmentStatusEnrolled EnrollmentStatus = "ENROLLED"
	EnrollmentStatusDropped  EnrollmentStatus = "DROPPED"
)

// Enrollment links a student to a course through a chosen section and slot
// for one academic term. SlotID is nil for legacy direct-course sections.
// GroupID ties together rows confirmed in one action so the legacy
// one-course-per-section drop can retire them as a unit.
type Enrollment struct {
	ID        string           `db:"id" json:"id"`
	GroupID   string           `db:"group_id" json:"group_id"`
	StudentID string           `db:"student_id" json:"student_id"`
	CourseID  string           `db:"course_id" json:"course_id"`
	SectionID string           `db:"section_id" json:"section_id"`
	SlotID    *string          `db:"slot_id" json:"slot_id,omitempty"`
	Semester  string           `db:"semester" json:"semester"`
	Year      int              `db:"year" json:"year"`
	Status    EnrollmentStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	DroppedAt *time.Time       `db:"dropped_at" json:"dropped_at,omitempty"`
}

// EnrollmentDetail enriches Enrollment with catalog display fields.
type EnrollmentDetail struct {
	Enrollment
	CourseCode  string `db:"course_code" json:"course_code"`
	SectionName string `db:"section_name" json:"section_name"`
	StudentName string `db:"student_name" json:"student_name"`
}

// EnrollmentFilter provides filters for listing enrollments.
type EnrollmentFilter struct {
	StudentID string
	CourseID  string
	SectionID string
	Status    EnrollmentStatus
	Semester  string
	Year      int
	Page      int
	PageSize  int
}

// EnrollmentConflictError carries the slots that collide with a rejected
// booking so the caller can show the student what is in the way.
type EnrollmentConflictError struct {
	Message   string         `json:"message"`
	Conflicts []SlotConflict `json:"conflicts"`
}

// Error implements the error interface.
func (e *EnrollmentConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}
