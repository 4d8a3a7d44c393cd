package models

// SemesterAll bypasses semester filtering during curriculum resolution.
const SemesterAll = "all"

// Curriculum groups an ordered set of course requirements for a program.
type Curriculum struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	ProgramID string `db:"program_id" json:"program_id"`
}

// CurriculumRequirement is one (course, year, semester) tuple a student must
// satisfy under a curriculum. Unique per (curriculum, course); Position
// preserves declaration order.
type CurriculumRequirement struct {
	CurriculumID string `db:"curriculum_id" json:"curriculum_id"`
	CourseID     string `db:"course_id" json:"course_id"`
	CourseCode   string `db:"course_code" json:"course_code"`
	Description  string `db:"description" json:"description"`
	Units        int    `db:"units" json:"units"`
	YearLevel    int    `db:"year_level" json:"year_level"`
	Semester     string `db:"semester" json:"semester"`
	Position     int    `db:"position" json:"position"`
}

// CandidateSlot pairs a bookable slot with its owning section for an
// enrollable course.
type CandidateSlot struct {
	Section Section      `json:"section"`
	Slot    ScheduleSlot `json:"slot"`
}

// EnrollableCourse is one unsatisfied curriculum requirement together with
// every bookable (section, slot) pair currently offered for it. A requirement
// with no offering is still surfaced with an empty candidate list.
type EnrollableCourse struct {
	CourseID       string          `json:"course_id"`
	CourseCode     string          `json:"course_code"`
	Description    string          `json:"description"`
	Units          int             `json:"units"`
	YearLevel      int             `json:"year_level"`
	Semester       string          `json:"semester"`
	CandidateSlots []CandidateSlot `json:"candidate_slots"`
}
