package models

// Section is a scheduled offering group under a program (named "<year>-<ordinal>"
// by convention, e.g. "1-2") owning an ordered collection of schedule slots.
// A section with many slots hosts more than one timed course offering under
// one label; a section with no slots has no timing yet (TBA).
type Section struct {
	ID        string         `db:"id" json:"id"`
	Name      string         `db:"name" json:"name"`
	ProgramID string         `db:"program_id" json:"program_id"`
	Semester  string         `db:"semester" json:"semester"`
	YearLevel int            `db:"year_level" json:"year_level"`
	FacultyID *string        `db:"faculty_id" json:"faculty_id,omitempty"`
	CourseID  *string        `db:"course_id" json:"course_id,omitempty"`
	Slots     []ScheduleSlot `json:"slots"`
}

// SectionRecord is the raw catalog shape before normalization. Exactly one of
// Slots or LegacySlot is populated: older records embed a single schedule
// directly on the section and bind the course at section level.
type SectionRecord struct {
	ID         string
	Name       string
	ProgramID  string
	Semester   string
	YearLevel  int
	FacultyID  *string
	CourseID   *string
	Slots      []ScheduleSlot
	LegacySlot *ScheduleSlot
}

// NormalizeSection folds both catalog shapes into the canonical Section. The
// result always exposes an ordered (possibly empty) slot slice; nothing
// downstream ever branches on which shape the record arrived in.
func NormalizeSection(rec SectionRecord) Section {
	section := Section{
		ID:        rec.ID,
		Name:      rec.Name,
		ProgramID: rec.ProgramID,
		Semester:  rec.Semester,
		YearLevel: rec.YearLevel,
		FacultyID: rec.FacultyID,
		CourseID:  rec.CourseID,
	}
	switch {
	case rec.LegacySlot != nil:
		slot := *rec.LegacySlot
		slot.SectionID = rec.ID
		section.Slots = []ScheduleSlot{slot}
	case len(rec.Slots) > 0:
		section.Slots = make([]ScheduleSlot, len(rec.Slots))
		copy(section.Slots, rec.Slots)
	default:
		section.Slots = []ScheduleSlot{}
	}
	return section
}

// HasMultipleSlots reports whether the section offers more than one timed
// occurrence.
func (s Section) HasMultipleSlots() bool {
	return len(s.Slots) > 1
}

// SlotsForCourse returns the slots bound to the course by identity. Legacy
// sections bind the course at section level and leave slots unbound; for
// those, all slots match when the section's own course does.
func (s Section) SlotsForCourse(courseID string) []ScheduleSlot {
	var matched []ScheduleSlot
	for _, slot := range s.Slots {
		if slot.BoundTo(courseID) {
			matched = append(matched, slot)
			continue
		}
		if slot.CourseID == nil && s.CourseID != nil && *s.CourseID == courseID {
			matched = append(matched, slot)
		}
	}
	return matched
}

// SectionFilter provides filters for listing sections.
type SectionFilter struct {
	ProgramID string
	Semester  string
	YearLevel int
	FacultyID string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
