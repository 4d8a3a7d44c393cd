package service

import (
	"github.com/jrvillar/campus-console-api/internal/models"
)

// ResolveEnrollable matches a student's curriculum against the catalog
// snapshot and returns, in curriculum declaration order, every requirement
// not yet satisfied by an active enrollment together with its bookable
// (section, slot) candidates.
//
// Requirements with no current offering are kept with an empty candidate
// list: the curriculum view stays complete and the caller can render "no
// schedule available yet" instead of silently dropping a required course.
func ResolveEnrollable(curriculum []models.CurriculumRequirement, catalog []models.Section, active []models.Enrollment, semester string) []models.EnrollableCourse {
	enrolled := make(map[string]struct{}, len(active))
	for _, e := range active {
		if e.Status == models.EnrollmentStatusEnrolled {
			enrolled[e.CourseID] = struct{}{}
		}
	}

	result := make([]models.EnrollableCourse, 0, len(curriculum))
	for _, req := range curriculum {
		if semester != "" && semester != models.SemesterAll && req.Semester != semester {
			continue
		}
		// Satisfaction is by course identity: an active enrollment through
		// any section or slot excludes the requirement.
		if _, ok := enrolled[req.CourseID]; ok {
			continue
		}

		course := models.EnrollableCourse{
			CourseID:       req.CourseID,
			CourseCode:     req.CourseCode,
			Description:    req.Description,
			Units:          req.Units,
			YearLevel:      req.YearLevel,
			Semester:       req.Semester,
			CandidateSlots: []models.CandidateSlot{},
		}
		for _, section := range catalog {
			for _, slot := range section.SlotsForCourse(req.CourseID) {
				if slot.Status.Terminal() {
					continue
				}
				course.CandidateSlots = append(course.CandidateSlots, models.CandidateSlot{Section: section, Slot: slot})
			}
		}
		result = append(result, course)
	}
	return result
}
