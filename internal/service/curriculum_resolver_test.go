package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrvillar/campus-console-api/internal/models"
)

func requirement(courseID, code, semester string, position int) models.CurriculumRequirement {
	return models.CurriculumRequirement{
		CurriculumID: "curr-1",
		CourseID:     courseID,
		CourseCode:   code,
		Units:        3,
		YearLevel:    1,
		Semester:     semester,
		Position:     position,
	}
}

func courseSlot(id, sectionID, courseID string, day models.DayOfWeek, start, end int, status models.SlotStatus) models.ScheduleSlot {
	s := slot(id, sectionID, day, start, end, status)
	s.CourseID = &courseID
	return s
}

func TestResolveEnrollableExcludesEnrolledCourses(t *testing.T) {
	curriculum := []models.CurriculumRequirement{
		requirement("course-math", "MATH101", "1", 0),
		requirement("course-eng", "ENG101", "1", 1),
	}
	catalog := []models.Section{
		{
			ID:   "sec-1",
			Name: "BSIT 1-A",
			Slots: []models.ScheduleSlot{
				courseSlot("slot-1", "sec-1", "course-math", models.DayMonday, 9*60, 10*60, models.SlotStatusActive),
				courseSlot("slot-2", "sec-1", "course-eng", models.DayTuesday, 9*60, 10*60, models.SlotStatusActive),
			},
		},
	}
	active := []models.Enrollment{
		{ID: "enr-1", CourseID: "course-math", SectionID: "sec-1", Status: models.EnrollmentStatusEnrolled},
	}

	result := ResolveEnrollable(curriculum, catalog, active, "1")
	require.Len(t, result, 1)
	assert.Equal(t, "course-eng", result[0].CourseID)
	require.Len(t, result[0].CandidateSlots, 1)
	assert.Equal(t, "slot-2", result[0].CandidateSlots[0].Slot.ID)
}

func TestResolveEnrollableDroppedCourseReappears(t *testing.T) {
	curriculum := []models.CurriculumRequirement{
		requirement("course-math", "MATH101", "1", 0),
	}
	catalog := []models.Section{
		{
			ID: "sec-1",
			Slots: []models.ScheduleSlot{
				courseSlot("slot-1", "sec-1", "course-math", models.DayMonday, 9*60, 10*60, models.SlotStatusActive),
			},
		},
	}

	enrolled := []models.Enrollment{{CourseID: "course-math", Status: models.EnrollmentStatusEnrolled}}
	assert.Empty(t, ResolveEnrollable(curriculum, catalog, enrolled, "1"))

	dropped := []models.Enrollment{{CourseID: "course-math", Status: models.EnrollmentStatusDropped}}
	result := ResolveEnrollable(curriculum, catalog, dropped, "1")
	require.Len(t, result, 1)
	assert.Equal(t, "course-math", result[0].CourseID)
}

func TestResolveEnrollableKeepsRequirementWithoutOffering(t *testing.T) {
	curriculum := []models.CurriculumRequirement{
		requirement("course-hist", "HIST101", "1", 0),
	}

	result := ResolveEnrollable(curriculum, nil, nil, "1")
	require.Len(t, result, 1)
	assert.Equal(t, "course-hist", result[0].CourseID)
	assert.NotNil(t, result[0].CandidateSlots)
	assert.Empty(t, result[0].CandidateSlots)
}

func TestResolveEnrollableSkipsTerminalSlots(t *testing.T) {
	curriculum := []models.CurriculumRequirement{
		requirement("course-math", "MATH101", "1", 0),
	}
	catalog := []models.Section{
		{
			ID: "sec-1",
			Slots: []models.ScheduleSlot{
				courseSlot("slot-1", "sec-1", "course-math", models.DayMonday, 9*60, 10*60, models.SlotStatusCancelled),
				courseSlot("slot-2", "sec-1", "course-math", models.DayMonday, 10*60, 11*60, models.SlotStatusCompleted),
				courseSlot("slot-3", "sec-1", "course-math", models.DayMonday, 11*60, 12*60, models.SlotStatusFull),
			},
		},
	}

	// The cancelled and completed offerings disappear from the candidates
	// but the requirement row itself stays. FULL is not terminal and is
	// still listed so the student can see the option exists.
	result := ResolveEnrollable(curriculum, catalog, nil, "1")
	require.Len(t, result, 1)
	require.Len(t, result[0].CandidateSlots, 1)
	assert.Equal(t, "slot-3", result[0].CandidateSlots[0].Slot.ID)
}

func TestResolveEnrollableSemesterFilter(t *testing.T) {
	curriculum := []models.CurriculumRequirement{
		requirement("course-math", "MATH101", "1", 0),
		requirement("course-eng", "ENG101", "2", 1),
	}

	first := ResolveEnrollable(curriculum, nil, nil, "1")
	require.Len(t, first, 1)
	assert.Equal(t, "course-math", first[0].CourseID)

	all := ResolveEnrollable(curriculum, nil, nil, models.SemesterAll)
	assert.Len(t, all, 2)

	blank := ResolveEnrollable(curriculum, nil, nil, "")
	assert.Len(t, blank, 2)
}

func TestResolveEnrollablePreservesDeclarationOrder(t *testing.T) {
	curriculum := []models.CurriculumRequirement{
		requirement("course-c", "C101", "1", 0),
		requirement("course-a", "A101", "1", 1),
		requirement("course-b", "B101", "1", 2),
	}

	result := ResolveEnrollable(curriculum, nil, nil, "1")
	require.Len(t, result, 3)
	assert.Equal(t, "course-c", result[0].CourseID)
	assert.Equal(t, "course-a", result[1].CourseID)
	assert.Equal(t, "course-b", result[2].CourseID)
}

func TestResolveEnrollableLegacySectionCourse(t *testing.T) {
	math := "course-math"
	curriculum := []models.CurriculumRequirement{
		requirement(math, "MATH101", "1", 0),
	}
	catalog := []models.Section{
		{
			ID:       "sec-1",
			CourseID: &math,
			Slots: []models.ScheduleSlot{
				slot("slot-1", "sec-1", models.DayMonday, 9*60, 10*60, models.SlotStatusActive),
			},
		},
	}

	result := ResolveEnrollable(curriculum, catalog, nil, "1")
	require.Len(t, result, 1)
	require.Len(t, result[0].CandidateSlots, 1)
	assert.Equal(t, "sec-1", result[0].CandidateSlots[0].Section.ID)
}
