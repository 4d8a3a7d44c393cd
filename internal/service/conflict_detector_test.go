package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrvillar/campus-console-api/internal/models"
)

func slot(id, sectionID string, day models.DayOfWeek, start, end int, status models.SlotStatus) models.ScheduleSlot {
	return models.ScheduleSlot{
		ID:          id,
		SectionID:   sectionID,
		Day:         day,
		StartMinute: start,
		EndMinute:   end,
		Room:        "R-101",
		Status:      status,
	}
}

func TestFindGlobalConflictsOverlap(t *testing.T) {
	catalog := []models.Section{
		{
			ID:   "sec-1",
			Name: "BSIT 1-A",
			Slots: []models.ScheduleSlot{
				slot("slot-1", "sec-1", models.DayMonday, 9*60, 10*60, models.SlotStatusActive),
			},
		},
	}

	candidate := slot("cand", "sec-2", models.DayMonday, 9*60+30, 10*60+30, models.SlotStatusActive)
	conflicts := FindGlobalConflicts(catalog, candidate, "")
	require.Len(t, conflicts, 1)
	assert.Equal(t, "slot-1", conflicts[0].SlotID)
	assert.Equal(t, "sec-1", conflicts[0].SectionID)
	assert.Equal(t, "BSIT 1-A", conflicts[0].SectionName)
	assert.Equal(t, models.DayMonday, conflicts[0].Day)
	assert.Equal(t, "09:00-10:00", conflicts[0].TimeRange)
}

func TestFindGlobalConflictsTouchingBoundary(t *testing.T) {
	catalog := []models.Section{
		{
			ID: "sec-1",
			Slots: []models.ScheduleSlot{
				slot("slot-1", "sec-1", models.DayMonday, 9*60, 10*60, models.SlotStatusActive),
			},
		},
	}

	// Back-to-back bookings share a boundary minute; the interval is
	// half-open so that is not a collision.
	candidate := slot("cand", "sec-2", models.DayMonday, 10*60, 11*60, models.SlotStatusActive)
	assert.Empty(t, FindGlobalConflicts(catalog, candidate, ""))
}

func TestFindGlobalConflictsDifferentDay(t *testing.T) {
	catalog := []models.Section{
		{
			ID: "sec-1",
			Slots: []models.ScheduleSlot{
				slot("slot-1", "sec-1", models.DayTuesday, 9*60, 10*60, models.SlotStatusActive),
			},
		},
	}

	candidate := slot("cand", "sec-2", models.DayMonday, 9*60, 10*60, models.SlotStatusActive)
	assert.Empty(t, FindGlobalConflicts(catalog, candidate, ""))
}

func TestFindGlobalConflictsSkipsInactiveSlots(t *testing.T) {
	catalog := []models.Section{
		{
			ID: "sec-1",
			Slots: []models.ScheduleSlot{
				slot("slot-1", "sec-1", models.DayMonday, 9*60, 10*60, models.SlotStatusCancelled),
				slot("slot-2", "sec-1", models.DayMonday, 9*60, 10*60, models.SlotStatusCompleted),
				slot("slot-3", "sec-1", models.DayMonday, 9*60, 10*60, models.SlotStatusFull),
			},
		},
	}

	candidate := slot("cand", "sec-2", models.DayMonday, 9*60+15, 9*60+45, models.SlotStatusActive)
	assert.Empty(t, FindGlobalConflicts(catalog, candidate, ""))
}

func TestFindGlobalConflictsExcludesOwnSlot(t *testing.T) {
	catalog := []models.Section{
		{
			ID: "sec-1",
			Slots: []models.ScheduleSlot{
				slot("slot-1", "sec-1", models.DayMonday, 9*60, 10*60, models.SlotStatusActive),
				slot("slot-2", "sec-1", models.DayMonday, 9*60+30, 10*60+30, models.SlotStatusActive),
			},
		},
	}

	// Updating slot-1 in place must not report slot-1 against itself.
	candidate := slot("slot-1", "sec-1", models.DayMonday, 9*60, 10*60, models.SlotStatusActive)
	conflicts := FindGlobalConflicts(catalog, candidate, "slot-1")
	require.Len(t, conflicts, 1)
	assert.Equal(t, "slot-2", conflicts[0].SlotID)
}

func TestFindGlobalConflictsMultipleSections(t *testing.T) {
	catalog := []models.Section{
		{
			ID: "sec-1",
			Slots: []models.ScheduleSlot{
				slot("slot-1", "sec-1", models.DayFriday, 13*60, 15*60, models.SlotStatusActive),
			},
		},
		{
			ID: "sec-2",
			Slots: []models.ScheduleSlot{
				slot("slot-2", "sec-2", models.DayFriday, 14*60, 16*60, models.SlotStatusActive),
				slot("slot-3", "sec-2", models.DayFriday, 16*60, 17*60, models.SlotStatusActive),
			},
		},
	}

	candidate := slot("cand", "sec-3", models.DayFriday, 14*60+30, 15*60+30, models.SlotStatusActive)
	conflicts := FindGlobalConflicts(catalog, candidate, "")
	require.Len(t, conflicts, 2)
	assert.Equal(t, "slot-1", conflicts[0].SlotID)
	assert.Equal(t, "slot-2", conflicts[1].SlotID)
}

func TestFindCourseScheduleConflict(t *testing.T) {
	math := "course-math"
	catalog := []models.Section{
		{
			ID: "sec-1",
			Slots: []models.ScheduleSlot{
				{ID: "slot-1", SectionID: "sec-1", CourseID: &math, Day: models.DayMonday, StartMinute: 9 * 60, EndMinute: 10 * 60, Status: models.SlotStatusActive},
			},
		},
	}

	candidate := slot("cand", "sec-1", models.DayMonday, 9*60+30, 10*60+30, models.SlotStatusActive)
	dup := FindCourseScheduleConflict(catalog, "sec-1", math, candidate, "")
	require.NotNil(t, dup)
	assert.Equal(t, "slot-1", dup.SlotID)

	// A different course overlapping the same window is the global
	// detector's business, not a duplicate schedule.
	assert.Nil(t, FindCourseScheduleConflict(catalog, "sec-1", "course-physics", candidate, ""))
}

func TestFindCourseScheduleConflictIgnoresStatus(t *testing.T) {
	math := "course-math"
	catalog := []models.Section{
		{
			ID: "sec-1",
			Slots: []models.ScheduleSlot{
				{ID: "slot-1", SectionID: "sec-1", CourseID: &math, Day: models.DayMonday, StartMinute: 9 * 60, EndMinute: 10 * 60, Status: models.SlotStatusCancelled},
			},
		},
	}

	// Unlike the global scan, a cancelled duplicate still blocks: the
	// course must not silently accumulate two meetings in one window.
	candidate := slot("cand", "sec-1", models.DayMonday, 9*60, 10*60, models.SlotStatusActive)
	dup := FindCourseScheduleConflict(catalog, "sec-1", math, candidate, "")
	require.NotNil(t, dup)
	assert.Equal(t, "slot-1", dup.SlotID)
}

func TestFindCourseScheduleConflictLegacySectionCourse(t *testing.T) {
	math := "course-math"
	catalog := []models.Section{
		{
			ID:       "sec-1",
			CourseID: &math,
			Slots: []models.ScheduleSlot{
				slot("slot-1", "sec-1", models.DayWednesday, 8*60, 9*60, models.SlotStatusActive),
			},
		},
	}

	// The slot carries no course of its own; it inherits the section's
	// legacy direct course binding.
	candidate := slot("cand", "sec-1", models.DayWednesday, 8*60+30, 9*60+30, models.SlotStatusActive)
	dup := FindCourseScheduleConflict(catalog, "sec-1", math, candidate, "")
	require.NotNil(t, dup)
	require.NotNil(t, dup.CourseID)
	assert.Equal(t, math, *dup.CourseID)
}
