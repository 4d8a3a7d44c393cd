package service

import (
	"github.com/jrvillar/campus-console-api/internal/models"
)

// Conflict detection runs as pure functions over a catalog snapshot supplied
// by the caller. The snapshot is fetched immediately before each check and is
// never cached here; stale snapshots are the dominant source of missed
// conflicts.

// FindGlobalConflicts returns every active slot in the catalog, other than
// excludeSlotID, whose day and half-open time interval collide with the
// candidate. Cancelled, completed and full slots do not block new bookings.
func FindGlobalConflicts(catalog []models.Section, candidate models.ScheduleSlot, excludeSlotID string) []models.SlotConflict {
	var conflicts []models.SlotConflict
	for _, section := range catalog {
		for _, slot := range section.Slots {
			if slot.ID == excludeSlotID && excludeSlotID != "" {
				continue
			}
			if slot.Status != models.SlotStatusActive {
				continue
			}
			if !slot.Overlaps(candidate) {
				continue
			}
			conflicts = append(conflicts, describeConflict(section, slot))
		}
	}
	return conflicts
}

// FindCourseScheduleConflict reports whether the course already meets at a
// colliding time within the given section. Unlike the global scan this is not
// status-filtered: a cancelled duplicate schedule for the same course is
// still surfaced so it cannot be silently re-booked.
func FindCourseScheduleConflict(catalog []models.Section, sectionID, courseID string, candidate models.ScheduleSlot, excludeSlotID string) *models.SlotConflict {
	for _, section := range catalog {
		if section.ID != sectionID {
			continue
		}
		for _, slot := range section.SlotsForCourse(courseID) {
			if slot.ID == excludeSlotID && excludeSlotID != "" {
				continue
			}
			if !slot.Overlaps(candidate) {
				continue
			}
			conflict := describeConflict(section, slot)
			return &conflict
		}
	}
	return nil
}

func describeConflict(section models.Section, slot models.ScheduleSlot) models.SlotConflict {
	courseID := slot.CourseID
	if courseID == nil {
		courseID = section.CourseID
	}
	return models.SlotConflict{
		SlotID:      slot.ID,
		SectionID:   section.ID,
		SectionName: section.Name,
		CourseID:    courseID,
		Day:         slot.Day,
		TimeRange:   slot.TimeRange(),
		Room:        slot.Room,
	}
}
