package models

import (
	"fmt"

	appErrors "github.com/jrvillar/campus-console-api/pkg/errors"
)

// DayOfWeek enumerates the teaching days recognised by the scheduler.
type DayOfWeek string

// Recognised teaching days. Sunday is not a teaching day.
const (
	DayMonday    DayOfWeek = "MONDAY"
	DayTuesday   DayOfWeek = "TUESDAY"
	DayWednesday DayOfWeek = "WEDNESDAY"
	DayThursday  DayOfWeek = "THURSDAY"
	DayFriday    DayOfWeek = "FRIDAY"
	DaySaturday  DayOfWeek = "SATURDAY"
)

// TeachingDays lists the valid days in week order.
var TeachingDays = []DayOfWeek{DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday, DaySaturday}

// Valid reports whether d is a recognised teaching day.
func (d DayOfWeek) Valid() bool {
	switch d {
	case DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday, DaySaturday:
		return true
	}
	return false
}

// SlotStatus represents the lifecycle of a schedule slot.
type SlotStatus string

// Possible slot statuses. CANCELLED and COMPLETED are terminal.
const (
	SlotStatusActive    SlotStatus = "ACTIVE"
	SlotStatusCancelled SlotStatus = "CANCELLED"
	SlotStatusCompleted SlotStatus = "COMPLETED"
	SlotStatusFull      SlotStatus = "FULL"
)

// Valid reports whether s is a recognised slot status.
func (s SlotStatus) Valid() bool {
	switch s {
	case SlotStatusActive, SlotStatusCancelled, SlotStatusCompleted, SlotStatusFull:
		return true
	}
	return false
}

// Terminal reports whether the status excludes the slot from enrollment
// candidates.
func (s SlotStatus) Terminal() bool {
	return s == SlotStatusCancelled || s == SlotStatusCompleted
}

// ScheduleSlot is one bookable time block inside a section. Times are
// wall-clock minutes since midnight at minute precision.
type ScheduleSlot struct {
	ID          string     `db:"id" json:"id"`
	SectionID   string     `db:"section_id" json:"section_id"`
	CourseID    *string    `db:"course_id" json:"course_id,omitempty"`
	Day         DayOfWeek  `db:"day_of_week" json:"day_of_week"`
	StartMinute int        `db:"start_minute" json:"start_minute"`
	EndMinute   int        `db:"end_minute" json:"end_minute"`
	Room        string     `db:"room" json:"room"`
	Status      SlotStatus `db:"status" json:"status"`
}

// NewScheduleSlot validates and builds a slot value. Day and status must be
// recognised values and the time range must be non-empty (start < end).
func NewScheduleSlot(id, sectionID string, courseID *string, day DayOfWeek, startMinute, endMinute int, room string, status SlotStatus) (ScheduleSlot, error) {
	if !day.Valid() {
		return ScheduleSlot{}, appErrors.Clone(appErrors.ErrInvalidSlot, fmt.Sprintf("unrecognised day of week %q", day))
	}
	if !status.Valid() {
		return ScheduleSlot{}, appErrors.Clone(appErrors.ErrInvalidSlot, fmt.Sprintf("unrecognised slot status %q", status))
	}
	if startMinute < 0 || endMinute > 24*60 {
		return ScheduleSlot{}, appErrors.Clone(appErrors.ErrInvalidSlot, "slot time outside of day bounds")
	}
	if startMinute >= endMinute {
		return ScheduleSlot{}, appErrors.Clone(appErrors.ErrInvalidSlot,
			fmt.Sprintf("slot start %s must precede end %s", FormatMinute(startMinute), FormatMinute(endMinute)))
	}
	return ScheduleSlot{
		ID:          id,
		SectionID:   sectionID,
		CourseID:    courseID,
		Day:         day,
		StartMinute: startMinute,
		EndMinute:   endMinute,
		Room:        room,
		Status:      status,
	}, nil
}

// Overlaps reports whether two slots collide. Intervals are half-open
// [start,end): slots that touch exactly at a boundary do not overlap, and
// slots on different days never overlap.
func (s ScheduleSlot) Overlaps(other ScheduleSlot) bool {
	if s.Day != other.Day {
		return false
	}
	return s.StartMinute < other.EndMinute && other.StartMinute < s.EndMinute
}

// BoundTo reports whether the slot is bound to the given course by identity.
func (s ScheduleSlot) BoundTo(courseID string) bool {
	return s.CourseID != nil && *s.CourseID == courseID
}

// TimeRange renders the slot interval as "HH:MM-HH:MM".
func (s ScheduleSlot) TimeRange() string {
	return fmt.Sprintf("%s-%s", FormatMinute(s.StartMinute), FormatMinute(s.EndMinute))
}

// ParseMinute converts "HH:MM" into minutes since midnight.
func ParseMinute(v string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(v, "%d:%d", &h, &m); err != nil {
		return 0, appErrors.Clone(appErrors.ErrInvalidSlot, fmt.Sprintf("malformed time %q", v))
	}
	if h < 0 || h > 24 || m < 0 || m > 59 {
		return 0, appErrors.Clone(appErrors.ErrInvalidSlot, fmt.Sprintf("time %q out of range", v))
	}
	return h*60 + m, nil
}

// FormatMinute renders minutes since midnight as "HH:MM".
func FormatMinute(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// SlotConflict describes an existing slot that collides with a candidate.
type SlotConflict struct {
	SlotID      string    `json:"slot_id"`
	SectionID   string    `json:"section_id"`
	SectionName string    `json:"section_name"`
	CourseID    *string   `json:"course_id,omitempty"`
	Day         DayOfWeek `json:"day_of_week"`
	TimeRange   string    `json:"time_range"`
	Room        string    `json:"room"`
}
