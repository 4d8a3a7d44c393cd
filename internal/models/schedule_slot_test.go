package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/jrvillar/campus-console-api/pkg/errors"
)

func TestNewScheduleSlotValidation(t *testing.T) {
	cases := []struct {
		name    string
		day     DayOfWeek
		start   int
		end     int
		status  SlotStatus
		wantErr bool
	}{
		{name: "valid", day: DayMonday, start: 540, end: 600, status: SlotStatusActive},
		{name: "start equals end", day: DayMonday, start: 540, end: 540, status: SlotStatusActive, wantErr: true},
		{name: "start after end", day: DayMonday, start: 600, end: 540, status: SlotStatusActive, wantErr: true},
		{name: "unknown day", day: DayOfWeek("SUNDAY"), start: 540, end: 600, status: SlotStatusActive, wantErr: true},
		{name: "unknown status", day: DayFriday, start: 540, end: 600, status: SlotStatus("PENDING"), wantErr: true},
		{name: "negative start", day: DayFriday, start: -10, end: 600, status: SlotStatusActive, wantErr: true},
		{name: "full status", day: DaySaturday, start: 480, end: 540, status: SlotStatusFull},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			slot, err := NewScheduleSlot("slot-1", "sec-1", nil, tc.day, tc.start, tc.end, "Rm 101", tc.status)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, appErrors.HasCode(err, appErrors.ErrInvalidSlot))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.day, slot.Day)
			assert.Equal(t, tc.start, slot.StartMinute)
		})
	}
}

func TestOverlapsIsSymmetric(t *testing.T) {
	a := ScheduleSlot{Day: DayMonday, StartMinute: 540, EndMinute: 600}
	b := ScheduleSlot{Day: DayMonday, StartMinute: 570, EndMinute: 630}
	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a))

	c := ScheduleSlot{Day: DayMonday, StartMinute: 610, EndMinute: 660}
	assert.False(t, a.Overlaps(c))
	assert.False(t, c.Overlaps(a))
}

func TestOverlapsTouchingBoundaryIsNotConflict(t *testing.T) {
	a := ScheduleSlot{Day: DayTuesday, StartMinute: 540, EndMinute: 600}
	b := ScheduleSlot{Day: DayTuesday, StartMinute: 600, EndMinute: 660}
	assert.False(t, a.Overlaps(b))
	assert.False(t, b.Overlaps(a))
}

func TestOverlapsDifferentDaysNeverConflict(t *testing.T) {
	a := ScheduleSlot{Day: DayMonday, StartMinute: 540, EndMinute: 600}
	b := ScheduleSlot{Day: DayWednesday, StartMinute: 540, EndMinute: 600}
	assert.False(t, a.Overlaps(b))
	assert.False(t, b.Overlaps(a))
}

func TestOverlapsContainment(t *testing.T) {
	outer := ScheduleSlot{Day: DayThursday, StartMinute: 480, EndMinute: 720}
	inner := ScheduleSlot{Day: DayThursday, StartMinute: 540, EndMinute: 600}
	assert.True(t, outer.Overlaps(inner))
	assert.True(t, inner.Overlaps(outer))
}

func TestParseAndFormatMinute(t *testing.T) {
	m, err := ParseMinute("09:30")
	require.NoError(t, err)
	assert.Equal(t, 570, m)
	assert.Equal(t, "09:30", FormatMinute(570))

	_, err = ParseMinute("930")
	require.Error(t, err)
	_, err = ParseMinute("25:00")
	require.Error(t, err)
}

func TestTimeRange(t *testing.T) {
	slot := ScheduleSlot{StartMinute: 540, EndMinute: 630}
	assert.Equal(t, "09:00-10:30", slot.TimeRange())
}
