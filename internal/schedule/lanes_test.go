package schedule

import (
	"testing"
	"time"

	"session-scheduler/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-03-02 is a Monday.
var weekStart = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

func daySlot(id int64, day, startH, startM, endH, endM int, status model.SlotStatus) *model.Slot {
	d := weekStart.AddDate(0, 0, day)
	return &model.Slot{
		ID:        id,
		OwnerID:   1,
		CourseID:  1,
		StartTime: time.Date(d.Year(), d.Month(), d.Day(), startH, startM, 0, 0, time.UTC),
		EndTime:   time.Date(d.Year(), d.Month(), d.Day(), endH, endM, 0, 0, time.UTC),
		Status:    status,
	}
}

// Tehran started DST at midnight on Tuesday 22 March 2022, so every later
// midnight that week falls 47, 71, ... hours after the week start. Day
// placement must follow the calendar date, not elapsed hours.
func TestPackMidweekDSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tehran")
	require.NoError(t, err)

	start := WeekStartOf(2022, 12, loc) // Monday 21 March
	wednesday := time.Date(2022, time.March, 23, 9, 0, 0, 0, loc)
	slot := &model.Slot{
		ID:        1,
		OwnerID:   1,
		CourseID:  1,
		StartTime: wednesday,
		EndTime:   wednesday.Add(time.Hour),
		Status:    model.SlotStatusOpen,
	}

	layout, err := Pack([]*model.Slot{slot}, start, 4)
	require.NoError(t, err)

	assert.Empty(t, layout.Days[1].Lanes)
	require.Len(t, layout.Days[2].Lanes, 1, "slot must land on its calendar day")
}

func TestPackEmptyWeek(t *testing.T) {
	layout, err := Pack(nil, weekStart, 4)
	require.NoError(t, err)

	assert.Equal(t, 0, layout.MaxLanes)
	assert.Equal(t, 0, layout.DisplayLanes)
	for _, day := range layout.Days {
		assert.Empty(t, day.Lanes)
	}
}

func TestPackSingleSlot(t *testing.T) {
	layout, err := Pack([]*model.Slot{daySlot(1, 0, 9, 0, 10, 0, model.SlotStatusOpen)}, weekStart, 4)
	require.NoError(t, err)

	assert.Equal(t, 1, layout.MaxLanes)
	require.Len(t, layout.Days[0].Lanes, 1)
	assert.Len(t, layout.Days[0].Lanes[0], 1)
}

func TestPackNonOverlappingStayInLaneZero(t *testing.T) {
	slots := []*model.Slot{
		daySlot(1, 0, 9, 0, 10, 0, model.SlotStatusOpen),
		daySlot(2, 0, 10, 0, 11, 0, model.SlotStatusOpen),
		daySlot(3, 0, 11, 30, 12, 0, model.SlotStatusOpen),
		daySlot(4, 0, 14, 0, 16, 0, model.SlotStatusOpen),
	}

	layout, err := Pack(slots, weekStart, 4)
	require.NoError(t, err)

	assert.Equal(t, 1, layout.MaxLanes, "non-overlapping intervals need a single lane")
	require.Len(t, layout.Days[0].Lanes, 1)
	assert.Len(t, layout.Days[0].Lanes[0], 4)
}

func TestPackOpenSlotsNeverOverlapWithinLane(t *testing.T) {
	slots := []*model.Slot{
		daySlot(1, 0, 9, 0, 11, 0, model.SlotStatusOpen),
		daySlot(2, 0, 9, 30, 10, 30, model.SlotStatusOpen),
		daySlot(3, 0, 10, 0, 12, 0, model.SlotStatusOpen),
		daySlot(4, 0, 11, 0, 13, 0, model.SlotStatusOpen),
		daySlot(5, 0, 12, 30, 14, 0, model.SlotStatusOpen),
		daySlot(6, 0, 8, 0, 9, 0, model.SlotStatusOpen),
	}

	layout, err := Pack(slots, weekStart, 10)
	require.NoError(t, err)

	for _, lane := range layout.Days[0].Lanes {
		for i, a := range lane {
			for _, b := range lane[i+1:] {
				assert.False(t, a.Overlaps(b),
					"slots %d and %d overlap within one lane", a.ID, b.ID)
			}
		}
	}
}

// Three pairwise-overlapping intervals need exactly three lanes: first-fit
// on an interval graph meets its chromatic number.
func TestPackChromaticNumber(t *testing.T) {
	slots := []*model.Slot{
		daySlot(1, 0, 9, 0, 12, 0, model.SlotStatusOpen),
		daySlot(2, 0, 9, 30, 11, 0, model.SlotStatusOpen),
		daySlot(3, 0, 10, 0, 10, 30, model.SlotStatusOpen),
	}

	layout, err := Pack(slots, weekStart, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, layout.MaxLanes)
}

// The §8 scenario: S1 and S2 overlap and split into lanes 0 and 1; S3 is
// already booked and is exempt from conflict checks, landing in the highest
// existing lane.
func TestPackBookedSlotExemption(t *testing.T) {
	s1 := daySlot(1, 0, 9, 0, 10, 0, model.SlotStatusOpen)
	s2 := daySlot(2, 0, 9, 30, 10, 30, model.SlotStatusOpen)
	s3 := daySlot(3, 0, 9, 0, 10, 0, model.SlotStatusBooked)

	layout, err := Pack([]*model.Slot{s1, s2, s3}, weekStart, 4)
	require.NoError(t, err)

	day := layout.Days[0]
	require.Len(t, day.Lanes, 2)
	assert.Equal(t, []*model.Slot{s1}, day.Lanes[0])
	assert.Equal(t, []*model.Slot{s2, s3}, day.Lanes[1])
	assert.Equal(t, 2, layout.MaxLanes)
}

func TestPackBookedSlotOpensFirstLane(t *testing.T) {
	layout, err := Pack([]*model.Slot{daySlot(1, 2, 9, 0, 10, 0, model.SlotStatusConfirmed)}, weekStart, 4)
	require.NoError(t, err)

	require.Len(t, layout.Days[2].Lanes, 1)
	assert.Equal(t, 1, layout.MaxLanes)
}

func TestPackMaxLanesIsMaximumOverDays(t *testing.T) {
	slots := []*model.Slot{
		// Monday: two lanes.
		daySlot(1, 0, 9, 0, 11, 0, model.SlotStatusOpen),
		daySlot(2, 0, 10, 0, 12, 0, model.SlotStatusOpen),
		// Wednesday: three lanes.
		daySlot(3, 2, 9, 0, 12, 0, model.SlotStatusOpen),
		daySlot(4, 2, 9, 0, 12, 0, model.SlotStatusOpen),
		daySlot(5, 2, 9, 0, 12, 0, model.SlotStatusOpen),
		// Friday: one lane.
		daySlot(6, 4, 9, 0, 10, 0, model.SlotStatusOpen),
	}

	layout, err := Pack(slots, weekStart, 10)
	require.NoError(t, err)

	assert.Equal(t, 3, layout.MaxLanes)
	assert.Len(t, layout.Days[0].Lanes, 2)
	assert.Len(t, layout.Days[2].Lanes, 3)
	assert.Len(t, layout.Days[4].Lanes, 1)
}

func TestPackDisplayLanesClamped(t *testing.T) {
	slots := []*model.Slot{
		daySlot(1, 0, 9, 0, 12, 0, model.SlotStatusOpen),
		daySlot(2, 0, 9, 0, 12, 0, model.SlotStatusOpen),
		daySlot(3, 0, 9, 0, 12, 0, model.SlotStatusOpen),
	}

	layout, err := Pack(slots, weekStart, 2)
	require.NoError(t, err)

	assert.Equal(t, 3, layout.MaxLanes, "true count survives the clamp")
	assert.Equal(t, 2, layout.DisplayLanes)
}

func TestPackRejectsMalformedInterval(t *testing.T) {
	bad := daySlot(7, 0, 10, 0, 9, 0, model.SlotStatusOpen)

	_, err := Pack([]*model.Slot{bad}, weekStart, 4)
	require.ErrorIs(t, err, model.ErrInvalidInterval)
}

func TestPackIgnoresSlotsOutsideWeek(t *testing.T) {
	outside := daySlot(1, 9, 9, 0, 10, 0, model.SlotStatusOpen)

	layout, err := Pack([]*model.Slot{outside}, weekStart, 4)
	require.NoError(t, err)
	assert.Equal(t, 0, layout.MaxLanes)
}
