// Package schedule lays a week of availability slots out into parallel
// display lanes, one stack of lanes per weekday.
package schedule

import (
	"fmt"
	"time"

	"session-scheduler/internal/model"
)

const daysInWeek = 7

// Day is the lane stack of one weekday. Lanes are ordered; within a lane
// slots keep their input order.
type Day struct {
	Date  time.Time
	Lanes [][]*model.Slot
}

// WeekLayout is the packed grid for one calendar week, days in week order
// starting from the week start passed to Pack.
type WeekLayout struct {
	WeekStart time.Time
	Days      [daysInWeek]Day

	// MaxLanes is the true maximum lane count over the seven days.
	// DisplayLanes is MaxLanes clamped to the course ceiling.
	MaxLanes     int
	DisplayLanes int
}

// Pack places every slot of one week into per-day lanes.
//
// Open slots use first-fit interval coloring: the lowest-indexed lane with
// no overlapping slot, or a fresh lane. Slots that already carry a booking
// (tentative, booked, confirmed) are exempt from conflict checks and go
// into the highest-indexed existing lane, so a committed session may share
// a lane with the student's other postings.
//
// Malformed intervals are rejected before any placement happens.
func Pack(slots []*model.Slot, weekStart time.Time, maxDisplayLanes int) (*WeekLayout, error) {
	for _, slot := range slots {
		if err := slot.Validate(); err != nil {
			return nil, fmt.Errorf("slot %d: %w", slot.ID, err)
		}
	}

	start := truncateToDay(weekStart)
	layout := &WeekLayout{WeekStart: start}
	for i := range layout.Days {
		layout.Days[i].Date = start.AddDate(0, 0, i)
	}

	for _, slot := range slots {
		dayIdx := dayIndex(slot.StartTime, start)
		if dayIdx < 0 || dayIdx >= daysInWeek {
			continue // outside the displayed week
		}
		day := &layout.Days[dayIdx]

		lane := pickLane(day.Lanes, slot)
		if lane == len(day.Lanes) {
			day.Lanes = append(day.Lanes, nil)
		}
		day.Lanes[lane] = append(day.Lanes[lane], slot)

		if len(day.Lanes) > layout.MaxLanes {
			layout.MaxLanes = len(day.Lanes)
		}
	}

	layout.DisplayLanes = layout.MaxLanes
	if maxDisplayLanes > 0 && layout.DisplayLanes > maxDisplayLanes {
		layout.DisplayLanes = maxDisplayLanes
	}

	return layout, nil
}

// pickLane returns the lane index for a slot; len(lanes) means "append a
// new lane".
func pickLane(lanes [][]*model.Slot, slot *model.Slot) int {
	if slot.Status != model.SlotStatusOpen {
		// Booked-slot exemption: no conflict scan, reuse the last lane.
		if len(lanes) == 0 {
			return 0
		}
		return len(lanes) - 1
	}

	for i, lane := range lanes {
		if laneIsFree(lane, slot) {
			return i
		}
	}
	return len(lanes)
}

func laneIsFree(lane []*model.Slot, slot *model.Slot) bool {
	for _, placed := range lane {
		if placed.Overlaps(slot) {
			return false
		}
	}
	return true
}

// dayIndex matches t's calendar date against the seven day boundaries.
// Elapsed-hour division would misplace slots in weeks where a DST jump
// (or a skipped calendar day) shortens a day.
func dayIndex(t, weekStart time.Time) int {
	day := truncateToDay(t.In(weekStart.Location()))
	for i := 0; i < daysInWeek; i++ {
		if day.Equal(weekStart.AddDate(0, 0, i)) {
			return i
		}
	}
	return -1
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
