package eligibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, time.March, 4, 14, 30, 0, 0, time.UTC)

func day(offset int) time.Time {
	return now.AddDate(0, 0, offset)
}

func ptr(t time.Time) *time.Time { return &t }

func TestZeroWaitDisablesRestriction(t *testing.T) {
	w := NextAllowedDate(Inputs{Now: now, WaitDays: 0, LastBooking: ptr(day(-1))})

	assert.Equal(t, dateOnly(now), w.NextAllowedDate)
	assert.Equal(t, BasisNone, w.Basis)
}

func TestWaiverDisablesRestriction(t *testing.T) {
	w := NextAllowedDate(Inputs{Now: now, WaitDays: 7, Waived: true, LastBooking: ptr(day(-1))})

	assert.Equal(t, dateOnly(now), w.NextAllowedDate)
	assert.Equal(t, BasisNone, w.Basis)
}

func TestWaitStillPending(t *testing.T) {
	w := NextAllowedDate(Inputs{Now: now, WaitDays: 3, LastBooking: ptr(day(-1))})

	assert.Equal(t, dateOnly(day(-1)).AddDate(0, 0, 3), w.NextAllowedDate)
	assert.Equal(t, BasisBooking, w.Basis)
}

func TestWaitLapsed(t *testing.T) {
	w := NextAllowedDate(Inputs{Now: now, WaitDays: 3, LastBooking: ptr(day(-5))})

	assert.Equal(t, dateOnly(now), w.NextAllowedDate, "a lapsed restriction falls back to today")
}

// Booking beats grading beats enrollment even when a later-precedence
// value is chronologically more recent.
func TestAnchorPrecedence(t *testing.T) {
	cases := []struct {
		name  string
		in    Inputs
		basis Basis
	}{
		{
			name:  "booking wins over newer graded date",
			in:    Inputs{Now: now, WaitDays: 3, LastBooking: ptr(day(-10)), LastGraded: ptr(day(-1)), Enrolled: ptr(day(-30))},
			basis: BasisBooking,
		},
		{
			name:  "graded wins over newer enrollment",
			in:    Inputs{Now: now, WaitDays: 3, LastGraded: ptr(day(-10)), Enrolled: ptr(day(-1))},
			basis: BasisGraded,
		},
		{
			name:  "enrollment is the last resort",
			in:    Inputs{Now: now, WaitDays: 3, Enrolled: ptr(day(-1))},
			basis: BasisEnrollment,
		},
		{
			name:  "no history at all",
			in:    Inputs{Now: now, WaitDays: 3},
			basis: BasisNone,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.basis, NextAllowedDate(tc.in).Basis)
		})
	}
}

func TestResultTimeOfDayZeroed(t *testing.T) {
	anchor := time.Date(2026, time.March, 3, 18, 45, 12, 999, time.UTC)
	w := NextAllowedDate(Inputs{Now: now, WaitDays: 3, LastBooking: &anchor})

	assert.Equal(t, time.Date(2026, time.March, 6, 0, 0, 0, 0, time.UTC), w.NextAllowedDate)
}

func TestNeverBeforeToday(t *testing.T) {
	for offset := -30; offset <= 0; offset++ {
		w := NextAllowedDate(Inputs{Now: now, WaitDays: 2, LastBooking: ptr(day(offset))})
		assert.False(t, w.NextAllowedDate.Before(dateOnly(now)), "offset %d", offset)
	}
}

func TestIdempotent(t *testing.T) {
	in := Inputs{Now: now, WaitDays: 4, LastGraded: ptr(day(-2))}

	assert.Equal(t, NextAllowedDate(in), NextAllowedDate(in))
}

func TestMonotonicInWaitDays(t *testing.T) {
	prev := NextAllowedDate(Inputs{Now: now, WaitDays: 1, LastBooking: ptr(day(-2))}).NextAllowedDate
	for wait := 2; wait <= 20; wait++ {
		next := NextAllowedDate(Inputs{Now: now, WaitDays: wait, LastBooking: ptr(day(-2))}).NextAllowedDate
		assert.False(t, next.Before(prev), "wait %d produced an earlier date", wait)
		prev = next
	}
}
