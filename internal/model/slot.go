package model

import (
	"time"

	"github.com/google/uuid"
)

type SlotStatus string

const (
	SlotStatusOpen      SlotStatus = "open"      // student-posted availability, no booking yet
	SlotStatusTentative SlotStatus = "tentative" // instructor-created, awaiting student confirmation
	SlotStatusBooked    SlotStatus = "booked"    // booked against a student-posted slot
	SlotStatusConfirmed SlotStatus = "confirmed" // student acknowledged the session
)

// Slot is one half-open availability interval [StartTime, EndTime),
// owned by a single student and keyed by course, year and ISO week.
type Slot struct {
	ID           int64      `json:"id"`
	OwnerID      int64      `json:"owner_id"`
	CourseID     int64      `json:"course_id"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      time.Time  `json:"end_time"`
	Year         int        `json:"year"`
	Week         int        `json:"week"`
	Status       SlotStatus `json:"status"`
	Annotation   string     `json:"annotation"`
	DisplayColor string     `json:"display_color"`
	BatchID      uuid.UUID  `json:"batch_id"` // groups slots posted in one submission
	CreatedAt    time.Time  `json:"created_at"`

	// InstructorCreated distinguishes a slot an instructor booked directly
	// (deleted on cancel) from student-posted availability (reverts to open).
	InstructorCreated bool `json:"instructor_created"`
}

// Validate rejects malformed intervals before any computation or write.
func (s *Slot) Validate() error {
	if !s.StartTime.Before(s.EndTime) {
		return ErrInvalidInterval
	}
	return nil
}

// Overlaps reports whether two half-open intervals intersect.
func (s *Slot) Overlaps(other *Slot) bool {
	return s.StartTime.Before(other.EndTime) && other.StartTime.Before(s.EndTime)
}

// IsBookable reports whether an instructor may still claim the slot.
func (s *Slot) IsBookable() bool {
	return s.Status == SlotStatusOpen
}

// WeekOf returns the ISO year and week a start time falls into.
func WeekOf(t time.Time) (year, week int) {
	return t.ISOWeek()
}
