package model

import "time"

// Booking ties an instructor, a student and one exercise to a single slot.
// At most one active booking may exist per (course, student, exercise)
// triple; the database enforces this with a partial unique index.
type Booking struct {
	ID           int64     `json:"id"`
	CourseID     int64     `json:"course_id"`
	StudentID    int64     `json:"student_id"`
	ExerciseID   int64     `json:"exercise_id"`
	InstructorID int64     `json:"instructor_id"`
	SlotID       int64     `json:"slot_id"`
	Confirmed    bool      `json:"confirmed"`
	Active       bool      `json:"active"`
	LastModified time.Time `json:"last_modified"`

	// Joined for notifications, not stored on the bookings row.
	Slot *Slot `json:"slot,omitempty"`
}

// TripleKey identifies the at-most-one active booking for a student's
// exercise within a course.
type TripleKey struct {
	CourseID   int64
	StudentID  int64
	ExerciseID int64
}

func (b *Booking) Triple() TripleKey {
	return TripleKey{CourseID: b.CourseID, StudentID: b.StudentID, ExerciseID: b.ExerciseID}
}
