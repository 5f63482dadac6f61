// Package eligibility computes the earliest date a student may next post
// availability, given the course wait policy and the student's session
// history. Pure; all inputs are passed in explicitly.
package eligibility

import "time"

// Basis names which history input anchored the computed window.
type Basis string

const (
	BasisNone       Basis = "none"    // restriction disabled or waived
	BasisBooking    Basis = "booking" // last active-booking timestamp
	BasisGraded     Basis = "graded"  // last graded-submission date
	BasisEnrollment Basis = "enrollment"
)

// Inputs are the policy and history values the calculator consults.
// History timestamps are nil when the corresponding record does not exist.
type Inputs struct {
	StudentID int64
	CourseID  int64
	Now       time.Time

	WaitDays int  // 0 disables the restriction
	Waived   bool // per-student per-course override

	LastBooking *time.Time
	LastGraded  *time.Time
	Enrolled    *time.Time
}

// Window is the computed eligibility result. NextAllowedDate always has
// its time-of-day zeroed.
type Window struct {
	StudentID       int64     `json:"student_id"`
	CourseID        int64     `json:"course_id"`
	NextAllowedDate time.Time `json:"next_allowed_date"`
	WaitDays        int       `json:"wait_days"`
	Waived          bool      `json:"waived"`
	Basis           Basis     `json:"basis"`
}

// NextAllowedDate applies the posting-wait policy. The anchor is the first
// available of last booking, last graded date and enrollment date, in that
// precedence order (a booking wins even when a graded submission is more
// recent). The result never precedes today.
func NextAllowedDate(in Inputs) Window {
	w := Window{
		StudentID: in.StudentID,
		CourseID:  in.CourseID,
		WaitDays:  in.WaitDays,
		Waived:    in.Waived,
	}

	today := dateOnly(in.Now)

	if in.WaitDays <= 0 || in.Waived {
		w.NextAllowedDate = today
		w.Basis = BasisNone
		return w
	}

	anchor, basis := pickAnchor(in)
	if basis == BasisNone {
		w.NextAllowedDate = today
		w.Basis = BasisNone
		return w
	}

	next := dateOnly(anchor).AddDate(0, 0, in.WaitDays)
	if next.Before(today) {
		next = today
	}

	w.NextAllowedDate = next
	w.Basis = basis
	return w
}

func pickAnchor(in Inputs) (time.Time, Basis) {
	switch {
	case in.LastBooking != nil:
		return *in.LastBooking, BasisBooking
	case in.LastGraded != nil:
		return *in.LastGraded, BasisGraded
	case in.Enrolled != nil:
		return *in.Enrolled, BasisEnrollment
	}
	return time.Time{}, BasisNone
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
