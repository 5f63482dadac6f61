package model

import "time"

// Participant is the capability set shared by the two kinds of course
// members. Students and instructors are distinct types, not variants of a
// common base record.
type Participant interface {
	EnrollDate() time.Time
	FullName() string
	Callsign() string
}

// Student posts availability and confirms sessions booked against it.
type Student struct {
	ID         int64     `json:"id"`
	CourseID   int64     `json:"course_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Sign       string    `json:"callsign"`
	EnrolledAt time.Time `json:"enrolled_at"`
	ChatID     int64     `json:"chat_id"` // Telegram chat for notifications, 0 when unlinked

	// Waiver lifts the posting-wait restriction for this student.
	WaitWaived bool `json:"wait_waived"`
}

func (s *Student) EnrollDate() time.Time { return s.EnrolledAt }
func (s *Student) FullName() string      { return s.FirstName + " " + s.LastName }
func (s *Student) Callsign() string      { return s.Sign }

// Instructor books and runs training sessions.
type Instructor struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Sign      string    `json:"callsign"`
	JoinedAt  time.Time `json:"joined_at"`
	ChatID    int64     `json:"chat_id"`
}

func (i *Instructor) EnrollDate() time.Time { return i.JoinedAt }
func (i *Instructor) FullName() string      { return i.FirstName + " " + i.LastName }
func (i *Instructor) Callsign() string      { return i.Sign }
