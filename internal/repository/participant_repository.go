package repository

import (
	"context"
	"fmt"
	"time"

	"session-scheduler/internal/model"
	"session-scheduler/internal/repository/base"
)

// ParticipantStore resolves students and instructors and the per-student
// history the eligibility calculator consumes.
type ParticipantStore interface {
	GetStudent(ctx context.Context, courseID, studentID int64) (*model.Student, error)
	GetInstructor(ctx context.Context, instructorID int64) (*model.Instructor, error)
	GetLastGradedDate(ctx context.Context, courseID, studentID int64) (*time.Time, error)
}

type ParticipantRepository struct {
	db base.Querier
}

func NewParticipantRepository(db base.Querier) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

func (r *ParticipantRepository) GetStudent(ctx context.Context, courseID, studentID int64) (*model.Student, error) {
	query := `
		SELECT id, course_id, first_name, last_name, callsign, enrolled_at, chat_id, wait_waived
		FROM students
		WHERE id = $1 AND course_id = $2
	`

	var student model.Student
	err := r.db.QueryRow(ctx, query, studentID, courseID).Scan(
		&student.ID,
		&student.CourseID,
		&student.FirstName,
		&student.LastName,
		&student.Sign,
		&student.EnrolledAt,
		&student.ChatID,
		&student.WaitWaived,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get student: %w", err)
	}
	return &student, nil
}

func (r *ParticipantRepository) GetInstructor(ctx context.Context, instructorID int64) (*model.Instructor, error) {
	query := `
		SELECT id, first_name, last_name, callsign, joined_at, chat_id
		FROM instructors
		WHERE id = $1
	`

	var instructor model.Instructor
	err := r.db.QueryRow(ctx, query, instructorID).Scan(
		&instructor.ID,
		&instructor.FirstName,
		&instructor.LastName,
		&instructor.Sign,
		&instructor.JoinedAt,
		&instructor.ChatID,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get instructor: %w", err)
	}
	return &instructor, nil
}

// GetLastGradedDate returns the date of the student's most recent graded
// submission in the course, nil when nothing has been graded yet.
func (r *ParticipantRepository) GetLastGradedDate(ctx context.Context, courseID, studentID int64) (*time.Time, error) {
	query := `
		SELECT graded_at
		FROM grades
		WHERE course_id = $1 AND student_id = $2
		ORDER BY graded_at DESC
		LIMIT 1
	`

	var ts time.Time
	err := r.db.QueryRow(ctx, query, courseID, studentID).Scan(&ts)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get last graded date: %w", err)
	}
	return &ts, nil
}
