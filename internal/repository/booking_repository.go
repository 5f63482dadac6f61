package repository

import (
	"context"
	"errors"
	"fmt"

	"session-scheduler/internal/model"
	"session-scheduler/internal/repository/base"
)

// ErrNoRowsAffected marks a write that matched no rows.
var ErrNoRowsAffected = errors.New("no rows affected")

// BookingCriteria selects one booking either by id or by its triple.
// ActiveOnly restricts triple lookups to the single active booking.
type BookingCriteria struct {
	ID         int64
	Triple     *model.TripleKey
	ActiveOnly bool
}

// BookingStore is the booking persistence contract the services depend on.
type BookingStore interface {
	GetBooking(ctx context.Context, criteria BookingCriteria) (*model.Booking, error)
	GetBookingsForUser(ctx context.Context, userID int64, oldestFirst bool) ([]*model.Booking, error)
	SaveBooking(ctx context.Context, booking *model.Booking) error
	DeleteBooking(ctx context.Context, criteria BookingCriteria) (int64, error)
	ConfirmBooking(ctx context.Context, courseID, studentID, exerciseID int64) error
	SetBookingInactive(ctx context.Context, booking *model.Booking) error
	GetLastBookedSession(ctx context.Context, userID int64, isInstructor bool) (*model.Booking, error)
}

const bookingColumns = `id, course_id, student_id, exercise_id, instructor_id, slot_id, confirmed, active, last_modified`

type BookingRepository struct {
	db base.Querier
}

func NewBookingRepository(db base.Querier) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) GetBooking(ctx context.Context, criteria BookingCriteria) (*model.Booking, error) {
	var (
		query string
		args  []any
	)

	switch {
	case criteria.ID != 0:
		query = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
		args = []any{criteria.ID}
	case criteria.Triple != nil:
		query = `
			SELECT ` + bookingColumns + `
			FROM bookings
			WHERE course_id = $1 AND student_id = $2 AND exercise_id = $3
			  AND ($4 = false OR active)
			ORDER BY last_modified DESC
			LIMIT 1
		`
		args = []any{criteria.Triple.CourseID, criteria.Triple.StudentID, criteria.Triple.ExerciseID, criteria.ActiveOnly}
	default:
		return nil, fmt.Errorf("get booking: empty criteria")
	}

	booking, err := scanBooking(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return booking, nil
}

func (r *BookingRepository) GetBookingsForUser(ctx context.Context, userID int64, oldestFirst bool) ([]*model.Booking, error) {
	order := "DESC"
	if oldestFirst {
		order = "ASC"
	}
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE student_id = $1 OR instructor_id = $1
		ORDER BY last_modified ` + order

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get bookings for user: %w", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

// SaveBooking inserts the booking when ID is zero, otherwise updates it.
// The partial unique index on active triples rejects a duplicate insert;
// the caller maps that onto its conflict error.
func (r *BookingRepository) SaveBooking(ctx context.Context, booking *model.Booking) error {
	if booking.ID == 0 {
		query := `
			INSERT INTO bookings (course_id, student_id, exercise_id, instructor_id, slot_id, confirmed, active)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, last_modified
		`
		err := r.db.QueryRow(
			ctx, query,
			booking.CourseID, booking.StudentID, booking.ExerciseID,
			booking.InstructorID, booking.SlotID, booking.Confirmed, booking.Active,
		).Scan(&booking.ID, &booking.LastModified)
		if err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}
		return nil
	}

	query := `
		UPDATE bookings
		SET confirmed = $1, active = $2, last_modified = now()
		WHERE id = $3
		RETURNING last_modified
	`
	err := r.db.QueryRow(ctx, query, booking.Confirmed, booking.Active, booking.ID).Scan(&booking.LastModified)
	if err != nil {
		if base.IsNotFound(err) {
			return fmt.Errorf("update booking %d: %w", booking.ID, ErrNoRowsAffected)
		}
		return fmt.Errorf("update booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) DeleteBooking(ctx context.Context, criteria BookingCriteria) (int64, error) {
	var (
		query string
		args  []any
	)

	switch {
	case criteria.ID != 0:
		query = `DELETE FROM bookings WHERE id = $1`
		args = []any{criteria.ID}
	case criteria.Triple != nil:
		query = `
			DELETE FROM bookings
			WHERE course_id = $1 AND student_id = $2 AND exercise_id = $3
			  AND ($4 = false OR active)
		`
		args = []any{criteria.Triple.CourseID, criteria.Triple.StudentID, criteria.Triple.ExerciseID, criteria.ActiveOnly}
	default:
		return 0, fmt.Errorf("delete booking: empty criteria")
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete booking: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *BookingRepository) ConfirmBooking(ctx context.Context, courseID, studentID, exerciseID int64) error {
	query := `
		UPDATE bookings
		SET confirmed = true, last_modified = now()
		WHERE course_id = $1 AND student_id = $2 AND exercise_id = $3 AND active
	`
	tag, err := r.db.Exec(ctx, query, courseID, studentID, exerciseID)
	if err != nil {
		return fmt.Errorf("confirm booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("confirm booking: %w", ErrNoRowsAffected)
	}
	return nil
}

func (r *BookingRepository) SetBookingInactive(ctx context.Context, booking *model.Booking) error {
	query := `
		UPDATE bookings
		SET active = false, last_modified = now()
		WHERE id = $1
		RETURNING last_modified
	`
	err := r.db.QueryRow(ctx, query, booking.ID).Scan(&booking.LastModified)
	if err != nil {
		if base.IsNotFound(err) {
			return fmt.Errorf("deactivate booking %d: %w", booking.ID, ErrNoRowsAffected)
		}
		return fmt.Errorf("deactivate booking: %w", err)
	}
	booking.Active = false
	return nil
}

// GetLastBookedSession returns the user's most recent booking, on either
// side of the session.
func (r *BookingRepository) GetLastBookedSession(ctx context.Context, userID int64, isInstructor bool) (*model.Booking, error) {
	column := "student_id"
	if isInstructor {
		column = "instructor_id"
	}
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE ` + column + ` = $1
		ORDER BY last_modified DESC
		LIMIT 1
	`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get last booked session: %w", err)
	}
	return booking, nil
}

func scanBooking(row rowScanner) (*model.Booking, error) {
	var booking model.Booking
	err := row.Scan(
		&booking.ID,
		&booking.CourseID,
		&booking.StudentID,
		&booking.ExerciseID,
		&booking.InstructorID,
		&booking.SlotID,
		&booking.Confirmed,
		&booking.Active,
		&booking.LastModified,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
