package repository

import (
	"context"
	"fmt"
	"time"

	"session-scheduler/internal/model"
	"session-scheduler/internal/repository/base"
)

// SlotStore is the slot persistence contract the services depend on.
// OwnerID 0 in week queries means "all students".
type SlotStore interface {
	GetSlot(ctx context.Context, id int64) (*model.Slot, error)
	GetSlotsForWeek(ctx context.Context, courseID, ownerID int64, year, week int) ([]*model.Slot, error)
	SaveSlot(ctx context.Context, slot *model.Slot) error
	UpdateSlotStatus(ctx context.Context, id int64, status model.SlotStatus) error
	DeleteSlot(ctx context.Context, id int64) error
	DeleteOpenSlots(ctx context.Context, courseID int64, year, week int, ownerID int64) (int64, error)
	GetFirstPostedSlot(ctx context.Context, ownerID int64) (*model.Slot, error)
	GetLastBooking(ctx context.Context, courseID, ownerID int64) (*time.Time, error)
	GetSlotCount(ctx context.Context, courseID, ownerID int64) (int, error)
}

const slotColumns = `id, owner_id, course_id, start_time, end_time, year, week, status, annotation, display_color, batch_id, instructor_created, created_at`

type SlotRepository struct {
	db base.Querier
}

func NewSlotRepository(db base.Querier) *SlotRepository {
	return &SlotRepository{db: db}
}

func (r *SlotRepository) GetSlot(ctx context.Context, id int64) (*model.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM slots WHERE id = $1`

	slot, err := scanSlot(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}
	return slot, nil
}

func (r *SlotRepository) GetSlotsForWeek(ctx context.Context, courseID, ownerID int64, year, week int) ([]*model.Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM slots
		WHERE course_id = $1
		  AND year = $2
		  AND week = $3
		  AND ($4 = 0 OR owner_id = $4)
		ORDER BY start_time, id
	`

	rows, err := r.db.Query(ctx, query, courseID, year, week, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get slots for week: %w", err)
	}
	defer rows.Close()

	var slots []*model.Slot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

// SaveSlot inserts the slot when ID is zero, otherwise updates it in place.
func (r *SlotRepository) SaveSlot(ctx context.Context, slot *model.Slot) error {
	if slot.ID == 0 {
		query := `
			INSERT INTO slots (owner_id, course_id, start_time, end_time, year, week, status, annotation, display_color, batch_id, instructor_created)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id, created_at
		`
		err := r.db.QueryRow(
			ctx, query,
			slot.OwnerID, slot.CourseID, slot.StartTime, slot.EndTime,
			slot.Year, slot.Week, slot.Status, slot.Annotation,
			slot.DisplayColor, slot.BatchID, slot.InstructorCreated,
		).Scan(&slot.ID, &slot.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert slot: %w", err)
		}
		return nil
	}

	query := `
		UPDATE slots
		SET start_time = $1, end_time = $2, year = $3, week = $4,
		    status = $5, annotation = $6, display_color = $7
		WHERE id = $8
	`
	tag, err := r.db.Exec(
		ctx, query,
		slot.StartTime, slot.EndTime, slot.Year, slot.Week,
		slot.Status, slot.Annotation, slot.DisplayColor, slot.ID,
	)
	if err != nil {
		return fmt.Errorf("update slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update slot %d: %w", slot.ID, ErrNoRowsAffected)
	}
	return nil
}

func (r *SlotRepository) UpdateSlotStatus(ctx context.Context, id int64, status model.SlotStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE slots SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update slot status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update slot %d status: %w", id, ErrNoRowsAffected)
	}
	return nil
}

func (r *SlotRepository) DeleteSlot(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM slots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete slot %d: %w", id, ErrNoRowsAffected)
	}
	return nil
}

// DeleteOpenSlots clears a student's unbooked availability for one week.
// Slots referenced by a booking keep their non-open status and survive.
func (r *SlotRepository) DeleteOpenSlots(ctx context.Context, courseID int64, year, week int, ownerID int64) (int64, error) {
	query := `
		DELETE FROM slots
		WHERE course_id = $1 AND year = $2 AND week = $3
		  AND owner_id = $4 AND status = 'open'
	`
	tag, err := r.db.Exec(ctx, query, courseID, year, week, ownerID)
	if err != nil {
		return 0, fmt.Errorf("delete open slots: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *SlotRepository) GetFirstPostedSlot(ctx context.Context, ownerID int64) (*model.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM slots WHERE owner_id = $1 ORDER BY created_at, id LIMIT 1`

	slot, err := scanSlot(r.db.QueryRow(ctx, query, ownerID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get first posted slot: %w", err)
	}
	return slot, nil
}

// GetLastBooking returns the timestamp of the student's most recent active
// booking in the course, nil when there is none.
func (r *SlotRepository) GetLastBooking(ctx context.Context, courseID, ownerID int64) (*time.Time, error) {
	query := `
		SELECT b.last_modified
		FROM bookings b
		WHERE b.course_id = $1 AND b.student_id = $2 AND b.active
		ORDER BY b.last_modified DESC
		LIMIT 1
	`

	var ts time.Time
	err := r.db.QueryRow(ctx, query, courseID, ownerID).Scan(&ts)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get last booking: %w", err)
	}
	return &ts, nil
}

func (r *SlotRepository) GetSlotCount(ctx context.Context, courseID, ownerID int64) (int, error) {
	query := `SELECT COUNT(*) FROM slots WHERE course_id = $1 AND owner_id = $2`

	var count int
	if err := r.db.QueryRow(ctx, query, courseID, ownerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("get slot count: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSlot(row rowScanner) (*model.Slot, error) {
	var slot model.Slot
	err := row.Scan(
		&slot.ID,
		&slot.OwnerID,
		&slot.CourseID,
		&slot.StartTime,
		&slot.EndTime,
		&slot.Year,
		&slot.Week,
		&slot.Status,
		&slot.Annotation,
		&slot.DisplayColor,
		&slot.BatchID,
		&slot.InstructorCreated,
		&slot.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}
