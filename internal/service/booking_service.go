package service

import (
	"context"
	"fmt"
	"time"

	"session-scheduler/internal/model"
	"session-scheduler/internal/notify"
	"session-scheduler/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingService drives the booking lifecycle. Every operation that touches
// both the slot and the booking runs inside one transaction: both records
// reach their new state or neither does.
type BookingService struct {
	txManager repository.TxManager
	bookings  repository.BookingStore
	notifier  notify.Notifier
	logger    *zap.Logger
}

func NewBookingService(
	txManager repository.TxManager,
	bookings repository.BookingStore,
	notifier notify.Notifier,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		txManager: txManager,
		bookings:  bookings,
		notifier:  notifier,
		logger:    logger,
	}
}

// CreateBookingRequest describes a new session. Exactly one of SlotID (book
// an existing open availability slot) or the StartTime/EndTime interval
// (instructor books a fresh time range) must be set.
type CreateBookingRequest struct {
	CourseID     int64
	StudentID    int64
	ExerciseID   int64
	InstructorID int64

	SlotID     int64
	StartTime  time.Time
	EndTime    time.Time
	Annotation string
}

func (req *CreateBookingRequest) validate() error {
	if req.CourseID <= 0 || req.StudentID <= 0 || req.ExerciseID <= 0 {
		return fmt.Errorf("%w: incomplete booking triple", ErrValidation)
	}
	if req.InstructorID <= 0 {
		return fmt.Errorf("%w: missing instructor", ErrValidation)
	}
	if req.SlotID != 0 {
		return nil
	}
	if !req.StartTime.Before(req.EndTime) {
		return fmt.Errorf("%w: %v", ErrValidation, model.ErrInvalidInterval)
	}
	return nil
}

// CreateBooking creates the booking and moves its slot to `booked` (existing
// student-posted slot) or creates a tentative instructor-owned slot. A
// second active booking for the same triple fails with ErrConflict.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*model.Booking, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	triple := model.TripleKey{CourseID: req.CourseID, StudentID: req.StudentID, ExerciseID: req.ExerciseID}
	var booking *model.Booking

	err := s.txManager.WithTx(ctx, func(ctx context.Context, stores repository.TxStores) error {
		existing, err := stores.Bookings.GetBooking(ctx, repository.BookingCriteria{Triple: &triple, ActiveOnly: true})
		if err != nil {
			return fmt.Errorf("check active booking: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("%w: active booking %d already exists for this exercise", ErrConflict, existing.ID)
		}

		slot, err := s.claimSlot(ctx, stores, req)
		if err != nil {
			return err
		}

		booking = &model.Booking{
			CourseID:     req.CourseID,
			StudentID:    req.StudentID,
			ExerciseID:   req.ExerciseID,
			InstructorID: req.InstructorID,
			SlotID:       slot.ID,
			Active:       true,
		}
		if err := stores.Bookings.SaveBooking(ctx, booking); err != nil {
			return fmt.Errorf("save booking: %w", err)
		}
		booking.Slot = slot
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	s.logger.Info("booking created",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("course_id", booking.CourseID),
		zap.Int64("student_id", booking.StudentID),
		zap.Int64("exercise_id", booking.ExerciseID),
		zap.Int64("slot_id", booking.SlotID),
		zap.String("slot_status", string(booking.Slot.Status)),
	)

	s.notifier.NotifyStudentBooked(ctx, booking)
	return booking, nil
}

// claimSlot either books an existing open slot or creates a tentative one
// for the requested interval.
func (s *BookingService) claimSlot(ctx context.Context, stores repository.TxStores, req CreateBookingRequest) (*model.Slot, error) {
	if req.SlotID != 0 {
		slot, err := stores.Slots.GetSlot(ctx, req.SlotID)
		if err != nil {
			return nil, fmt.Errorf("get slot: %w", err)
		}
		if slot == nil {
			return nil, fmt.Errorf("%w: slot %d", ErrNotFound, req.SlotID)
		}
		if slot.OwnerID != req.StudentID || slot.CourseID != req.CourseID {
			return nil, fmt.Errorf("%w: slot %d does not belong to student %d in course %d",
				ErrValidation, slot.ID, req.StudentID, req.CourseID)
		}
		if !slot.IsBookable() {
			return nil, fmt.Errorf("%w: slot %d is %s", ErrConflict, slot.ID, slot.Status)
		}
		slot.Status = model.SlotStatusBooked
		slot.Annotation = req.Annotation
		if err := stores.Slots.SaveSlot(ctx, slot); err != nil {
			return nil, fmt.Errorf("book slot: %w", err)
		}
		return slot, nil
	}

	year, week := model.WeekOf(req.StartTime)
	slot := &model.Slot{
		OwnerID:           req.StudentID,
		CourseID:          req.CourseID,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		Year:              year,
		Week:              week,
		Status:            model.SlotStatusTentative,
		Annotation:        req.Annotation,
		BatchID:           uuid.New(),
		InstructorCreated: true,
	}
	if err := stores.Slots.SaveSlot(ctx, slot); err != nil {
		return nil, fmt.Errorf("create tentative slot: %w", err)
	}
	return slot, nil
}

// ConfirmBooking records the student's acknowledgment: booking confirmed,
// slot status `confirmed`. ErrNotFound when the triple has no active booking.
func (s *BookingService) ConfirmBooking(ctx context.Context, courseID, studentID, exerciseID int64) (*model.Booking, error) {
	if courseID <= 0 || studentID <= 0 || exerciseID <= 0 {
		return nil, fmt.Errorf("%w: incomplete booking triple", ErrValidation)
	}

	triple := model.TripleKey{CourseID: courseID, StudentID: studentID, ExerciseID: exerciseID}
	var booking *model.Booking

	err := s.txManager.WithTx(ctx, func(ctx context.Context, stores repository.TxStores) error {
		var err error
		booking, err = stores.Bookings.GetBooking(ctx, repository.BookingCriteria{Triple: &triple, ActiveOnly: true})
		if err != nil {
			return fmt.Errorf("get active booking: %w", err)
		}
		if booking == nil {
			return fmt.Errorf("%w: no active booking for this exercise", ErrNotFound)
		}

		if err := stores.Bookings.ConfirmBooking(ctx, courseID, studentID, exerciseID); err != nil {
			return fmt.Errorf("confirm booking: %w", err)
		}
		booking.Confirmed = true

		if err := stores.Slots.UpdateSlotStatus(ctx, booking.SlotID, model.SlotStatusConfirmed); err != nil {
			return fmt.Errorf("confirm slot: %w", err)
		}
		booking.Slot, err = stores.Slots.GetSlot(ctx, booking.SlotID)
		if err != nil {
			return fmt.Errorf("reload slot: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	s.logger.Info("booking confirmed",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("student_id", studentID),
		zap.Int64("exercise_id", exerciseID),
	)

	// The instructor gets the acknowledgment notice and the confirmed
	// session summary; both ride the same transition.
	s.notifier.NotifyInstructorOfStudentConfirmation(ctx, booking)
	s.notifier.NotifyInstructorConfirmed(ctx, booking)
	return booking, nil
}

// CancelBooking deletes the booking and releases its slot: student-posted
// availability reverts to open, an instructor-created slot is removed.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID int64, reason string) error {
	var booking *model.Booking

	err := s.txManager.WithTx(ctx, func(ctx context.Context, stores repository.TxStores) error {
		var err error
		booking, err = stores.Bookings.GetBooking(ctx, repository.BookingCriteria{ID: bookingID})
		if err != nil {
			return fmt.Errorf("get booking: %w", err)
		}
		if booking == nil {
			return fmt.Errorf("%w: booking %d", ErrNotFound, bookingID)
		}

		slot, err := stores.Slots.GetSlot(ctx, booking.SlotID)
		if err != nil {
			return fmt.Errorf("get slot: %w", err)
		}

		deleted, err := stores.Bookings.DeleteBooking(ctx, repository.BookingCriteria{ID: bookingID})
		if err != nil {
			return fmt.Errorf("delete booking: %w", err)
		}
		if deleted == 0 {
			return fmt.Errorf("%w: booking %d", ErrNotFound, bookingID)
		}

		if slot == nil {
			return nil
		}
		booking.Slot = slot

		if slot.InstructorCreated {
			if err := stores.Slots.DeleteSlot(ctx, slot.ID); err != nil {
				return fmt.Errorf("delete slot: %w", err)
			}
			return nil
		}

		slot.Status = model.SlotStatusOpen
		slot.Annotation = ""
		if err := stores.Slots.SaveSlot(ctx, slot); err != nil {
			return fmt.Errorf("release slot: %w", err)
		}
		return nil
	})
	if err != nil {
		return classify(err)
	}

	s.logger.Info("booking cancelled",
		zap.Int64("booking_id", bookingID),
		zap.String("reason", reason),
	)

	s.notifier.NotifySessionCancelled(ctx, booking, reason)
	return nil
}

// DeactivateOnGraded retires the active booking for a graded exercise.
// Grading can happen without a pending booking, so a missing booking is a
// no-op, not an error.
func (s *BookingService) DeactivateOnGraded(ctx context.Context, courseID, studentID, exerciseID int64) error {
	triple := model.TripleKey{CourseID: courseID, StudentID: studentID, ExerciseID: exerciseID}

	err := s.txManager.WithTx(ctx, func(ctx context.Context, stores repository.TxStores) error {
		booking, err := stores.Bookings.GetBooking(ctx, repository.BookingCriteria{Triple: &triple, ActiveOnly: true})
		if err != nil {
			return fmt.Errorf("get active booking: %w", err)
		}
		if booking == nil {
			return nil
		}

		if err := stores.Bookings.SetBookingInactive(ctx, booking); err != nil {
			return fmt.Errorf("deactivate booking: %w", err)
		}

		s.logger.Info("booking deactivated after grading",
			zap.Int64("booking_id", booking.ID),
			zap.Int64("student_id", studentID),
			zap.Int64("exercise_id", exerciseID),
		)
		return nil
	})
	return classify(err)
}

// GetBookingsForUser lists a user's bookings on either side of the session.
func (s *BookingService) GetBookingsForUser(ctx context.Context, userID int64, oldestFirst bool) ([]*model.Booking, error) {
	bookings, err := s.bookings.GetBookingsForUser(ctx, userID, oldestFirst)
	if err != nil {
		return nil, classify(err)
	}
	return bookings, nil
}

// GetLastBookedSession returns the user's most recent session, if any.
func (s *BookingService) GetLastBookedSession(ctx context.Context, userID int64, isInstructor bool) (*model.Booking, error) {
	booking, err := s.bookings.GetLastBookedSession(ctx, userID, isInstructor)
	if err != nil {
		return nil, classify(err)
	}
	return booking, nil
}
