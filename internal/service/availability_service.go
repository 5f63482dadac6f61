package service

import (
	"context"
	"fmt"
	"time"

	"session-scheduler/internal/eligibility"
	"session-scheduler/internal/model"
	"session-scheduler/internal/notify"
	"session-scheduler/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AvailabilityService lets students post and clear availability, gated by
// the course posting-wait policy.
type AvailabilityService struct {
	txManager    repository.TxManager
	slots        repository.SlotStore
	courses      repository.CourseStore
	participants repository.ParticipantStore
	logger       *zap.Logger
	clock        func() time.Time
}

func NewAvailabilityService(
	txManager repository.TxManager,
	slots repository.SlotStore,
	courses repository.CourseStore,
	participants repository.ParticipantStore,
	logger *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		txManager:    txManager,
		slots:        slots,
		courses:      courses,
		participants: participants,
		logger:       logger,
		clock:        time.Now,
	}
}

// Interval is one availability range a student submits.
type Interval struct {
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Annotation   string    `json:"annotation"`
	DisplayColor string    `json:"display_color"`
}

// PostAvailability saves a batch of open slots for the student. The whole
// batch is rejected when any interval is malformed or when the earliest
// interval precedes the student's next allowed posting date.
func (s *AvailabilityService) PostAvailability(ctx context.Context, studentID, courseID int64, intervals []Interval) ([]*model.Slot, error) {
	if len(intervals) == 0 {
		return nil, fmt.Errorf("%w: no intervals submitted", ErrValidation)
	}
	for _, iv := range intervals {
		if !iv.StartTime.Before(iv.EndTime) {
			return nil, fmt.Errorf("%w: %v", ErrValidation, model.ErrInvalidInterval)
		}
	}

	window, err := s.Eligibility(ctx, studentID, courseID, s.clock())
	if err != nil {
		return nil, err
	}
	for _, iv := range intervals {
		if iv.StartTime.Before(window.NextAllowedDate) {
			return nil, fmt.Errorf("%w: posting not allowed before %s",
				ErrValidation, notify.FormatDate(window.NextAllowedDate))
		}
	}

	batchID := uuid.New()
	slots := make([]*model.Slot, 0, len(intervals))

	err = s.txManager.WithTx(ctx, func(ctx context.Context, stores repository.TxStores) error {
		for _, iv := range intervals {
			year, week := model.WeekOf(iv.StartTime)
			slot := &model.Slot{
				OwnerID:      studentID,
				CourseID:     courseID,
				StartTime:    iv.StartTime,
				EndTime:      iv.EndTime,
				Year:         year,
				Week:         week,
				Status:       model.SlotStatusOpen,
				Annotation:   iv.Annotation,
				DisplayColor: iv.DisplayColor,
				BatchID:      batchID,
			}
			if err := stores.Slots.SaveSlot(ctx, slot); err != nil {
				return fmt.Errorf("save slot: %w", err)
			}
			slots = append(slots, slot)
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	s.logger.Info("availability posted",
		zap.Int64("student_id", studentID),
		zap.Int64("course_id", courseID),
		zap.Int("slots", len(slots)),
		zap.String("batch_id", batchID.String()),
	)
	return slots, nil
}

// ClearWeek removes the student's unbooked availability for one week.
// Slots already tied to a booking stay untouched.
func (s *AvailabilityService) ClearWeek(ctx context.Context, studentID, courseID int64, year, week int) (int64, error) {
	deleted, err := s.slots.DeleteOpenSlots(ctx, courseID, year, week, studentID)
	if err != nil {
		return 0, classify(err)
	}

	s.logger.Info("availability cleared",
		zap.Int64("student_id", studentID),
		zap.Int64("course_id", courseID),
		zap.Int("year", year),
		zap.Int("week", week),
		zap.Int64("deleted", deleted),
	)
	return deleted, nil
}

// AvailabilitySummary is a student's posted-availability footprint in one
// course.
type AvailabilitySummary struct {
	SlotCount   int        `json:"slot_count"`
	FirstPosted *time.Time `json:"first_posted,omitempty"`
}

// Summary counts the student's slots and finds their earliest posting.
func (s *AvailabilityService) Summary(ctx context.Context, studentID, courseID int64) (*AvailabilitySummary, error) {
	count, err := s.slots.GetSlotCount(ctx, courseID, studentID)
	if err != nil {
		return nil, classify(err)
	}

	summary := &AvailabilitySummary{SlotCount: count}
	first, err := s.slots.GetFirstPostedSlot(ctx, studentID)
	if err != nil {
		return nil, classify(err)
	}
	if first != nil {
		summary.FirstPosted = &first.StartTime
	}
	return summary, nil
}

// Eligibility gathers the policy and history inputs and computes the
// student's next allowed posting date.
func (s *AvailabilityService) Eligibility(ctx context.Context, studentID, courseID int64, now time.Time) (eligibility.Window, error) {
	var window eligibility.Window

	course, err := s.courses.GetCourse(ctx, courseID)
	if err != nil {
		return window, classify(err)
	}
	if course == nil {
		return window, fmt.Errorf("%w: course %d", ErrNotFound, courseID)
	}

	student, err := s.participants.GetStudent(ctx, courseID, studentID)
	if err != nil {
		return window, classify(err)
	}
	if student == nil {
		return window, fmt.Errorf("%w: student %d in course %d", ErrNotFound, studentID, courseID)
	}

	lastBooking, err := s.slots.GetLastBooking(ctx, courseID, studentID)
	if err != nil {
		return window, classify(err)
	}
	lastGraded, err := s.participants.GetLastGradedDate(ctx, courseID, studentID)
	if err != nil {
		return window, classify(err)
	}

	enrolled := student.EnrollDate()
	return eligibility.NextAllowedDate(eligibility.Inputs{
		StudentID:   studentID,
		CourseID:    courseID,
		Now:         now,
		WaitDays:    course.Policy.PostingWaitDays,
		Waived:      student.WaitWaived,
		LastBooking: lastBooking,
		LastGraded:  lastGraded,
		Enrolled:    &enrolled,
	}), nil
}
