package service

import (
	"context"
	"fmt"
	"time"

	"session-scheduler/internal/model"
	"session-scheduler/internal/render"
	"session-scheduler/internal/repository"
	"session-scheduler/internal/schedule"

	"go.uber.org/zap"
)

// ScheduleService assembles the weekly lane layout for display.
type ScheduleService struct {
	slots   repository.SlotStore
	courses repository.CourseStore
	logger  *zap.Logger
}

func NewScheduleService(slots repository.SlotStore, courses repository.CourseStore, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{slots: slots, courses: courses, logger: logger}
}

// WeekLayout packs one week of slots into lanes. OwnerID 0 shows all
// students of the course.
func (s *ScheduleService) WeekLayout(ctx context.Context, courseID, ownerID int64, year, week int) (*schedule.WeekLayout, error) {
	course, slots, err := s.loadWeek(ctx, courseID, ownerID, year, week)
	if err != nil {
		return nil, err
	}

	weekStart := schedule.WeekStartOf(year, week, time.Local)
	layout, err := schedule.Pack(slots, weekStart, course.Policy.MaxDisplayLanes)
	if err != nil {
		return nil, classify(err)
	}

	s.logger.Debug("week layout packed",
		zap.Int64("course_id", courseID),
		zap.Int64("owner_id", ownerID),
		zap.Int("year", year),
		zap.Int("week", week),
		zap.Int("slots", len(slots)),
		zap.Int("max_lanes", layout.MaxLanes),
	)
	return layout, nil
}

// WeekImage renders the packed week as a PNG grid.
func (s *ScheduleService) WeekImage(ctx context.Context, courseID, ownerID int64, year, week int) ([]byte, error) {
	course, slots, err := s.loadWeek(ctx, courseID, ownerID, year, week)
	if err != nil {
		return nil, err
	}

	weekStart := schedule.WeekStartOf(year, week, time.Local)
	layout, err := schedule.Pack(slots, weekStart, course.Policy.MaxDisplayLanes)
	if err != nil {
		return nil, classify(err)
	}

	img, err := render.WeekImage(layout, course.Policy.FirstHour, course.Policy.LastHour)
	if err != nil {
		return nil, fmt.Errorf("render week image: %w", err)
	}
	return img, nil
}

func (s *ScheduleService) loadWeek(ctx context.Context, courseID, ownerID int64, year, week int) (*model.Course, []*model.Slot, error) {
	course, err := s.courses.GetCourse(ctx, courseID)
	if err != nil {
		return nil, nil, classify(err)
	}
	if course == nil {
		return nil, nil, fmt.Errorf("%w: course %d", ErrNotFound, courseID)
	}

	slots, err := s.slots.GetSlotsForWeek(ctx, courseID, ownerID, year, week)
	if err != nil {
		return nil, nil, classify(err)
	}
	return course, slots, nil
}
