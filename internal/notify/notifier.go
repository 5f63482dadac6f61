// Package notify delivers session notifications. Delivery is fire and
// forget: the booking lifecycle calls a Notifier after a committed state
// transition and never depends on the outcome.
package notify

import (
	"context"

	"session-scheduler/internal/model"

	"go.uber.org/zap"
)

type Notifier interface {
	NotifyStudentBooked(ctx context.Context, booking *model.Booking)
	NotifyInstructorConfirmed(ctx context.Context, booking *model.Booking)
	NotifyInstructorOfStudentConfirmation(ctx context.Context, booking *model.Booking)
	NotifySessionCancelled(ctx context.Context, booking *model.Booking, reason string)
}

// LogNotifier writes notifications to the log. Used when no Telegram token
// is configured and as the delivery fallback in development.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyStudentBooked(_ context.Context, booking *model.Booking) {
	n.logger.Info("notify: session booked",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("student_id", booking.StudentID),
		zap.String("text", StudentBookedText(booking)),
	)
}

func (n *LogNotifier) NotifyInstructorConfirmed(_ context.Context, booking *model.Booking) {
	n.logger.Info("notify: session confirmed",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("instructor_id", booking.InstructorID),
		zap.String("text", InstructorConfirmedText(booking)),
	)
}

func (n *LogNotifier) NotifyInstructorOfStudentConfirmation(_ context.Context, booking *model.Booking) {
	n.logger.Info("notify: student acknowledged",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("instructor_id", booking.InstructorID),
		zap.String("text", StudentConfirmationText(booking)),
	)
}

func (n *LogNotifier) NotifySessionCancelled(_ context.Context, booking *model.Booking, reason string) {
	n.logger.Info("notify: session cancelled",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("student_id", booking.StudentID),
		zap.String("reason", reason),
		zap.String("text", SessionCancelledText(booking, reason)),
	)
}
