package notify

import (
	"context"

	"session-scheduler/internal/model"
	"session-scheduler/internal/repository"

	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

// TelegramNotifier delivers notifications over Telegram. Participants
// without a linked chat are skipped silently; delivery errors are logged
// and dropped.
type TelegramNotifier struct {
	bot          *bot.Bot
	participants repository.ParticipantStore
	logger       *zap.Logger
}

func NewTelegramNotifier(b *bot.Bot, participants repository.ParticipantStore, logger *zap.Logger) *TelegramNotifier {
	return &TelegramNotifier{bot: b, participants: participants, logger: logger}
}

func (n *TelegramNotifier) NotifyStudentBooked(ctx context.Context, booking *model.Booking) {
	n.sendToStudent(ctx, booking, StudentBookedText(booking))
}

func (n *TelegramNotifier) NotifyInstructorConfirmed(ctx context.Context, booking *model.Booking) {
	n.sendToInstructor(ctx, booking, InstructorConfirmedText(booking))
}

func (n *TelegramNotifier) NotifyInstructorOfStudentConfirmation(ctx context.Context, booking *model.Booking) {
	n.sendToInstructor(ctx, booking, StudentConfirmationText(booking))
}

func (n *TelegramNotifier) NotifySessionCancelled(ctx context.Context, booking *model.Booking, reason string) {
	n.sendToStudent(ctx, booking, SessionCancelledText(booking, reason))
}

func (n *TelegramNotifier) sendToStudent(ctx context.Context, booking *model.Booking, text string) {
	student, err := n.participants.GetStudent(ctx, booking.CourseID, booking.StudentID)
	if err != nil || student == nil || student.ChatID == 0 {
		n.logDrop("student", booking, err)
		return
	}
	n.send(ctx, student.ChatID, booking, text)
}

func (n *TelegramNotifier) sendToInstructor(ctx context.Context, booking *model.Booking, text string) {
	instructor, err := n.participants.GetInstructor(ctx, booking.InstructorID)
	if err != nil || instructor == nil || instructor.ChatID == 0 {
		n.logDrop("instructor", booking, err)
		return
	}
	n.send(ctx, instructor.ChatID, booking, text)
}

func (n *TelegramNotifier) send(ctx context.Context, chatID int64, booking *model.Booking, text string) {
	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		n.logger.Warn("telegram notification failed",
			zap.Int64("booking_id", booking.ID),
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

func (n *TelegramNotifier) logDrop(recipient string, booking *model.Booking, err error) {
	n.logger.Debug("notification dropped, no linked chat",
		zap.String("recipient", recipient),
		zap.Int64("booking_id", booking.ID),
		zap.Error(err),
	)
}
