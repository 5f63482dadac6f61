package notify

import (
	"fmt"
	"time"

	"session-scheduler/internal/model"
)

// Message text builders shared by the delivery backends.

func StudentBookedText(booking *model.Booking) string {
	return fmt.Sprintf("A training session was booked for you (exercise %d)%s. Please confirm it.",
		booking.ExerciseID, slotSuffix(booking.Slot))
}

func InstructorConfirmedText(booking *model.Booking) string {
	return fmt.Sprintf("Session for exercise %d with student %d is confirmed%s.",
		booking.ExerciseID, booking.StudentID, slotSuffix(booking.Slot))
}

func StudentConfirmationText(booking *model.Booking) string {
	return fmt.Sprintf("Student %d acknowledged the session for exercise %d%s.",
		booking.StudentID, booking.ExerciseID, slotSuffix(booking.Slot))
}

func SessionCancelledText(booking *model.Booking, reason string) string {
	text := fmt.Sprintf("Your session for exercise %d was cancelled%s.",
		booking.ExerciseID, slotSuffix(booking.Slot))
	if reason != "" {
		text += " Reason: " + reason
	}
	return text
}

func slotSuffix(slot *model.Slot) string {
	if slot == nil {
		return ""
	}
	return " on " + FormatDateTimeRange(slot.StartTime, slot.EndTime)
}

// FormatDateTimeRange renders "02.01.2006 15:04-16:04".
func FormatDateTimeRange(start, end time.Time) string {
	return fmt.Sprintf("%s-%s", start.Format("02.01.2006 15:04"), end.Format("15:04"))
}

// FormatDate renders a date-only value.
func FormatDate(t time.Time) string {
	return t.Format("02.01.2006")
}
