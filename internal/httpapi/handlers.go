package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"session-scheduler/internal/service"
)

type tripleRequest struct {
	CourseID   int64 `json:"course_id"`
	StudentID  int64 `json:"student_id"`
	ExerciseID int64 `json:"exercise_id"`
}

type createBookingRequest struct {
	tripleRequest
	InstructorID int64      `json:"instructor_id"`
	SlotID       int64      `json:"slot_id,omitempty"`
	StartTime    *time.Time `json:"start_time,omitempty"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	Annotation   string     `json:"annotation,omitempty"`
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", service.ErrValidation, err))
		return
	}

	create := service.CreateBookingRequest{
		CourseID:     req.CourseID,
		StudentID:    req.StudentID,
		ExerciseID:   req.ExerciseID,
		InstructorID: req.InstructorID,
		SlotID:       req.SlotID,
		Annotation:   req.Annotation,
	}
	if req.StartTime != nil {
		create.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		create.EndTime = *req.EndTime
	}

	booking, err := s.bookings.CreateBooking(r.Context(), create)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, booking)
}

func (s *Server) handleConfirmBooking(w http.ResponseWriter, r *http.Request) {
	var req tripleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", service.ErrValidation, err))
		return
	}

	booking, err := s.bookings.ConfirmBooking(r.Context(), req.CourseID, req.StudentID, req.ExerciseID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, booking)
}

func (s *Server) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.bookings.CancelBooking(r.Context(), id, r.URL.Query().Get("reason")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUserBookings(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	oldestFirst := r.URL.Query().Get("order") == "oldest"

	bookings, err := s.bookings.GetBookingsForUser(r.Context(), id, oldestFirst)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, bookings)
}

func (s *Server) handleLastBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	isInstructor := r.URL.Query().Get("role") == "instructor"

	booking, err := s.bookings.GetLastBookedSession(r.Context(), id, isInstructor)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if booking == nil {
		s.writeError(w, fmt.Errorf("%w: no sessions for user %d", service.ErrNotFound, id))
		return
	}
	s.writeJSON(w, http.StatusOK, booking)
}

// handleGradingEvent is the inbound hook from the grading system: an
// exercise was graded, so the matching active booking retires.
func (s *Server) handleGradingEvent(w http.ResponseWriter, r *http.Request) {
	var req tripleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", service.ErrValidation, err))
		return
	}

	if err := s.bookings.DeactivateOnGraded(r.Context(), req.CourseID, req.StudentID, req.ExerciseID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type postAvailabilityRequest struct {
	StudentID int64              `json:"student_id"`
	CourseID  int64              `json:"course_id"`
	Intervals []service.Interval `json:"intervals"`
}

func (s *Server) handlePostAvailability(w http.ResponseWriter, r *http.Request) {
	var req postAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", service.ErrValidation, err))
		return
	}

	slots, err := s.availability.PostAvailability(r.Context(), req.StudentID, req.CourseID, req.Intervals)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, slots)
}

func (s *Server) handleClearWeek(w http.ResponseWriter, r *http.Request) {
	studentID, err := queryInt64(r, "student_id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	courseID, err := queryInt64(r, "course_id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	year, err := queryInt64(r, "year")
	if err != nil {
		s.writeError(w, err)
		return
	}
	week, err := queryInt64(r, "week")
	if err != nil {
		s.writeError(w, err)
		return
	}

	deleted, err := s.availability.ClearWeek(r.Context(), studentID, courseID, int(year), int(week))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

func (s *Server) handleAvailabilitySummary(w http.ResponseWriter, r *http.Request) {
	studentID, err := queryInt64(r, "student_id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	courseID, err := queryInt64(r, "course_id")
	if err != nil {
		s.writeError(w, err)
		return
	}

	summary, err := s.availability.Summary(r.Context(), studentID, courseID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleEligibility(w http.ResponseWriter, r *http.Request) {
	studentID, err := queryInt64(r, "student_id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	courseID, err := queryInt64(r, "course_id")
	if err != nil {
		s.writeError(w, err)
		return
	}

	window, err := s.availability.Eligibility(r.Context(), studentID, courseID, time.Now())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, window)
}

func (s *Server) handleWeekLayout(w http.ResponseWriter, r *http.Request) {
	courseID, ownerID, year, week, err := weekParams(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	layout, err := s.schedule.WeekLayout(r.Context(), courseID, ownerID, year, week)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, layout)
}

func (s *Server) handleWeekImage(w http.ResponseWriter, r *http.Request) {
	courseID, ownerID, year, week, err := weekParams(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	img, err := s.schedule.WeekImage(r.Context(), courseID, ownerID, year, week)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

func weekParams(r *http.Request) (courseID, ownerID int64, year, week int, err error) {
	y, err := pathInt64(r, "year")
	if err != nil {
		return 0, 0, 0, 0, err
	}
	wk, err := pathInt64(r, "week")
	if err != nil {
		return 0, 0, 0, 0, err
	}
	courseID, err = queryInt64(r, "course_id")
	if err != nil {
		return 0, 0, 0, 0, err
	}
	// owner_id is optional, 0 shows every student.
	if raw := r.URL.Query().Get("owner_id"); raw != "" {
		ownerID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, 0, 0, 0, fmt.Errorf("%w: invalid owner_id", service.ErrValidation)
		}
	}
	return courseID, ownerID, int(y), int(wk), nil
}

func pathInt64(r *http.Request, name string) (int64, error) {
	v, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s", service.ErrValidation, name)
	}
	return v, nil
}

func queryInt64(r *http.Request, name string) (int64, error) {
	v, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s", service.ErrValidation, name)
	}
	return v, nil
}
