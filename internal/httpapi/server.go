// Package httpapi exposes the scheduling services as a small JSON API.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"session-scheduler/internal/service"

	"go.uber.org/zap"
)

type Server struct {
	bookings     *service.BookingService
	availability *service.AvailabilityService
	schedule     *service.ScheduleService
	logger       *zap.Logger
}

func NewServer(
	bookings *service.BookingService,
	availability *service.AvailabilityService,
	schedule *service.ScheduleService,
	logger *zap.Logger,
) *Server {
	return &Server{
		bookings:     bookings,
		availability: availability,
		schedule:     schedule,
		logger:       logger,
	}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/bookings", s.handleCreateBooking)
	mux.HandleFunc("POST /api/bookings/confirm", s.handleConfirmBooking)
	mux.HandleFunc("DELETE /api/bookings/{id}", s.handleCancelBooking)
	mux.HandleFunc("GET /api/users/{id}/bookings", s.handleUserBookings)
	mux.HandleFunc("GET /api/users/{id}/bookings/last", s.handleLastBooking)

	mux.HandleFunc("POST /api/grading-events", s.handleGradingEvent)

	mux.HandleFunc("POST /api/availability", s.handlePostAvailability)
	mux.HandleFunc("DELETE /api/availability", s.handleClearWeek)
	mux.HandleFunc("GET /api/availability/summary", s.handleAvailabilitySummary)
	mux.HandleFunc("GET /api/eligibility", s.handleEligibility)

	mux.HandleFunc("GET /api/weeks/{year}/{week}/layout", s.handleWeekLayout)
	mux.HandleFunc("GET /api/weeks/{year}/{week}/image.png", s.handleWeekImage)

	return mux
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", zap.Error(err))
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps the service taxonomy onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}
