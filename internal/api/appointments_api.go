package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"organicare/internal/agenda"
	"organicare/internal/metrics"
	"organicare/internal/model"
)

// CreateAppointmentRequest is the request body for POST /api/appointments.
type CreateAppointmentRequest struct {
	ClinicID  int64           `json:"clinic_id,omitempty"` // defaults to the active clinic
	CabinID   int64           `json:"cabin_id"`
	Date      string          `json:"date"`       // Format: YYYY-MM-DD
	StartTime string          `json:"start_time"` // Format: HH:MM
	Duration  int             `json:"duration,omitempty"`
	Comment   string          `json:"comment,omitempty"`
	ClientID  string          `json:"client_id,omitempty"` // looked up in the directory
	Client    *model.Client   `json:"client,omitempty"`
	Services  []model.Service `json:"services,omitempty"`
}

// handleCreateAppointment books a new appointment.
// POST /api/appointments
func (s *Server) handleCreateAppointment(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("create_appointment")

	var req CreateAppointmentRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Date == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}

	clinic := s.provider.Active()
	if req.ClinicID != 0 {
		clinic, err = s.provider.Get(req.ClinicID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unknown clinic")
			return
		}
	}

	client := model.Client{}
	switch {
	case req.ClientID != "":
		found, ok := s.directory.Get(req.ClientID)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown client")
			return
		}
		client = found
	case req.Client != nil:
		client = *req.Client
	default:
		writeError(w, http.StatusBadRequest, "client_id or client is required")
		return
	}

	apt, err := s.book.Create(agenda.CreateParams{
		Clinic:    &clinic,
		CabinID:   req.CabinID,
		Date:      date,
		StartTime: req.StartTime,
		Client:    client,
		Services:  req.Services,
		Comment:   req.Comment,
		Duration:  req.Duration,
	})
	if err != nil {
		writeError(w, agendaStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, apt)
}

// MoveAppointmentRequest is the request body for a drag-drop move.
type MoveAppointmentRequest struct {
	Date      string `json:"date"` // Format: YYYY-MM-DD
	CabinID   int64  `json:"cabin_id"`
	StartTime string `json:"start_time"` // Format: HH:MM
}

// handleMoveAppointment relocates an appointment with clamp and
// collision resolution.
// POST /api/appointments/{id}/move
func (s *Server) handleMoveAppointment(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("move_appointment")

	id := chi.URLParam(r, "id")
	var req MoveAppointmentRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}

	apt, err := s.book.Get(id)
	if err != nil {
		writeError(w, agendaStatus(err), err.Error())
		return
	}
	clinic, err := s.provider.Get(apt.ClinicID)
	if err != nil {
		writeError(w, clinicStatus(err), err.Error())
		return
	}
	// The clamp bound is the destination day's closing time for the
	// appointment's own clinic.
	_, dayClose := agenda.DayHours(&clinic.Config, date)

	moved, err := s.book.Move(id, agenda.Destination{
		Clinic:   &clinic,
		Date:     date,
		CabinID:  req.CabinID,
		Start:    req.StartTime,
		DayClose: dayClose,
	})
	if err != nil {
		writeError(w, agendaStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, moved)
}

// ResizeAppointmentRequest is the request body for a resize gesture.
type ResizeAppointmentRequest struct {
	Duration int `json:"duration"` // slots
}

// handleResizeAppointment changes an appointment's duration.
// POST /api/appointments/{id}/resize
func (s *Server) handleResizeAppointment(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("resize_appointment")

	var req ResizeAppointmentRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resized, err := s.book.Resize(chi.URLParam(r, "id"), req.Duration)
	if err != nil {
		writeError(w, agendaStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resized)
}

// CompleteAppointmentRequest toggles the completed flag.
type CompleteAppointmentRequest struct {
	Completed bool `json:"completed"`
}

// handleCompleteAppointment marks an appointment done or not done.
// POST /api/appointments/{id}/complete
func (s *Server) handleCompleteAppointment(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("complete_appointment")

	var req CompleteAppointmentRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	apt, err := s.book.Complete(chi.URLParam(r, "id"), req.Completed)
	if err != nil {
		writeError(w, agendaStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, apt)
}

// handleDeleteAppointment removes an appointment.
// DELETE /api/appointments/{id}
func (s *Server) handleDeleteAppointment(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("delete_appointment")

	if err := s.book.Delete(chi.URLParam(r, "id")); err != nil {
		writeError(w, agendaStatus(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
