package api

import (
	"net/http"
	"time"

	"organicare/internal/agenda"
	"organicare/internal/export"
	"organicare/internal/metrics"
	"organicare/internal/model"
	"organicare/internal/timegrid"
)

// resolveClinic picks the clinic a grid request is for: the clinic_id
// query parameter when present, the active clinic otherwise.
func (s *Server) resolveClinic(r *http.Request) (model.Clinic, bool) {
	idStr := r.URL.Query().Get("clinic_id")
	if idStr == "" {
		return s.provider.Active(), true
	}
	id, err := parseID(idStr)
	if err != nil {
		return model.Clinic{}, false
	}
	clinic, err := s.provider.Get(id)
	if err != nil {
		return model.Clinic{}, false
	}
	return clinic, true
}

// handleAgendaWeek returns the composed week grid.
// GET /api/agenda/week?date=YYYY-MM-DD&clinic_id=N
func (s *Server) handleAgendaWeek(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("agenda_week")

	clinic, ok := s.resolveClinic(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown clinic")
		return
	}
	ref, err := queryDate(r, time.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}

	key := s.cache.Key(r.Context(), "week", clinic.ID, ref.Format("2006-01-02"))
	var cached agenda.Matrix
	if s.cache.Read(r.Context(), key, &cached) {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	m := agenda.BuildWeekMatrix(&clinic, s.book.ListClinic(clinic.ID), ref, time.Now())
	s.cache.Write(r.Context(), key, m)
	writeJSON(w, http.StatusOK, m)
}

// handleAgendaDay returns the composed single-day grid.
// GET /api/agenda/day?date=YYYY-MM-DD&clinic_id=N
func (s *Server) handleAgendaDay(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("agenda_day")

	clinic, ok := s.resolveClinic(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown clinic")
		return
	}
	date, err := queryDate(r, time.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}

	key := s.cache.Key(r.Context(), "day", clinic.ID, date.Format("2006-01-02"))
	var cached agenda.Matrix
	if s.cache.Read(r.Context(), key, &cached) {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	m := agenda.BuildDayMatrix(&clinic, s.book.ListClinic(clinic.ID), date, time.Now())
	s.cache.Write(r.Context(), key, m)
	writeJSON(w, http.StatusOK, m)
}

// NowResponse is the current-time indicator position for a clinic.
type NowResponse struct {
	Visible bool    `json:"visible"`
	Time    string  `json:"time,omitempty"`
	Offset  float64 `json:"offset,omitempty"`
}

// handleAgendaNow returns the indicator position for the active hours.
// GET /api/agenda/now?clinic_id=N&mobile=true
func (s *Server) handleAgendaNow(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("agenda_now")

	clinic, ok := s.resolveClinic(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown clinic")
		return
	}
	mobile := r.URL.Query().Get("mobile") == "true"

	now := time.Now()
	open, close := agenda.DayHours(&clinic.Config, now)
	offset, visible := timegrid.CurrentOffset(now, open, close, mobile)

	resp := NowResponse{Visible: visible}
	if visible {
		resp.Time = now.Format("15:04")
		resp.Offset = offset
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleAgendaExport streams the agenda as an Excel workbook. The span
// parameter selects a whole week (default) or a single day.
// GET /api/agenda/export?date=YYYY-MM-DD&clinic_id=N&span=week|day
func (s *Server) handleAgendaExport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("agenda_export")

	clinic, ok := s.resolveClinic(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown clinic")
		return
	}
	ref, err := queryDate(r, time.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}

	var m agenda.Matrix
	switch span := r.URL.Query().Get("span"); span {
	case "", "week":
		m = agenda.BuildWeekMatrix(&clinic, s.book.ListClinic(clinic.ID), ref, time.Now())
	case "day":
		m = agenda.BuildDayMatrix(&clinic, s.book.ListClinic(clinic.ID), ref, time.Now())
	default:
		writeError(w, http.StatusBadRequest, "invalid span; expected week or day")
		return
	}

	writer := export.NewExcelizeWriter()
	defer writer.Close()
	if err := export.WriteWeek(writer, m); err != nil {
		s.logger.Error().Err(err).Msg("Agenda export failed")
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	weekStart := time.Now()
	if len(m.Days) > 0 {
		weekStart = m.Days[0].Day.Time
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.GenerateFilename(clinic.Prefix, weekStart)+`"`)
	if err := writer.Save(w); err != nil {
		s.logger.Error().Err(err).Msg("Agenda export write failed")
	}
}

func queryDate(r *http.Request, fallback time.Time) (time.Time, error) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		return fallback, nil
	}
	return time.Parse("2006-01-02", dateStr)
}
