package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"organicare/internal/clinic"
	"organicare/internal/metrics"
	"organicare/internal/model"
)

// handleListClinics returns the clinic catalogue.
// GET /api/clinics
func (s *Server) handleListClinics(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("list_clinics")
	writeJSON(w, http.StatusOK, map[string]any{
		"clinics": s.provider.All(),
		"active":  s.provider.Active().ID,
	})
}

// handleActiveClinic returns the active clinic with its full config.
// GET /api/clinics/active
func (s *Server) handleActiveClinic(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("active_clinic")
	writeJSON(w, http.StatusOK, s.provider.Active())
}

// SetActiveClinicRequest selects the active clinic.
type SetActiveClinicRequest struct {
	ClinicID int64 `json:"clinic_id"`
}

// handleSetActiveClinic switches the active clinic.
// PUT /api/clinics/active
func (s *Server) handleSetActiveClinic(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("set_active_clinic")

	var req SetActiveClinicRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	selected, err := s.provider.SetActive(r.Context(), req.ClinicID)
	if err != nil {
		writeError(w, clinicStatus(err), err.Error())
		return
	}
	s.cache.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, selected)
}

// handlePatchClinicConfig merges a partial config update into a clinic.
// PATCH /api/clinics/{id}/config
func (s *Server) handlePatchClinicConfig(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("patch_clinic_config")

	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid clinic id")
		return
	}

	var patch model.ConfigPatch
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	updated, err := s.provider.UpdateConfig(r.Context(), id, patch)
	if err != nil {
		writeError(w, clinicStatus(err), err.Error())
		return
	}
	s.cache.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, updated)
}

// AddCabinRequest is the request body for creating a cabin.
type AddCabinRequest struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Color    string `json:"color,omitempty"`
	IsActive bool   `json:"is_active"`
}

// handleAddCabin appends a cabin to a clinic.
// POST /api/clinics/{id}/cabins
func (s *Server) handleAddCabin(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("add_cabin")

	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid clinic id")
		return
	}

	var req AddCabinRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	updated, err := s.provider.AddCabin(r.Context(), id, model.Cabin{
		Code:     req.Code,
		Name:     req.Name,
		Color:    req.Color,
		IsActive: req.IsActive,
	})
	if err != nil {
		writeError(w, clinicStatus(err), err.Error())
		return
	}
	s.cache.Invalidate(r.Context())
	writeJSON(w, http.StatusCreated, updated)
}

// handleMoveCabinUp swaps a cabin with the previous active one.
// POST /api/clinics/{id}/cabins/{cabinID}/up
func (s *Server) handleMoveCabinUp(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("move_cabin_up")
	s.reorderCabin(w, r, s.provider.MoveCabinUp)
}

// handleMoveCabinDown swaps a cabin with the next active one.
// POST /api/clinics/{id}/cabins/{cabinID}/down
func (s *Server) handleMoveCabinDown(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("move_cabin_down")
	s.reorderCabin(w, r, s.provider.MoveCabinDown)
}

func (s *Server) reorderCabin(w http.ResponseWriter, r *http.Request,
	move func(ctx context.Context, clinicID, cabinID int64) (model.Clinic, error)) {
	clinicID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid clinic id")
		return
	}
	cabinID, err := parseID(chi.URLParam(r, "cabinID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid cabin id")
		return
	}

	updated, err := move(r.Context(), clinicID, cabinID)
	if err != nil {
		writeError(w, clinicStatus(err), err.Error())
		return
	}
	s.cache.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteCabin removes a cabin from a clinic.
// DELETE /api/clinics/{id}/cabins/{cabinID}
func (s *Server) handleDeleteCabin(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("delete_cabin")

	clinicID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid clinic id")
		return
	}
	cabinID, err := parseID(chi.URLParam(r, "cabinID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid cabin id")
		return
	}

	updated, err := s.provider.DeleteCabin(r.Context(), clinicID, cabinID)
	if err != nil {
		writeError(w, clinicStatus(err), err.Error())
		return
	}
	s.cache.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, updated)
}

// handleListTemplates returns the schedule template catalogue.
// GET /api/templates
func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("list_templates")
	writeJSON(w, http.StatusOK, map[string]any{"templates": s.templates.All()})
}

func clinicStatus(err error) int {
	switch {
	case errors.Is(err, clinic.ErrUnknownClinic), errors.Is(err, clinic.ErrUnknownCabin):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
