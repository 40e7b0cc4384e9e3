package api

import (
	"encoding/json"
	"net/http"

	"organicare/internal/metrics"
)

// handleSearchClients searches the client directory.
// GET /api/clients?q=maria
func (s *Server) handleSearchClients(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("search_clients")
	writeJSON(w, http.StatusOK, map[string]any{
		"clients": s.directory.Search(r.URL.Query().Get("q")),
	})
}

// CreateClientRequest is the request body for registering a client.
type CreateClientRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// handleCreateClient registers a new client, the dialog's "new client"
// path.
// POST /api/clients
func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("create_client")

	var req CreateClientRequest
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

	client := s.directory.Add(req.Name, req.Phone, req.Email, req.Notes)
	writeJSON(w, http.StatusCreated, client)
}
