package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/officeportal/portal/internal/auth"
	"github.com/officeportal/portal/internal/department"
	"github.com/officeportal/portal/internal/visitor"
)

// handleSelectDepartment records the department for the signed-in
// user's registration in progress. A new selection replaces the old.
func (s *Server) handleSelectDepartment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Department string `json:"department"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if !department.Valid(req.Department) {
		apiError(w, "unknown department", http.StatusBadRequest)
		return
	}

	email := auth.EmailFromContext(r.Context())
	if err := s.departments.Set(email, req.Department); err != nil {
		slog.Error("storing department selection", "err", err)
		apiError(w, "internal error", http.StatusInternalServerError)
		return
	}

	apiJSON(w, map[string]string{"department": req.Department}, http.StatusOK)
}

// handleRegistration accepts a registration submission. A payload with
// an id reconciles an edit into the existing record; without one it
// creates a new record. The department admin is notified best-effort.
func (s *Server) handleRegistration(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var reg visitor.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if !department.Valid(reg.Department) {
		apiError(w, "unknown department", http.StatusBadRequest)
		return
	}

	email := auth.EmailFromContext(r.Context())

	var rec *visitor.Record
	var err error
	edited := reg.ID != ""
	if edited {
		rec, err = s.visitors.Update(email, reg)
	} else {
		rec, err = s.visitors.Create(email, reg)
	}
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			apiError(w, err.Error(), http.StatusNotFound)
			return
		}
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.notifier.RegistrationReceived(rec, edited); err != nil {
		slog.Error("notifying admin", "err", err)
	}

	code := http.StatusCreated
	if edited {
		code = http.StatusOK
	}
	apiJSON(w, map[string]interface{}{"visitor": rec}, code)
}

// handleVisitors lists the signed-in user's registrations.
func (s *Server) handleVisitors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	email := auth.EmailFromContext(r.Context())
	records, err := s.visitors.ListByOwner(email)
	if err != nil {
		slog.Error("listing visitors", "err", err)
		apiError(w, "internal error", http.StatusInternalServerError)
		return
	}

	if records == nil {
		records = make([]*visitor.Record, 0)
	}
	apiJSON(w, map[string]interface{}{"visitors": records}, http.StatusOK)
}

// handleVisitorDetail returns a single registration. Records belong to
// the user who created them.
func (s *Server) handleVisitorDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/visitor/visitors/")
	if id == "" || strings.Contains(id, "/") {
		apiError(w, "invalid visitor ID", http.StatusBadRequest)
		return
	}

	rec, err := s.visitors.GetByID(id)
	if err != nil {
		apiError(w, "visitor not found", http.StatusNotFound)
		return
	}
	if rec.OwnerEmail != auth.EmailFromContext(r.Context()) {
		apiError(w, "visitor not found", http.StatusNotFound)
		return
	}

	apiJSON(w, map[string]interface{}{"visitor": rec}, http.StatusOK)
}
