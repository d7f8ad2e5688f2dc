package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/officeportal/portal/internal/auth"
)

// handleProfile returns the signed-in user's profile.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	email := auth.EmailFromContext(r.Context())
	p, err := s.profiles.Get(email)
	if err != nil {
		slog.Error("loading profile", "err", err)
		apiError(w, "internal error", http.StatusInternalServerError)
		return
	}

	apiJSON(w, map[string]interface{}{"profile": p}, http.StatusOK)
}

// handleProfileImage updates the profile image path.
func (s *Server) handleProfileImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		ProfileImage string `json:"profileImage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.ProfileImage) == "" {
		apiError(w, "profileImage is required", http.StatusBadRequest)
		return
	}

	email := auth.EmailFromContext(r.Context())
	if err := s.profiles.SetImage(email, req.ProfileImage); err != nil {
		slog.Error("updating profile image", "err", err)
		apiError(w, "internal error", http.StatusInternalServerError)
		return
	}

	apiJSON(w, map[string]string{"profileImage": req.ProfileImage}, http.StatusOK)
}

// handlePassword changes the account password after verifying the
// current one.
func (s *Server) handlePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	email := auth.EmailFromContext(r.Context())
	if err := s.users.UpdatePassword(email, req.CurrentPassword, req.NewPassword, req.NewPassword); err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	slog.Info("password updated", "email", email)
	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
