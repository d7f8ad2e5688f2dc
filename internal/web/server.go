// Package web provides the portal's HTTP API server.
package web

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/officeportal/portal/internal/auth"
	"github.com/officeportal/portal/internal/department"
	"github.com/officeportal/portal/internal/email"
	"github.com/officeportal/portal/internal/logging"
	"github.com/officeportal/portal/internal/profile"
	"github.com/officeportal/portal/internal/visitor"
)

// Server is the portal API server.
type Server struct {
	users       *auth.UserStore
	sessions    *auth.SessionStore
	passkeys    *auth.PasskeyStore
	profiles    *profile.Repository
	departments *department.Repository
	visitors    *visitor.Repository
	notifier    *email.Notifier
	config      auth.Config
	mux         *http.ServeMux
	handler     http.Handler
}

// NewServer creates an API server with the given database and config.
func NewServer(db *sql.DB, cfg auth.Config) (*Server, error) {
	s := &Server{
		users:       auth.NewUserStore(db),
		sessions:    auth.NewSessionStore(db),
		passkeys:    auth.NewPasskeyStore(db),
		profiles:    profile.NewRepository(db),
		departments: department.NewRepository(db),
		visitors:    visitor.NewRepository(db),
		config:      cfg,
		mux:         http.NewServeMux(),
	}

	s.notifier = email.NewNotifier(email.SMTPConfig{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.SMTPFrom,
	}, cfg.AdminEmail, cfg.DevMode)

	pk, err := newPasskeyHandlers(cfg, s.passkeys, s.sessions, s.users)
	if err != nil {
		return nil, fmt.Errorf("initializing passkeys: %w", err)
	}

	s.mux.HandleFunc("/health", s.handleHealth)

	s.mux.HandleFunc("/api/signup", s.handleSignup)
	s.mux.HandleFunc("/api/login", s.handleLogin)
	s.mux.HandleFunc("/api/logout", s.handleLogout)

	s.mux.HandleFunc("/api/mypage/profile", s.handleProfile)
	s.mux.HandleFunc("/api/mypage/profile-image", s.handleProfileImage)
	s.mux.HandleFunc("/api/mypage/password", s.handlePassword)

	s.mux.HandleFunc("/api/visitor/select-department", s.handleSelectDepartment)
	s.mux.HandleFunc("/api/visitor/registration", s.handleRegistration)
	s.mux.HandleFunc("/api/visitor/visitors", s.handleVisitors)
	s.mux.HandleFunc("/api/visitor/visitors/", s.handleVisitorDetail)

	s.mux.HandleFunc("/passkey/register/begin", pk.handleBeginRegistration)
	s.mux.HandleFunc("/passkey/register/finish", pk.handleFinishRegistration)
	s.mux.HandleFunc("/passkey/login/begin", pk.handleBeginLogin)
	s.mux.HandleFunc("/passkey/login/finish", pk.handleFinishLogin)

	// Request logging around session enforcement around the route mux.
	s.handler = logging.RequestLogger(auth.RequireSession(s.sessions, s.mux))

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(port int) error {
	addr := fmt.Sprintf(":%d", port)
	fmt.Printf("Starting portal API on http://localhost%s\n", addr)
	return http.ListenAndServe(addr, s)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
