package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

type contextKey string

const emailKey contextKey = "portal.email"

// EmailFromContext returns the signed-in user's email set by RequireSession.
func EmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(emailKey).(string)
	return email
}

// RequireSession is middleware that guards /api routes with cookie
// sessions. Public paths (signup, login, passkey login, health) pass
// through. The authenticated email is stored on the request context.
func RequireSession(sessions *SessionStore, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		email, err := sessions.Validate(r)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprintln(w, `{"error":"authentication required"}`)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), emailKey, email)))
	})
}

// loginLimiter tracks failed login attempts per IP.
type loginLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
}

// Limiter is the shared failed-login rate limiter.
var Limiter = &loginLimiter{attempts: make(map[string][]time.Time)}

const (
	rateLimitWindow  = 1 * time.Minute
	rateLimitMaxFail = 10
)

// RecordFailure records a failed attempt and returns true if the IP is
// now rate limited.
func (rl *loginLimiter) RecordFailure(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-rateLimitWindow)

	// Prune old entries
	valid := rl.attempts[ip][:0]
	for _, t := range rl.attempts[ip] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	valid = append(valid, now)
	rl.attempts[ip] = valid

	return len(valid) > rateLimitMaxFail
}

// Limited reports whether an IP is currently rate limited, without
// recording a new attempt.
func (rl *loginLimiter) Limited(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-rateLimitWindow)
	n := 0
	for _, t := range rl.attempts[ip] {
		if t.After(cutoff) {
			n++
		}
	}
	return n > rateLimitMaxFail
}

func isPublicPath(path string) bool {
	switch path {
	case "/health", "/api/signup", "/api/login":
		return true
	}
	// Passkey login endpoints must be public (user isn't authenticated yet)
	if strings.HasPrefix(path, "/passkey/login/") {
		return true
	}
	return false
}
