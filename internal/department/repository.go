package department

import (
	"database/sql"
	"fmt"
	"time"
)

// Repository records each user's current department selection on the
// server. One row per user; a new selection overwrites the old one.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a department selection repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Set stores the user's current selection, replacing any previous one.
func (r *Repository) Set(userEmail, name string) error {
	if !Valid(name) {
		return fmt.Errorf("unknown department: %q", name)
	}

	_, err := r.db.Exec(
		`INSERT INTO department_selections (user_email, department, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(user_email) DO UPDATE SET department = excluded.department, updated_at = excluded.updated_at`,
		userEmail, name, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("storing selection: %w", err)
	}
	return nil
}

// Get returns the user's current selection, or "" if none is recorded.
func (r *Repository) Get(userEmail string) (string, error) {
	var name string
	err := r.db.QueryRow(
		"SELECT department FROM department_selections WHERE user_email = ?", userEmail,
	).Scan(&name)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying selection: %w", err)
	}
	return name, nil
}
