// Package profile provides the "my page" profile model and data access.
package profile

import (
	"database/sql"
	"fmt"
	"time"
)

// DefaultImage is shown until the user uploads a profile image.
const DefaultImage = "/static/default-profile.png"

// Profile is a user's portal profile.
type Profile struct {
	UserEmail    string    `json:"userId"`
	Email        string    `json:"email"`
	ProfileImage string    `json:"profileImage"`
	UpdatedAt    time.Time `json:"-"`
}

// Repository provides profile storage.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a profile repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the profile for a user, falling back to the default image
// when the user has never saved one.
func (r *Repository) Get(userEmail string) (*Profile, error) {
	p := &Profile{UserEmail: userEmail, Email: userEmail, ProfileImage: DefaultImage}

	var image string
	var updatedAt time.Time
	err := r.db.QueryRow(
		"SELECT profile_image, updated_at FROM profiles WHERE user_email = ?", userEmail,
	).Scan(&image, &updatedAt)
	if err == sql.ErrNoRows {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying profile: %w", err)
	}

	if image != "" {
		p.ProfileImage = image
	}
	p.UpdatedAt = updatedAt
	return p, nil
}

// SetImage stores the user's profile image reference.
func (r *Repository) SetImage(userEmail, image string) error {
	_, err := r.db.Exec(
		`INSERT INTO profiles (user_email, profile_image, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(user_email) DO UPDATE SET profile_image = excluded.profile_image, updated_at = excluded.updated_at`,
		userEmail, image, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("storing profile image: %w", err)
	}
	return nil
}
