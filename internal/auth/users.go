package auth

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// User represents a portal account.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Contact   string    `json:"contact"`
	CreatedAt time.Time `json:"created_at"`
}

// UserStore manages portal accounts in SQLite.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a user store.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// Signup creates a new account. The password is stored as a bcrypt hash.
func (s *UserStore) Signup(email, password, passwordConfirm, contact string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("invalid email address: %s", email)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if password != passwordConfirm {
		return nil, fmt.Errorf("passwords do not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	result, err := s.db.Exec(
		"INSERT INTO users (email, password_hash, contact) VALUES (?, ?, ?)",
		email, string(hash), strings.TrimSpace(contact),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, fmt.Errorf("account already exists: %s", email)
		}
		return nil, fmt.Errorf("creating account: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user ID: %w", err)
	}

	return s.GetByID(id)
}

// Authenticate checks an email/password pair and returns the account.
// The same error is returned for an unknown email and a wrong password.
func (s *UserStore) Authenticate(email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var u User
	var hash string
	err := s.db.QueryRow(
		"SELECT id, email, contact, password_hash, created_at FROM users WHERE email = ?", email,
	).Scan(&u.ID, &u.Email, &u.Contact, &hash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("invalid email or password")
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	return &u, nil
}

// UpdatePassword changes the password after verifying the current one.
func (s *UserStore) UpdatePassword(email, current, updated, updatedConfirm string) error {
	if _, err := s.Authenticate(email, current); err != nil {
		return fmt.Errorf("current password is incorrect")
	}
	if len(updated) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if updated != updatedConfirm {
		return fmt.Errorf("passwords do not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(updated), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	if _, err := s.db.Exec(
		"UPDATE users SET password_hash = ? WHERE email = ?",
		string(hash), strings.ToLower(strings.TrimSpace(email)),
	); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}

	return nil
}

// GetByID returns an account by ID.
func (s *UserStore) GetByID(id int64) (*User, error) {
	var u User
	err := s.db.QueryRow(
		"SELECT id, email, contact, created_at FROM users WHERE id = ?", id,
	).Scan(&u.ID, &u.Email, &u.Contact, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &u, nil
}

// GetByEmail returns an account by email.
func (s *UserStore) GetByEmail(email string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var u User
	err := s.db.QueryRow(
		"SELECT id, email, contact, created_at FROM users WHERE email = ?", email,
	).Scan(&u.ID, &u.Email, &u.Contact, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &u, nil
}

// AllEmails returns every registered account email. Passkey login uses
// it to resolve a user handle back to an account.
func (s *UserStore) AllEmails() ([]string, error) {
	rows, err := s.db.Query("SELECT email FROM users ORDER BY email")
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("warning: closing rows: %v\n", cerr)
		}
	}()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("scanning email: %w", err)
		}
		emails = append(emails, email)
	}

	return emails, rows.Err()
}

// Exists reports whether an account with this email is registered.
func (s *UserStore) Exists(email string) bool {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM users WHERE email = ?", strings.ToLower(strings.TrimSpace(email)),
	).Scan(&count)
	return err == nil && count > 0
}
