package visitor

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Repository provides CRUD operations for visitor registrations.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a visitor repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const recordColumns = "id, owner_email, department, name, email, phone, visit_start_date, visit_end_date, visit_target, visit_purpose, status, created_at, updated_at"

// Create stores a new registration for the given owner. New records
// always start in the "receiving" status.
func (r *Repository) Create(ownerEmail string, reg Registration) (*Record, error) {
	if err := checkRegistration(reg); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	now := time.Now().UTC()

	_, err := r.db.Exec(
		`INSERT INTO visitors (id, owner_email, department, name, email, phone,
			visit_start_date, visit_end_date, visit_target, visit_purpose, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, ownerEmail, reg.Department, reg.Name, reg.Email, reg.Phone,
		reg.VisitStartDate, reg.VisitEndDate, reg.VisitTarget, reg.VisitPurpose,
		string(StatusReceiving), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting visitor: %w", err)
	}

	return r.GetByID(id)
}

// Update reconciles an edit submission into an existing record. The
// status and creation time are untouched; only the registration fields
// change.
func (r *Repository) Update(ownerEmail string, reg Registration) (*Record, error) {
	if reg.ID == "" {
		return nil, fmt.Errorf("record id is required for updates")
	}
	if err := checkRegistration(reg); err != nil {
		return nil, err
	}

	result, err := r.db.Exec(
		`UPDATE visitors SET department = ?, name = ?, email = ?, phone = ?,
			visit_start_date = ?, visit_end_date = ?, visit_target = ?, visit_purpose = ?, updated_at = ?
		 WHERE id = ? AND owner_email = ?`,
		reg.Department, reg.Name, reg.Email, reg.Phone,
		reg.VisitStartDate, reg.VisitEndDate, reg.VisitTarget, reg.VisitPurpose, time.Now().UTC(),
		reg.ID, ownerEmail,
	)
	if err != nil {
		return nil, fmt.Errorf("updating visitor: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("visitor %s not found", reg.ID)
	}

	return r.GetByID(reg.ID)
}

// GetByID returns a single record.
func (r *Repository) GetByID(id string) (*Record, error) {
	row := r.db.QueryRow("SELECT "+recordColumns+" FROM visitors WHERE id = ?", id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("visitor %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying visitor: %w", err)
	}
	return rec, nil
}

// ListByOwner returns all registrations created by the given user,
// oldest visit first.
func (r *Repository) ListByOwner(ownerEmail string) ([]*Record, error) {
	rows, err := r.db.Query(
		"SELECT "+recordColumns+" FROM visitors WHERE owner_email = ? ORDER BY visit_start_date, created_at",
		ownerEmail,
	)
	if err != nil {
		return nil, fmt.Errorf("listing visitors: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("warning: closing rows: %v\n", cerr)
		}
	}()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning visitor: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// SetStatus moves a record to a new intake status.
func (r *Repository) SetStatus(id string, status Status) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid status: %q", status)
	}

	result, err := r.db.Exec(
		"UPDATE visitors SET status = ?, updated_at = ? WHERE id = ?",
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("visitor %s not found", id)
	}

	return nil
}

// Delete removes a record.
func (r *Repository) Delete(id, ownerEmail string) error {
	result, err := r.db.Exec(
		"DELETE FROM visitors WHERE id = ? AND owner_email = ?", id, ownerEmail,
	)
	if err != nil {
		return fmt.Errorf("deleting visitor: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("visitor %s not found", id)
	}

	return nil
}

// checkRegistration guards the storage layer against malformed payloads.
// Form-level rules live in Validate; this only checks what would corrupt
// a stored record.
func checkRegistration(reg Registration) error {
	if strings.TrimSpace(reg.Department) == "" {
		return fmt.Errorf("department is required")
	}
	if _, err := time.Parse(DateLayout, reg.VisitStartDate); err != nil {
		return fmt.Errorf("invalid visit start date (use YYYY-MM-DD): %w", err)
	}
	if _, err := time.Parse(DateLayout, reg.VisitEndDate); err != nil {
		return fmt.Errorf("invalid visit end date (use YYYY-MM-DD): %w", err)
	}
	if reg.VisitEndDate < reg.VisitStartDate {
		return fmt.Errorf("visit end date is before the start date")
	}
	return nil
}

// scanRecord scans a record from a database row.
func scanRecord(row interface{ Scan(...interface{}) error }) (*Record, error) {
	var rec Record
	var status string
	err := row.Scan(
		&rec.ID, &rec.OwnerEmail, &rec.Department, &rec.Name, &rec.Email, &rec.Phone,
		&rec.VisitStartDate, &rec.VisitEndDate, &rec.VisitTarget, &rec.VisitPurpose,
		&status, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Status = Status(status)
	return &rec, nil
}
