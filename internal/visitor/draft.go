package visitor

import (
	"fmt"
	"strings"
	"time"
)

// Field names accepted by Draft.SetField and used as validation keys.
const (
	FieldName           = "name"
	FieldEmail          = "email"
	FieldPhone          = "phone"
	FieldVisitStartDate = "visitStartDate"
	FieldVisitEndDate   = "visitEndDate"
	FieldVisitTarget    = "visitTarget"
	FieldVisitPurpose   = "visitPurpose"
)

// Draft holds in-progress form input for a registration or an edit.
// It is owned by a single screen (or CLI invocation) and discarded on
// navigation away or successful submission.
type Draft struct {
	RecordID       string // set when editing an existing record
	Name           string
	Email          string
	Phone          string // stored in display form (NNN-NNNN-NNNN)
	VisitStartDate time.Time
	VisitEndDate   time.Time
	VisitTarget    string
	VisitPurpose   string

	hydrated bool
}

// NewDraft creates an empty draft with both visit dates defaulting to today.
func NewDraft() *Draft {
	today := truncateToDay(time.Now())
	return &Draft{
		VisitStartDate: today,
		VisitEndDate:   today,
	}
}

// SetField updates a single field from raw text input. Phone input is
// reformatted (see FormatPhone); dates must be YYYY-MM-DD. Moving the
// start date past the end date pins the end date to the start, matching
// the date-picker constraint on the form.
func (d *Draft) SetField(field, raw string) error {
	switch field {
	case FieldName:
		d.Name = raw
	case FieldEmail:
		d.Email = raw
	case FieldPhone:
		d.Phone = FormatPhone(raw)
	case FieldVisitStartDate:
		// Dates compare against local midnight, so parse in local time.
		t, err := time.ParseInLocation(DateLayout, raw, time.Local)
		if err != nil {
			return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}
		d.VisitStartDate = t
		if d.VisitEndDate.Before(t) {
			d.VisitEndDate = t
		}
	case FieldVisitEndDate:
		t, err := time.ParseInLocation(DateLayout, raw, time.Local)
		if err != nil {
			return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}
		if t.Before(d.VisitStartDate) {
			return fmt.Errorf("end date %s is before start date %s",
				raw, d.VisitStartDate.Format(DateLayout))
		}
		d.VisitEndDate = t
	case FieldVisitPurpose:
		d.VisitPurpose = raw
	case FieldVisitTarget:
		d.VisitTarget = raw
	default:
		return fmt.Errorf("unknown field: %q", field)
	}
	return nil
}

// HydrateFrom populates the draft from an existing record, once. Repeat
// calls are no-ops so a re-fetch of the same record never clobbers edits
// already in progress.
func (d *Draft) HydrateFrom(rec *Record) {
	if d.hydrated || rec == nil {
		return
	}
	d.hydrated = true

	d.RecordID = rec.ID
	d.Name = rec.Name
	d.Email = rec.Email
	d.Phone = FormatPhone(rec.Phone)
	d.VisitTarget = rec.VisitTarget
	d.VisitPurpose = rec.VisitPurpose
	if t, err := time.ParseInLocation(DateLayout, rec.VisitStartDate, time.Local); err == nil {
		d.VisitStartDate = t
	}
	if t, err := time.ParseInLocation(DateLayout, rec.VisitEndDate, time.Local); err == nil {
		d.VisitEndDate = t
	}
	if d.VisitEndDate.Before(d.VisitStartDate) {
		d.VisitEndDate = d.VisitStartDate
	}
}

// Hydrated reports whether HydrateFrom has already run.
func (d *Draft) Hydrated() bool { return d.hydrated }

// FormatPhone strips non-digits from raw input, truncates at 11 digits,
// and inserts hyphens after the 3rd and 7th digit as the user types:
// "0101234" -> "010-1234", "01012345678" -> "010-1234-5678". Formatting
// an already-formatted value yields the same value.
func FormatPhone(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		// ASCII digits only; other decimal runes are not phone input.
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
		if digits.Len() == 11 {
			break
		}
	}

	n := digits.String()
	switch {
	case len(n) <= 3:
		return n
	case len(n) <= 7:
		return n[:3] + "-" + n[3:]
	default:
		return n[:3] + "-" + n[3:7] + "-" + n[7:]
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
