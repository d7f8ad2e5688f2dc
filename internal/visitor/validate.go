package visitor

import (
	"regexp"
	"strings"
	"time"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\d{3}-\d{4}-\d{4}$`)
)

// Validate checks a draft against the submission rules. It returns an
// empty map when the draft is valid, otherwise field name -> the first
// violated message for that field. It has no side effects; re-validating
// an unmodified draft yields the same result.
func Validate(d *Draft) map[string]string {
	return validateAt(d, time.Now())
}

func validateAt(d *Draft, now time.Time) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(d.Name) == "" {
		errs[FieldName] = "Please enter a name."
	}

	if strings.TrimSpace(d.Email) == "" {
		errs[FieldEmail] = "Please enter an email address."
	} else if !emailPattern.MatchString(d.Email) {
		errs[FieldEmail] = "Please enter a valid email address."
	}

	if err := checkPhone(d.Phone); err != "" {
		errs[FieldPhone] = err
	}

	if d.VisitStartDate.IsZero() {
		errs[FieldVisitStartDate] = "Please choose a visit date."
	} else if d.VisitStartDate.Before(truncateToDay(now)) {
		errs[FieldVisitStartDate] = "The visit date cannot be in the past."
	}

	if strings.TrimSpace(d.VisitTarget) == "" {
		errs[FieldVisitTarget] = "Please enter who you are visiting."
	}
	if strings.TrimSpace(d.VisitPurpose) == "" {
		errs[FieldVisitPurpose] = "Please enter the purpose of your visit."
	}

	return errs
}

// checkPhone applies the two phone rules in order. The second rule
// (format OR digit count) never fires once the digit count has passed,
// but it carries its own message and stays part of the contract.
func checkPhone(phone string) string {
	if strings.TrimSpace(phone) == "" {
		return "Please enter a contact number."
	}

	digits := strings.ReplaceAll(phone, "-", "")
	if len(digits) != 11 {
		return "The contact number must be 11 digits."
	}

	if !phonePattern.MatchString(phone) && len(digits) != 11 {
		return "The contact number format is not valid."
	}

	return ""
}
