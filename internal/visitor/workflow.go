package visitor

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/officeportal/portal/internal/department"
)

// State is the submission workflow state.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
)

// DefaultSuccessDelay is how long the success confirmation stays visible
// before the caller is told to navigate to the visitor list.
const DefaultSuccessDelay = time.Second

// Submitter sends a registration to the server of record.
type Submitter interface {
	SubmitRegistration(reg Registration) error
}

// ValidationError reports per-field validation messages. It is always
// recoverable: the user fixes the fields and resubmits.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

// SubmissionError wraps a transient server or network failure. The draft
// is preserved so the user can retry by resubmitting.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string { return fmt.Sprintf("submission failed: %v", e.Err) }
func (e *SubmissionError) Unwrap() error { return e.Err }

// Workflow orchestrates validate -> submit -> navigate for both the
// create and edit flows. It owns the draft and keeps field messages from
// the last rejected submission until each offending field is edited.
type Workflow struct {
	Draft     *Draft
	Selection *department.Selection

	submitter    Submitter
	state        State
	fieldErrors  map[string]string
	successDelay time.Duration
	onSuccess    func()
}

// NewWorkflow creates an idle workflow around a draft and the current
// department selection.
func NewWorkflow(draft *Draft, sel *department.Selection, submitter Submitter) *Workflow {
	return &Workflow{
		Draft:        draft,
		Selection:    sel,
		submitter:    submitter,
		state:        StateIdle,
		fieldErrors:  make(map[string]string),
		successDelay: DefaultSuccessDelay,
	}
}

// State returns the current workflow state.
func (w *Workflow) State() State { return w.state }

// FieldErrors returns the messages from the last rejected submission.
func (w *Workflow) FieldErrors() map[string]string { return w.fieldErrors }

// SetSuccessDelay overrides the confirmation delay before OnSuccess runs.
func (w *Workflow) SetSuccessDelay(d time.Duration) { w.successDelay = d }

// OnSuccess registers a callback invoked after a successful submission,
// once the confirmation delay has elapsed.
func (w *Workflow) OnSuccess(fn func()) { w.onSuccess = fn }

// SetField forwards to the draft and clears any retained validation
// message for that field only.
func (w *Workflow) SetField(field, raw string) error {
	if err := w.Draft.SetField(field, raw); err != nil {
		return err
	}
	delete(w.fieldErrors, field)
	return nil
}

// Submit runs the full workflow: validate the draft, then send it merged
// with the current department selection (and record id, when editing).
// On success the draft is cleared and the success callback is scheduled.
// On failure the draft is kept so nothing the user typed is lost.
func (w *Workflow) Submit() error {
	if w.state == StateSubmitting {
		return errors.New("a submission is already in progress")
	}

	w.state = StateValidating
	if errs := Validate(w.Draft); len(errs) > 0 {
		w.fieldErrors = errs
		w.state = StateIdle
		return &ValidationError{Fields: errs}
	}

	w.state = StateSubmitting
	reg := BuildRegistration(w.Draft, w.Selection.Get())

	if err := w.submitter.SubmitRegistration(reg); err != nil {
		w.state = StateIdle
		return &SubmissionError{Err: err}
	}

	w.state = StateSucceeded
	w.Draft = NewDraft()
	w.fieldErrors = make(map[string]string)

	if w.onSuccess != nil {
		time.AfterFunc(w.successDelay, w.onSuccess)
	}

	return nil
}

// BuildRegistration merges a draft with the selected department into the
// submission payload. The record id rides along only for edits.
func BuildRegistration(d *Draft, dept string) Registration {
	return Registration{
		ID:             d.RecordID,
		Department:     dept,
		Name:           d.Name,
		Email:          d.Email,
		Phone:          d.Phone,
		VisitStartDate: d.VisitStartDate.Format(DateLayout),
		VisitEndDate:   d.VisitEndDate.Format(DateLayout),
		VisitTarget:    d.VisitTarget,
		VisitPurpose:   d.VisitPurpose,
	}
}
