package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/officeportal/portal/internal/department"
	"github.com/officeportal/portal/internal/visitor"
)

// registrationFlags maps flag names to draft field names. Every flag
// feeds the draft through SetField so phone formatting and the date
// constraints apply exactly as on the form.
var registrationFlags = []struct {
	flag  string
	field string
	usage string
}{
	{"name", visitor.FieldName, "visitor name"},
	{"email", visitor.FieldEmail, "visitor email"},
	{"phone", visitor.FieldPhone, "contact number (digits, formatted automatically)"},
	{"start", visitor.FieldVisitStartDate, "visit start date (YYYY-MM-DD)"},
	{"end", visitor.FieldVisitEndDate, "visit end date (YYYY-MM-DD)"},
	{"target", visitor.FieldVisitTarget, "who the visitor is meeting"},
	{"purpose", visitor.FieldVisitPurpose, "purpose of the visit"},
}

func newRegisterCmd() *cobra.Command {
	values := make(map[string]*string, len(registrationFlags))
	var dept string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a visitor",
		Long:  "Register a visitor for the selected department. Field rules match the registration form; validation failures list every offending field.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			draft := visitor.NewDraft()
			for _, rf := range registrationFlags {
				if cmd.Flags().Changed(rf.flag) {
					if err := draft.SetField(rf.field, *values[rf.flag]); err != nil {
						return err
					}
				}
			}
			return runSubmit(draft, dept)
		},
	}

	for _, rf := range registrationFlags {
		values[rf.flag] = cmd.Flags().String(rf.flag, "", rf.usage)
	}
	cmd.Flags().StringVar(&dept, "department", "", "department (default: the saved selection)")

	return cmd
}

// runSubmit drives the submission workflow for both register and edit.
func runSubmit(draft *visitor.Draft, dept string) error {
	st, err := requireLogin()
	if err != nil {
		return err
	}

	if dept == "" {
		dept = st.Department
	}
	if dept == "" {
		return fmt.Errorf("no department selected, run 'portal select <department>' first")
	}
	if !department.Valid(dept) {
		return fmt.Errorf("unknown department %q", dept)
	}

	sel := department.NewSelection()
	sel.Set(dept)

	w := visitor.NewWorkflow(draft, sel, newAPIClient(st))
	done := make(chan struct{})
	w.OnSuccess(func() { close(done) })

	if err := w.Submit(); err != nil {
		var verr *visitor.ValidationError
		if errors.As(err, &verr) {
			printFieldErrors(verr.Fields)
		}
		return err
	}

	fmt.Println("✓ Registration submitted.")

	// Hold the confirmation for the same beat the form does before
	// moving on to the list.
	<-done
	fmt.Println("Run 'portal visitors' to see your registrations.")
	return nil
}

// printFieldErrors prints validation messages one field per line, in a
// stable order.
func printFieldErrors(fields map[string]string) {
	names := make([]string, 0, len(fields))
	for f := range fields {
		names = append(names, f)
	}
	sort.Strings(names)
	for _, f := range names {
		fmt.Printf("  %s: %s\n", f, fields[f])
	}
}
