package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/officeportal/portal/internal/department"
)

func newDepartmentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "departments",
		Short: "List departments",
		Long:  "List the departments a visitor can be registered for.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if isJSON() {
				return printJSON(department.Departments)
			}
			for _, name := range department.Departments {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func newSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select <department>",
		Short: "Choose a department",
		Long:  "Choose the department for the registration in progress. The selection is saved and used by 'portal register'.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelect(args[0])
		},
	}
}

func runSelect(name string) error {
	if !department.Valid(name) {
		return fmt.Errorf("unknown department %q, run 'portal departments' to list them", name)
	}

	st, err := requireLogin()
	if err != nil {
		return err
	}

	// The selection is saved locally on every change so register picks
	// it up, and mirrored to the server.
	sel := department.NewSelection()
	var saveErr error
	sel.OnChange(func(chosen string) {
		st.Department = chosen
		saveErr = saveState(st)
	})
	sel.Set(name)
	if saveErr != nil {
		return fmt.Errorf("saving state: %w", saveErr)
	}

	if err := newAPIClient(st).SelectDepartment(name); err != nil {
		return err
	}

	fmt.Printf("✓ Department set to %s.\n", name)
	return nil
}
