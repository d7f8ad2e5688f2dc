package cli

import (
	"github.com/spf13/cobra"

	"github.com/officeportal/portal/internal/visitor"
)

func newEditCmd() *cobra.Command {
	values := make(map[string]*string, len(registrationFlags))
	var dept string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a registration",
		Long:  "Edit an existing registration. The current record fills the draft; flags override individual fields, and the same validation as register applies.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := requireLogin()
			if err != nil {
				return err
			}

			rec, err := newAPIClient(st).GetVisitor(args[0])
			if err != nil {
				return err
			}

			draft := visitor.NewDraft()
			draft.HydrateFrom(rec)

			for _, rf := range registrationFlags {
				if cmd.Flags().Changed(rf.flag) {
					if err := draft.SetField(rf.field, *values[rf.flag]); err != nil {
						return err
					}
				}
			}

			if dept == "" {
				dept = rec.Department
			}
			return runSubmit(draft, dept)
		},
	}

	for _, rf := range registrationFlags {
		values[rf.flag] = cmd.Flags().String(rf.flag, "", rf.usage)
	}
	cmd.Flags().StringVar(&dept, "department", "", "department (default: the record's department)")

	return cmd
}
