package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/officeportal/portal/internal/visitor"
)

func newVisitorsCmd() *cobra.Command {
	var (
		tab  string
		page int
	)

	cmd := &cobra.Command{
		Use:   "visitors",
		Short: "List your registrations",
		Long:  "List your visitor registrations, split into active and completed tabs, five per page.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVisitors(tab, page)
		},
	}

	cmd.Flags().StringVar(&tab, "tab", "active", "which tab to show (active|completed)")
	cmd.Flags().IntVar(&page, "page", 1, "page number")

	return cmd
}

func runVisitors(tab string, page int) error {
	switch visitor.Tab(tab) {
	case visitor.TabActive, visitor.TabCompleted:
	default:
		return fmt.Errorf("tab must be active or completed")
	}

	st, err := requireLogin()
	if err != nil {
		return err
	}

	records, err := newAPIClient(st).ListVisitors()
	if err != nil {
		return err
	}

	proj := visitor.NewProjection(records)
	view := visitor.NewListView()
	view.SelectTab(visitor.Tab(tab))
	view.SetPage(page)

	visible := view.Visible(proj)

	if isJSON() {
		return printJSON(visible)
	}

	if err := printVisitorTable(visible); err != nil {
		return err
	}

	total := len(proj.Records(view.Tab()))
	pages := proj.PageCount(view.Tab())
	if pages > 1 {
		fmt.Printf("\nPage %d of %d (%d on the %s tab)\n", view.Page(), pages, total, view.Tab())
	} else {
		fmt.Printf("\nTotal: %d on the %s tab\n", total, view.Tab())
	}
	return nil
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show registration details",
		Long:  "Show full details for a single visitor registration.",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	st, err := requireLogin()
	if err != nil {
		return err
	}

	rec, err := newAPIClient(st).GetVisitor(args[0])
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(rec)
	}

	printVisitorDetail(rec)
	return nil
}
