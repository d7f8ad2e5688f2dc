package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/officeportal/portal/internal/visitor"
)

// printJSON marshals v as indented JSON and writes it to stdout.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printVisitorTable prints registrations as a formatted table.
func printVisitorTable(records []*visitor.Record) error {
	if len(records) == 0 {
		fmt.Println("No registrations found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tNAME\tDEPARTMENT\tVISIT\tSTATUS"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, "--\t----\t----------\t-----\t------"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, rec := range records {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			truncate(rec.ID, 8), truncate(rec.Name, 20), rec.Department,
			formatVisitDates(rec), formatStatus(rec.Status)); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}
	return nil
}

// printVisitorDetail prints a single registration in text format.
func printVisitorDetail(rec *visitor.Record) {
	fmt.Printf("Registration %s\n", rec.ID)
	fmt.Printf("  Department: %s\n", rec.Department)
	fmt.Printf("  Name:       %s\n", rec.Name)
	fmt.Printf("  Email:      %s\n", rec.Email)
	fmt.Printf("  Contact:    %s\n", rec.Phone)
	fmt.Printf("  Visit:      %s\n", formatVisitDates(rec))
	fmt.Printf("  Visiting:   %s\n", rec.VisitTarget)
	fmt.Printf("  Purpose:    %s\n", rec.VisitPurpose)
	fmt.Printf("  Status:     %s\n", formatStatus(rec.Status))
}

// formatVisitDates prints a single date or a range.
func formatVisitDates(rec *visitor.Record) string {
	if rec.VisitEndDate != rec.VisitStartDate {
		return rec.VisitStartDate + " ~ " + rec.VisitEndDate
	}
	return rec.VisitStartDate
}

// formatStatus renders a status with its badge style. A status the
// badge mapping doesn't know is surfaced as unrecognized rather than
// shown with a made-up style.
func formatStatus(s visitor.Status) string {
	style, ok := visitor.BadgeStyle(s)
	if !ok {
		return fmt.Sprintf("%s (unrecognized)", s)
	}
	return fmt.Sprintf("%s [%s]", s.Label(), style)
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
