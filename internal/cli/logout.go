package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		Long:  "Ends the server session and removes the stored session token.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout()
		},
	}
}

func runLogout() error {
	st, err := loadState()
	if err != nil {
		return fmt.Errorf("loading state: %w", err)
	}

	if st.SessionToken == "" {
		fmt.Println("Not logged in.")
		return nil
	}

	// Best effort: the token is dropped locally even if the server is
	// unreachable.
	if err := newAPIClient(st).Logout(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: ending server session: %v\n", err)
	}

	st.SessionToken = ""
	st.Email = ""
	if err := saveState(st); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}

	fmt.Println("✓ Logged out.")
	return nil
}
