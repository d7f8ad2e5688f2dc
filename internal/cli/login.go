package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var (
		email  string
		server string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store a session",
		Long:  "Authenticates with email and password and stores the session token for later commands.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(email, server)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email (required)")
	cmd.Flags().StringVar(&server, "server", "", "server URL (default: from state or http://localhost:8080)")
	if err := cmd.MarkFlagRequired("email"); err != nil {
		panic(err)
	}

	return cmd
}

func runLogin(email, server string) error {
	password, err := promptLine("Password: ")
	if err != nil {
		return err
	}

	st, err := loadState()
	if err != nil {
		return err
	}
	if server != "" {
		st.ServerURL = server
	}

	c := newAPIClient(st)
	token, err := c.Login(email, password)
	if err != nil {
		return err
	}

	st.SessionToken = token
	st.Email = email
	if err := saveState(st); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}

	fmt.Printf("✓ Logged in as %s.\n", email)
	return nil
}
