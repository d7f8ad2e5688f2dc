package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newSignupCmd() *cobra.Command {
	var (
		email   string
		contact string
		server  string
	)

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a portal account",
		Long:  "Create a new portal account. The password is read from stdin and never stored by the CLI.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSignup(email, contact, server)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email (required)")
	cmd.Flags().StringVar(&contact, "contact", "", "contact number")
	cmd.Flags().StringVar(&server, "server", "", "server URL (default: from state or http://localhost:8080)")
	if err := cmd.MarkFlagRequired("email"); err != nil {
		panic(err)
	}

	return cmd
}

func runSignup(email, contact, server string) error {
	password, err := promptLine("Password: ")
	if err != nil {
		return err
	}
	confirm, err := promptLine("Confirm password: ")
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
	if err := c.Signup(email, password, confirm, contact); err != nil {
		return err
	}

	if server != "" {
		if err := saveState(st); err != nil {
			return fmt.Errorf("saving state: %w", err)
		}
	}

	fmt.Printf("✓ Account created for %s. Run 'portal login' to sign in.\n", email)
	return nil
}

// promptLine prints a prompt and reads a single trimmed line from stdin.
func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
