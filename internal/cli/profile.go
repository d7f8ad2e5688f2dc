package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show your profile",
		Long:  "Show the my-page profile for the logged-in account.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfile()
		},
	}

	cmd.AddCommand(newProfileImageCmd(), newProfilePasswordCmd())

	return cmd
}

func runProfile() error {
	st, err := requireLogin()
	if err != nil {
		return err
	}

	p, err := newAPIClient(st).Profile()
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(p)
	}

	fmt.Printf("Account: %s\n", p.Email)
	fmt.Printf("Image:   %s\n", p.ProfileImage)
	return nil
}

func newProfileImageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "image <path>",
		Short: "Set your profile image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := requireLogin()
			if err != nil {
				return err
			}

			if err := newAPIClient(st).SetProfileImage(args[0]); err != nil {
				return err
			}

			st.ProfileImage = args[0]
			if err := saveState(st); err != nil {
				return fmt.Errorf("saving state: %w", err)
			}

			fmt.Println("✓ Profile image updated.")
			return nil
		},
	}
}

func newProfilePasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "password",
		Short: "Change your password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := requireLogin()
			if err != nil {
				return err
			}

			current, err := promptLine("Current password: ")
			if err != nil {
				return err
			}
			updated, err := promptLine("New password: ")
			if err != nil {
				return err
			}
			confirm, err := promptLine("Confirm new password: ")
			if err != nil {
				return err
			}
			if updated != confirm {
				return fmt.Errorf("passwords do not match")
			}

			if err := newAPIClient(st).UpdatePassword(current, updated); err != nil {
				return err
			}

			fmt.Println("✓ Password updated.")
			return nil
		},
	}
}
