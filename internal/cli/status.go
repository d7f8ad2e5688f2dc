package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/officeportal/portal/internal/auth"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check connection and session status",
		Long:  "Tests the connection to the server and checks whether the stored session is still valid.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	}
}

func runStatus() error {
	st, err := loadState()
	if err != nil {
		return err
	}

	fmt.Printf("Server:     %s\n", serverURL(st))
	if st.Department != "" {
		fmt.Printf("Department: %s\n", st.Department)
	}

	if st.SessionToken == "" {
		fmt.Println("Session:    not logged in")
		fmt.Println("\nRun 'portal login' to authenticate.")
		return nil
	}
	fmt.Printf("Account:    %s\n", st.Email)

	// Probe the session with an authenticated request.
	httpClient := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequest("GET", serverURL(st)+"/api/mypage/profile", nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: st.SessionToken})

	resp, err := httpClient.Do(req)
	if err != nil {
		fmt.Printf("Session:    ✗ cannot reach server (%v)\n", err)
		return nil
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			fmt.Printf("warning: closing response body: %v\n", cerr)
		}
	}()

	switch resp.StatusCode {
	case http.StatusOK:
		fmt.Println("Session:    ✓ connected and authenticated")
	case http.StatusUnauthorized:
		fmt.Println("Session:    ✗ expired")
		fmt.Println("\nRun 'portal login' to re-authenticate.")
	default:
		fmt.Printf("Session:    ✗ unexpected response (%d)\n", resp.StatusCode)
	}

	return nil
}
