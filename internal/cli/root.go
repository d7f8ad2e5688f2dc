// Package cli defines the cobra command tree for the portal.
package cli

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/officeportal/portal/internal/client"
	"github.com/officeportal/portal/internal/db"
	"github.com/officeportal/portal/internal/state"
)

var (
	flagFormat string
	flagDB     string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "portal",
		Short:         "Office visitor registration portal",
		Long:          "Register visitors for office departments, track registrations, and manage your account. Run the API server with 'portal serve'.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default: ~/.office-portal/portal.db)")

	root.AddCommand(
		newServeCmd(),
		newSignupCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newStatusCmd(),
		newProfileCmd(),
		newDepartmentsCmd(),
		newSelectCmd(),
		newRegisterCmd(),
		newEditCmd(),
		newVisitorsCmd(),
		newShowCmd(),
		newVersionCmd(),
	)

	return root
}

// openDB opens the SQLite database using the --db flag or default path.
// Used by the serve command to pass the DB to the API server.
func openDB() (*sql.DB, error) {
	path := flagDB
	if path == "" {
		var err error
		path, err = db.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return db.Open(path)
}

// stateStore returns the persisted CLI state store. The file path can
// be overridden with PORTAL_STATE_FILE.
func stateStore() (state.Store, error) {
	return state.NewFileStore(os.Getenv("PORTAL_STATE_FILE"))
}

// loadState reads the persisted CLI state, or a zero state if none.
func loadState() (state.State, error) {
	store, err := stateStore()
	if err != nil {
		return state.State{}, err
	}
	return store.Load()
}

// saveState writes the CLI state back to disk.
func saveState(st state.State) error {
	store, err := stateStore()
	if err != nil {
		return err
	}
	return store.Save(st)
}

// serverURL returns the API server URL from env, state, or default.
func serverURL(st state.State) string {
	if v := os.Getenv("PORTAL_SERVER_URL"); v != "" {
		return v
	}
	if st.ServerURL != "" {
		return st.ServerURL
	}
	return "http://localhost:8080"
}

// newAPIClient creates an HTTP client using the stored session.
func newAPIClient(st state.State) *client.Client {
	return client.New(serverURL(st), st.SessionToken)
}

// requireLogin loads the state and fails if there is no session token.
func requireLogin() (state.State, error) {
	st, err := loadState()
	if err != nil {
		return st, err
	}
	if st.SessionToken == "" {
		return st, fmt.Errorf("not logged in, run 'portal login' first")
	}
	return st, nil
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

// closeDB closes the database, logging any error to stderr.
func closeDB(database *sql.DB) {
	if err := database.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing database: %v\n", err)
	}
}
