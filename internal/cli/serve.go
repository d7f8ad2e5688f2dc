package cli

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/officeportal/portal/internal/auth"
	"github.com/officeportal/portal/internal/logging"
	"github.com/officeportal/portal/internal/web"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the portal HTTP API server backing the signup, my-page, and visitor registration flows.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "port to listen on")

	return cmd
}

func runServe(port int) error {
	cfg := auth.ConfigFromEnv()
	logging.Setup(cfg.DevMode)

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	server, err := web.NewServer(database, cfg)
	if err != nil {
		return err
	}

	// Sweep expired sessions hourly for as long as the server runs.
	sessions := auth.NewSessionStore(database)
	go func() {
		for range time.Tick(time.Hour) {
			if err := sessions.Cleanup(); err != nil {
				slog.Error("cleaning up sessions", "err", err)
			}
		}
	}()

	return server.ListenAndServe(port)
}
