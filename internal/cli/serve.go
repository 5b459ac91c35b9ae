package cli

import (
	"github.com/spf13/cobra"

	"github.com/mfortin/estatedesk/internal/auth"
	"github.com/mfortin/estatedesk/internal/calendar"
	"github.com/mfortin/estatedesk/internal/web"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long:  "Start the HTTP server for the agency API: listings, leads, visit booking, and calendar sync.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "port to listen on")

	return cmd
}

func runServe(port int) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	cfg := auth.ConfigFromEnv()
	calCfg := calendar.ConfigFromEnv(cfg.BaseURL)

	srv, err := web.NewServer(database, cfg, calCfg)
	if err != nil {
		return err
	}

	return srv.ListenAndServe(port)
}
