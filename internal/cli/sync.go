package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mfortin/estatedesk/internal/auth"
	"github.com/mfortin/estatedesk/internal/calendar"
	"github.com/mfortin/estatedesk/internal/visit"
)

func newSyncCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Push upcoming visits to Google Calendar",
		Long:  "Push upcoming, unsynced visits to the connected Google Calendar of the given user. The user must have connected their calendar through the web UI first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd.Context(), email)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email of the connected user")
	if err := cmd.MarkFlagRequired("email"); err != nil {
		panic(err)
	}

	return cmd
}

func runSync(ctx context.Context, email string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	user, err := auth.NewUserStore(database).GetByEmail(email)
	if err != nil {
		return fmt.Errorf("looking up user %s: %w", email, err)
	}

	authCfg := auth.ConfigFromEnv()
	calCfg := calendar.ConfigFromEnv(authCfg.BaseURL)

	engine := calendar.NewEngine(
		calendar.NewCredentialStore(database),
		visit.NewRepository(database),
		calendar.NewOAuthService(calCfg),
		calendar.NewEventCreator(calCfg),
	)

	if ctx == nil {
		ctx = context.Background()
	}

	result, err := engine.Run(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("syncing calendar: %w", err)
	}

	if isJSON() {
		return printJSON(result)
	}

	fmt.Printf("Synced %d of %d eligible visits.\n", result.Synced, result.Attempted)
	return nil
}
