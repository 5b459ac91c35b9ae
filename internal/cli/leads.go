package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mfortin/estatedesk/internal/lead"
)

func newLeadsCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "leads",
		Short: "List the lead pipeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLeads(status)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by pipeline status (new|contacted|qualified|closed)")

	return cmd
}

func runLeads(status string) error {
	if status != "" && !lead.ValidStatus(status) {
		return fmt.Errorf("invalid status %q", status)
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	leads, err := lead.NewRepository(database).List(lead.Status(status))
	if err != nil {
		return fmt.Errorf("listing leads: %w", err)
	}

	if isJSON() {
		return printJSON(leads)
	}

	printLeadList(leads)
	return nil
}
