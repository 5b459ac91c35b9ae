package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/mfortin/estatedesk/internal/auth"
	"github.com/mfortin/estatedesk/internal/lead"
)

// printJSON marshals v as indented JSON and writes it to stdout.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printUserTable prints users as a formatted table.
func printUserTable(users []*auth.User) error {
	if len(users) == 0 {
		fmt.Println("No users found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, "--\t-----\t----\t----"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, u := range users {
		name := u.Name
		if name == "" {
			name = "-"
		}
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			u.ID, u.Email, truncate(name, 30), u.Role); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Printf("\nTotal: %d users\n", len(users))
	return nil
}

// printLeadList prints leads in text format.
func printLeadList(leads []*lead.Lead) {
	if len(leads) == 0 {
		fmt.Println("No leads found.")
		return
	}

	for _, l := range leads {
		fmt.Printf("[%s] #%d %s: %s (%s)\n",
			l.CreatedAt.Format("2006-01-02 15:04"), l.ID, l.Kind, l.Name, l.Status)
		if l.Email != "" {
			fmt.Printf("  Email:   %s\n", l.Email)
		}
		if l.Phone != "" {
			fmt.Printf("  Phone:   %s\n", l.Phone)
		}
		if l.PropertyRef != "" {
			fmt.Printf("  Listing: %s\n", l.PropertyRef)
		}
		if l.Budget != nil {
			fmt.Printf("  Budget:  %d\n", *l.Budget)
		}
		if l.Message != "" {
			fmt.Printf("  %s\n", truncate(l.Message, 120))
		}
		fmt.Println()
	}
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
