package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mfortin/estatedesk/internal/auth"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage agency users",
	}

	cmd.AddCommand(
		newUsersAddCmd(),
		newUsersListCmd(),
		newUsersRoleCmd(),
	)

	return cmd
}

func newUsersAddCmd() *cobra.Command {
	var (
		name  string
		phone string
		role  string
	)

	cmd := &cobra.Command{
		Use:   "add <email>",
		Short: "Add a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUsersAdd(args[0], name, phone, role)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&role, "role", string(auth.RoleUser), "role (user|admin|super_admin)")

	return cmd
}

func runUsersAdd(email, name, phone, role string) error {
	if !auth.Role(role).IsValid() {
		return fmt.Errorf("invalid role %q", role)
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	user, err := auth.NewUserStore(database).Add(email, name, phone, auth.Role(role))
	if err != nil {
		return fmt.Errorf("adding user: %w", err)
	}

	if isJSON() {
		return printJSON(user)
	}

	fmt.Printf("User #%d added: %s (%s)\n", user.ID, user.Email, user.Role)
	return nil
}

func newUsersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUsersList()
		},
	}
}

func runUsersList() error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	users, err := auth.NewUserStore(database).List()
	if err != nil {
		return fmt.Errorf("listing users: %w", err)
	}

	if isJSON() {
		return printJSON(users)
	}

	return printUserTable(users)
}

func newUsersRoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "role <id> <role>",
		Short: "Change a user's role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUsersRole(args[0], args[1])
		},
	}
}

func runUsersRole(idArg, roleArg string) error {
	id, err := strconv.ParseInt(idArg, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid user ID %q", idArg)
	}
	if !auth.Role(roleArg).IsValid() {
		return fmt.Errorf("invalid role %q", roleArg)
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	if err := auth.NewUserStore(database).SetRole(id, auth.Role(roleArg)); err != nil {
		return fmt.Errorf("setting role: %w", err)
	}

	fmt.Printf("User #%d is now %s.\n", id, roleArg)
	return nil
}
