package cmd

import (
	"github.com/spf13/cobra"

	"github.com/s0up4200/shopadmin/user"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Show staff accounts",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all staff users",
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := userService.List(cmd.Context())
		if err != nil {
			return err
		}
		return printList(cmd, users, formatter.FormatUsers)
	},
}

var usersGetCmd = &cobra.Command{
	Use:   "get <id>...",
	Short: "Show staff users by ID",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}

		users := make([]user.User, 0, len(ids))
		for _, id := range ids {
			u, err := userService.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			users = append(users, *u)
		}
		return printList(cmd, users, formatter.FormatUsers)
	},
}

var usersCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the user the access token belongs to",
	Long: `Show the user the access token belongs to. Only tokens issued through
online-access OAuth are tied to a user; other tokens get an error from Shopify.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := userService.GetCurrent(cmd.Context())
		if err != nil {
			return err
		}
		return writeOutput(cmd, u, func() string {
			return formatter.FormatUsers([]user.User{*u})
		})
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersListCmd, usersGetCmd, usersCurrentCmd)
}
