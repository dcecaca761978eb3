package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/recnetbot/recnet/recnet"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Look up RecNet accounts",
}

var accountGetCmd = &cobra.Command{
	Use:   "get <username>...",
	Short: "Get accounts by username",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var accounts []recnet.Account
		if len(args) == 1 {
			account, err := client.Accounts.Get(ctx, args[0])
			if err != nil {
				return err
			}
			accounts = single(account)
		} else {
			var err error
			if accounts, err = client.Accounts.GetMany(ctx, args); err != nil {
				return err
			}
		}
		return show(ctx, cmd.OutOrStdout(), accounts, accountColumns)
	},
}

var accountFetchCmd = &cobra.Command{
	Use:   "fetch <id>...",
	Short: "Fetch accounts by id",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}

		accounts, err := client.Accounts.FetchMany(cmd.Context(), ids)
		if err != nil {
			return err
		}
		return show(cmd.Context(), cmd.OutOrStdout(), accounts, accountColumns)
	},
}

var accountSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search accounts by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		accounts, err := client.Accounts.Search(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return show(cmd.Context(), cmd.OutOrStdout(), accounts, accountColumns)
	},
}

var accountBioCmd = &cobra.Command{
	Use:   "bio <id>",
	Short: "Print an account's bio",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}

		bio, err := client.Accounts.Bio(cmd.Context(), ids[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), bio)
		return err
	},
}

var accountLevelCmd = &cobra.Command{
	Use:   "level <id>",
	Short: "Print an account's level and XP",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}

		progression, err := client.Accounts.Progression(cmd.Context(), ids[0])
		if err != nil {
			return err
		}
		if progression == nil {
			return fmt.Errorf("no progression found for account %d", ids[0])
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Level %d (%d XP)\n", progression.Level, progression.XP)
		return err
	},
}

func init() {
	accountCmd.AddCommand(accountGetCmd, accountFetchCmd, accountSearchCmd, accountBioCmd, accountLevelCmd)
}
