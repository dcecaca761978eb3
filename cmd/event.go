package cmd

import (
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Look up RecNet events",
}

var eventFetchCmd = &cobra.Command{
	Use:   "fetch <id>...",
	Short: "Fetch events by id",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}

		events, err := client.Events.FetchMany(cmd.Context(), ids)
		if err != nil {
			return err
		}
		return show(cmd.Context(), cmd.OutOrStdout(), events, eventColumns)
	},
}

var eventSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search events",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		take, skip := paging(cmd)
		events, err := client.Events.Search(cmd.Context(), args[0], take, skip, sortOrder(cmd))
		if err != nil {
			return err
		}
		return show(cmd.Context(), cmd.OutOrStdout(), events, eventColumns)
	},
}

var eventFromAccountCmd = &cobra.Command{
	Use:   "from-account <account-id>",
	Short: "List events created by an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}

		take, skip := paging(cmd)
		events, err := client.Events.FromAccount(cmd.Context(), ids[0], take, skip)
		if err != nil {
			return err
		}
		return show(cmd.Context(), cmd.OutOrStdout(), events, eventColumns)
	},
}

var eventInRoomCmd = &cobra.Command{
	Use:   "in-room <room-id>",
	Short: "List events hosted in a room",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}

		take, skip := paging(cmd)
		events, err := client.Events.InRoom(cmd.Context(), ids[0], take, skip)
		if err != nil {
			return err
		}
		return show(cmd.Context(), cmd.OutOrStdout(), events, eventColumns)
	},
}

var eventListCmd = &cobra.Command{
	Use:   "list",
	Short: "List upcoming events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		take, skip := paging(cmd)
		events, err := client.Events.List(cmd.Context(), take, skip, sortOrder(cmd))
		if err != nil {
			return err
		}
		return show(cmd.Context(), cmd.OutOrStdout(), events, eventColumns)
	},
}

func init() {
	for _, c := range []*cobra.Command{eventSearchCmd, eventFromAccountCmd, eventInRoomCmd, eventListCmd} {
		addPagingFlags(c, 16)
	}
	addSortFlag(eventSearchCmd)
	addSortFlag(eventListCmd)

	eventCmd.AddCommand(eventFetchCmd, eventSearchCmd, eventFromAccountCmd, eventInRoomCmd, eventListCmd)
}
