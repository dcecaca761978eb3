package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/recnetbot/recnet/recnet"
)

var roomCmd = &cobra.Command{
	Use:   "room",
	Short: "Look up RecNet rooms",
}

var roomGetCmd = &cobra.Command{
	Use:   "get <name>...",
	Short: "Get rooms by name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var rooms []recnet.Room
		if len(args) == 1 {
			room, err := client.Rooms.Get(ctx, args[0])
			if err != nil {
				return err
			}
			rooms = single(room)
		} else {
			var err error
			if rooms, err = client.Rooms.GetMany(ctx, args); err != nil {
				return err
			}
		}
		return show(ctx, cmd.OutOrStdout(), rooms, roomColumns)
	},
}

var roomFetchCmd = &cobra.Command{
	Use:   "fetch <id>...",
	Short: "Fetch rooms by id",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}

		// Individual fetches return full room details
		rooms, err := client.Rooms.FetchEach(cmd.Context(), ids)
		if err != nil {
			return err
		}
		return show(cmd.Context(), cmd.OutOrStdout(), rooms, roomColumns)
	},
}

var roomSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search rooms",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		take, skip := paging(cmd)
		rooms, err := client.Rooms.Search(cmd.Context(), args[0], take, skip)
		if err != nil {
			return err
		}
		return show(cmd.Context(), cmd.OutOrStdout(), rooms, roomColumns)
	},
}

var roomCreatedByCmd = &cobra.Command{
	Use:   "created-by <account-id>",
	Short: "List rooms created by an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return listByAccount(cmd, args, client.Rooms.CreatedBy)
	},
}

var roomOwnedByCmd = &cobra.Command{
	Use:   "owned-by <account-id>",
	Short: "List rooms owned by an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return listByAccount(cmd, args, client.Rooms.OwnedBy)
	},
}

var roomHotCmd = &cobra.Command{
	Use:   "hot",
	Short: "List hot rooms",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		take, skip := paging(cmd)
		rooms, err := client.Rooms.Hot(cmd.Context(), take, skip)
		if err != nil {
			return err
		}
		return show(cmd.Context(), cmd.OutOrStdout(), rooms, roomColumns)
	},
}

func listByAccount(cmd *cobra.Command, args []string, list func(ctx context.Context, accountID int64) ([]recnet.Room, error)) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}

	rooms, err := list(cmd.Context(), ids[0])
	if err != nil {
		return err
	}
	return show(cmd.Context(), cmd.OutOrStdout(), rooms, roomColumns)
}

func init() {
	addPagingFlags(roomSearchCmd, 16)
	addPagingFlags(roomHotCmd, 16)

	roomCmd.AddCommand(roomGetCmd, roomFetchCmd, roomSearchCmd, roomCreatedByCmd, roomOwnedByCmd, roomHotCmd)
}
