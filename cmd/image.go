package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/recnetbot/recnet/recnet"
)

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Look up RecNet images",
}

var imageGetCmd = &cobra.Command{
	Use:   "get <name>...",
	Short: "Get images by file name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		images, err := client.Images.GetMany(cmd.Context(), args)
		if err != nil {
			return err
		}
		return show(cmd.Context(), cmd.OutOrStdout(), images, imageColumns)
	},
}

var imageFetchCmd = &cobra.Command{
	Use:   "fetch <id>...",
	Short: "Fetch images by id",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}

		images, err := client.Images.FetchMany(cmd.Context(), ids)
		if err != nil {
			return err
		}
		return show(cmd.Context(), cmd.OutOrStdout(), images, imageColumns)
	},
}

// imageListCmd builds a command listing images related to one id
func imageListCmd(use, short string, sorted bool, list func(ctx context.Context, id int64, take, skip, sort int) ([]recnet.Image, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			take, skip := paging(cmd)
			images, err := list(cmd.Context(), ids[0], take, skip, sortOrder(cmd))
			if err != nil {
				return err
			}
			return show(cmd.Context(), cmd.OutOrStdout(), images, imageColumns)
		},
	}
	addPagingFlags(cmd, 16)
	if sorted {
		addSortFlag(cmd)
	}
	return cmd
}

var imageFrontPageCmd = &cobra.Command{
	Use:   "front-page",
	Short: "List images on the global feed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		take, skip := paging(cmd)
		images, err := client.Images.FrontPage(cmd.Context(), take, skip)
		if err != nil {
			return err
		}
		return show(cmd.Context(), cmd.OutOrStdout(), images, imageColumns)
	},
}

func init() {
	addPagingFlags(imageFrontPageCmd, 16)

	imageCmd.AddCommand(
		imageGetCmd,
		imageFetchCmd,
		imageListCmd("from-account <account-id>", "List images taken by an account", true,
			func(ctx context.Context, id int64, take, skip, sort int) ([]recnet.Image, error) {
				return client.Images.FromAccount(ctx, id, take, skip, sort)
			}),
		imageListCmd("feed <account-id>", "List images an account is tagged in", false,
			func(ctx context.Context, id int64, take, skip, _ int) ([]recnet.Image, error) {
				return client.Images.PlayerFeed(ctx, id, take, skip)
			}),
		imageListCmd("during-event <event-id>", "List images taken during an event", false,
			func(ctx context.Context, id int64, take, skip, _ int) ([]recnet.Image, error) {
				return client.Images.DuringEvent(ctx, id, take, skip)
			}),
		imageListCmd("in-room <room-id>", "List images taken in a room", true,
			func(ctx context.Context, id int64, take, skip, sort int) ([]recnet.Image, error) {
				return client.Images.InRoom(ctx, id, take, skip, sort)
			}),
		imageFrontPageCmd,
	)
}
