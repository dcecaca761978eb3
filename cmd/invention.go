package cmd

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/recnetbot/recnet/recnet"
)

var inventionCmd = &cobra.Command{
	Use:   "invention",
	Short: "Look up RecNet inventions",
}

var inventionFetchCmd = &cobra.Command{
	Use:   "fetch <id>...",
	Short: "Fetch inventions by id",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}

		// No bulk endpoint; fetch each id concurrently and keep argument order
		found := make([]*recnet.Invention, len(ids))
		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(cfg.Concurrency)
		for i, id := range ids {
			g.Go(func() error {
				invention, err := client.Inventions.Fetch(ctx, id)
				if err != nil {
					return err
				}
				if invention == nil {
					logger.Warn().Int64("invention_id", id).Msg("Invention not found")
				}
				found[i] = invention
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		inventions := make([]recnet.Invention, 0, len(found))
		for _, invention := range found {
			if invention != nil {
				inventions = append(inventions, *invention)
			}
		}
		return show(cmd.Context(), cmd.OutOrStdout(), inventions, inventionColumns)
	},
}

var inventionSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search inventions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		take, _ := paging(cmd)
		inventions, err := client.Inventions.Search(cmd.Context(), args[0], take)
		if err != nil {
			return err
		}
		return show(cmd.Context(), cmd.OutOrStdout(), inventions, inventionColumns)
	},
}

var inventionFeaturedCmd = &cobra.Command{
	Use:   "featured",
	Short: "List featured inventions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		take, skip := paging(cmd)
		inventions, err := client.Inventions.Featured(cmd.Context(), take, skip)
		if err != nil {
			return err
		}
		return show(cmd.Context(), cmd.OutOrStdout(), inventions, inventionColumns)
	},
}

var inventionTopCmd = &cobra.Command{
	Use:   "top",
	Short: "List today's top inventions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		inventions, err := client.Inventions.TopToday(cmd.Context())
		if err != nil {
			return err
		}
		return show(cmd.Context(), cmd.OutOrStdout(), inventions, inventionColumns)
	},
}

func init() {
	inventionSearchCmd.Flags().Int("take", 16, "number of results to return")
	addPagingFlags(inventionFeaturedCmd, 24)

	inventionCmd.AddCommand(inventionFetchCmd, inventionSearchCmd, inventionFeaturedCmd, inventionTopCmd)
}
