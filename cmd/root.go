package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/recnetbot/recnet/config"
	"github.com/recnetbot/recnet/filter"
	"github.com/recnetbot/recnet/recnet"
)

var (
	cfgFile       string
	cfg           *config.Config
	logger        zerolog.Logger
	client        *recnet.Client
	filterManager *filter.Manager

	// Command flags
	filterExpr   string
	preset       string
	outputFormat string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "recnet",
	Short: "Query the RecNet API from the command line",
	Long: `recnet looks up RecNet accounts, rooms, events, images and inventions
through a shared rate-limited client. Results can be narrowed with filter
expressions and printed as tables or JSON.`,
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// Interrupts cancel in-flight requests.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx, os.Args[1:])
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// execute runs the command line and shuts the client down whether or not
// the command succeeded.
func execute(ctx context.Context, args []string) error {
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)

	if shutdownErr := shutdownApp(); shutdownErr != nil {
		logger.Warn().Err(shutdownErr).Msg("Client did not stop cleanly")
		if err == nil {
			err = shutdownErr
		}
	}
	return err
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	flags.StringVarP(&outputFormat, "output", "o", string(FormatTable), "output format: table or json")
	flags.StringVarP(&filterExpr, "filter", "f", "", "filter expression applied to results")
	flags.StringVarP(&preset, "preset", "p", "", "use a preset filter from config")

	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(roomCmd)
	rootCmd.AddCommand(eventCmd)
	rootCmd.AddCommand(imageCmd)
	rootCmd.AddCommand(inventionCmd)
	rootCmd.AddCommand(versionCmd)
}

// addPagingFlags registers --take and --skip on list commands
func addPagingFlags(cmd *cobra.Command, defaultTake int) {
	cmd.Flags().Int("take", defaultTake, "number of results to return")
	cmd.Flags().Int("skip", 0, "number of results to skip")
}

// addSortFlag registers --sort on commands whose endpoint accepts an order
func addSortFlag(cmd *cobra.Command) {
	cmd.Flags().Int("sort", 0, "sort order understood by the endpoint")
}

// paging reads the flags registered by addPagingFlags
func paging(cmd *cobra.Command) (take, skip int) {
	take, _ = cmd.Flags().GetInt("take")
	skip, _ = cmd.Flags().GetInt("skip")
	return take, skip
}

func sortOrder(cmd *cobra.Command) int {
	sort, _ := cmd.Flags().GetInt("sort")
	return sort
}

// initializeApp loads the configuration and builds the API client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	if _, err := ParseFormat(outputFormat); err != nil {
		return err
	}

	filterManager = filter.NewManager()
	if err := filterManager.RegisterFilters(cfg.Filters); err != nil {
		return fmt.Errorf("invalid filter preset: %w", err)
	}

	opts := []recnet.Option{
		recnet.WithLogger(logger),
		recnet.WithAPIVersion(cfg.API.Version),
		recnet.WithUserAgent(cfg.API.UserAgent),
		recnet.WithTimeout(cfg.API.Timeout),
		recnet.WithRateLimit(cfg.RateLimit.Capacity, cfg.RateLimit.Window),
		recnet.WithMaxConnections(cfg.Pool.MaxConnections),
		recnet.WithMaxRetries(cfg.Retry.MaxRetries),
		recnet.WithRetryDelay(cfg.Retry.Delay),
		recnet.WithConcurrency(cfg.Concurrency),
	}
	if cfg.API.BaseURL != "" {
		opts = append(opts, recnet.WithBaseURL(cfg.API.BaseURL))
	}

	client, err = recnet.NewClient(cfg.API.Key, opts...)
	if err != nil {
		return fmt.Errorf("failed to create RecNet client: %w", err)
	}

	logger.Debug().
		Int("capacity", cfg.RateLimit.Capacity).
		Dur("window", cfg.RateLimit.Window).
		Msg("Client ready")

	return nil
}

// shutdownApp drains in-flight requests and stops the filter workers
func shutdownApp() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if filterManager != nil {
		if err := filterManager.Close(ctx); err != nil {
			logger.Warn().Err(err).Msg("Filter workers did not stop cleanly")
		}
	}
	if client != nil {
		return client.Close(ctx)
	}
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format, without colour when stderr is redirected
	fd := os.Stderr.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !tty,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// getFilterExpression determines the filter expression to use.
// The second result is true when the expression names a preset.
func getFilterExpression() (string, bool, error) {
	// Priority: command line filter > preset
	if filterExpr != "" {
		return filterExpr, false, nil
	}

	if preset != "" {
		if _, ok := filterManager.GetFilter(preset); ok {
			return preset, true, nil
		}
		return "", false, fmt.Errorf("preset '%s' not found in config", preset)
	}

	return "", false, nil
}

// recordPtr constrains P to a pointer to T that can be filtered
type recordPtr[T any] interface {
	*T
	filter.Record
}

// applyFilter narrows items with the --filter or --preset expression
func applyFilter[T any, P recordPtr[T]](ctx context.Context, items []T) ([]T, error) {
	expression, isPreset, err := getFilterExpression()
	if err != nil || expression == "" {
		return items, err
	}

	records := make([]filter.Record, len(items))
	for i := range items {
		records[i] = P(&items[i])
	}

	var matches []filter.Record
	if isPreset {
		matches, err = filterManager.EvaluateFilter(ctx, expression, records)
	} else {
		matches, err = filterManager.EvaluateExpression(ctx, expression, records)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}

	logger.Debug().
		Str("filter", expression).
		Int("total", len(items)).
		Int("matched", len(matches)).
		Msg("Filter applied")

	out := make([]T, 0, len(matches))
	for _, p := range filter.Matches[P](matches) {
		out = append(out, *p)
	}
	return out, nil
}
