package cmd

import (
	"fmt"
	"strings"

	"github.com/blang/semver"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// SetVersion records build metadata injected by the linker
func SetVersion(v, built string) {
	version = v
	buildTime = built
}

// formatVersion normalizes a release tag, leaving development builds as is
func formatVersion(v string) string {
	parsed, err := semver.ParseTolerant(strings.TrimSpace(v))
	if err != nil {
		return v
	}
	return "v" + parsed.String()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	// No config or client needed
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "recnet %s (built %s)\n", formatVersion(version), buildTime)
		return err
	},
}
