package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"igtags/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	noColor    bool
	quiet      bool

	// Fetch flags
	outputPath  string
	waitSeconds int
	databaseDSN string
)

// rootCmd fetches a hashtag and exports it
var rootCmd = &cobra.Command{
	Use:   "igtags <tag> <min-date>",
	Short: "Export recent Instagram posts for a hashtag",
	Long: `igtags pages through Instagram's public hashtag feed, newest first, until it
reaches posts created on or before min-date (YYYY-MM-DD, UTC). Every post is
flattened into one row of a pipe-delimited file.

If a request fails part way, the posts fetched so far are still exported.

Examples:
  igtags golang 2024-01-01
  igtags '#streetphotography' 2024-03-15 -o street.csv -w 30`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			ui.SetColor(false)
		}
		if quiet {
			ui.SetQuietMode(true)
		}
	},
	RunE: runFetch,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .igtags.yaml or $HOME/.igtags.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress lines")

	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "data.csv", "output file path")
	rootCmd.Flags().IntVarP(&waitSeconds, "wait", "w", 20, "seconds to wait between page requests")
	rootCmd.Flags().StringVar(&databaseDSN, "database-dsn", "", "also insert posts into this PostgreSQL database")

	rootCmd.SetVersionTemplate(`igtags {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// collectFlags returns only the flags set on the command line, keyed the way
// config.MergeCommandLineFlags expects
func collectFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if changed("output") {
		flags["output"] = outputPath
	}
	if changed("wait") {
		flags["wait"] = waitSeconds
	}
	if changed("database-dsn") {
		flags["database-dsn"] = databaseDSN
	}
	if changed("log-level") {
		flags["log-level"] = logLevel
	}
	if changed("no-color") {
		flags["no-color"] = noColor
	}
	return flags
}
