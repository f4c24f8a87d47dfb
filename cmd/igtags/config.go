package main

import (
	"fmt"
	"net/url"
	"os"
	"regexp"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"igtags/pkg/config"
	"igtags/pkg/ui"
)

const defaultConfigPath = ".igtags.yaml"

const exampleConfig = `# igtags configuration file
#
# Every value can also be set with an IGTAGS_ environment variable,
# for example IGTAGS_WAIT or IGTAGS_OUTPUT. Command line flags win.

instagram:
  base_url: "https://www.instagram.com"
  # Uncomment to replace the built-in browser user agent
  # user_agent: "Mozilla/5.0 (X11; Linux x86_64)"
  timeout: 30s

fetch:
  # Seconds to wait before every follow-up page request
  wait_seconds: 20

export:
  output: "data.csv"
  delimiter: "|"
  # PostgreSQL DSN, rows go to the hashtag_posts table when set
  database_dsn: ""

logging:
  # debug, info, warn, error, disabled
  level: "info"
  file: ""
  no_color: false
`

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage igtags configuration files.

Configuration is read from, highest priority first:
  - Command line flags
  - Environment variables (IGTAGS_*)
  - .env files
  - Configuration file
  - Default values`,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file is written to .igtags.yaml in the current directory unless a
different path is given with --config. Existing files are never overwritten.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists: %s", configPath)
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0600); err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, collectFlags(cmd))
	if err != nil {
		return err
	}

	display := *cfg
	display.Export.DatabaseDSN = maskDSN(display.Export.DatabaseDSN)

	data, err := yaml.Marshal(&display)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

var dsnPassword = regexp.MustCompile(`(password=)\S+`)

// maskDSN hides the password of a URL or key=value DSN
func maskDSN(dsn string) string {
	if dsn == "" {
		return ""
	}
	if u, err := url.Parse(dsn); err == nil && u.User != nil {
		if _, ok := u.User.Password(); ok {
			return u.Redacted()
		}
		return dsn
	}
	return dsnPassword.ReplaceAllString(dsn, "${1}***")
}
