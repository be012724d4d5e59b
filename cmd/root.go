package cmd

import (
	"os"

	"azmcp/internal/app"
	"azmcp/pkg/logging"

	"github.com/spf13/cobra"
)

var (
	// debug enables verbose logging on stderr.
	debug bool
	// logFormat selects text or json log records.
	logFormat string
	// configPath replaces the layered configuration with a single file.
	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "azmcp",
	Short: "Expose Azure commands and MCP servers as MCP tools",
	Long: `azmcp serves a tree of Azure commands, plus the tools of any configured
remote MCP servers, to AI agents over the Model Context Protocol.

Tools can be exposed one per command, behind a single proxy tool, or
grouped into one tool per namespace.`,
	// SilenceUsage is set to true to prevent printing usage message on errors
	// handled by us (e.g. invalid arguments, failed tool calls)
	SilenceUsage: true,
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "azmcp version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

// newAppConfig collects the global flags into an application configuration.
func newAppConfig() (*app.Config, error) {
	format, err := logging.ParseFormat(logFormat)
	if err != nil {
		return nil, err
	}
	cfg := app.NewConfig(debug, format, configPath)
	cfg.Version = rootCmd.Version
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file (default is the layered ~/.config/azmcp and .azmcp configuration)")

	rootCmd.AddCommand(newServerCmd())
	rootCmd.AddCommand(newToolsCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}
