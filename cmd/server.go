package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"azmcp/internal/app"
	"azmcp/internal/config"

	"github.com/spf13/cobra"
)

// exposureFlags select which tools are visible. They are shared by
// "server start" and the "tools" subcommands so both see the same tool set.
type exposureFlags struct {
	mode                    string
	namespaces              []string
	readOnly                bool
	tolerateDiscoveryErrors bool
}

func (f *exposureFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.mode, "mode", "", "Tool exposure mode: all, single or namespace (default from configuration, else all)")
	cmd.Flags().StringSliceVar(&f.namespaces, "namespace", nil, "Namespace prefix to expose, e.g. kv or kubernetes.pod (repeatable)")
	cmd.Flags().BoolVar(&f.readOnly, "read-only", false, "Hide commands that modify resources")
	cmd.Flags().BoolVar(&f.tolerateDiscoveryErrors, "tolerate-discovery-errors", false, "Skip failing tool sources instead of failing the listing")
}

func (f *exposureFlags) apply(cfg *app.Config) {
	cfg.Mode = config.Mode(f.mode)
	cfg.Namespaces = f.namespaces
	cfg.ReadOnly = f.readOnly
	cfg.TolerateDiscoveryErrors = f.tolerateDiscoveryErrors
}

// newApplication is replaced in tests.
var newApplication = app.NewApplication

func buildApplication(flags *exposureFlags) (*app.Application, error) {
	cfg, err := newAppConfig()
	if err != nil {
		return nil, err
	}
	flags.apply(cfg)

	application, err := newApplication(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	return application, nil
}

func newServerCmd() *cobra.Command {
	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Run the MCP server",
	}

	var flags exposureFlags
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the MCP server on stdin and stdout",
		Long: `Starts the MCP server using the stdio transport. Logs are written to stderr.

Modes:
  all        One tool per command and per remote MCP server tool.
  single     One "azure" tool that proxies to every other tool.
  namespace  One tool per top-level namespace. Without --namespace only
             the extension namespace is exposed, and its commands are
             also exposed directly.

Configuration:
  azmcp layers ~/.config/azmcp/config.yaml and .azmcp/config.yaml over its
  defaults, or reads only the file given with --config. Flags win over both.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := buildApplication(&flags)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return application.Run(ctx)
		},
	}
	flags.register(startCmd)

	serverCmd.AddCommand(startCmd)
	return serverCmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
