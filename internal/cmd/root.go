// Package cmd implements the tldsweep command-line interface.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tldsweep/tldsweep/internal/config"
	"github.com/tldsweep/tldsweep/internal/core/engine"
	"github.com/tldsweep/tldsweep/internal/observability"
)

type rootOptions struct {
	cfgFile  string
	logLevel string
}

// Execute runs the CLI and returns the process exit code. Configuration
// errors are fatal; everything else during a run is recovered and
// reflected in the report instead of the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		var cfgErr *engine.ConfigError
		if errors.As(err, &cfgErr) {
			fmt.Fprintln(os.Stderr, "configuration error:", err)
			return 2
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "tldsweep",
		Short: "Bulk domain availability checker",
		Long: `tldsweep verifies domain availability through a chain of methods,
cheapest first: TLD policy, DNS, WHOIS, then registrar APIs. The first
conclusive answer wins; quota-capped APIs are touched only as a last resort.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default searches ./tldsweep.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newCheckCmd(opts),
		newSweepCmd(opts),
		newMethodsCmd(opts),
		newServeCmd(opts),
		newVersionCmd(),
	)
	return root
}

// loadConfig reads configuration and applies root-level flag overrides.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	return cfg, nil
}

func (o *rootOptions) newLogger(cfg *config.Config) (*zap.Logger, error) {
	return observability.NewCLILogger(cfg.Logging.Level)
}
