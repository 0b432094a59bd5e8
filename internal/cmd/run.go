package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tldsweep/tldsweep/internal/config"
	"github.com/tldsweep/tldsweep/internal/core"
	"github.com/tldsweep/tldsweep/internal/core/engine"
	"github.com/tldsweep/tldsweep/internal/output"
)

// runFlags are the per-run settings shared by check and sweep.
type runFlags struct {
	include       []string
	exclude       []string
	workers       int
	format        string
	outFile       string
	availableOnly bool
	timeout       time.Duration
}

func addRunFlags(cmd *cobra.Command, flags *runFlags) {
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "only use these methods (comma separated)")
	cmd.Flags().StringSliceVar(&flags.exclude, "exclude", nil, "skip these methods (comma separated)")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "concurrent domain workers (default from config)")
	cmd.Flags().StringVarP(&flags.format, "output", "o", "", "output format: table, json, or text")
	cmd.Flags().StringVar(&flags.outFile, "out-file", "", "append plain-text results to this file")
	cmd.Flags().BoolVar(&flags.availableOnly, "available-only", false, "report only available and premium domains")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "abort the run after this duration")
}

func (f *runFlags) applyTo(cfg *config.Config) {
	if f.workers > 0 {
		cfg.Workers = f.workers
	}
	if f.format != "" {
		cfg.Output.Format = f.format
	}
	if f.outFile != "" {
		cfg.Output.File = f.outFile
	}
	if f.availableOnly {
		cfg.Output.AvailableOnly = true
	}
	if len(f.include) > 0 {
		cfg.Methods.Include = f.include
	}
	if len(f.exclude) > 0 {
		cfg.Methods.Exclude = f.exclude
	}
}

// runResolution is the shared check/sweep pipeline: build the app,
// resolve every candidate, persist quota, and render the report.
// Cancellation reports whatever completed and still exits zero.
func runResolution(ctx context.Context, opts *rootOptions, flags *runFlags, candidates []core.DomainCandidate) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	flags.applyTo(cfg)

	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	logger, err := opts.newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if len(candidates) == 0 {
		return errors.New("no domains to check")
	}

	app, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	methods, err := app.registry.ActiveMethods(toMethods(cfg.Methods.Include), toMethods(cfg.Methods.Exclude))
	if err != nil {
		return err
	}

	runCtx := ctx
	if flags.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, flags.timeout)
		defer cancel()
	}

	logger.Info("starting run",
		zap.Int("candidates", len(candidates)),
		zap.Int("workers", cfg.Workers),
		zap.Int("methods", len(methods)),
	)

	run := app.newRun()
	scheduler := &engine.Scheduler{
		Resolver: &engine.Resolver{Registry: app.registry, Logger: logger},
		Workers:  cfg.Workers,
		Logger:   logger,
	}

	results, err := scheduler.ResolveAll(runCtx, run, methods, candidates)
	if err != nil && !errors.Is(err, engine.ErrRunCancelled) {
		return err
	}

	// Dispatched quota is spent even when the run was cut short.
	app.persistQuota(context.Background(), run)

	// JSON keeps engine order for scripting; the human formats sort by
	// availability and price.
	if format != output.FormatJSON {
		output.SortResults(results)
	}
	if cfg.Output.AvailableOnly {
		results = output.FilterAvailable(results)
	}
	report := &output.Report{Results: results, Summary: run.Summary()}

	formatter, err := output.NewFormatter(format)
	if err != nil {
		return err
	}
	if err := formatter.Render(os.Stdout, report); err != nil {
		return err
	}

	if cfg.Output.File != "" {
		if err := appendTextReport(cfg.Output.File, report); err != nil {
			return err
		}
	}
	return nil
}

// appendTextReport appends the plain-text rendering to a file, so
// repeated sweeps accumulate into one list.
func appendTextReport(path string, report *output.Report) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer f.Close()

	text := &output.TextFormatter{}
	if err := text.Render(f, report); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}
