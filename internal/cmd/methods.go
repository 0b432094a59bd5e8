package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/tldsweep/tldsweep/internal/core"
	"github.com/tldsweep/tldsweep/internal/core/store"
)

func newMethodsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List verification methods in precedence order",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			// Usage is best-effort here; an unreadable store just hides
			// the remaining-quota column.
			usage := map[core.Method]int{}
			if quotaStore, err := store.Open(cmd.Context(), cfg.Store.Path); err == nil {
				now := time.Now().UTC()
				for _, spec := range buildSpecs(cfg) {
					if spec.Quota <= 0 {
						continue
					}
					if used, err := quotaStore.Usage(cmd.Context(), spec.Name, spec.QuotaWindow, now); err == nil {
						usage[spec.Name] = used
					}
				}
				_ = quotaStore.Close()
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleRounded)
			t.AppendHeader(table.Row{"Method", "Rank", "Enabled", "Concurrency", "Rate/s", "Quota Left", "Credential"})

			for _, spec := range buildSpecs(cfg) {
				quota := "-"
				if spec.Quota > 0 {
					quota = fmt.Sprintf("%d of %d", spec.Quota-usage[spec.Name], spec.Quota)
				}
				credential := "-"
				if spec.RequiresCredential {
					if spec.HasCredential {
						credential = "configured"
					} else {
						credential = "missing"
					}
				}
				rateLimit := "-"
				if spec.RatePerSecond > 0 {
					rateLimit = fmt.Sprintf("%.1f", spec.RatePerSecond)
				}
				t.AppendRow(table.Row{
					string(spec.Name),
					spec.Rank,
					spec.Enabled,
					spec.MaxConcurrent,
					rateLimit,
					quota,
					credential,
				})
			}

			t.Render()
			return nil
		},
	}
}
