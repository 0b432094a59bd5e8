package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tldsweep/tldsweep/internal/tldtable"
)

func newSweepCmd(opts *rootOptions) *cobra.Command {
	flags := &runFlags{}
	var maxTLDLength int

	cmd := &cobra.Command{
		Use:   "sweep <name>",
		Short: "Check one name across every known TLD",
		Example: `  tldsweep sweep acme
  tldsweep sweep acme --max-tld-length 4 --available-only --out-file hits.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base := strings.ToLower(strings.TrimSpace(args[0]))
			if base == "" || strings.Contains(base, ".") {
				return errors.New("sweep takes a bare name without a TLD")
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			limit := cfg.Data.MaxTLDLength
			if maxTLDLength > 0 {
				limit = maxTLDLength
			}

			tlds, err := tldtable.LoadAllTLDs(cfg.Data.AllTLDs, limit)
			if err != nil {
				return err
			}
			if len(tlds) == 0 {
				return errors.New("no TLDs matched the length limit")
			}
			return runResolution(cmd.Context(), opts, flags, tldtable.Generate(base, tlds))
		},
	}

	cmd.Flags().IntVar(&maxTLDLength, "max-tld-length", 0, "only sweep TLDs up to this length (0 = all)")
	addRunFlags(cmd, flags)
	return cmd
}
