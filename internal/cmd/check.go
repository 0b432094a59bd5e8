package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/tldsweep/tldsweep/internal/core"
	"github.com/tldsweep/tldsweep/internal/tldtable"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	flags := &runFlags{}
	var inputFile string

	cmd := &cobra.Command{
		Use:   "check [domain...]",
		Short: "Check availability of the given domains",
		Example: `  tldsweep check example.com example.io
  tldsweep check -f domains.txt --output json
  tldsweep check example.dev --include tld,dns,whois`,
		RunE: func(cmd *cobra.Command, args []string) error {
			candidates := make([]core.DomainCandidate, 0, len(args))
			for _, arg := range args {
				candidates = append(candidates, core.NewCandidate(arg))
			}

			if inputFile != "" {
				fromFile, err := tldtable.ReadCandidates(inputFile)
				if err != nil {
					return err
				}
				candidates = append(candidates, fromFile...)
			}

			if len(candidates) == 0 {
				return errors.New("no domains given: pass them as arguments or with -f")
			}
			return runResolution(cmd.Context(), opts, flags, candidates)
		},
	}

	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "read domains from a file, one per line")
	addRunFlags(cmd, flags)
	return cmd
}
