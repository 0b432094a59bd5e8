package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/tldsweep/tldsweep/internal/core"
)

// TableFormatter renders a colored terminal table plus the run summary.
type TableFormatter struct {
	// NoColor disables status coloring, for non-TTY output.
	NoColor bool
}

func (f *TableFormatter) Render(w io.Writer, report *Report) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Domain", "Status", "Price", "Decided By", "Reason"})

	for _, result := range report.Results {
		status := result.FinalStatus.String()
		if !f.NoColor {
			status = colorStatus(result.FinalStatus)
		}
		decidedBy := "-"
		if method, ok := result.DecidedBy(); ok {
			decidedBy = string(method)
		}
		t.AppendRow(table.Row{
			result.Candidate.FQDN(),
			status,
			formatPrice(result.Price),
			decidedBy,
			result.Reason,
		})
	}

	t.Render()
	renderSummary(w, report)
	return nil
}

func colorStatus(status core.Status) string {
	switch status {
	case core.StatusAvailable:
		return text.FgGreen.Sprint(status.String())
	case core.StatusPremium:
		return text.FgBlue.Sprint(status.String())
	case core.StatusUnavailable:
		return text.FgRed.Sprint(status.String())
	default:
		return text.FgYellow.Sprint(status.String())
	}
}

func renderSummary(w io.Writer, report *Report) {
	counts := map[core.Status]int{}
	for _, result := range report.Results {
		counts[result.FinalStatus]++
	}
	fmt.Fprintf(w, "\n%d checked: %d available, %d premium, %d taken, %d unknown\n",
		len(report.Results),
		counts[core.StatusAvailable],
		counts[core.StatusPremium],
		counts[core.StatusUnavailable],
		counts[core.StatusUnknown],
	)
	methods := make([]string, 0, len(report.Summary.QuotaUsed))
	for method := range report.Summary.QuotaUsed {
		methods = append(methods, string(method))
	}
	sort.Strings(methods)
	for _, method := range methods {
		fmt.Fprintf(w, "quota used (%s): %d\n", method, report.Summary.QuotaUsed[core.Method(method)])
	}
}
