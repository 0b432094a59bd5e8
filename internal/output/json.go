package output

import (
	"encoding/json"
	"io"

	"github.com/tldsweep/tldsweep/internal/core"
)

// JSONFormatter renders the full report, evidence included, as indented
// JSON for scripting.
type JSONFormatter struct{}

type jsonReport struct {
	Results []jsonResult    `json:"results"`
	Summary core.RunSummary `json:"summary"`
}

type jsonResult struct {
	Domain    string                     `json:"domain"`
	Status    core.Status                `json:"status"`
	Price     *core.Price                `json:"price,omitempty"`
	Reason    string                     `json:"reason,omitempty"`
	DecidedBy core.Method                `json:"decided_by,omitempty"`
	Evidence  []core.VerificationOutcome `json:"evidence"`
}

func (f *JSONFormatter) Render(w io.Writer, report *Report) error {
	out := jsonReport{
		Results: make([]jsonResult, 0, len(report.Results)),
		Summary: report.Summary,
	}
	for _, result := range report.Results {
		decidedBy, _ := result.DecidedBy()
		out.Results = append(out.Results, jsonResult{
			Domain:    result.Candidate.FQDN(),
			Status:    result.FinalStatus,
			Price:     result.Price,
			Reason:    result.Reason,
			DecidedBy: decidedBy,
			Evidence:  result.Evidence,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
