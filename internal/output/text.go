package output

import (
	"fmt"
	"io"
)

// TextFormatter renders one tab-separated line per result, matching the
// append-friendly layout used for sweep output files.
type TextFormatter struct{}

func (f *TextFormatter) Render(w io.Writer, report *Report) error {
	for _, result := range report.Results {
		_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			result.Candidate.FQDN(),
			result.FinalStatus.String(),
			formatPrice(result.Price),
			result.Reason,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
