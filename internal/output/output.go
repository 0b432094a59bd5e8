// Package output renders resolution results as a table, JSON, or plain
// text, and applies the display ordering and filters.
package output

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/tldsweep/tldsweep/internal/core"
)

// Format names a report rendering.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatText  Format = "text"
)

// Report is the renderable unit: the ordered results plus run counters.
type Report struct {
	Results []*core.DomainResult
	Summary core.RunSummary
}

// Formatter renders a report to a writer.
type Formatter interface {
	Render(w io.Writer, report *Report) error
}

// ParseFormat validates a format name from the CLI or config.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatText:
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json, or text)", raw)
	}
}

// NewFormatter returns the formatter for a parsed format.
func NewFormatter(format Format) (Formatter, error) {
	switch format {
	case FormatTable:
		return &TableFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	case FormatText:
		return &TextFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// SortResults orders results for display: available first, then premium,
// then taken, then unknown, and within a status cheapest first. Results
// without a price sort after priced ones of the same status.
func SortResults(results []*core.DomainResult) {
	sort.SliceStable(results, func(i, j int) bool {
		pi, pj := statusPriority(results[i].FinalStatus), statusPriority(results[j].FinalStatus)
		if pi != pj {
			return pi < pj
		}
		return priceValue(results[i].Price) < priceValue(results[j].Price)
	})
}

// FilterAvailable keeps only results a registrant could act on.
func FilterAvailable(results []*core.DomainResult) []*core.DomainResult {
	kept := make([]*core.DomainResult, 0, len(results))
	for _, result := range results {
		if result.FinalStatus == core.StatusAvailable || result.FinalStatus == core.StatusPremium {
			kept = append(kept, result)
		}
	}
	return kept
}

func statusPriority(status core.Status) int {
	switch status {
	case core.StatusAvailable:
		return 0
	case core.StatusPremium:
		return 1
	case core.StatusUnavailable:
		return 2
	default:
		return 3
	}
}

func priceValue(price *core.Price) float64 {
	if price == nil {
		return math.MaxFloat64
	}
	return price.Amount
}

func formatPrice(price *core.Price) string {
	if price == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f %s", price.Amount, price.Currency)
}
