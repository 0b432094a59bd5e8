package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tldsweep/tldsweep/internal/core"
)

func result(fqdn string, status core.Status, price *core.Price) *core.DomainResult {
	return &core.DomainResult{
		Candidate:   core.NewCandidate(fqdn),
		FinalStatus: status,
		Price:       price,
	}
}

func TestParseFormat(t *testing.T) {
	for _, raw := range []string{"table", " JSON ", "Text"} {
		_, err := ParseFormat(raw)
		assert.NoError(t, err, raw)
	}

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestSortResults(t *testing.T) {
	results := []*core.DomainResult{
		result("taken.com", core.StatusUnavailable, nil),
		result("pricey.com", core.StatusAvailable, &core.Price{Amount: 99, Currency: "USD"}),
		result("mystery.com", core.StatusUnknown, nil),
		result("cheap.com", core.StatusAvailable, &core.Price{Amount: 8, Currency: "USD"}),
		result("premium.com", core.StatusPremium, &core.Price{Amount: 500, Currency: "USD"}),
		result("nopriced.com", core.StatusAvailable, nil),
	}

	SortResults(results)

	got := make([]string, len(results))
	for i, r := range results {
		got[i] = r.Candidate.FQDN()
	}
	assert.Equal(t, []string{
		"cheap.com",
		"pricey.com",
		"nopriced.com",
		"premium.com",
		"taken.com",
		"mystery.com",
	}, got)
}

func TestFilterAvailable(t *testing.T) {
	results := []*core.DomainResult{
		result("a.com", core.StatusAvailable, nil),
		result("b.com", core.StatusUnavailable, nil),
		result("c.com", core.StatusPremium, nil),
		result("d.com", core.StatusUnknown, nil),
	}

	kept := FilterAvailable(results)
	require.Len(t, kept, 2)
	assert.Equal(t, "a.com", kept[0].Candidate.FQDN())
	assert.Equal(t, "c.com", kept[1].Candidate.FQDN())
}

func TestTextFormatter(t *testing.T) {
	report := &Report{Results: []*core.DomainResult{
		result("a.com", core.StatusAvailable, &core.Price{Amount: 12.5, Currency: "USD"}),
		result("b.com", core.StatusUnavailable, nil),
	}}

	var buf bytes.Buffer
	require.NoError(t, (&TextFormatter{}).Render(&buf, report))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "a.com\tAvailable\t12.50 USD\t", lines[0])
	assert.Equal(t, "b.com\tNot available\t-\t", lines[1])
}

func TestJSONFormatter(t *testing.T) {
	report := &Report{
		Results: []*core.DomainResult{
			{
				Candidate:   core.NewCandidate("a.com"),
				FinalStatus: core.StatusAvailable,
				Reason:      "whois reports domain available (whois)",
				Evidence: []core.VerificationOutcome{
					{Method: core.MethodWHOIS, Status: core.StatusAvailable, Conclusive: true},
				},
			},
		},
		Summary: core.RunSummary{TotalQueries: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).Render(&buf, report))

	var decoded struct {
		Results []struct {
			Domain    string `json:"domain"`
			Status    string `json:"status"`
			DecidedBy string `json:"decided_by"`
		} `json:"results"`
		Summary struct {
			TotalQueries int `json:"total_queries"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Results, 1)
	assert.Equal(t, "a.com", decoded.Results[0].Domain)
	assert.Equal(t, "Available", decoded.Results[0].Status)
	assert.Equal(t, "whois", decoded.Results[0].DecidedBy)
	assert.Equal(t, 1, decoded.Summary.TotalQueries)
}

func TestTableFormatter(t *testing.T) {
	report := &Report{Results: []*core.DomainResult{
		result("a.com", core.StatusAvailable, &core.Price{Amount: 10, Currency: "USD"}),
		result("b.com", core.StatusUnknown, nil),
	}}

	var buf bytes.Buffer
	require.NoError(t, (&TableFormatter{NoColor: true}).Render(&buf, report))

	out := buf.String()
	assert.Contains(t, out, "a.com")
	assert.Contains(t, out, "10.00 USD")
	assert.Contains(t, out, "2 checked: 1 available, 0 premium, 0 taken, 1 unknown")
}
