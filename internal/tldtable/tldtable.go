// Package tldtable loads the TLD pricing/policy table and the full TLD
// list, and generates sweep candidates from a base label.
package tldtable

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/tldsweep/tldsweep/internal/core"
)

// Info describes registration policy for one TLD. Length and price fields
// are free text in the source data ("Unknown", "12,50"), so they stay
// strings and are parsed on demand.
type Info struct {
	Name         string `json:"name"`
	CanRegister  bool   `json:"can_register"`
	MinLength    string `json:"min_length"`
	MaxLength    string `json:"max_length"`
	AveragePrice string `json:"average_price"`
	Premium      bool   `json:"premium"`
	Restrictions string `json:"restrictions"`
}

// MinLen parses the minimum label length, if known.
func (i Info) MinLen() (int, bool) {
	return parseLength(i.MinLength)
}

// MaxLen parses the maximum label length, if known.
func (i Info) MaxLen() (int, bool) {
	return parseLength(i.MaxLength)
}

// PriceHint parses the average registration price, if known.
func (i Info) PriceHint() (float64, bool) {
	value := strings.ReplaceAll(strings.TrimSpace(i.AveragePrice), ",", ".")
	if value == "" || strings.EqualFold(value, "n/a") || strings.EqualFold(value, "unknown") {
		return 0, false
	}
	amount, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

// HasRestrictions reports whether the TLD carries registration restrictions.
func (i Info) HasRestrictions() bool {
	value := strings.TrimSpace(i.Restrictions)
	return value != "" && !strings.EqualFold(value, "no known restrictions")
}

func parseLength(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}

// Table is the TLD lookup table keyed by normalized TLD name.
type Table struct {
	infos map[string]Info
}

// NewTable builds a table from TLD records.
func NewTable(infos []Info) *Table {
	table := &Table{infos: make(map[string]Info, len(infos))}
	for _, info := range infos {
		name := normalizeTLD(info.Name)
		if name == "" {
			continue
		}
		info.Name = name
		table.infos[name] = info
	}
	return table
}

// Load reads the TLD table from a JSON file (a list of Info records).
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tld table: %w", err)
	}

	var infos []Info
	if err := json.Unmarshal(data, &infos); err != nil {
		return nil, fmt.Errorf("parse tld table %s: %w", path, err)
	}

	return NewTable(infos), nil
}

// Lookup returns the record for a TLD.
func (t *Table) Lookup(tld string) (Info, bool) {
	if t == nil {
		return Info{}, false
	}
	info, ok := t.infos[normalizeTLD(tld)]
	return info, ok
}

// Len returns the number of known TLDs.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.infos)
}

// LoadAllTLDs reads the full TLD list (one per line), skipping entries
// longer than maxLength.
func LoadAllTLDs(path string, maxLength int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read tld list: %w", err)
	}
	defer file.Close() // nolint:errcheck // best-effort cleanup on read-only file

	tlds := make([]string, 0, 1024)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		tld := normalizeTLD(scanner.Text())
		if tld == "" || (maxLength > 0 && len(tld) > maxLength) {
			continue
		}
		tlds = append(tlds, tld)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return tlds, nil
}

// ReadCandidates reads fully-qualified domains from a file, one per line.
// Blank lines and # comments are skipped.
func ReadCandidates(path string) ([]core.DomainCandidate, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read domains: %w", err)
	}
	defer file.Close() // nolint:errcheck // best-effort cleanup on read-only file

	candidates := make([]core.DomainCandidate, 0)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		candidates = append(candidates, core.NewCandidate(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return candidates, nil
}

// Generate produces sweep candidates by pairing a base label with each TLD.
func Generate(base string, tlds []string) []core.DomainCandidate {
	label := strings.ToLower(strings.TrimSpace(base))
	candidates := make([]core.DomainCandidate, 0, len(tlds))
	for _, tld := range tlds {
		normalized := normalizeTLD(tld)
		if normalized == "" {
			continue
		}
		candidates = append(candidates, core.DomainCandidate{Label: label, TLD: normalized})
	}
	return candidates
}

func normalizeTLD(value string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(value)), ".")
}
