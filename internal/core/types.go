package core

import (
	"fmt"
	"strings"
	"time"
)

// Method identifies a verification method.
type Method string

const (
	MethodTLD     Method = "tld"
	MethodDNS     Method = "dns"
	MethodWHOIS   Method = "whois"
	MethodRDAP    Method = "rdap"
	MethodNCAPI   Method = "ncapi"
	MethodGandi   Method = "gandi"
	MethodDomainr Method = "domainr"
)

// Status represents the availability verdict for a domain.
type Status int

const (
	StatusUnknown     Status = 0
	StatusAvailable   Status = 1
	StatusUnavailable Status = 2
	StatusPremium     Status = 3
)

// String returns the human-readable status label.
func (s Status) String() string {
	switch s {
	case StatusAvailable:
		return "Available"
	case StatusUnavailable:
		return "Not available"
	case StatusPremium:
		return "Premium"
	default:
		return "Unknown"
	}
}

// MarshalText implements encoding.TextMarshaler for JSON output.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses the textual status labels back into a Status.
func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Available":
		*s = StatusAvailable
	case "Not available":
		*s = StatusUnavailable
	case "Premium":
		*s = StatusPremium
	case "Unknown", "":
		*s = StatusUnknown
	default:
		return fmt.Errorf("unknown status %q", text)
	}
	return nil
}

// Price is a registration price quoted by a method.
type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// DomainCandidate is one fully-qualified domain name under evaluation.
// Identity is the fully qualified string; the value is immutable.
type DomainCandidate struct {
	Label string `json:"label"`
	TLD   string `json:"tld"`
}

// NewCandidate parses a fully-qualified domain name into a candidate.
// Bare labels (no dot) keep an empty TLD so the tld method can reject
// them with a proper reason instead of the parser failing the run.
func NewCandidate(fqdn string) DomainCandidate {
	value := strings.ToLower(strings.TrimSpace(fqdn))
	idx := strings.LastIndex(value, ".")
	if idx < 0 {
		return DomainCandidate{Label: value}
	}
	return DomainCandidate{Label: value[:idx], TLD: value[idx+1:]}
}

// FQDN returns the fully qualified string identity of the candidate.
func (c DomainCandidate) FQDN() string {
	if c.TLD == "" {
		return c.Label
	}
	return c.Label + "." + c.TLD
}

// MarshalText renders the candidate as its FQDN.
func (c DomainCandidate) MarshalText() ([]byte, error) {
	return []byte(c.FQDN()), nil
}

// UnmarshalText parses an FQDN back into a candidate.
func (c *DomainCandidate) UnmarshalText(text []byte) error {
	*c = NewCandidate(string(text))
	return nil
}

// VerificationOutcome is the result of one adapter call for one domain.
// Inconclusive outcomes never carry a price. Failed marks synthetic
// outcomes recorded for adapter errors (transport, auth, timeout).
type VerificationOutcome struct {
	CheckID    string    `json:"check_id"`
	Method     Method    `json:"method"`
	Status     Status    `json:"status"`
	Conclusive bool      `json:"conclusive"`
	Reason     string    `json:"reason,omitempty"`
	Price      *Price    `json:"price,omitempty"`
	Failed     bool      `json:"failed,omitempty"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// DomainResult is the engine's final output for one candidate. FinalStatus
// equals the status of the first conclusive outcome in Evidence, or
// StatusUnknown when none was conclusive.
type DomainResult struct {
	Candidate   DomainCandidate       `json:"candidate"`
	FinalStatus Status                `json:"final_status"`
	Price       *Price                `json:"price,omitempty"`
	Reason      string                `json:"reason,omitempty"`
	Evidence    []VerificationOutcome `json:"evidence"`
	CompletedAt time.Time             `json:"completed_at"`
}

// DecidedBy returns the method that produced the conclusive outcome, if any.
func (r *DomainResult) DecidedBy() (Method, bool) {
	if r == nil {
		return "", false
	}
	for _, outcome := range r.Evidence {
		if outcome.Conclusive {
			return outcome.Method, true
		}
	}
	return "", false
}

const maxReasonLength = 140

// CapReason trims a reason string to the display limit.
func CapReason(reason string) string {
	if len(reason) <= maxReasonLength {
		return reason
	}
	return reason[:maxReasonLength-3] + "..."
}

// JoinReasons concatenates inconclusive-attempt reasons for an Unknown result.
func JoinReasons(outcomes []VerificationOutcome) string {
	parts := make([]string, 0, len(outcomes))
	for _, outcome := range outcomes {
		if outcome.Reason == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", outcome.Reason, outcome.Method))
	}
	return CapReason(strings.Join(parts, "; "))
}
