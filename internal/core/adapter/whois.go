package adapter

import (
	"context"
	"strings"

	"github.com/likexian/whois"

	"github.com/tldsweep/tldsweep/internal/core"
)

// WHOISPatterns are the match strings used to interpret raw WHOIS text.
// The registry ecosystem has no uniform response format, so the policy is
// configurable per deployment.
type WHOISPatterns struct {
	Available  []string
	Prohibited []string
	Registered []string
}

// DefaultWHOISPatterns returns the stock interpretation policy.
func DefaultWHOISPatterns() WHOISPatterns {
	return WHOISPatterns{
		Available: []string{
			"no match for",
			"not found",
			"no data found",
			"available for purchase",
			"this domain is available for registration",
			"domain status: available",
			"is free",
		},
		Prohibited: []string{
			"this domain is not allowed",
			"domain cannot be registered",
			"prohibited string",
		},
		Registered: []string{
			"registrar:",
			"creation date:",
			"created:",
			"registered on:",
		},
	}
}

// WHOISLookup performs a raw WHOIS query. The default implementation is
// the likexian client; tests substitute a stub.
type WHOISLookup func(domain string) (string, error)

// defaultWHOISLookup adapts the likexian client, which takes optional
// server arguments, to the single-domain lookup contract.
func defaultWHOISLookup(domain string) (string, error) {
	return whois.Whois(domain)
}

// WHOISAdapter interprets WHOIS responses into availability verdicts.
type WHOISAdapter struct {
	Lookup   WHOISLookup
	Patterns WHOISPatterns
}

// Method returns the method name.
func (a *WHOISAdapter) Method() core.Method {
	return core.MethodWHOIS
}

// Check queries WHOIS for the candidate. The lookup runs in a goroutine so
// the caller's deadline still bounds a client without context support.
func (a *WHOISAdapter) Check(ctx context.Context, candidate core.DomainCandidate) (*core.VerificationOutcome, error) {
	lookup := a.Lookup
	if lookup == nil {
		lookup = defaultWHOISLookup
	}

	type reply struct {
		body string
		err  error
	}
	done := make(chan reply, 1)
	go func() {
		body, err := lookup(candidate.FQDN())
		done <- reply{body: body, err: err}
	}()

	var resp reply
	select {
	case <-ctx.Done():
		return nil, newError(core.MethodWHOIS, "lookup", ctx.Err())
	case resp = <-done:
	}

	patterns := a.Patterns
	if len(patterns.Available) == 0 && len(patterns.Prohibited) == 0 && len(patterns.Registered) == 0 {
		patterns = DefaultWHOISPatterns()
	}

	if resp.err != nil {
		// Some WHOIS servers report availability through the error path.
		if matchesAny(resp.err.Error(), patterns.Available) {
			return conclusiveOutcome(core.MethodWHOIS, core.StatusAvailable, "whois reports domain available", nil), nil
		}
		return nil, newError(core.MethodWHOIS, "lookup", resp.err)
	}

	body := strings.ToLower(resp.body)
	switch {
	case strings.TrimSpace(body) == "":
		return inconclusiveOutcome(core.MethodWHOIS, "whois data empty"), nil
	case matchesAny(body, patterns.Available):
		return conclusiveOutcome(core.MethodWHOIS, core.StatusAvailable, "whois reports domain available", nil), nil
	case matchesAny(body, patterns.Prohibited):
		return conclusiveOutcome(core.MethodWHOIS, core.StatusUnavailable, "domain is not allowed or reserved", nil), nil
	case matchesAny(body, patterns.Registered):
		return conclusiveOutcome(core.MethodWHOIS, core.StatusUnavailable, "whois reports domain registered", nil), nil
	default:
		return inconclusiveOutcome(core.MethodWHOIS, "whois data inconclusive"), nil
	}
}

func matchesAny(body string, patterns []string) bool {
	lower := strings.ToLower(body)
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}
