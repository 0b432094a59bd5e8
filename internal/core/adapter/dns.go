package adapter

import (
	"context"
	"fmt"

	"github.com/miekg/dns"

	"github.com/tldsweep/tldsweep/internal/core"
)

const defaultDNSServer = "1.1.1.1:53"

// DNSAdapter queries A, MX, and NS records. Any answer means the domain is
// delegated, which the original policy treats as a conclusive registration
// signal; ConclusiveOnRecords downgrades that to suggestive when disabled.
type DNSAdapter struct {
	Server              string
	Client              *dns.Client
	ConclusiveOnRecords bool
}

var dnsRecordTypes = []uint16{dns.TypeA, dns.TypeMX, dns.TypeNS}

// Method returns the method name.
func (a *DNSAdapter) Method() core.Method {
	return core.MethodDNS
}

// Check resolves the candidate. NXDOMAIN and empty answers are
// inconclusive: absence of delegation does not prove availability.
func (a *DNSAdapter) Check(ctx context.Context, candidate core.DomainCandidate) (*core.VerificationOutcome, error) {
	client := a.Client
	if client == nil {
		client = &dns.Client{}
	}
	server := a.Server
	if server == "" {
		server = defaultDNSServer
	}

	fqdn := dns.Fqdn(candidate.FQDN())
	for _, recordType := range dnsRecordTypes {
		msg := new(dns.Msg)
		msg.SetQuestion(fqdn, recordType)
		msg.RecursionDesired = true

		resp, _, err := client.ExchangeContext(ctx, msg, server)
		if err != nil {
			return nil, newError(core.MethodDNS, "query", err)
		}

		if resp.Rcode == dns.RcodeNameError {
			// NXDOMAIN is authoritative for every record type at once.
			return inconclusiveOutcome(core.MethodDNS, "no dns records"), nil
		}
		if resp.Rcode != dns.RcodeSuccess {
			return nil, newError(core.MethodDNS, "query", fmt.Errorf("rcode %s", dns.RcodeToString[resp.Rcode]))
		}

		if len(resp.Answer) > 0 {
			reason := fmt.Sprintf("%s records found (domain is registered)", dns.TypeToString[recordType])
			if !a.ConclusiveOnRecords {
				return inconclusiveOutcome(core.MethodDNS, reason), nil
			}
			return conclusiveOutcome(core.MethodDNS, core.StatusUnavailable, reason, nil), nil
		}
	}

	return inconclusiveOutcome(core.MethodDNS, "no dns records"), nil
}
