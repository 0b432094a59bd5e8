package adapter

import (
	"context"
	"errors"

	"github.com/openrdap/rdap"

	"github.com/tldsweep/tldsweep/internal/core"
)

// RDAPAdapter verifies a candidate through the registry RDAP protocol.
// Disabled by default; when enabled it ranks between whois and ncapi.
type RDAPAdapter struct {
	Client *rdap.Client
}

// Method returns the method name.
func (a *RDAPAdapter) Method() core.Method {
	return core.MethodRDAP
}

// Check performs an RDAP domain query against the bootstrap registry.
func (a *RDAPAdapter) Check(ctx context.Context, candidate core.DomainCandidate) (*core.VerificationOutcome, error) {
	client := a.Client
	if client == nil {
		client = &rdap.Client{}
	}

	req := rdap.NewDomainRequest(candidate.FQDN()).WithContext(ctx)
	resp, err := client.Do(req)
	if err != nil {
		if isRDAPNotFound(err) {
			return conclusiveOutcome(core.MethodRDAP, core.StatusAvailable, "rdap object not found", nil), nil
		}
		return nil, newError(core.MethodRDAP, "query", err)
	}

	if _, ok := resp.Object.(*rdap.Domain); ok {
		return conclusiveOutcome(core.MethodRDAP, core.StatusUnavailable, "rdap domain registered", nil), nil
	}

	return inconclusiveOutcome(core.MethodRDAP, "unexpected rdap response"), nil
}

func isRDAPNotFound(err error) bool {
	var byValue rdap.ClientError
	if errors.As(err, &byValue) {
		return byValue.Type == rdap.ObjectDoesNotExist
	}
	var byPointer *rdap.ClientError
	if errors.As(err, &byPointer) {
		return byPointer.Type == rdap.ObjectDoesNotExist
	}
	return false
}
