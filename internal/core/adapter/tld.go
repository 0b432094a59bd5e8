package adapter

import (
	"context"
	"fmt"

	"github.com/tldsweep/tldsweep/internal/core"
	"github.com/tldsweep/tldsweep/internal/tldtable"
)

// TLDAdapter checks a candidate against the offline TLD policy table:
// syntax, recognized TLD, registrability, and label length bounds. It is
// the only method with zero network cost, so it always ranks first.
type TLDAdapter struct {
	Table *tldtable.Table
}

// Method returns the method name.
func (a *TLDAdapter) Method() core.Method {
	return core.MethodTLD
}

// Check validates the candidate against the table. Policy violations are
// conclusive Unavailable; a clean pass is inconclusive so cheaper network
// methods take over.
func (a *TLDAdapter) Check(ctx context.Context, candidate core.DomainCandidate) (*core.VerificationOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, newError(core.MethodTLD, "check", err)
	}

	if candidate.Label == "" || candidate.TLD == "" {
		return conclusiveOutcome(core.MethodTLD, core.StatusUnavailable, "invalid domain format", nil), nil
	}

	info, ok := a.Table.Lookup(candidate.TLD)
	if !ok {
		return conclusiveOutcome(core.MethodTLD, core.StatusUnavailable, "TLD not recognized", nil), nil
	}

	if !info.CanRegister {
		reason := "TLD cannot be registered"
		if info.HasRestrictions() {
			reason += "; " + info.Restrictions
		}
		return conclusiveOutcome(core.MethodTLD, core.StatusUnavailable, reason, nil), nil
	}

	length := len(candidate.Label)
	if min, ok := info.MinLen(); ok && length < min {
		return conclusiveOutcome(core.MethodTLD, core.StatusUnavailable, fmt.Sprintf("label too short (min %d)", min), nil), nil
	}
	if max, ok := info.MaxLen(); ok && length > max {
		return conclusiveOutcome(core.MethodTLD, core.StatusUnavailable, fmt.Sprintf("label too long (max %d)", max), nil), nil
	}

	if info.HasRestrictions() {
		return inconclusiveOutcome(core.MethodTLD, info.Restrictions), nil
	}
	return inconclusiveOutcome(core.MethodTLD, ""), nil
}
