package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tldsweep/tldsweep/internal/core"
)

const (
	defaultDomainrBaseURL = "https://domainr.p.rapidapi.com"
	domainrRapidAPIHost   = "domainr.p.rapidapi.com"
)

// DomainrAdapter queries the Domainr status API through RapidAPI. It is the
// most expensive method (hard monthly quota) and always ranks last.
type DomainrAdapter struct {
	BaseURL string
	Client  *http.Client
	APIKey  string
}

type domainrResponse struct {
	Status []struct {
		Domain       string      `json:"domain"`
		Summary      string      `json:"summary"`
		AveragePrice json.Number `json:"average_price"`
	} `json:"status"`
}

// Method returns the method name.
func (a *DomainrAdapter) Method() core.Method {
	return core.MethodDomainr
}

// Check asks Domainr for the candidate's status summary.
func (a *DomainrAdapter) Check(ctx context.Context, candidate core.DomainCandidate) (*core.VerificationOutcome, error) {
	if strings.TrimSpace(a.APIKey) == "" {
		return nil, newError(core.MethodDomainr, "auth", errors.New("api key is not configured"))
	}

	base := a.BaseURL
	if base == "" {
		base = defaultDomainrBaseURL
	}
	client := a.Client
	if client == nil {
		client = http.DefaultClient
	}

	endpoint := fmt.Sprintf("%s/v2/status?domain=%s", base, url.QueryEscape(candidate.FQDN()))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, newError(core.MethodDomainr, "request", err)
	}
	req.Header.Set("X-RapidAPI-Key", a.APIKey)
	req.Header.Set("X-RapidAPI-Host", domainrRapidAPIHost)

	resp, err := client.Do(req)
	if err != nil {
		return nil, newError(core.MethodDomainr, "request", err)
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on response body

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, newError(core.MethodDomainr, "auth", fmt.Errorf("authentication failed with status %d", resp.StatusCode))
	default:
		return nil, newError(core.MethodDomainr, "request", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var parsed domainrResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, newError(core.MethodDomainr, "decode", err)
	}
	if len(parsed.Status) == 0 {
		return inconclusiveOutcome(core.MethodDomainr, "domainr returned no data"), nil
	}

	status := parsed.Status[0]
	switch status.Summary {
	case "inactive", "undelegated":
		return conclusiveOutcome(core.MethodDomainr, core.StatusAvailable, "domainr reports domain available", nil), nil
	case "active", "reserved", "parked", "disallowed":
		return conclusiveOutcome(core.MethodDomainr, core.StatusUnavailable, "domainr reports domain "+status.Summary, nil), nil
	case "premium":
		var price *core.Price
		if amount, err := status.AveragePrice.Float64(); err == nil && amount > 0 {
			price = &core.Price{Amount: amount, Currency: "USD"}
		}
		return conclusiveOutcome(core.MethodDomainr, core.StatusPremium, "domainr reports premium domain", price), nil
	default:
		return inconclusiveOutcome(core.MethodDomainr, status.Summary), nil
	}
}
