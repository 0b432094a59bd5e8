package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tldsweep/tldsweep/internal/core"
)

const (
	defaultNCAPIBaseURL = "https://production.ncapi.io"
	ncapiUserAgent      = "Namecheap-iOS 3.18.5-1 (iPhone 15 Pro iOS 18.1.1)"
)

// NCAPIAdapter queries the Namecheap mobile status endpoint. The endpoint
// accepts comma-separated domain batches; the engine's per-domain contract
// means each request carries a single domain.
type NCAPIAdapter struct {
	BaseURL string
	Client  *http.Client
}

type ncapiResponse struct {
	Status []ncapiDomainStatus `json:"status"`
}

type ncapiDomainStatus struct {
	Domain       string      `json:"domain"`
	Source       string      `json:"source"`
	Available    bool        `json:"available"`
	Premium      bool        `json:"premium"`
	AveragePrice json.Number `json:"average_price"`
}

// Method returns the method name.
func (a *NCAPIAdapter) Method() core.Method {
	return core.MethodNCAPI
}

// Check asks NCAPI for the candidate's registration status.
func (a *NCAPIAdapter) Check(ctx context.Context, candidate core.DomainCandidate) (*core.VerificationOutcome, error) {
	base := a.BaseURL
	if base == "" {
		base = defaultNCAPIBaseURL
	}
	client := a.Client
	if client == nil {
		client = http.DefaultClient
	}

	endpoint := fmt.Sprintf("%s/api/v1/domain/status?domains=%s", base, url.QueryEscape(candidate.FQDN()))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, newError(core.MethodNCAPI, "request", err)
	}
	req.Header.Set("User-Agent", ncapiUserAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := client.Do(req)
	if err != nil {
		return nil, newError(core.MethodNCAPI, "request", err)
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on response body

	if resp.StatusCode != http.StatusOK {
		return nil, newError(core.MethodNCAPI, "request", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var parsed ncapiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, newError(core.MethodNCAPI, "decode", err)
	}

	for _, status := range parsed.Status {
		if !strings.EqualFold(status.Domain, candidate.FQDN()) {
			continue
		}
		if status.Source == "n/a" {
			// The API cannot see this TLD's registry.
			return inconclusiveOutcome(core.MethodNCAPI, "ncapi inconclusive"), nil
		}
		if !status.Available {
			return conclusiveOutcome(core.MethodNCAPI, core.StatusUnavailable, "ncapi reports domain registered", nil), nil
		}
		price := ncapiPrice(status.AveragePrice)
		if status.Premium {
			return conclusiveOutcome(core.MethodNCAPI, core.StatusPremium, "ncapi reports premium domain", price), nil
		}
		return conclusiveOutcome(core.MethodNCAPI, core.StatusAvailable, "ncapi reports domain available", price), nil
	}

	return inconclusiveOutcome(core.MethodNCAPI, "ncapi returned no data"), nil
}

func ncapiPrice(value json.Number) *core.Price {
	amount, err := value.Float64()
	if err != nil || amount <= 0 {
		return nil
	}
	return &core.Price{Amount: amount, Currency: "USD"}
}
