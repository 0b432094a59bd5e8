package adapter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tldsweep/tldsweep/internal/core"
)

const defaultGandiBaseURL = "https://shop.gandi.net"

// GandiAdapter queries the Gandi shop suggest endpoint, which streams
// availability (`das`) and pricing (`billing`) server-sent events.
type GandiAdapter struct {
	BaseURL string
	Client  *http.Client
}

type gandiDASEvent struct {
	FQDN         string `json:"fqdn"`
	Availability string `json:"availability"`
}

type gandiBillingEvent struct {
	FQDN   string `json:"fqdn"`
	Prices struct {
		Products []struct {
			Process string `json:"process"`
			Prices  []struct {
				AveragePrice float64 `json:"average_price"`
			} `json:"prices"`
		} `json:"products"`
	} `json:"prices"`
}

// Method returns the method name.
func (a *GandiAdapter) Method() core.Method {
	return core.MethodGandi
}

// Check streams suggest events and extracts the verdict for the candidate.
func (a *GandiAdapter) Check(ctx context.Context, candidate core.DomainCandidate) (*core.VerificationOutcome, error) {
	base := a.BaseURL
	if base == "" {
		base = defaultGandiBaseURL
	}
	client := a.Client
	if client == nil {
		client = http.DefaultClient
	}

	params := url.Values{
		"country":             {"NL"},
		"grid":                {"A"},
		"currency":            {"EUR"},
		"lang":                {"en"},
		"search":              {candidate.FQDN()},
		"phases":              {"golive"},
		"lock_sentence":       {"true"},
		"page":                {"1"},
		"per_page":            {"100"},
		"required_availables": {"15"},
		"source":              {"shop"},
	}

	endpoint := fmt.Sprintf("%s/api/v5/suggest/suggest?%s", base, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, newError(core.MethodGandi, "request", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Referer", base+"/en/domain/suggest?search=*&options=1&bulk=1")

	resp, err := client.Do(req)
	if err != nil {
		return nil, newError(core.MethodGandi, "request", err)
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on response body

	if resp.StatusCode != http.StatusOK {
		return nil, newError(core.MethodGandi, "request", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	availability := ""
	var price *core.Price

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	event := ""
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event: "))
		case strings.HasPrefix(line, "data: "):
			data := strings.TrimPrefix(line, "data: ")
			switch event {
			case "das":
				var das gandiDASEvent
				if err := json.Unmarshal([]byte(data), &das); err == nil && strings.EqualFold(das.FQDN, candidate.FQDN()) {
					availability = das.Availability
				}
			case "billing":
				var billing gandiBillingEvent
				if err := json.Unmarshal([]byte(data), &billing); err == nil && strings.EqualFold(billing.FQDN, candidate.FQDN()) {
					price = gandiCreatePrice(billing)
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, newError(core.MethodGandi, "stream", err)
	}

	switch availability {
	case "available":
		return conclusiveOutcome(core.MethodGandi, core.StatusAvailable, "gandi reports domain available", price), nil
	case "unavailable":
		return conclusiveOutcome(core.MethodGandi, core.StatusUnavailable, "gandi reports domain registered", nil), nil
	case "invalid":
		return conclusiveOutcome(core.MethodGandi, core.StatusUnavailable, "gandi reports domain invalid", nil), nil
	default:
		return inconclusiveOutcome(core.MethodGandi, "gandi inconclusive"), nil
	}
}

func gandiCreatePrice(event gandiBillingEvent) *core.Price {
	for _, product := range event.Prices.Products {
		if product.Process != "create" {
			continue
		}
		if len(product.Prices) > 0 && product.Prices[0].AveragePrice > 0 {
			return &core.Price{Amount: product.Prices[0].AveragePrice, Currency: "EUR"}
		}
	}
	return nil
}
