package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tldsweep/tldsweep/internal/config"
	"github.com/tldsweep/tldsweep/internal/core"
	"github.com/tldsweep/tldsweep/internal/core/adapter"
	"github.com/tldsweep/tldsweep/internal/core/engine"
)

type scriptedAdapter struct {
	method   core.Method
	verdicts map[string]core.Status
}

func (s *scriptedAdapter) Method() core.Method {
	return s.method
}

func (s *scriptedAdapter) Check(ctx context.Context, candidate core.DomainCandidate) (*core.VerificationOutcome, error) {
	status, ok := s.verdicts[candidate.FQDN()]
	if !ok {
		return &core.VerificationOutcome{Method: s.method, Status: core.StatusUnknown}, nil
	}
	return &core.VerificationOutcome{
		Method:     s.method,
		Status:     status,
		Conclusive: true,
		Reason:     "scripted verdict",
	}, nil
}

func newTestServer(t *testing.T, verdicts map[string]core.Status) *Server {
	t.Helper()

	specs := []engine.MethodSpec{
		{Name: core.MethodDNS, Rank: 20, Enabled: true, MaxConcurrent: 8, Timeout: time.Second},
		{Name: core.MethodWHOIS, Rank: 30, Enabled: false, MaxConcurrent: 8, Timeout: time.Second},
	}
	adapters := map[core.Method]adapter.Adapter{
		core.MethodDNS:   &scriptedAdapter{method: core.MethodDNS, verdicts: verdicts},
		core.MethodWHOIS: &scriptedAdapter{method: core.MethodWHOIS, verdicts: verdicts},
	}

	return New(config.ServerConfig{ShutdownTimeout: time.Second}, Deps{
		Registry: engine.NewRegistry(specs, adapters),
		Workers:  4,
		NewRun:   func() *core.ResolutionRun { return core.NewResolutionRun(nil, nil) },
		Logger:   zap.NewNop(),
	})
}

func postResolve(t *testing.T, srv *Server, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/resolve", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestResolvePreservesRequestOrder(t *testing.T) {
	srv := newTestServer(t, map[string]core.Status{
		"taken.com": core.StatusUnavailable,
		"free.com":  core.StatusAvailable,
	})

	rec := postResolve(t, srv, resolveRequest{Domains: []string{"taken.com", "free.com", "odd.com"}})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp resolveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 3)

	assert.Equal(t, "taken.com", resp.Results[0].Candidate.FQDN())
	assert.Equal(t, core.StatusUnavailable, resp.Results[0].FinalStatus)
	assert.Equal(t, "free.com", resp.Results[1].Candidate.FQDN())
	assert.Equal(t, core.StatusAvailable, resp.Results[1].FinalStatus)
	assert.Equal(t, "odd.com", resp.Results[2].Candidate.FQDN())
	assert.Equal(t, core.StatusUnknown, resp.Results[2].FinalStatus)
	assert.False(t, resp.Cancelled)
}

func TestResolveRejectsEmptyBody(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := postResolve(t, srv, resolveRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResolveRejectsConflictingFilters(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := postResolve(t, srv, resolveRequest{
		Domains: []string{"a.com"},
		Include: []string{"dns"},
		Exclude: []string{"whois"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "mutually exclusive")
}

func TestResolveIncludeEnablesDisabledMethod(t *testing.T) {
	srv := newTestServer(t, map[string]core.Status{"a.com": core.StatusAvailable})

	rec := postResolve(t, srv, resolveRequest{
		Domains: []string{"a.com"},
		Include: []string{"whois"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp resolveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)

	decidedBy, ok := resp.Results[0].DecidedBy()
	require.True(t, ok)
	assert.Equal(t, core.MethodWHOIS, decidedBy)
}

func TestResolveTooManyDomains(t *testing.T) {
	srv := newTestServer(t, nil)

	domains := make([]string, maxResolveDomains+1)
	for i := range domains {
		domains[i] = "a.com"
	}
	rec := postResolve(t, srv, resolveRequest{Domains: domains})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
