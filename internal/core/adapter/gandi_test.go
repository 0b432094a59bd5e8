package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tldsweep/tldsweep/internal/core"
)

func gandiServer(t *testing.T, events string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v5/suggest/suggest", r.URL.Path)
		assert.Equal(t, "example.com", r.URL.Query().Get("search"))
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, events)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGandiCheckAvailableWithPrice(t *testing.T) {
	events := "event: das\n" +
		"data: {\"fqdn\":\"example.com\",\"availability\":\"available\"}\n" +
		"\n" +
		"event: billing\n" +
		"data: {\"fqdn\":\"example.com\",\"prices\":{\"products\":[{\"process\":\"create\",\"prices\":[{\"average_price\":11.5}]}]}}\n" +
		"\n"
	srv := gandiServer(t, events)
	a := &GandiAdapter{BaseURL: srv.URL, Client: srv.Client()}

	outcome, err := a.Check(context.Background(), core.NewCandidate("example.com"))
	require.NoError(t, err)

	assert.True(t, outcome.Conclusive)
	assert.Equal(t, core.StatusAvailable, outcome.Status)
	require.NotNil(t, outcome.Price)
	assert.Equal(t, 11.5, outcome.Price.Amount)
	assert.Equal(t, "EUR", outcome.Price.Currency)
}

func TestGandiCheckUnavailable(t *testing.T) {
	events := "event: das\n" +
		"data: {\"fqdn\":\"example.com\",\"availability\":\"unavailable\"}\n"
	srv := gandiServer(t, events)
	a := &GandiAdapter{BaseURL: srv.URL, Client: srv.Client()}

	outcome, err := a.Check(context.Background(), core.NewCandidate("example.com"))
	require.NoError(t, err)

	assert.True(t, outcome.Conclusive)
	assert.Equal(t, core.StatusUnavailable, outcome.Status)
	assert.Nil(t, outcome.Price)
}

func TestGandiCheckIgnoresOtherDomains(t *testing.T) {
	events := "event: das\n" +
		"data: {\"fqdn\":\"other.com\",\"availability\":\"available\"}\n"
	srv := gandiServer(t, events)
	a := &GandiAdapter{BaseURL: srv.URL, Client: srv.Client()}

	outcome, err := a.Check(context.Background(), core.NewCandidate("example.com"))
	require.NoError(t, err)
	assert.False(t, outcome.Conclusive)
	assert.Equal(t, core.StatusUnknown, outcome.Status)
}

func TestGandiCheckServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	a := &GandiAdapter{BaseURL: srv.URL, Client: srv.Client()}

	_, err := a.Check(context.Background(), core.NewCandidate("example.com"))
	require.Error(t, err)

	var adapterErr *Error
	assert.ErrorAs(t, err, &adapterErr)
}
