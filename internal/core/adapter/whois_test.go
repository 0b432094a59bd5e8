package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tldsweep/tldsweep/internal/core"
)

// The stock client takes optional server arguments; the adapter must
// expose it under the single-domain lookup contract.
var _ WHOISLookup = defaultWHOISLookup

func stubLookup(body string, err error) WHOISLookup {
	return func(domain string) (string, error) {
		return body, err
	}
}

func TestWHOISCheckInterpretsBody(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		conclusive bool
		status     core.Status
	}{
		{"no match", "No match for \"EXAMPLE.COM\"", true, core.StatusAvailable},
		{"not found", "Domain not found.", true, core.StatusAvailable},
		{"registered", "Registrar: Example Registrar Inc.\nCreation Date: 2001-01-01", true, core.StatusUnavailable},
		{"prohibited", "this domain is not allowed", true, core.StatusUnavailable},
		{"empty body", "   \n", false, core.StatusUnknown},
		{"unparseable", "quota exceeded, try again later", false, core.StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &WHOISAdapter{Lookup: stubLookup(tt.body, nil)}
			outcome, err := a.Check(context.Background(), core.NewCandidate("example.com"))
			require.NoError(t, err)
			assert.Equal(t, tt.conclusive, outcome.Conclusive)
			assert.Equal(t, tt.status, outcome.Status)
		})
	}
}

func TestWHOISCheckAvailableViaErrorText(t *testing.T) {
	// Some registries surface availability only as a client error.
	a := &WHOISAdapter{Lookup: stubLookup("", errors.New("whois: no match for example.com"))}

	outcome, err := a.Check(context.Background(), core.NewCandidate("example.com"))
	require.NoError(t, err)
	assert.True(t, outcome.Conclusive)
	assert.Equal(t, core.StatusAvailable, outcome.Status)
}

func TestWHOISCheckLookupError(t *testing.T) {
	a := &WHOISAdapter{Lookup: stubLookup("", errors.New("connection refused"))}

	_, err := a.Check(context.Background(), core.NewCandidate("example.com"))
	require.Error(t, err)

	var adapterErr *Error
	assert.ErrorAs(t, err, &adapterErr)
	assert.Equal(t, core.MethodWHOIS, adapterErr.Method)
}

func TestWHOISCheckHonorsContext(t *testing.T) {
	blocked := make(chan struct{})
	a := &WHOISAdapter{Lookup: func(domain string) (string, error) {
		<-blocked
		return "", nil
	}}
	defer close(blocked)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Check(ctx, core.NewCandidate("example.com"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWHOISCheckCustomPatterns(t *testing.T) {
	a := &WHOISAdapter{
		Lookup:   stubLookup("status: frei", nil),
		Patterns: WHOISPatterns{Available: []string{"status: frei"}},
	}

	outcome, err := a.Check(context.Background(), core.NewCandidate("example.de"))
	require.NoError(t, err)
	assert.True(t, outcome.Conclusive)
	assert.Equal(t, core.StatusAvailable, outcome.Status)
}
