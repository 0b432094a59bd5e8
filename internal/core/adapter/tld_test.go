package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tldsweep/tldsweep/internal/core"
	"github.com/tldsweep/tldsweep/internal/tldtable"
)

func newTestTable() *tldtable.Table {
	return tldtable.NewTable([]tldtable.Info{
		{Name: "com", CanRegister: true, MinLength: "3", MaxLength: "63"},
		{Name: "gov", CanRegister: false, Restrictions: "US government entities only"},
		{Name: "de", CanRegister: true, Restrictions: "local presence required"},
		{Name: "io", CanRegister: true},
	})
}

func TestTLDCheck(t *testing.T) {
	a := &TLDAdapter{Table: newTestTable()}
	ctx := context.Background()

	tests := []struct {
		name       string
		domain     string
		conclusive bool
		status     core.Status
		reason     string
	}{
		{"bare label", "nodot", true, core.StatusUnavailable, "invalid domain format"},
		{"unknown tld", "example.zzz", true, core.StatusUnavailable, "TLD not recognized"},
		{"unregistrable tld", "example.gov", true, core.StatusUnavailable, "TLD cannot be registered; US government entities only"},
		{"label too short", "ab.com", true, core.StatusUnavailable, "label too short (min 3)"},
		{"clean pass", "example.io", false, core.StatusUnknown, ""},
		{"restricted pass", "example.de", false, core.StatusUnknown, "local presence required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := a.Check(ctx, core.NewCandidate(tt.domain))
			require.NoError(t, err)
			assert.Equal(t, tt.conclusive, outcome.Conclusive)
			assert.Equal(t, tt.status, outcome.Status)
			assert.Equal(t, tt.reason, outcome.Reason)
			assert.Equal(t, core.MethodTLD, outcome.Method)
		})
	}
}

func TestTLDCheckCancelledContext(t *testing.T) {
	a := &TLDAdapter{Table: newTestTable()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Check(ctx, core.NewCandidate("example.com"))
	require.Error(t, err)

	var adapterErr *Error
	assert.ErrorAs(t, err, &adapterErr)
}
