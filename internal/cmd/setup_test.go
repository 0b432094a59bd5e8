package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tldsweep/tldsweep/internal/config"
	"github.com/tldsweep/tldsweep/internal/core"
	"github.com/tldsweep/tldsweep/internal/core/engine"
)

func baseConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func specByName(t *testing.T, specs []engine.MethodSpec, name core.Method) engine.MethodSpec {
	t.Helper()
	for _, spec := range specs {
		if spec.Name == name {
			return spec
		}
	}
	t.Fatalf("method %s not in specs", name)
	return engine.MethodSpec{}
}

func TestBuildSpecsAppliesConfig(t *testing.T) {
	cfg := baseConfig(t)
	cfg.Methods.DNS.MaxConcurrent = 3
	cfg.Methods.DNS.Timeout = 2 * time.Second
	cfg.Methods.WHOIS.Enabled = false
	cfg.Methods.Domainr.Quota = 500
	cfg.Methods.Domainr.APIKey = "key"

	specs := buildSpecs(cfg)

	dns := specByName(t, specs, core.MethodDNS)
	assert.Equal(t, int64(3), dns.MaxConcurrent)
	assert.Equal(t, 2*time.Second, dns.Timeout)

	assert.False(t, specByName(t, specs, core.MethodWHOIS).Enabled)

	domainr := specByName(t, specs, core.MethodDomainr)
	assert.Equal(t, 500, domainr.Quota)
	assert.True(t, domainr.HasCredential)
}

func TestBuildSpecsCredentialTracking(t *testing.T) {
	cfg := baseConfig(t)
	cfg.Methods.Domainr.APIKey = ""

	domainr := specByName(t, buildSpecs(cfg), core.MethodDomainr)
	assert.True(t, domainr.RequiresCredential)
	assert.False(t, domainr.HasCredential)
}

func TestBuildSpecsRDAPDisabledByDefault(t *testing.T) {
	cfg := baseConfig(t)

	rdap := specByName(t, buildSpecs(cfg), core.MethodRDAP)
	assert.False(t, rdap.Enabled)

	cfg.Methods.RDAP.Enabled = true
	rdap = specByName(t, buildSpecs(cfg), core.MethodRDAP)
	assert.True(t, rdap.Enabled)
}

func TestWhoisPatternsOverrides(t *testing.T) {
	cfg := baseConfig(t)

	patterns := whoisPatterns(cfg)
	assert.NotEmpty(t, patterns.Available)

	cfg.Methods.WHOIS.AvailablePatterns = []string{"status: frei"}
	patterns = whoisPatterns(cfg)
	assert.Equal(t, []string{"status: frei"}, patterns.Available)
	assert.NotEmpty(t, patterns.Registered)
}

func TestToMethods(t *testing.T) {
	assert.Equal(t, []core.Method{"dns", "whois"}, toMethods([]string{"dns", "whois"}))
	assert.Empty(t, toMethods(nil))
}
