package tldtable

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAndLookup(t *testing.T) {
	path := writeFile(t, "tlds.json", `[
		{"name": ".COM", "can_register": true, "min_length": "3", "max_length": "63", "average_price": "12,98"},
		{"name": "gov", "can_register": false, "restrictions": "US government entities only"},
		{"name": "", "can_register": true}
	]`)

	table, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	info, ok := table.Lookup("com")
	require.True(t, ok)
	assert.True(t, info.CanRegister)

	minLen, ok := info.MinLen()
	require.True(t, ok)
	assert.Equal(t, 3, minLen)

	price, ok := info.PriceHint()
	require.True(t, ok)
	assert.Equal(t, 12.98, price)

	// Lookup normalizes case and a leading dot.
	_, ok = table.Lookup(".COM")
	assert.True(t, ok)

	_, ok = table.Lookup("zzz")
	assert.False(t, ok)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestInfoParsing(t *testing.T) {
	info := Info{MinLength: "Unknown", MaxLength: "", AveragePrice: "n/a", Restrictions: "No known restrictions"}

	_, ok := info.MinLen()
	assert.False(t, ok)
	_, ok = info.MaxLen()
	assert.False(t, ok)
	_, ok = info.PriceHint()
	assert.False(t, ok)
	assert.False(t, info.HasRestrictions())

	restricted := Info{Restrictions: "local presence required"}
	assert.True(t, restricted.HasRestrictions())
}

func TestLoadAllTLDs(t *testing.T) {
	path := writeFile(t, "all-tlds.txt", "com\nIO\n.dev\ninternational\n\n")

	all, err := LoadAllTLDs(path, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"com", "io", "dev", "international"}, all)

	short, err := LoadAllTLDs(path, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"com", "io", "dev"}, short)
}

func TestReadCandidates(t *testing.T) {
	path := writeFile(t, "domains.txt", "example.com\n# comment\n\n  Example.IO  \n")

	candidates, err := ReadCandidates(path)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "example.com", candidates[0].FQDN())
	assert.Equal(t, "example.io", candidates[1].FQDN())
}

func TestGenerate(t *testing.T) {
	candidates := Generate(" Acme ", []string{"com", ".IO", ""})
	require.Len(t, candidates, 2)
	assert.Equal(t, "acme.com", candidates[0].FQDN())
	assert.Equal(t, "acme.io", candidates[1].FQDN())
}
