package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/electryonz/internal/registration"
)

func loadPricing(t *testing.T, path string) registration.Pricing {
	t.Helper()
	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	return cfg.Pricing
}

func TestSaveCatalog_CreatesNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	require.NoError(t, SaveCatalog(path, registration.DefaultCatalog(), registration.DefaultTeamEvents()))

	p := loadPricing(t, path)
	require.Equal(t, registration.DefaultCatalog(), p.Catalog)
	require.Equal(t, registration.DefaultTeamEvents(), p.TeamEvents)
}

func TestSaveCatalog_PreservesOtherConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	custom := registration.Catalog{
		Technical: []registration.CatalogEvent{{ID: 21, Name: "Hackathon", Price: 500}},
	}
	require.NoError(t, SaveCatalog(path, custom, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	require.Contains(t, content, "base_url: http://localhost:5000")
	require.Contains(t, content, "Hackathon")

	p := loadPricing(t, path)
	require.Equal(t, registration.ModeCatalog, p.Mode)
	require.Equal(t, 3, p.Discount.Threshold)
	require.Equal(t, custom.Technical, p.Catalog.Technical)
}

func TestSaveCatalog_ReplacesExistingCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, SaveCatalog(path, registration.DefaultCatalog(), nil))

	smaller := registration.Catalog{NonTechnical: []registration.CatalogEvent{{ID: 7, Name: "Chess Champions", Price: 250}}}
	require.NoError(t, SaveCatalog(path, smaller, nil))

	p := loadPricing(t, path)
	require.Empty(t, p.Catalog.Technical)
	require.Equal(t, smaller.NonTechnical, p.Catalog.NonTechnical)
}

func TestSaveCatalog_KeepsUnusualNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, SaveCatalog(path, registration.DefaultCatalog(), nil))

	p := loadPricing(t, path)
	ev, ok := p.Catalog.Lookup(8)
	require.True(t, ok)
	require.Equal(t, "Carrom ", ev.Name)
	ev, ok = p.Catalog.Lookup(11)
	require.True(t, ok)
	require.Equal(t, "", ev.Name)
}

func TestSaveCatalog_AtomicWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, SaveCatalog(path, registration.DefaultCatalog(), nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file should be renamed away")
}

func TestSaveCatalog_RejectsNonMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- a\n- b\n"), 0o600))

	require.ErrorContains(t, SaveCatalog(path, registration.DefaultCatalog(), nil), "not a mapping")
}
