package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresProjectID(t *testing.T) {
	t.Setenv("SANITY_PROJECT_ID", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SANITY_PROJECT_ID", "abc123")
	t.Setenv("SITE_FILE", filepath.Join(t.TempDir(), "missing.yml"))
	t.Setenv("REVALIDATE_LIST", "30")
	t.Setenv("SANITY_USE_CDN", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Dataset)
	assert.Equal(t, "2024-01-01", cfg.APIVersion)
	assert.False(t, cfg.UseCDN)
	assert.Equal(t, 30*time.Second, cfg.ListRevalidate)
	assert.Equal(t, 60*time.Second, cfg.DetailRevalidate)
	assert.Equal(t, "Pulse LS", cfg.Site.Name)
}

func TestLoadSiteYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yml")
	require.NoError(t, os.WriteFile(path, []byte(`name: Daily Wire
tagline: All of it
navigation:
  - label: Sports
    href: /category/sports
ads:
  client: ca-pub-1
  in_article_slot: "999"
`), 0644))

	site, err := LoadSite(path)
	require.NoError(t, err)
	assert.Equal(t, "Daily Wire", site.Name)
	require.Len(t, site.Navigation, 1)
	assert.Equal(t, "/category/sports", site.Navigation[0].Href)
	assert.Equal(t, "999", site.Ads.InArticle)
	assert.True(t, site.Ads.Enabled())
}

func TestLoadSiteTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.toml")
	require.NoError(t, os.WriteFile(path, []byte(`name = "Daily Wire"

[[navigation]]
label = "World"
href = "/category/world"

[ads]
header_slot = "111"
`), 0644))

	site, err := LoadSite(path)
	require.NoError(t, err)
	assert.Equal(t, "Daily Wire", site.Name)
	assert.Equal(t, "111", site.Ads.HeaderSlot)
	assert.False(t, site.Ads.Enabled())
}

func TestLoadSiteRejectsUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.ini")
	require.NoError(t, os.WriteFile(path, []byte("name=x"), 0644))
	_, err := LoadSite(path)
	assert.Error(t, err)
}
