package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
site:
  url: "https://example.invalid/report.aspx"
output:
  dir: out/html
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "meghalaya", cfg.Site.StateFilter)
	assert.Equal(t, "ctl00_ContentPlaceHolder1_ddlstate", cfg.Site.Controls.State)
	assert.Equal(t, "ctl00_ContentPlaceHolder1_ddlselect", cfg.Site.Controls.Option)
	assert.Equal(t, 20*time.Second, cfg.Browser.Timeout)
	assert.Equal(t, 10*time.Second, cfg.Browser.OptionTimeout)
	assert.Equal(t, 2*time.Second, cfg.Browser.Settle)
	assert.Equal(t, 1, cfg.Browser.SelectRetries)
	assert.Equal(t, filepath.Join("out/html", "manifest.jsonl"), cfg.Output.Manifest)
}

func TestLoadOverrides(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
site:
  url: "https://example.invalid/report.aspx"
  state_filter: assam
  controls:
    state: custom_state_id
browser:
  timeout: 45s
  select_retries: 3
output:
  dir: out/html
  manifest: elsewhere/manifest.jsonl
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "assam", cfg.Site.StateFilter)
	assert.Equal(t, "custom_state_id", cfg.Site.Controls.State)
	assert.Equal(t, "ctl00_ContentPlaceHolder1_ddldistrict", cfg.Site.Controls.District)
	assert.Equal(t, 45*time.Second, cfg.Browser.Timeout)
	assert.Equal(t, 3, cfg.Browser.SelectRetries)
	assert.Equal(t, "elsewhere/manifest.jsonl", cfg.Output.Manifest)
}

func TestLoadRejectsMissingURL(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
output:
  dir: out/html
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
