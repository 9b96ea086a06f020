package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(env(map[string]string{"JWT_SECRET_KEY": "s3cret"}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, "restro.changes", cfg.AMQPExchange)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 168*time.Hour, cfg.RefreshTokenTTL)
	require.Len(t, cfg.TaxRates, 3)
	assert.Equal(t, "18", cfg.TaxRates[2].String())
}

func TestLoadRequiresSecret(t *testing.T) {
	_, err := LoadFrom(env(nil))
	require.Error(t, err)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]map[string]string{
		"rate":     {"TAX_RATES": "5,abc"},
		"range":    {"TAX_RATES": "150"},
		"duration": {"CACHE_TTL": "soon"},
		"zone":     {"TIMEZONE": "Mars/Olympus"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			vars["JWT_SECRET_KEY"] = "x"
			_, err := LoadFrom(env(vars))
			assert.Error(t, err)
		})
	}
}

func TestYAMLFileIsOverriddenByEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restro.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"9000\"\njwt_secret_key: fromfile\ntax_rates: \"0,5\"\n"), 0o600))

	cfg, err := LoadFrom(env(map[string]string{
		"CONFIG_FILE": path,
		"TAX_RATES":   "7",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Port)
	assert.Equal(t, []byte("fromfile"), cfg.SecretKey)
	require.Len(t, cfg.TaxRates, 1)
	assert.Equal(t, "7", cfg.TaxRates[0].String())
}
