package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"master": map[string]any{
				"userName": "user",
			},
		},
		"googleOAuth": map[string]any{
			"clientId": "",
		},
		"secretKey": map[string]any{
			"access": "",
		},
		"frontend": map[string]any{
			"baseUrl": "",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "POSTGRES_MASTER_USERNAME", want: "postgres.master.userName"},
		{envKey: "GOOGLEOAUTH_CLIENTID", want: "googleOAuth.clientId"},
		{envKey: "SECRETKEY_ACCESS", want: "secretKey.access"},
		{envKey: "FRONTEND_BASEURL", want: "frontend.baseUrl"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			assert.Equal(t, tt.want, canonicalizeEnvKey(tt.envKey, existing))
		})
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.yaml"), []byte(body), 0o600))

	return dir
}

func TestLoadWithEnv_EnvOverridesYAML(t *testing.T) {
	dir := writeConfig(t, `
env:
  env: development
secretKey:
  access: from-yaml
token:
  accessTTL: 1h
http:
  corsOrigins:
    - http://a.example
`)
	t.Setenv("SECRETKEY_ACCESS", "from-env")
	t.Setenv("TOKEN_ACCESSTTL", "2h")

	cfg, err := LoadWithEnv[Config]("test", dir)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.SecretKey.Access)
	assert.Equal(t, 2*time.Hour, cfg.Token.AccessTTL)
	assert.Equal(t, []string{"http://a.example"}, cfg.HTTP.CORSOrigins)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	_, err := LoadWithEnv[Config]("does-not-exist", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.SecretKey.Access = "access"
	cfg.Frontend.BaseURL = "http://localhost:3000/"

	applyDefaults(cfg)

	assert.Equal(t, "access", cfg.SecretKey.Refresh)
	assert.Equal(t, 7*24*time.Hour, cfg.Token.AccessTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.Token.RefreshTTL)
	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, StateProviderMemory, cfg.OAuthState.Provider)
	assert.Equal(t, 10*time.Minute, cfg.OAuthState.TTL)
	assert.Equal(t, "http://localhost:3000", cfg.Frontend.BaseURL)
	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, defaultWorkerPort, cfg.Worker.Port)
}

func TestValidate(t *testing.T) {
	newCfg := func() *Config {
		cfg := &Config{}
		cfg.SecretKey.Access = "access"
		applyDefaults(cfg)
		cfg.Store.Driver = StoreDriverMemory

		return cfg
	}

	t.Run("valid memory store", func(t *testing.T) {
		assert.NoError(t, newCfg().Validate())
	})

	t.Run("missing access secret", func(t *testing.T) {
		cfg := newCfg()
		cfg.SecretKey.Access = " "
		assert.Error(t, cfg.Validate())
	})

	t.Run("postgres driver without postgres block", func(t *testing.T) {
		cfg := newCfg()
		cfg.Store.Driver = StoreDriverPostgres
		assert.Error(t, cfg.Validate())
	})

	t.Run("redis state store without address", func(t *testing.T) {
		cfg := newCfg()
		cfg.OAuthState.Provider = StateProviderRedis
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := newCfg()
		cfg.Store.Driver = "mongo"
		assert.Error(t, cfg.Validate())
	})
}

func TestIsProduction(t *testing.T) {
	cfg := &Config{}
	cfg.Env.Env = "Production"
	assert.True(t, cfg.IsProduction())

	cfg.Env.Env = "development"
	assert.False(t, cfg.IsProduction())
}
