package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_http":              "www.example:8000",
		"endpoint_addr_grpc":              "www.example:9000",
		"database_dsn":                    "postgres://db",
		"access_token_secret":             "access",
		"session_token_secret":            "session",
		"access_token_validity_duration":  "1m",
		"session_token_validity_duration": "3m",
		"bcrypt_cost":                     12,
		"sweep_interval":                  "10m",
		"logout_scope":                    "global",
		"login_rate_limit":                0,
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "www.example:8000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "www.example:9000", cfg.EndpointAddrGRPC)
		assert.Equal(t, "postgres://db", cfg.DatabaseDSN)
		assert.Equal(t, "access", cfg.AccessTokenSecret)
		assert.Equal(t, "session", cfg.SessionTokenSecret)
		assert.Equal(t, 1*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, 3*time.Minute, cfg.SessionTokenValidityDuration)
		assert.Equal(t, 12, cfg.BcryptCost)
		assert.Equal(t, 10*time.Minute, cfg.SweepInterval)
		assert.Equal(t, LogoutScopeGlobal, cfg.LogoutScope)
		assert.Equal(t, 0, cfg.LoginRateLimit)
	})

	t.Run("partial file keeps other values", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{
			"access_token_secret": "only-this",
		})
		os.Args = []string{"testbin", "-c", partial}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "only-this", cfg.AccessTokenSecret)
		assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
		assert.Equal(t, 10, cfg.LoginRateLimit)
	})

	t.Run("no config flag → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{EndpointAddrHTTP: "defaults:1234", AccessTokenSecret: "key"}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.EndpointAddrHTTP)
		assert.Equal(t, "key", cfg.AccessTokenSecret)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})

	t.Run("missing file → panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(dir, "absent.json")}
		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
