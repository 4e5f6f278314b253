package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestServerURL(t *testing.T) {
	tests := []struct {
		name     string
		root     string
		legacy   string
		wantRoot string
		wantAPI  string
	}{
		{name: "default", wantRoot: "http://localhost:1337", wantAPI: "http://localhost:1337/api"},
		{name: "root url preferred", root: "https://cms.example.com", legacy: "https://old.example.com/api", wantRoot: "https://cms.example.com", wantAPI: "https://cms.example.com/api"},
		{name: "legacy with api suffix", legacy: "https://old.example.com/api", wantRoot: "https://old.example.com", wantAPI: "https://old.example.com/api"},
		{name: "legacy without api suffix", legacy: "https://old.example.com", wantRoot: "https://old.example.com", wantAPI: "https://old.example.com/api"},
		{name: "root with trailing slash", root: "https://cms.example.com/", wantRoot: "https://cms.example.com", wantAPI: "https://cms.example.com/api"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Public.RootURL = tt.root
			cfg.Public.LegacyAPIBaseURL = tt.legacy
			assert.Equal(t, tt.wantRoot, cfg.ServerURL())
			assert.Equal(t, tt.wantAPI, cfg.APIURL())
		})
	}
}

func TestToAbsoluteURL(t *testing.T) {
	cfg := Default()
	cfg.Public.RootURL = "https://cms.example.com"

	assert.Equal(t, "https://cms.example.com/uploads/a.png", cfg.ToAbsoluteURL("/uploads/a.png"))
	assert.Equal(t, "https://cdn.example.com/a.png", cfg.ToAbsoluteURL("https://cdn.example.com/a.png"))
	assert.Equal(t, "%zz", cfg.ToAbsoluteURL("%zz"))
}

func TestLoadEnvOverrides(t *testing.T) {
	cfg, err := load("", env(map[string]string{
		"API_BASE_URL": "http://strapi:1337/api",
		"NODE_ENV":     "development",
		"API_TIMEOUT":  "3s",
		"PORT":         "9000",
		"SESSION_KEY":  "secret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "http://strapi:1337", cfg.ServerURL())
	assert.True(t, cfg.Public.DevMode)
	assert.Equal(t, "debug", cfg.Public.LogLevel)
	assert.Equal(t, 3*time.Second, cfg.Public.Timeout)
	assert.Equal(t, "9000", cfg.Public.Port)
	assert.Equal(t, "secret", cfg.SessionKey())
}

func TestLoadInvalidEnv(t *testing.T) {
	_, err := load("", env(map[string]string{"DEV": "maybe"}))
	assert.Error(t, err)

	_, err = load("", env(map[string]string{"API_TIMEOUT": "soon"}))
	assert.Error(t, err)

	_, err = load("", env(map[string]string{"API_URL": "not a url"}))
	assert.Error(t, err)
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	public := []byte("root_url: http://cms.local:1337\ntimeout: 5s\nport: \"8099\"\nexplicit_auth: true\n")
	private := []byte("session_key: 'k'\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "public.yaml"), public, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "private.yaml"), private, 0o600))

	cfg, err := load(dir, env(nil))
	require.NoError(t, err)
	assert.Equal(t, "http://cms.local:1337", cfg.ServerURL())
	assert.Equal(t, 5*time.Second, cfg.Public.Timeout)
	assert.Equal(t, "8099", cfg.Public.Port)
	assert.True(t, cfg.Public.ExplicitAuth)
	assert.Equal(t, "k", cfg.SessionKey())
}

func TestMustLoadPanicsOnBadYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "public.yaml"), []byte("port: [unclosed"), 0o600))

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic due to invalid yaml, got none")
		}
	}()
	_ = MustLoad(dir)
}

func TestLoadEnvFile(t *testing.T) {
	assert.NoError(t, LoadEnvFile(""))
	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))

	p := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(p, []byte("PORTAL_TEST_ENV_FILE=loaded\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("PORTAL_TEST_ENV_FILE") })

	require.NoError(t, LoadEnvFile(p))
	assert.Equal(t, "loaded", os.Getenv("PORTAL_TEST_ENV_FILE"))
}
