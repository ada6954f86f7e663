package config

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
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesFileOverDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  driver: memory
jwt:
  secret: from-file
log:
  level: debug
  pretty: true
push:
  timeout: 3s
  apns:
    key_path: /keys/AuthKey.p8
    key_id: ABC123
    team_id: TEAM42
    topic: app.navjivan
llm:
  model: meta-llama/llama-3-8b-instruct
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
	assert.Equal(t, 3*time.Second, cfg.Push.Timeout)
	assert.Equal(t, "https://exp.host/--/api/v2/push/send", cfg.Push.Expo.URL)
	assert.True(t, cfg.Push.APNs.Enabled())
	assert.Equal(t, "meta-llama/llama-3-8b-instruct", cfg.LLM.Model)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.LLM.BaseURL)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, "jwt:\n  secret: from-file\n")
	t.Setenv("NAVJIVAN_JWT_SECRET", "from-env")
	t.Setenv("NAVJIVAN_DATABASE_URL", "postgres://u:p@db:5432/navjivan")
	t.Setenv("OPENROUTER_API_KEY", "sk-or-test")
	t.Setenv("EXPO_ACCESS_TOKEN", "expo-token")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, "postgres://u:p@db:5432/navjivan", cfg.Database.DSN())
	assert.Equal(t, "sk-or-test", cfg.LLM.APIKey)
	assert.Equal(t, "expo-token", cfg.Push.Expo.AccessToken)
}

func TestLoadWithoutFileUsesEnvironment(t *testing.T) {
	t.Setenv("NAVJIVAN_JWT_SECRET", "only-env")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "only-env", cfg.JWT.Secret)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [oops"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing secret", mutate: func(c *Config) { c.JWT.Secret = " " }, wantErr: "jwt.secret"},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: "server.port"},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mongo" }, wantErr: "database.driver"},
		{name: "partial apns", mutate: func(c *Config) { c.Push.APNs.KeyPath = "/k.p8" }, wantErr: "push.apns"},
		{name: "zero rps", mutate: func(c *Config) { c.RateLimit.RPS = 0 }, wantErr: "rate_limit.rps"},
		{
			name: "bad sample ratio",
			mutate: func(c *Config) {
				c.Tracing.Enabled = true
				c.Tracing.SampleRatio = 2
			},
			wantErr: "sample_ratio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.JWT.Secret = "secret"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDSNFromParts(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", db.DSN())
}
