package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig(t *testing.T) *Config {
	t.Helper()
	v := viper.New()
	setDefaults(v)
	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	cfg.OpenAI.APIKey = "sk-test-key"
	return &cfg
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := defaultConfig(t)
	require.NoError(t, validateConfig(cfg))

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 2000, cfg.Generation.PartMaxTokens)
	assert.Equal(t, "draft", cfg.WordPress.DefaultStatus)
	assert.Equal(t, 24*time.Hour, cfg.Job.TTL)
	assert.False(t, cfg.WordPress.Enabled())
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing api key", func(c *Config) { c.OpenAI.APIKey = "" }},
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"bad publish status", func(c *Config) { c.WordPress.DefaultStatus = "private" }},
		{"no workers", func(c *Config) { c.Queue.Workers = 0 }},
		{"no queue size", func(c *Config) { c.Queue.MaxSize = 0 }},
		{"no part tokens", func(c *Config) { c.Generation.PartMaxTokens = 0 }},
		{"bad rate limit", func(c *Config) { c.RateLimit.Requests = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig(t)
			tt.mutate(cfg)
			assert.Error(t, validateConfig(cfg))
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "sk-a...wxyz", maskAPIKey("sk-abcdefghwxyz"))
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("OPENAI_API_KEY", "sk-from-env-1234")
	t.Setenv("OPENAI_MODEL", "gpt-test")
	t.Setenv("APP_SERVER_PORT", "9090")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env-1234", cfg.OpenAI.APIKey)
	assert.Equal(t, "gpt-test", cfg.OpenAI.Model)
	assert.Equal(t, 9090, cfg.Server.Port)
}
