package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 0.7, cfg.Nutrition.ConfidenceThreshold)
	assert.Equal(t, 3, cfg.Nutrition.MemorySize)
	assert.False(t, cfg.DeepSeek.Enabled())

	// The LLM cache is a duplicate-call suppressor, so its TTL stays in
	// the seconds range rather than anything resembling a response store.
	assert.Equal(t, 5*time.Second, cfg.Cache.TTL)
	assert.LessOrEqual(t, cfg.Cache.TTL, 30*time.Second)
}

func TestValidateConfigRejectsBadValues(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		cfg.Server.Port = 8080
		cfg.Nutrition.ConfidenceThreshold = 0.7
		cfg.Nutrition.MemorySize = 3
		return cfg
	}

	cfg := base()
	cfg.Server.Port = 0
	assert.Error(t, validateConfig(cfg))

	cfg = base()
	cfg.Nutrition.ConfidenceThreshold = 1.5
	assert.Error(t, validateConfig(cfg))

	cfg = base()
	cfg.Nutrition.MemorySize = 0
	assert.Error(t, validateConfig(cfg))

	cfg = base()
	cfg.Cache.Enabled = true
	assert.Error(t, validateConfig(cfg))

	assert.NoError(t, validateConfig(base()))
}
