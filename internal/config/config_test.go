package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, 13, cfg.Deliberation.MaxRounds)
	assert.Equal(t, 2, cfg.Deliberation.UnitMaxRetries)
	assert.Equal(t, 120, cfg.Deliberation.UnitTimeoutSeconds)
	assert.Equal(t, "ollama", cfg.Llm.Provider)
	assert.Empty(t, cfg.Findings.BaseURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("LLM_PROVIDER", "none")
	t.Setenv("MAX_ROUNDS", "5")
	t.Setenv("UNIT_MAX_RETRIES", "0")
	t.Setenv("NETWORK_TEST_ENABLED", "false")
	t.Setenv("MEDBLIP_BASE_URL", "http://localhost:9000")

	cfg := Load()

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "none", cfg.Llm.Provider)
	assert.Equal(t, 5, cfg.Deliberation.MaxRounds)
	assert.Equal(t, 0, cfg.Deliberation.UnitMaxRetries)
	assert.False(t, cfg.Llm.NetworkTestEnabled)
	assert.Equal(t, "http://localhost:9000", cfg.Findings.BaseURL)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("MAX_ROUNDS", "not-a-number")

	cfg := Load()
	assert.Equal(t, 13, cfg.Deliberation.MaxRounds)
}
