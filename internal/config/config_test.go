package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "chromium", cfg.Browser.Engine)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 60*time.Second, cfg.Browser.Timeout)
	assert.Equal(t, "./reports", cfg.Reports.Dir)
	assert.Equal(t, "file", cfg.Reports.Backend)
	assert.True(t, cfg.Reports.Screenshot)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.True(t, cfg.OpenAI.AnalysisEnabled)
	assert.Equal(t, 30*time.Second, cfg.OpenAI.AnalysisTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BROWSER_ENGINE", "firefox")
	t.Setenv("BROWSER_HEADLESS", "false")
	t.Setenv("AI_ANALYSIS_ENABLED", "no")
	t.Setenv("AI_ANALYSIS_TIMEOUT", "5s")
	t.Setenv("REPORTS_BACKEND", "postgres")
	t.Setenv("OPENAI_MAX_TOKENS", "512")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "firefox", cfg.Browser.Engine)
	assert.False(t, cfg.Browser.Headless)
	assert.False(t, cfg.OpenAI.AnalysisEnabled)
	assert.Equal(t, 5*time.Second, cfg.OpenAI.AnalysisTimeout)
	assert.Equal(t, "postgres", cfg.Reports.Backend)
	assert.Equal(t, 512, cfg.OpenAI.MaxTokens)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("OPENAI_MAX_TOKENS", "не число")
	t.Setenv("AI_ANALYSIS_TIMEOUT", "навсегда")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2000, cfg.OpenAI.MaxTokens)
	assert.Equal(t, 30*time.Second, cfg.OpenAI.AnalysisTimeout)
}
