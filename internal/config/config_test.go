package config

import (
	"testing"
	"time"

	"github.com/chasedut/crystaline/internal/env"
	"github.com/chasedut/crystaline/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(env.NewFromMap(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "Crystaline", cfg.BotName)
	assert.Equal(t, theme.Cyberpunk, cfg.DefaultTheme)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.Debug)
	assert.False(t, cfg.HasOperatorKey())

	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.Provider.BaseURL)
	assert.Equal(t, "Groq", cfg.Provider.Name)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.Provider.Model.ID)
	assert.EqualValues(t, 1024, cfg.Provider.Model.DefaultMaxTokens)
	assert.EqualValues(t, 131072, cfg.Provider.Model.ContextWindow)
}

func TestLoadMaxTokens(t *testing.T) {
	t.Parallel()

	cfg, err := Load(env.NewFromMap(map[string]string{"CRYSTALINE_MAX_TOKENS": "4096"}))
	require.NoError(t, err)
	assert.EqualValues(t, 4096, cfg.Provider.Model.DefaultMaxTokens)
	assert.EqualValues(t, MaxTokens, Model.DefaultMaxTokens, "the package model is not modified")
}

func TestLoadFromEnv(t *testing.T) {
	t.Parallel()

	cfg, err := Load(env.NewFromMap(map[string]string{
		"CRYSTALINE_ADDR":        "127.0.0.1:9000",
		"CRYSTALINE_BOT_NAME":    "Quartz",
		"CRYSTALINE_THEME":       "terminal",
		"CRYSTALINE_SESSION_TTL": "90m",
		"CRYSTALINE_LOG_FILE":    "/tmp/crystaline.log",
		"CRYSTALINE_DEBUG":       "true",
		"CRYSTALINE_BASE_URL":    "http://localhost:11434/v1",
		"GROQ_API_KEY":           "gsk_operator",
	}))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, "Quartz", cfg.BotName)
	assert.Equal(t, theme.Terminal, cfg.DefaultTheme)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "/tmp/crystaline.log", cfg.LogFile)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "http://localhost:11434/v1", cfg.Provider.BaseURL)
	assert.True(t, cfg.HasOperatorKey())
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Parallel()

	cases := map[string]map[string]string{
		"unknown theme":   {"CRYSTALINE_THEME": "neon"},
		"bad ttl":         {"CRYSTALINE_SESSION_TTL": "soon"},
		"negative ttl":    {"CRYSTALINE_SESSION_TTL": "-1h"},
		"bad debug value": {"CRYSTALINE_DEBUG": "sometimes"},
		"bad max tokens":  {"CRYSTALINE_MAX_TOKENS": "lots"},
		"zero max tokens": {"CRYSTALINE_MAX_TOKENS": "0"},
		"over window":     {"CRYSTALINE_MAX_TOKENS": "131072"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := Load(env.NewFromMap(vars))
			require.Error(t, err)
		})
	}
}
