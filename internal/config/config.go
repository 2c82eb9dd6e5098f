package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/catwalk/pkg/catwalk"
	"github.com/chasedut/crystaline/internal/env"
	"github.com/chasedut/crystaline/internal/theme"
)

const (
	defaultAddr    = ":8080"
	defaultBotName = "Crystaline"
	defaultBaseURL = "https://api.groq.com/openai/v1"

	// SystemPrompt opens every request sent to the completion service.
	SystemPrompt = "You are a helpful AI assistant."

	// ContextTurns is how many of the most recent transcript entries are sent
	// along with a new prompt. This counts entries, not tokens.
	ContextTurns = 10

	Temperature = 0.7

	// MaxTokens is the default reply budget. CRYSTALINE_MAX_TOKENS overrides
	// it up to the model's context window.
	MaxTokens = 1024
)

// Model is the completion model every request uses.
var Model = catwalk.Model{
	ID:               "llama-3.3-70b-versatile",
	Name:             "Llama 3.3 70B Versatile",
	ContextWindow:    131072,
	DefaultMaxTokens: MaxTokens,
}

// ProviderConfig describes the OpenAI-compatible endpoint requests go to.
type ProviderConfig struct {
	Name    string
	BaseURL string
	// APIKey is the operator-configured secret. When set it takes precedence
	// over keys entered by users.
	APIKey string
	Model  catwalk.Model
}

type Config struct {
	Addr         string
	BotName      string
	DefaultTheme theme.ID
	SessionTTL   time.Duration
	LogFile      string
	Debug        bool

	Provider ProviderConfig
}

// Load builds a Config from the environment.
func Load(e env.Env) (*Config, error) {
	cfg := &Config{
		Addr:         valueOr(e.Get("CRYSTALINE_ADDR"), defaultAddr),
		BotName:      valueOr(e.Get("CRYSTALINE_BOT_NAME"), defaultBotName),
		DefaultTheme: theme.ID(valueOr(e.Get("CRYSTALINE_THEME"), string(theme.Default))),
		SessionTTL:   24 * time.Hour,
		LogFile:      e.Get("CRYSTALINE_LOG_FILE"),
		Provider: ProviderConfig{
			Name:    "Groq",
			BaseURL: valueOr(e.Get("CRYSTALINE_BASE_URL"), defaultBaseURL),
			APIKey:  e.Get("GROQ_API_KEY"),
			Model:   Model,
		},
	}

	if !theme.Valid(cfg.DefaultTheme) {
		return nil, fmt.Errorf("CRYSTALINE_THEME: %w: %q", theme.ErrUnknown, cfg.DefaultTheme)
	}

	if v := e.Get("CRYSTALINE_SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("CRYSTALINE_SESSION_TTL: %w", err)
		}
		if ttl <= 0 {
			return nil, fmt.Errorf("CRYSTALINE_SESSION_TTL: must be positive, got %s", ttl)
		}
		cfg.SessionTTL = ttl
	}

	if v := e.Get("CRYSTALINE_MAX_TOKENS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("CRYSTALINE_MAX_TOKENS: %w", err)
		}
		window := cfg.Provider.Model.ContextWindow
		if n <= 0 || n >= window {
			return nil, fmt.Errorf("CRYSTALINE_MAX_TOKENS: must be between 1 and %d, got %d", window-1, n)
		}
		cfg.Provider.Model.DefaultMaxTokens = n
	}

	if v := e.Get("CRYSTALINE_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("CRYSTALINE_DEBUG: %w", err)
		}
		cfg.Debug = debug
	}

	return cfg, nil
}

// HasOperatorKey reports whether a deployment-level key is configured.
func (c *Config) HasOperatorKey() bool {
	return c.Provider.APIKey != ""
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
