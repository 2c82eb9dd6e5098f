package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/fang"
	"github.com/chasedut/crystaline/internal/config"
	"github.com/chasedut/crystaline/internal/env"
	"github.com/chasedut/crystaline/internal/llm/provider"
	"github.com/chasedut/crystaline/internal/log"
	"github.com/chasedut/crystaline/internal/logo"
	"github.com/chasedut/crystaline/internal/session"
	"github.com/chasedut/crystaline/internal/theme"
	"github.com/chasedut/crystaline/internal/version"
	"github.com/chasedut/crystaline/internal/web"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")
	rootCmd.PersistentFlags().String("log-file", "", "Write JSON logs to this file instead of stderr")

	rootCmd.Flags().StringP("addr", "a", "", "Address to listen on (default :8080)")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(themesCmd)
}

var rootCmd = &cobra.Command{
	Use:   "crystaline",
	Short: "Themed web chat for Groq-hosted models",
	Long: heredoc.Doc(`
		Crystaline serves a single-page chat UI that forwards prompts to Groq's
		chat completion API. Conversations live in memory for the lifetime of
		a browser session.

		Set GROQ_API_KEY to use one key for every visitor, or let each visitor
		enter their own key in the sidebar.
	`),
	Example: heredoc.Doc(`
		# Serve on the default address
		crystaline

		# Serve on another port with debug logging
		crystaline -a :9090 -d

		# Ask a single question from the terminal
		crystaline ask "Explain Go interfaces in two sentences"

		# List the available themes
		crystaline themes
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}

		sessions := session.NewRegistry(
			session.WithTTL(cfg.SessionTTL),
			session.WithDefaultTheme(cfg.DefaultTheme),
		)
		fmt.Fprintln(cmd.ErrOrStderr(), logo.Render(version.Version, logo.OptsFor(theme.MustLookup(cfg.DefaultTheme))))
		slog.Info("Starting Crystaline", "version", version.Full())
		server := web.NewServer(cfg, sessions, newGateway(cfg))
		return server.Start(cmd.Context())
	},
}

func Execute() {
	if err := env.LoadDotEnv(); err != nil {
		// .env is optional
		slog.Warn("Failed to load .env file", "error", err)
	}

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version.Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration and installs logging. Flags win over the
// environment.
func setup(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(env.New())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("debug") {
		cfg.Debug, _ = cmd.Flags().GetBool("debug")
	}
	if logFile, _ := cmd.Flags().GetString("log-file"); logFile != "" {
		cfg.LogFile = logFile
	}

	log.Setup(cfg.LogFile, cfg.Debug)
	slog.Debug("Configuration loaded",
		"addr", cfg.Addr,
		"provider", cfg.Provider.Name,
		"base_url", cfg.Provider.BaseURL,
		"model", cfg.Provider.Model.Name,
		"context_window", cfg.Provider.Model.ContextWindow,
		"max_tokens", cfg.Provider.Model.DefaultMaxTokens,
		"operator_key", cfg.HasOperatorKey(),
	)
	return cfg, nil
}

func newGateway(cfg *config.Config) *provider.Gateway {
	var opts []provider.GatewayOption
	if cfg.Debug {
		opts = append(opts, provider.WithHTTPClient(log.NewHTTPClient()))
	}
	return provider.NewGateway(cfg.Provider, opts...)
}
