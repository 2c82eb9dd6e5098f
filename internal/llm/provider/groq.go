package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/chasedut/crystaline/internal/config"
	"github.com/chasedut/crystaline/internal/message"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// MissingCredentialMessage is returned instead of calling the service when no
// API key is available.
const MissingCredentialMessage = "⚠️ Please enter your Groq API key in the sidebar to start chatting."

var errEmptyResponse = errors.New("no choices in response")

// FormatError renders a failed completion as the text shown in the chat.
func FormatError(err error) string {
	return fmt.Sprintf("❌ Error: %s\n\nPlease check your API key and try again.", err)
}

// Gateway turns a prompt plus recent history into a single chat completion
// request. It never returns an error: every failure becomes reply text.
type Gateway struct {
	provider   config.ProviderConfig
	httpClient *http.Client
}

type GatewayOption func(*Gateway)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) GatewayOption {
	return func(g *Gateway) {
		g.httpClient = c
	}
}

func NewGateway(provider config.ProviderConfig, opts ...GatewayOption) *Gateway {
	g := &Gateway{provider: provider}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ResolveCredential picks the key to use: the operator-configured secret
// first, then the one supplied by the session.
func (g *Gateway) ResolveCredential(sessionKey string) (string, bool) {
	if g.provider.APIKey != "" {
		return g.provider.APIKey, true
	}
	if sessionKey != "" {
		return sessionKey, true
	}
	return "", false
}

// HasCredential reports whether a request made with sessionKey would be sent.
func (g *Gateway) HasCredential(sessionKey string) bool {
	_, ok := g.ResolveCredential(sessionKey)
	return ok
}

// GetResponse sends prompt, preceded by the system prompt and the last
// config.ContextTurns entries of transcript, and returns the reply text.
func (g *Gateway) GetResponse(ctx context.Context, prompt string, transcript message.Transcript, sessionKey string) string {
	apiKey, ok := g.ResolveCredential(sessionKey)
	if !ok {
		slog.Debug("No API key available, skipping completion request")
		return MissingCredentialMessage
	}

	content, err := g.send(ctx, apiKey, BuildMessages(prompt, transcript))
	if err != nil {
		slog.Error("Completion request failed", "model", g.provider.Model.ID, "error", err)
		return FormatError(err)
	}
	return content
}

func (g *Gateway) send(ctx context.Context, apiKey string, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	client := g.client(apiKey)
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(g.provider.Model.ID),
		Messages:    messages,
		Temperature: openai.Float(config.Temperature),
		MaxTokens:   openai.Int(g.provider.Model.DefaultMaxTokens),
	}

	slog.Debug("Sending completion request",
		"provider", g.provider.Name,
		"model", g.provider.Model.ID,
		"messages", len(messages),
		"max_tokens", g.provider.Model.DefaultMaxTokens,
	)
	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func (g *Gateway) client(apiKey string) openai.Client {
	opts := []option.RequestOption{
		option.WithBaseURL(g.provider.BaseURL),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if g.httpClient != nil {
		opts = append(opts, option.WithHTTPClient(g.httpClient))
	}
	return openai.NewClient(opts...)
}

// BuildMessages assembles the request: the system prompt, the trailing
// window of the transcript in order, then the new prompt.
func BuildMessages(prompt string, transcript message.Transcript) []openai.ChatCompletionMessageParamUnion {
	window := transcript.Last(config.ContextTurns)
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(window)+2)
	messages = append(messages, openai.SystemMessage(config.SystemPrompt))
	for _, turn := range window {
		messages = append(messages, convertTurn(turn))
	}
	messages = append(messages, openai.UserMessage(prompt))
	return messages
}

func convertTurn(turn message.Turn) openai.ChatCompletionMessageParamUnion {
	switch turn.Role() {
	case message.Assistant:
		return openai.AssistantMessage(turn.Content())
	case message.System:
		return openai.SystemMessage(turn.Content())
	default:
		return openai.UserMessage(turn.Content())
	}
}
