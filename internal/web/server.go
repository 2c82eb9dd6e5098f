package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/chasedut/crystaline/internal/config"
	"github.com/chasedut/crystaline/internal/message"
	"github.com/chasedut/crystaline/internal/session"
	"github.com/chasedut/crystaline/internal/theme"
	"github.com/google/uuid"
)

const sessionCookie = "crystaline_session"

var (
	ErrEmptyPrompt       = errors.New("empty prompt")
	errUnknownSuggestion = errors.New("unknown suggestion")
)

// Responder produces the assistant reply for a prompt. It reports failures
// as reply text rather than as errors.
type Responder interface {
	GetResponse(ctx context.Context, prompt string, transcript message.Transcript, sessionKey string) string
	HasCredential(sessionKey string) bool
}

// notices are the only messages the page shows from a query parameter.
var notices = map[string]string{
	"saved":     "✅ Saved!",
	"empty-key": "Enter a key before saving.",
	"cleared":   "API key removed.",
}

type Server struct {
	cfg       *config.Config
	sessions  *session.Registry
	responder Responder

	server *http.Server
}

func NewServer(cfg *config.Config, sessions *session.Registry, responder Responder) *Server {
	return &Server{
		cfg:       cfg,
		sessions:  sessions,
		responder: responder,
	}
}

// Handler returns the HTTP routes of the chat UI.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.withSession(s.handleHome))
	mux.HandleFunc("POST /chat", s.withSession(s.handleChat))
	mux.HandleFunc("POST /suggest", s.withSession(s.handleSuggest))
	mux.HandleFunc("POST /theme", s.withSession(s.handleTheme))
	mux.HandleFunc("POST /reset", s.withSession(s.handleReset))
	mux.HandleFunc("POST /key", s.withSession(s.handleSaveKey))
	mux.HandleFunc("POST /key/clear", s.withSession(s.handleClearKey))
	mux.HandleFunc("GET /export", s.withSession(s.handleExport))
	mux.HandleFunc("GET /api/messages", s.withSession(s.handleMessagesAPI))
	mux.HandleFunc("POST /api/chat", s.withSession(s.handleChatAPI))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, "ok")
	})
	return mux
}

// Start listens on the configured address and serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve serves on listener until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	addr := listener.Addr().String()
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sessions.RunJanitor(ctx, 0)

	errc := make(chan error, 1)
	go func() {
		slog.Info("Chat server listening", "addr", addr, "bot", s.cfg.BotName, "operator_key", s.cfg.HasOperatorKey())
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	slog.Info("Chat server stopped")
	return nil
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, id string)

// withSession resolves the session id from the cookie, issuing a new one when
// the cookie is missing or malformed.
func (s *Server) withSession(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(sessionCookie); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				id = c.Value
			}
		}
		if id == "" {
			id = session.NewID()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next(w, r, id)
	}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request, id string) {
	data := s.pageData(s.sessions.Snapshot(id))
	data.Notice = notices[r.URL.Query().Get("notice")]

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := RenderPage(w, data); err != nil {
		slog.Error("Failed to render page", "error", err)
	}
}

func (s *Server) pageData(snap session.Snapshot) PageData {
	current := theme.MustLookup(snap.Theme)
	return PageData{
		BotName:      s.cfg.BotName,
		Theme:        current,
		Themes:       theme.All(),
		Style:        styleFor(current),
		Turns:        turnViews(snap.Transcript),
		Suggestions:  suggestions,
		MessageCount: snap.MessageCount,
		UserTurns:    snap.UserTurns,
		KeyActive:    s.responder.HasCredential(snap.Credential),
		OperatorKey:  s.cfg.HasOperatorKey(),
		CanExport:    len(snap.Transcript) > 0,
	}
}

// converse runs one exchange: the user turn is recorded, the completion is
// requested with the history that preceded it, and the reply is recorded.
func (s *Server) converse(ctx context.Context, id, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}
	// The exchange runs to completion even if the browser goes away.
	ctx = context.WithoutCancel(ctx)

	var reply string
	err := s.sessions.Do(id, func(st *session.State) error {
		history := st.Transcript()
		st.AppendUserTurn(prompt)
		start := time.Now()
		reply = s.responder.GetResponse(ctx, prompt, history, st.Credential())
		st.AppendAssistantTurn(reply)
		slog.Debug("Exchange complete",
			"session_id", id,
			"history", len(history),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	})
	return reply, err
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request, id string) {
	if _, err := s.converse(r.Context(), id, r.FormValue("prompt")); err != nil && !errors.Is(err, ErrEmptyPrompt) {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request, id string) {
	idx, err := strconv.Atoi(r.FormValue("index"))
	if err != nil {
		http.Error(w, errUnknownSuggestion.Error(), http.StatusBadRequest)
		return
	}
	sug, ok := suggestionAt(idx)
	if !ok {
		http.Error(w, errUnknownSuggestion.Error(), http.StatusBadRequest)
		return
	}
	if _, err := s.converse(r.Context(), id, sug.Prompt()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request, id string) {
	selected := theme.ID(r.FormValue("theme"))
	err := s.sessions.Do(id, func(st *session.State) error {
		return st.SetTheme(selected)
	})
	if errors.Is(err, session.ErrInvalidTheme) {
		slog.Warn("Rejected theme selection", "theme", selected)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, id string) {
	_ = s.sessions.Do(id, func(st *session.State) error {
		st.Reset()
		return nil
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSaveKey(w http.ResponseWriter, r *http.Request, id string) {
	key := strings.TrimSpace(r.FormValue("api_key"))
	err := s.sessions.Do(id, func(st *session.State) error {
		return st.SetCredential(key)
	})
	if errors.Is(err, session.ErrEmptyCredential) {
		http.Redirect(w, r, "/?notice=empty-key", http.StatusSeeOther)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/?notice=saved", http.StatusSeeOther)
}

func (s *Server) handleClearKey(w http.ResponseWriter, r *http.Request, id string) {
	_ = s.sessions.Do(id, func(st *session.State) error {
		st.ClearCredential()
		return nil
	})
	http.Redirect(w, r, "/?notice=cleared", http.StatusSeeOther)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request, id string) {
	transcript := s.sessions.Snapshot(id).Transcript
	if len(transcript) == 0 {
		http.Error(w, "nothing to export", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="chat_history.txt"`)
	fmt.Fprint(w, transcript.Export())
}

type apiMessage struct {
	Role    message.Role `json:"role"`
	Content string       `json:"content"`
}

type apiTranscript struct {
	Messages     []apiMessage `json:"messages"`
	MessageCount int          `json:"message_count"`
	UserMessages int          `json:"user_messages"`
	Theme        theme.ID     `json:"theme"`
	KeyActive    bool         `json:"key_active"`
}

func (s *Server) transcriptJSON(snap session.Snapshot) apiTranscript {
	msgs := make([]apiMessage, 0, len(snap.Transcript))
	for _, turn := range snap.Transcript {
		msgs = append(msgs, apiMessage{Role: turn.Role(), Content: turn.Content()})
	}
	return apiTranscript{
		Messages:     msgs,
		MessageCount: snap.MessageCount,
		UserMessages: snap.UserTurns,
		Theme:        snap.Theme,
		KeyActive:    s.responder.HasCredential(snap.Credential),
	}
}

func (s *Server) handleMessagesAPI(w http.ResponseWriter, r *http.Request, id string) {
	writeJSON(w, http.StatusOK, s.transcriptJSON(s.sessions.Snapshot(id)))
}

type chatRequest struct {
	Prompt string `json:"prompt"`
}

type chatResponse struct {
	Reply string `json:"reply"`
	apiTranscript
}

func (s *Server) handleChatAPI(w http.ResponseWriter, r *http.Request, id string) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("invalid request body: %v", err)})
		return
	}
	reply, err := s.converse(r.Context(), id, req.Prompt)
	if errors.Is(err, ErrEmptyPrompt) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply, apiTranscript: s.transcriptJSON(s.sessions.Snapshot(id))})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
