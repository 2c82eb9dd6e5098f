package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/chasedut/crystaline/internal/message"
	"github.com/chasedut/crystaline/internal/theme"
)

var (
	ErrInvalidTheme    = errors.New("invalid theme")
	ErrEmptyCredential = errors.New("empty credential")
)

// State is everything one browser session owns: the transcript, the message
// counter, an optional user-supplied API key and the selected theme.
//
// The methods below are the only way to mutate a State. Each one updates the
// transcript and the counter together, so MessageCount always equals the
// transcript length.
type State struct {
	mu sync.RWMutex

	transcript   message.Transcript
	messageCount int
	apiKey       string
	theme        theme.ID
}

func NewState() *State {
	return &State{theme: theme.Default}
}

func (s *State) AppendUserTurn(content string) {
	s.append(message.User, content)
}

func (s *State) AppendAssistantTurn(content string) {
	s.append(message.Assistant, content)
}

func (s *State) append(role message.Role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, message.NewTurn(role, content))
	s.messageCount++
}

// Reset starts a new chat. The theme and credential are kept.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = nil
	s.messageCount = 0
}

func (s *State) SetCredential(secret string) error {
	if secret == "" {
		return ErrEmptyCredential
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiKey = secret
	return nil
}

func (s *State) ClearCredential() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiKey = ""
}

// SetTheme switches the theme. Unknown ids leave the current theme in place.
func (s *State) SetTheme(id theme.ID) error {
	if !theme.Valid(id) {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = id
	return nil
}

// Snapshot is a consistent view of a State taken under a single lock.
type Snapshot struct {
	Transcript   message.Transcript
	MessageCount int
	UserTurns    int
	Theme        theme.ID
	Credential   string
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Transcript:   s.transcript.Clone(),
		MessageCount: s.messageCount,
		UserTurns:    s.transcript.Count(message.User),
		Theme:        s.theme,
		Credential:   s.apiKey,
	}
}

// Transcript returns a copy of the conversation so far.
func (s *State) Transcript() message.Transcript {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transcript.Clone()
}

func (s *State) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apiKey
}
