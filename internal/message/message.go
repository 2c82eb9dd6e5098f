package message

import "strings"

type Role string

const (
	User      Role = "user"
	Assistant Role = "assistant"
	System    Role = "system"
)

// Turn is a single message in a conversation. It cannot be changed once
// created.
type Turn struct {
	role    Role
	content string
}

func NewTurn(role Role, content string) Turn {
	return Turn{role: role, content: content}
}

func (t Turn) Role() Role {
	return t.role
}

func (t Turn) Content() string {
	return t.content
}

// Transcript is the ordered history of a conversation, oldest turn first.
type Transcript []Turn

// Last returns the trailing n turns in their original order. If the
// transcript holds n turns or fewer, all of them are returned.
func (t Transcript) Last(n int) Transcript {
	if n <= 0 {
		return nil
	}
	if len(t) <= n {
		return t
	}
	return t[len(t)-n:]
}

// Count returns the number of turns with the given role.
func (t Transcript) Count(role Role) int {
	count := 0
	for _, turn := range t {
		if turn.role == role {
			count++
		}
	}
	return count
}

func (t Transcript) Clone() Transcript {
	if t == nil {
		return nil
	}
	out := make(Transcript, len(t))
	copy(out, t)
	return out
}

// Export renders the transcript as plain text, one "ROLE: content" block per
// turn separated by blank lines.
func (t Transcript) Export() string {
	blocks := make([]string, 0, len(t))
	for _, turn := range t {
		blocks = append(blocks, strings.ToUpper(string(turn.role))+": "+turn.content)
	}
	return strings.Join(blocks, "\n\n")
}
