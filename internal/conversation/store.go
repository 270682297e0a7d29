// Package conversation keeps the chat transcript and runs the send flow
// between the chat input and the backend.
package conversation

import (
	"time"

	"github.com/google/uuid"

	"github.com/zhubert/agentdeck/internal/attachment"
	"github.com/zhubert/agentdeck/internal/response"
)

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message of the transcript. Turns are never modified after
// they are appended.
type Turn struct {
	ID      string
	Role    Role
	Content string
	// Raw is the parsed backend reply for assistant turns, nil otherwise.
	Raw         *response.AgentResponse
	Attachments []attachment.Attachment
	// Err is set on the synthetic turn that reports a failed send.
	Err       error
	CreatedAt time.Time
}

// IsError reports whether the turn reports a failed send.
func (t Turn) IsError() bool {
	return t.Err != nil
}

// Store is an append-only transcript in display order.
type Store struct {
	turns []Turn
}

// NewStore returns an empty transcript.
func NewStore() *Store {
	return &Store{}
}

// Append adds t to the end of the transcript, filling in ID and CreatedAt
// when they are empty, and returns the stored turn.
func (s *Store) Append(t Turn) Turn {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	if t.Attachments != nil {
		t.Attachments = append([]attachment.Attachment(nil), t.Attachments...)
	}
	s.turns = append(s.turns, t)
	return t
}

// Turns returns a copy of the transcript.
func (s *Store) Turns() []Turn {
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the number of turns.
func (s *Store) Len() int {
	return len(s.turns)
}

// Last returns the most recent turn.
func (s *Store) Last() (Turn, bool) {
	if len(s.turns) == 0 {
		return Turn{}, false
	}
	return s.turns[len(s.turns)-1], true
}

// LastReply returns the most recent assistant turn that carries a backend
// reply.
func (s *Store) LastReply() (Turn, bool) {
	for i := len(s.turns) - 1; i >= 0; i-- {
		if t := s.turns[i]; t.Role == RoleAssistant && t.Raw != nil {
			return t, true
		}
	}
	return Turn{}, false
}
