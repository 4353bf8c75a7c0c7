// Package chat holds the conversation state and the turn orchestration.
package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Elijahuni/chatbot-1/internal/api"
	"github.com/Elijahuni/chatbot-1/internal/config"
	apierrors "github.com/Elijahuni/chatbot-1/internal/errors"
	"github.com/Elijahuni/chatbot-1/internal/history"
	"github.com/Elijahuni/chatbot-1/internal/models"
)

// State is the lifecycle state of a Session
type State int

const (
	StateUninitialized State = iota
	StateReady
)

func (s State) String() string {
	if s == StateReady {
		return "ready"
	}
	return "uninitialized"
}

// Session is the message history of one conversation.
// While ready, messages[0] is the system prompt of the active profile.
type Session struct {
	id        string
	createdAt time.Time
	model     string

	mu       sync.RWMutex
	profile  config.ProfileID
	state    State
	messages []models.Message
	resets   uint64 // bumped whenever the history is reseeded
}

// NewSession creates an uninitialized session
func NewSession() *Session {
	return &Session{
		id:        uuid.NewString(),
		createdAt: time.Now(),
	}
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// State returns the lifecycle state
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Profile returns the active profile. ok is false before the first selection.
func (s *Session) Profile() (id config.ProfileID, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile, s.state == StateReady
}

// SetModel records the model name used for exports
func (s *Session) SetModel(model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = model
}

// SelectProfile activates a profile. Switching to a different profile (or
// selecting one for the first time) discards the history and seeds it with
// the profile's system prompt. Reselecting the active profile is a no-op.
func (s *Session) SelectProfile(id config.ProfileID) (bool, error) {
	prompt, err := config.GetPrompt(id)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateReady && s.profile == id {
		return false, nil
	}

	s.profile = id
	s.state = StateReady
	s.resets++
	s.messages = []models.Message{{Role: models.RoleSystem, Content: prompt}}
	return true, nil
}

// SubmitUserMessage appends a user message. Blank input is ignored and
// reported with appended == false.
func (s *Session) SubmitUserMessage(text string) (bool, error) {
	if strings.TrimSpace(text) == "" {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return false, apierrors.ErrSessionNotReady
	}
	s.messages = append(s.messages, models.Message{Role: models.RoleUser, Content: text})
	return true, nil
}

// RequestAssistantReply streams a reply to the full history. onChunk receives
// each fragment as it arrives. The assembled reply is appended only when the
// stream completes without error; on failure the history is left unchanged.
// A reply whose history was reset by a profile switch mid-stream is dropped
// and reported as ErrSessionReset.
func (s *Session) RequestAssistantReply(ctx context.Context, streamer api.Streamer, onChunk func(string)) (string, error) {
	if streamer == nil {
		return "", fmt.Errorf("no model client configured")
	}

	s.mu.RLock()
	if s.state != StateReady {
		s.mu.RUnlock()
		return "", apierrors.ErrSessionNotReady
	}
	resets := s.resets
	transcript := append([]models.Message(nil), s.messages...)
	s.mu.RUnlock()

	text, err := api.Collect(streamer.StreamChat(ctx, transcript), onChunk)
	if err != nil {
		return text, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resets != resets {
		return text, apierrors.ErrSessionReset
	}
	s.messages = append(s.messages, models.Message{Role: models.RoleAssistant, Content: text})
	return text, nil
}

// Messages returns a copy of the full history, system prompt included
func (s *Session) Messages() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Message(nil), s.messages...)
}

// Visible returns the history without system messages
func (s *Session) Visible() []models.Message {
	return models.Visible(s.Messages())
}

// Len returns the number of messages in the history
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Snapshot returns an exportable copy of the conversation
func (s *Session) Snapshot() *history.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv := &history.Conversation{
		ID:        s.id,
		Profile:   string(s.profile),
		Model:     s.model,
		CreatedAt: s.createdAt,
		Messages:  append([]models.Message(nil), s.messages...),
	}
	if p, err := config.GetProfile(s.profile); err == nil {
		conv.Title = p.Title
	}
	return conv
}
