// Package conversation holds the client-side transcript and the file
// staging area. The transcript lives only in memory: it starts empty,
// is appended to by the dispatcher, and is discarded outright on clear.
package conversation

import (
	"sync"

	"github.com/avelar/chatdeck/internal/models"
)

// State is the ordered transcript of user and assistant turns.
// Insertion order is the only ordering guarantee: no reordering, no
// deduplication, no content validation.
type State struct {
	mu       sync.RWMutex
	messages []models.Message
	staging  *Staging
}

// NewState creates an empty conversation with its own staging area.
func NewState() *State {
	return &State{staging: NewStaging()}
}

// Append adds a message to the end of the transcript.
func (s *State) Append(msg models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

// Messages returns a snapshot of the transcript.
func (s *State) Messages() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of turns.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Clear discards the transcript and anything still staged.
func (s *State) Clear() {
	s.mu.Lock()
	s.messages = nil
	s.mu.Unlock()
	s.staging.Clear()
}

// Staging returns the staging area owned by this conversation.
func (s *State) Staging() *Staging {
	return s.staging
}
