package repository

import (
	"encoding/json"

	"github.com/muralink/designchat/internal/domain"
	"github.com/muralink/designchat/internal/kv"
	"go.uber.org/zap"
)

// SessionsKey is the single key holding the serialized session collection.
const SessionsKey = "chat_sessions"

// SessionStore reads and writes the whole session collection as one value.
// Storage failures are logged and swallowed: an absent or unparseable value
// loads as an empty collection and a failed write is a no-op. There are no
// partial writes; every save rewrites the full collection.
type SessionStore struct {
	store  kv.Store
	logger *zap.Logger
}

// NewSessionStore creates a session store on top of a kv store.
func NewSessionStore(store kv.Store, logger *zap.Logger) *SessionStore {
	return &SessionStore{store: store, logger: logger}
}

// Load returns all stored sessions. A missing key or parse failure yields an
// empty slice, never an error.
func (s *SessionStore) Load() []domain.ChatSession {
	raw, ok, err := s.store.Get(SessionsKey)
	if err != nil {
		s.logger.Warn("Error reading chat sessions from store", zap.Error(err))
		return []domain.ChatSession{}
	}
	if !ok {
		return []domain.ChatSession{}
	}

	var sessions []domain.ChatSession
	if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
		s.logger.Warn("Error parsing stored chat sessions", zap.Error(err))
		return []domain.ChatSession{}
	}
	return sessions
}

// SaveAll serializes and overwrites the entire collection. Write failures
// are logged, never returned.
func (s *SessionStore) SaveAll(sessions []domain.ChatSession) {
	data, err := json.Marshal(sessions)
	if err != nil {
		s.logger.Warn("Error serializing chat sessions", zap.Error(err))
		return
	}
	if err := s.store.Set(SessionsKey, string(data)); err != nil {
		s.logger.Warn("Error saving chat sessions to store", zap.Error(err))
	}
}

// Clear removes the storage key entirely.
func (s *SessionStore) Clear() {
	if err := s.store.Delete(SessionsKey); err != nil {
		s.logger.Warn("Error clearing chat sessions from store", zap.Error(err))
	}
}
