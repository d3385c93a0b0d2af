package repository

import (
	"sync"

	"github.com/muralink/designchat/internal/domain"
	"go.uber.org/zap"
)

// Result is the outcome of a mutation that targets a session by id.
// Missing sessions are never an error: callers get NotFound and may ignore
// it, matching the lenient no-throw contract of the storage tier.
type Result int

const (
	// Ok means the mutation was applied.
	Ok Result = iota
	// NotFound means no session with the given id exists; nothing was written.
	NotFound
)

// SessionRepository exposes CRUD-style operations over individual chat
// sessions. Every mutation is read-all, mutate in memory, write-all. The
// mutex serializes same-process writers; concurrent writers in other
// processes can still clobber each other (documented limitation).
type SessionRepository struct {
	mu     sync.Mutex
	store  *SessionStore
	logger *zap.Logger
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(store *SessionStore, logger *zap.Logger) *SessionRepository {
	return &SessionRepository{store: store, logger: logger}
}

// GetAll returns all stored sessions.
func (r *SessionRepository) GetAll() []domain.ChatSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Load()
}

// GetByID returns the session with the given id, or nil if absent.
func (r *SessionRepository) GetByID(sessionID string) *domain.ChatSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return findSession(r.store.Load(), sessionID)
}

// Upsert replaces the session with the same id in place, preserving its
// position, or appends it to the end.
func (r *SessionRepository) Upsert(session domain.ChatSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upsertLocked(session)
}

func (r *SessionRepository) upsertLocked(session domain.ChatSession) {
	sessions := r.store.Load()
	replaced := false
	for i := range sessions {
		if sessions[i].SessionID == session.SessionID {
			sessions[i] = session
			replaced = true
			break
		}
	}
	if !replaced {
		sessions = append(sessions, session)
	}
	r.store.SaveAll(sessions)
}

// Append concatenates entries onto the session's conversation, preserving
// order. A missing id is a logged no-op.
func (r *SessionRepository) Append(sessionID string, entries []domain.ChatContextEntry) Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	session := findSession(r.store.Load(), sessionID)
	if session == nil {
		r.logger.Warn("Session not found", zap.String("session_id", sessionID))
		return NotFound
	}

	session.Conversation = append(session.Conversation, entries...)
	r.upsertLocked(*session)
	return Ok
}

// UpdateProducts replaces the session's products wholesale.
func (r *SessionRepository) UpdateProducts(sessionID string, products []domain.Product) Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	session := findSession(r.store.Load(), sessionID)
	if session == nil {
		r.logger.Warn("Session not found for updating products", zap.String("session_id", sessionID))
		return NotFound
	}

	session.Products = products
	r.upsertLocked(*session)
	return Ok
}

// UpdateStatus replaces the session's status field only.
func (r *SessionRepository) UpdateStatus(sessionID, status string) Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	session := findSession(r.store.Load(), sessionID)
	if session == nil {
		r.logger.Warn("Session not found for updating status", zap.String("session_id", sessionID))
		return NotFound
	}

	session.Status = status
	r.upsertLocked(*session)
	return Ok
}

// UpdateMeta shallow-merges the non-nil fields of meta into the session.
// The session id always stays intact regardless of the update.
func (r *SessionRepository) UpdateMeta(sessionID string, meta domain.SessionMeta) Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	session := findSession(r.store.Load(), sessionID)
	if session == nil {
		r.logger.Warn("Session not found for meta update", zap.String("session_id", sessionID))
		return NotFound
	}

	if meta.Title != nil {
		session.Title = *meta.Title
	}
	if meta.Status != nil {
		session.Status = *meta.Status
	}
	if meta.Products != nil {
		session.Products = *meta.Products
	}
	session.SessionID = sessionID
	r.upsertLocked(*session)
	return Ok
}

// Delete removes the session with the given id and rewrites the collection.
func (r *SessionRepository) Delete(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions := r.store.Load()
	remaining := make([]domain.ChatSession, 0, len(sessions))
	for _, s := range sessions {
		if s.SessionID != sessionID {
			remaining = append(remaining, s)
		}
	}
	r.store.SaveAll(remaining)
}

// ClearAll removes the storage key entirely.
func (r *SessionRepository) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store.Clear()
}

func findSession(sessions []domain.ChatSession, sessionID string) *domain.ChatSession {
	for i := range sessions {
		if sessions[i].SessionID == sessionID {
			return &sessions[i]
		}
	}
	return nil
}
