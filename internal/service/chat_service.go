package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/muralink/designchat/internal/agent"
	"github.com/muralink/designchat/internal/domain"
	"github.com/muralink/designchat/internal/repository"
	"go.uber.org/zap"
)

// ErrSuperseded indicates a newer turn was started for the same session
// while this one was in flight; the stale result was discarded.
var ErrSuperseded = errors.New("turn superseded by a newer request")

// AgentClient is the design agent operations the chat service depends on.
type AgentClient interface {
	Chat(ctx context.Context, conversation []domain.ChatContextEntry, prompt, imageBase64 string) (*agent.ChatResult, error)
	GenerateImage(ctx context.Context, conversation []domain.ChatContextEntry, userImage string, productImageURLs []string) (string, error)
}

// ImageStore is the generated image persistence the chat service depends on.
type ImageStore interface {
	Save(ctx context.Context, sessionID, base64Image string) (int64, error)
	BySession(ctx context.Context, sessionID string) ([]domain.GeneratedImage, error)
	Delete(ctx context.Context, id int64) error
	DeleteBySession(ctx context.Context, sessionID string) error
	ClearAll(ctx context.Context) error
}

// TurnResult is the outcome of one successful chat turn.
type TurnResult struct {
	AssistantText string           `json:"assistant_text"`
	Products      []domain.Product `json:"products,omitempty"`
}

// inflightTurn tracks the request currently running for a session so a
// newer turn can cancel it and its late result is never misapplied.
type inflightTurn struct {
	cancel context.CancelFunc
	gen    uint64
}

// ChatService orchestrates chat turns: it owns the atomic commit of a turn
// (user message plus assistant reply, plus products if any) against the
// session repository, and the best-effort persistence of generated images.
type ChatService struct {
	sessions *repository.SessionRepository
	images   ImageStore
	agent    AgentClient
	logger   *zap.Logger

	mu       sync.Mutex
	inflight map[string]inflightTurn
	nextGen  uint64
}

// NewChatService creates a new chat service
func NewChatService(
	sessions *repository.SessionRepository,
	images ImageStore,
	agentClient AgentClient,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		sessions: sessions,
		images:   images,
		agent:    agentClient,
		logger:   logger,
		inflight: make(map[string]inflightTurn),
	}
}

// SendMessage runs one chat turn. The session status flips to generating
// before the call; on success the user and assistant entries are appended
// together and the status becomes completed, on failure the status becomes
// error and the conversation is left unmodified.
func (s *ChatService) SendMessage(ctx context.Context, sessionID, prompt, imageBase64, imageMIME string) (*TurnResult, error) {
	session := s.sessions.GetByID(sessionID)
	if session == nil {
		return nil, domain.ErrNotFound
	}

	userEntry := buildUserEntry(prompt, imageBase64, imageMIME)
	currentContext := session.Conversation
	hadUserTurn := hasUserEntry(currentContext)

	s.sessions.UpdateStatus(sessionID, domain.StatusGenerating)

	turnCtx, gen := s.beginTurn(ctx, sessionID)
	result, err := s.agent.Chat(turnCtx, currentContext, prompt, imageBase64)
	if !s.endTurn(sessionID, gen) {
		return nil, ErrSuperseded
	}
	if err != nil {
		s.logger.Warn("Design agent turn failed",
			zap.String("session_id", sessionID), zap.Error(err))
		s.sessions.UpdateStatus(sessionID, domain.StatusError)
		return nil, err
	}

	assistantEntry := domain.ChatContextEntry{
		Role:    domain.RoleAssistant,
		Content: domain.TextContent(result.AssistantText),
	}
	s.sessions.Append(sessionID, []domain.ChatContextEntry{userEntry, assistantEntry})

	if !hadUserTurn {
		title := truncateTitle(prompt)
		s.sessions.UpdateMeta(sessionID, domain.SessionMeta{Title: &title})
	}

	if len(result.Products) > 0 {
		s.sessions.UpdateProducts(sessionID, result.Products)
	}

	s.sessions.UpdateStatus(sessionID, domain.StatusCompleted)

	return &TurnResult{
		AssistantText: result.AssistantText,
		Products:      result.Products,
	}, nil
}

// GenerateImage asks the agent for a composite design image using the
// session's conversation (image parts stripped from user turns), the first
// user-uploaded photo found in it, and the selected product reference
// images. The result is persisted best-effort: a storage failure falls back
// to a non-durable record so the user still sees the image.
func (s *ChatService) GenerateImage(ctx context.Context, sessionID string, productImageURLs []string) (*domain.GeneratedImage, error) {
	session := s.sessions.GetByID(sessionID)
	if session == nil {
		return nil, domain.ErrNotFound
	}

	trimmed := make([]domain.ChatContextEntry, 0, len(session.Conversation))
	for _, entry := range session.Conversation {
		if entry.Role == domain.RoleUser {
			entry.Content = entry.Content.WithoutImages()
		}
		trimmed = append(trimmed, entry)
	}

	userImage := firstUserImage(session.Conversation)

	base64Image, err := s.agent.GenerateImage(ctx, trimmed, userImage, productImageURLs)
	if err != nil {
		s.logger.Warn("Image generation failed",
			zap.String("session_id", sessionID), zap.Error(err))
		s.sessions.UpdateStatus(sessionID, domain.StatusError)
		return nil, err
	}

	img := domain.GeneratedImage{
		SessionID:   sessionID,
		Base64Image: base64Image,
		CreatedAt:   nowISO(),
		Durable:     true,
	}

	id, err := s.images.Save(ctx, sessionID, base64Image)
	if err != nil {
		s.logger.Warn("Error saving generated image, keeping in-memory record",
			zap.String("session_id", sessionID), zap.Error(err))
		img.ID = syntheticImageID()
		img.Durable = false
		return &img, nil
	}
	img.ID = id
	return &img, nil
}

// Images returns the session's generated images sorted by creation time for
// stable display order.
func (s *ChatService) Images(ctx context.Context, sessionID string) ([]domain.GeneratedImage, error) {
	images, err := s.images.BySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load generated images: %w", err)
	}
	sortImagesByCreatedAt(images)
	return images, nil
}

// DeleteImage removes a single generated image.
func (s *ChatService) DeleteImage(ctx context.Context, id int64) error {
	return s.images.Delete(ctx, id)
}

// Sessions returns all stored chat sessions.
func (s *ChatService) Sessions() []domain.ChatSession {
	return s.sessions.GetAll()
}

// Session returns one session by id, or nil.
func (s *ChatService) Session(sessionID string) *domain.ChatSession {
	return s.sessions.GetByID(sessionID)
}

// NewChat creates and persists a fresh empty session.
func (s *ChatService) NewChat() domain.ChatSession {
	session := domain.NewChatSession("New Chat")
	s.sessions.Upsert(session)
	return session
}

// DeleteChat removes the session and its generated images. The store does
// not enforce referential integrity, so images go first; a failure there is
// logged and the session is removed regardless.
func (s *ChatService) DeleteChat(ctx context.Context, sessionID string) {
	if err := s.images.DeleteBySession(ctx, sessionID); err != nil {
		s.logger.Warn("Error deleting generated images for session",
			zap.String("session_id", sessionID), zap.Error(err))
	}
	s.sessions.Delete(sessionID)
}

// ClearAll removes every session and every generated image.
func (s *ChatService) ClearAll(ctx context.Context) {
	if err := s.images.ClearAll(ctx); err != nil {
		s.logger.Warn("Error clearing generated images", zap.Error(err))
	}
	s.sessions.ClearAll()
}

// beginTurn registers a new in-flight turn for the session, cancelling any
// previous one.
func (s *ChatService) beginTurn(ctx context.Context, sessionID string) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.inflight[sessionID]; ok {
		prev.cancel()
	}

	turnCtx, cancel := context.WithCancel(ctx)
	s.nextGen++
	gen := s.nextGen
	s.inflight[sessionID] = inflightTurn{cancel: cancel, gen: gen}
	return turnCtx, gen
}

// endTurn reports whether the turn is still the current one for its
// session. A superseded turn must not touch the session.
func (s *ChatService) endTurn(sessionID string, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.inflight[sessionID]
	if !ok || current.gen != gen {
		return false
	}
	current.cancel()
	delete(s.inflight, sessionID)
	return true
}
