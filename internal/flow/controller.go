// Package flow implements the guided intake sequence that precedes
// free-form chat: room selection, space photo upload, inspiration picks and
// budget. Completing the flow synthesizes the first chat session.
package flow

import (
	"errors"
	"fmt"
	"sync"

	"github.com/muralink/designchat/internal/domain"
	"github.com/muralink/designchat/internal/repository"
)

// Step identifies one state of the intake flow.
type Step string

// Flow steps. The flow starts at room selection and stays in chat until a
// new chat resets it.
const (
	StepRoomSelection Step = "room-selection"
	StepSpaceUpload   Step = "space-upload"
	StepInspiration   Step = "inspiration"
	StepBudget        Step = "budget"
	StepChat          Step = "chat"
)

var (
	// ErrInvalidTransition indicates the requested transition is not allowed
	// from the current step.
	ErrInvalidTransition = errors.New("invalid flow transition")
	// ErrSpacePhotoRequired indicates the space upload step cannot advance
	// without an uploaded photo.
	ErrSpacePhotoRequired = errors.New("a space photo is required to continue")
	// ErrBudgetOutOfRange indicates the budget is outside the configured range.
	ErrBudgetOutOfRange = errors.New("budget is outside the allowed range")
)

// Controller sequences a user through the intake steps. All transitions are
// synchronous local state updates driven by the user; there are no timed
// transitions, retries or timeouts.
type Controller struct {
	mu           sync.Mutex
	step         Step
	room         string
	spaceImage   string
	inspirations []string
	budget       int

	minBudget int
	maxBudget int
	sessions  *repository.SessionRepository
}

// NewController creates a controller at the room selection step. The budget
// defaults to the range minimum until the user sets one.
func NewController(sessions *repository.SessionRepository, minBudget, maxBudget int) *Controller {
	return &Controller{
		step:      StepRoomSelection,
		budget:    minBudget,
		minBudget: minBudget,
		maxBudget: maxBudget,
		sessions:  sessions,
	}
}

// Step returns the current flow step.
func (c *Controller) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// SelectRoom stores the chosen room and advances to the space upload step.
func (c *Controller) SelectRoom(room string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != StepRoomSelection {
		return fmt.Errorf("%w: select room from %s", ErrInvalidTransition, c.step)
	}
	c.room = room
	c.step = StepSpaceUpload
	return nil
}

// UploadSpace stores the uploaded space photo. It does not advance the flow.
func (c *Controller) UploadSpace(imageBase64 string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != StepSpaceUpload {
		return fmt.Errorf("%w: upload space from %s", ErrInvalidTransition, c.step)
	}
	c.spaceImage = imageBase64
	return nil
}

// ToggleInspiration toggles a style in the multi-select inspiration set.
// No minimum selection is required to proceed.
func (c *Controller) ToggleInspiration(style string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != StepInspiration {
		return fmt.Errorf("%w: toggle inspiration from %s", ErrInvalidTransition, c.step)
	}
	for i, s := range c.inspirations {
		if s == style {
			c.inspirations = append(c.inspirations[:i], c.inspirations[i+1:]...)
			return nil
		}
	}
	c.inspirations = append(c.inspirations, style)
	return nil
}

// SetBudget stores the chosen budget in whole dollars. The budget must fall
// within the configured range.
func (c *Controller) SetBudget(budget int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != StepBudget {
		return fmt.Errorf("%w: set budget from %s", ErrInvalidTransition, c.step)
	}
	if budget < c.minBudget || budget > c.maxBudget {
		return fmt.Errorf("%w: %s is not between %s and %s", ErrBudgetOutOfRange,
			FormatBudget(budget), FormatBudget(c.minBudget), FormatBudget(c.maxBudget))
	}
	c.budget = budget
	return nil
}

// Next advances the flow one step. The budget step is terminal for the
// intake: advancing from it synthesizes the welcome message, persists a
// brand-new session through the repository and returns it. All other
// transitions return a nil session.
func (c *Controller) Next() (*domain.ChatSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.step {
	case StepSpaceUpload:
		if c.spaceImage == "" {
			return nil, ErrSpacePhotoRequired
		}
		c.step = StepInspiration
		return nil, nil
	case StepInspiration:
		c.step = StepBudget
		return nil, nil
	case StepBudget:
		session := c.synthesizeSession()
		c.sessions.Upsert(session)
		c.step = StepChat
		return &session, nil
	default:
		return nil, fmt.Errorf("%w: next from %s", ErrInvalidTransition, c.step)
	}
}

// Back returns the flow to the previous intake step.
func (c *Controller) Back() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.step {
	case StepSpaceUpload:
		c.step = StepRoomSelection
	case StepInspiration:
		c.step = StepSpaceUpload
	case StepBudget:
		c.step = StepInspiration
	default:
		return fmt.Errorf("%w: back from %s", ErrInvalidTransition, c.step)
	}
	return nil
}

// NewChat resets all flow-local state and returns to room selection.
func (c *Controller) NewChat() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = StepRoomSelection
	c.room = ""
	c.spaceImage = ""
	c.inspirations = nil
	c.budget = c.minBudget
}

// Room returns the chosen room name.
func (c *Controller) Room() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.room
}

// SpaceImage returns the uploaded space photo.
func (c *Controller) SpaceImage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.spaceImage
}

// Inspirations returns the selected inspiration styles in toggle order.
func (c *Controller) Inspirations() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.inspirations))
	copy(out, c.inspirations)
	return out
}

// synthesizeSession builds the first session with the welcome message
// embedding the room, formatted budget and inspiration count.
func (c *Controller) synthesizeSession() domain.ChatSession {
	welcome := fmt.Sprintf(
		"Welcome! Let's redesign your %s. I'll keep recommendations within your %s budget and draw on the %d inspiration style(s) you picked. Tell me what you'd like to change first.",
		c.room, FormatBudget(c.budget), len(c.inspirations),
	)

	session := domain.NewChatSession("New Chat")
	session.Conversation = []domain.ChatContextEntry{
		{Role: domain.RoleAssistant, Content: domain.TextContent(welcome)},
	}
	return session
}
