package intake

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/muralink/designchat/internal/domain"
	"github.com/muralink/designchat/internal/flow"
)

// Handler handles intake flow API requests
type Handler struct {
	controller *flow.Controller
}

// NewHandler creates a new intake handler
func NewHandler(controller *flow.Controller) *Handler {
	return &Handler{controller: controller}
}

// RegisterRoutes registers intake flow routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/state", h.State)
	r.POST("/room", h.SelectRoom)
	r.POST("/space", h.UploadSpace)
	r.POST("/inspiration", h.ToggleInspiration)
	r.POST("/budget", h.SetBudget)
	r.POST("/next", h.Next)
	r.POST("/back", h.Back)
	r.POST("/new-chat", h.NewChat)
}

// State returns the current flow state
func (h *Handler) State(c *gin.Context) {
	c.JSON(http.StatusOK, h.state())
}

// SelectRoom stores the chosen room and advances to the space upload step
func (h *Handler) SelectRoom(c *gin.Context) {
	var req domain.SelectRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.controller.SelectRoom(req.Room); err != nil {
		writeFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.state())
}

// UploadSpace attaches the space photo
func (h *Handler) UploadSpace(c *gin.Context) {
	var req domain.UploadSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.controller.UploadSpace(req.ImageBase64); err != nil {
		writeFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.state())
}

// ToggleInspiration toggles a style in the inspiration set
func (h *Handler) ToggleInspiration(c *gin.Context) {
	var req domain.ToggleInspirationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.controller.ToggleInspiration(req.Style); err != nil {
		writeFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.state())
}

// SetBudget stores the chosen budget
func (h *Handler) SetBudget(c *gin.Context) {
	var req domain.SetBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.controller.SetBudget(req.Budget); err != nil {
		writeFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.state())
}

// Next advances the flow. Completing the budget step returns the
// synthesized first session alongside the new state.
func (h *Handler) Next(c *gin.Context) {
	session, err := h.controller.Next()
	if err != nil {
		writeFlowError(c, err)
		return
	}
	if session != nil {
		c.JSON(http.StatusOK, gin.H{"state": h.state(), "session": session})
		return
	}
	c.JSON(http.StatusOK, h.state())
}

// Back returns to the previous step
func (h *Handler) Back(c *gin.Context) {
	if err := h.controller.Back(); err != nil {
		writeFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.state())
}

// NewChat resets the flow to room selection
func (h *Handler) NewChat(c *gin.Context) {
	h.controller.NewChat()
	c.JSON(http.StatusOK, h.state())
}

func (h *Handler) state() domain.FlowStateResponse {
	return domain.FlowStateResponse{
		Step:         string(h.controller.Step()),
		Room:         h.controller.Room(),
		HasSpace:     h.controller.SpaceImage() != "",
		Inspirations: h.controller.Inspirations(),
	}
}

func writeFlowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, flow.ErrSpacePhotoRequired),
		errors.Is(err, flow.ErrBudgetOutOfRange):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, flow.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
