package chat

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/muralink/designchat/internal/domain"
	"github.com/muralink/designchat/internal/service"
)

// Handler handles chat API requests
type Handler struct {
	chatService *service.ChatService
}

// NewHandler creates a new chat handler
func NewHandler(chatService *service.ChatService) *Handler {
	return &Handler{chatService: chatService}
}

// RegisterRoutes registers chat routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/sessions", h.ListSessions)
	r.POST("/sessions", h.NewSession)
	r.DELETE("/sessions", h.ClearAll)
	r.GET("/sessions/:session_id", h.GetSession)
	r.DELETE("/sessions/:session_id", h.DeleteSession)
	r.POST("/sessions/:session_id/messages", h.SendMessage)
	r.GET("/sessions/:session_id/images", h.ListImages)
	r.POST("/sessions/:session_id/images", h.GenerateImage)
	r.DELETE("/images/:image_id", h.DeleteImage)
}

// ListSessions returns all chat sessions
func (h *Handler) ListSessions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sessions": h.chatService.Sessions()})
}

// NewSession creates a fresh empty session
func (h *Handler) NewSession(c *gin.Context) {
	c.JSON(http.StatusCreated, h.chatService.NewChat())
}

// GetSession returns one session by id
func (h *Handler) GetSession(c *gin.Context) {
	session := h.chatService.Session(c.Param("session_id"))
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, session)
}

// DeleteSession removes a session and its generated images
func (h *Handler) DeleteSession(c *gin.Context) {
	h.chatService.DeleteChat(c.Request.Context(), c.Param("session_id"))
	c.Status(http.StatusNoContent)
}

// ClearAll removes every session and every generated image
func (h *Handler) ClearAll(c *gin.Context) {
	h.chatService.ClearAll(c.Request.Context())
	c.Status(http.StatusNoContent)
}

// SendMessage runs one chat turn against the design agent
func (h *Handler) SendMessage(c *gin.Context) {
	var req domain.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.chatService.SendMessage(c.Request.Context(),
		c.Param("session_id"), req.Prompt, req.ImageBase64, req.ImageMIME)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GenerateImage asks the agent for a composite design image
func (h *Handler) GenerateImage(c *gin.Context) {
	var req domain.GenerateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	img, err := h.chatService.GenerateImage(c.Request.Context(),
		c.Param("session_id"), req.ProductImageURLs)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, img)
}

// ListImages returns the session's generated images
func (h *Handler) ListImages(c *gin.Context) {
	images, err := h.chatService.Images(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": images})
}

// DeleteImage removes a single generated image
func (h *Handler) DeleteImage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("image_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image id"})
		return
	}

	if err := h.chatService.DeleteImage(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// writeError maps service errors onto HTTP statuses. Authentication
// failures from the agent backend surface distinctly from other failures.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, domain.ErrAuthRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSuperseded):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sorry, something went wrong, please try again"})
	}
}
