package api

import (
	"github.com/gin-gonic/gin"
	"github.com/muralink/designchat/internal/api/chat"
	"github.com/muralink/designchat/internal/api/intake"
	"github.com/muralink/designchat/internal/api/middleware"
	"github.com/muralink/designchat/internal/flow"
	"github.com/muralink/designchat/internal/service"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	APIKey       string
	AllowOrigins []string
}

// SetupRouter sets up the Gin router
func SetupRouter(
	chatService *service.ChatService,
	flowController *flow.Controller,
	cfg RouterConfig,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// CORS middleware
	r.Use(middleware.CORS(cfg.AllowOrigins))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Chat API (sessions, turns, generated images)
	chatHandler := chat.NewHandler(chatService)
	chatGroup := r.Group("/api/chat")
	chatGroup.Use(middleware.Auth(cfg.APIKey))
	chatHandler.RegisterRoutes(chatGroup)

	// Intake flow API
	intakeHandler := intake.NewHandler(flowController)
	intakeGroup := r.Group("/api/flow")
	intakeGroup.Use(middleware.Auth(cfg.APIKey))
	intakeHandler.RegisterRoutes(intakeGroup)

	return r
}
