package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muralink/designchat/internal/agent"
	"github.com/muralink/designchat/internal/api"
	"github.com/muralink/designchat/internal/config"
	"github.com/muralink/designchat/internal/flow"
	"github.com/muralink/designchat/internal/kv"
	"github.com/muralink/designchat/internal/repository"
	"github.com/muralink/designchat/internal/service"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "", "Path to config file")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database (kv session storage + generated images)
	db, err := repository.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Initialize storage tier
	kvStore := kv.NewSQLiteStore(db.DB)
	sessionStore := repository.NewSessionStore(kvStore, logger)
	sessionRepo := repository.NewSessionRepository(sessionStore, logger)
	imageRepo := repository.NewImageRepository(db)

	// Initialize design agent client
	agentClient := agent.NewClient(cfg.Agent, cfg.Auth.AgentToken, logger)

	// Initialize services
	chatService := service.NewChatService(sessionRepo, imageRepo, agentClient, logger)
	flowController := flow.NewController(sessionRepo, cfg.Flow.MinBudget, cfg.Flow.MaxBudget)

	// Setup router
	router := api.SetupRouter(chatService, flowController, api.RouterConfig{
		APIKey:       cfg.Auth.APIKey,
		AllowOrigins: []string{"*"},
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting design chat server",
			zap.String("address", cfg.Address()),
			zap.String("agent_base_url", cfg.Agent.BaseURL),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
