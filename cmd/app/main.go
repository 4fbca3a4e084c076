package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"app/internal/api/v1/router"
	"app/internal/config"
	"app/internal/logger"
	"app/internal/service"

	_ "app/docs"

	"github.com/joho/godotenv"
)

// @title PIDA Document Analyzer API
// @version 1.0
// @description Streams AI-generated legal document analyses and manages per-user history and exports.
// @host localhost:8080
// @BasePath /v1
// @Schemes http https

func main() {
	logger := logger.New()

	// 1. Load configuration
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}

	// 2. Resolve the model API key. Without one the service cannot do its
	// job, so this is fatal.
	geminiAPIKey := cfg.GeminiAPIKey
	if geminiAPIKey == "" && cfg.GeminiAPIKeySecret != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		secrets, err := service.NewSecretManagerService(ctx, cfg.GCPProjectID)
		if err != nil {
			cancel()
			logger.Fatal().Msgf("Failed to create Secret Manager client: %v", err)
		}
		geminiAPIKey, err = secrets.AccessSecret(ctx, cfg.GeminiAPIKeySecret)
		cancel()
		secrets.Close()
		if err != nil {
			logger.Fatal().Msgf("Failed to fetch Gemini API key from Secret Manager: %v", err)
		}
	}
	if geminiAPIKey == "" {
		logger.Fatal().Msg("No Gemini API key configured (set GEMINI_API_KEY or GEMINI_API_KEY_SECRET)")
	}

	// 3. Build router (and get DB pool)
	r, pool, err := router.New(cfg, geminiAPIKey, logger)
	if err != nil {
		logger.Fatal().Msgf("Failed to build router: %v", err)
	}
	defer pool.Close()

	// 4. Create HTTP server. WriteTimeout stays unset: analysis responses
	// stream for as long as the model generates.
	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     r,
		ReadTimeout: 60 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// 5. Start server in a goroutine
	go func() {
		logger.Info().Msgf("🚀 Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Msgf("Listen: %s\n", err)
		}
	}()

	// 6. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("Shutdown signal received, exiting...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Msgf("Server forced to shutdown: %v", err)
	}
	logger.Info().Msg("Server shut down gracefully")
}
