// cmd/worker/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"celebhub-backend/internal/config"
	"celebhub-backend/pkg/container"
	"celebhub-backend/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Init("development", "worker")
		log.Fatal().Err(err).Msg("[Config] Invalid configuration")
	}
	logger.Init(cfg.App.Environment, "worker")

	// Initialize container
	c, err := container.NewContainer(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("[Container] Failed to initialize")
	}
	defer c.Cleanup()

	// The API degrades without Redis; the worker cannot
	if c.Redis == nil {
		log.Fatal().Str("addr", cfg.Redis.Host).Msg("[Worker] Redis is required")
	}

	// Initialize handlers
	handlers := initializeHandlers(c)

	// Setup Asynq server
	redisOpt := container.RedisConnOpt(cfg.Redis)
	srv := setupAsynqServer(redisOpt, cfg.Jobs, handlers)

	// Setup scheduler
	scheduler := setupScheduler(redisOpt, cfg.Jobs)

	// Perform health checks and log startup
	if err := startServices(c); err != nil {
		log.Fatal().Err(err).Msg("[Startup] Health check failed")
	}

	// Wait for shutdown signal
	waitForShutdown(srv, scheduler)
}

func waitForShutdown(srv *asynqServer, scheduler *asynqScheduler) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("[Shutdown] Gracefully stopping...")
	scheduler.Shutdown()
	srv.Shutdown()
	log.Info().Msg("[Shutdown] Stopped")
}
