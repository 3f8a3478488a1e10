package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campuslink/backend/internal/repositories"
	"github.com/campuslink/backend/internal/router"
	"github.com/campuslink/backend/internal/scheduler"
	"github.com/campuslink/backend/pkg/config"
	"github.com/campuslink/backend/pkg/firebase"
	"github.com/campuslink/backend/validators"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	// Initialize Firebase
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	// Structured logger for async task execution
	var logger *zap.Logger
	if cfg.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	sched := scheduler.New(logger)

	// Periodic sweep for stories past their 24h lifetime
	storyRepo := repositories.NewPostgresStoryRepository(db.Postgres)
	sweepStop := make(chan struct{})
	sched.RunEvery(time.Hour, "stories.sweep_expired", func(ctx context.Context) error {
		removed, err := storyRepo.DeleteExpired(time.Now())
		if err != nil {
			return err
		}
		if removed > 0 {
			logger.Info("expired stories removed", zap.Int64("count", removed))
		}
		return nil
	}, sweepStop)

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, db.Mongo, firebaseApp.AuthClient, db.Redis, logger, sched)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Printf("Server stopped: %v\n", err)
		}
	}()

	// Graceful shutdown: stop accepting requests, then let the scheduled
	// tasks already in flight finish.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	close(sweepStop)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v\n", err)
	}
	if !sched.Shutdown(15 * time.Second) {
		log.Println("Timed out waiting for scheduled tasks to finish.")
	}
}
