package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justsurfingit/job-tracker/internal/auth"
	"github.com/justsurfingit/job-tracker/internal/config"
	"github.com/justsurfingit/job-tracker/internal/database"
	"github.com/justsurfingit/job-tracker/internal/handlers"
	"github.com/justsurfingit/job-tracker/internal/ratelimit"
	"github.com/justsurfingit/job-tracker/internal/services"
	"github.com/justsurfingit/job-tracker/internal/store"
)

func main() {
	// 1. Configuration (.env, optional YAML, environment)
	cfg := config.Load()
	if cfg.DevAuthEnabled() {
		log.Println("⚠️  DEV_AUTH is on: dev-token-* and dev-extension-token are accepted")
	}

	// 2. Database. A failed connect is not fatal; requests use the fallback store.
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Printf("⚠️  Database unavailable: %v", err)
	}
	monitor := database.NewMonitor(db, err, cfg.Database.PingTimeout, cfg.Database.ReadyCache, database.Migrate)
	monitor.Check(context.Background())

	// 3. Stores
	fallback, err := store.OpenFileJobStore(cfg.FallbackFile)
	if err != nil {
		log.Fatalf("Failed to open fallback store %s: %v", cfg.FallbackFile, err)
	}
	jobStore := store.NewFallbackJobStore(store.NewGormJobStore(db, monitor), fallback)
	userStore := store.NewGormUserStore(db, monitor)

	// 4. Core services
	sessions := auth.NewSessionIssuer(cfg.JWTSecret)
	verifier := auth.NewGoogleVerifier(cfg.Google.WebClientID, cfg.DevAuthEnabled())
	llmService := services.NewLLMService(cfg.AI)
	jobService := services.NewJobService(jobStore)
	authService := services.NewAuthService(verifier, userStore, sessions)

	// 5. Handlers & router
	router := handlers.SetupRouter(handlers.RouterConfig{
		Jobs:           handlers.NewJobHandler(llmService, jobService),
		Auth:           handlers.NewAuthHandler(authService),
		AI:             handlers.NewAIHandler(llmService),
		Health:         handlers.NewHealthHandler(monitor, cfg.EnvCheck()),
		Sessions:       sessions,
		DevAuth:        cfg.DevAuthEnabled(),
		Limiter:        ratelimit.New(cfg.Limits),
		AllowedOrigins: cfg.AllowedOrigins,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on port %s...", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
