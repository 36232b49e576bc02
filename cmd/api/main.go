package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/devforge/codelab/internal/api/handlers"
	"github.com/devforge/codelab/internal/api/middleware"
	"github.com/devforge/codelab/internal/api/router"
	"github.com/devforge/codelab/internal/cache"
	"github.com/devforge/codelab/internal/config"
	"github.com/devforge/codelab/internal/pkg/logger"
	"github.com/devforge/codelab/internal/pkg/validator"
	"github.com/devforge/codelab/internal/repository/postgres"
	"github.com/devforge/codelab/internal/services"
	"github.com/devforge/codelab/internal/worker"
	"github.com/devforge/codelab/migrations"
)

// @title CodeLab API
// @version 1.0
// @description SaaS backend: accounts, subscriptions, projects and AI code generation.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	db, err := postgres.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db, migrations.GetFS()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	var store cache.Cache
	if cfg.Redis.Enabled {
		redisStore, err := cache.NewRedisCache(cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		store = redisStore
		log.Info("Using Redis cache")
	} else {
		memStore := cache.NewMemoryCache()
		defer memStore.Close()
		store = memStore
		log.Info("Using in-memory cache")
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	subRepo := postgres.NewSubscriptionRepository(db)
	projectRepo := postgres.NewProjectRepository(db)
	messageRepo := postgres.NewMessageRepository(db)

	// Services
	mailer := services.NewSMTPMailer(cfg.SMTP, cfg.Server.Environment, log)
	authService := services.NewAuthService(userRepo, subRepo, store, mailer, cfg, log)
	userService := services.NewUserService(userRepo, cfg, log)
	emailChangeService := services.NewEmailChangeService(userRepo, store, mailer, cfg, log)
	paymentProvider := services.NewSimulatedPaymentProvider()
	subService := services.NewSubscriptionService(subRepo, userRepo, paymentProvider, cfg, log)
	projectService := services.NewProjectService(projectRepo, messageRepo, userRepo, log)
	messageService := services.NewMessageService(messageRepo, projectRepo, log)
	aiService := services.NewAIService(cfg.OpenAI, messageService, log)

	// HTTP layer
	val := validator.New()
	gate := middleware.NewEntitlementGate(userRepo, subRepo, log)
	h := &router.Handlers{
		Health:       handlers.NewHealthHandler(db, log),
		Auth:         handlers.NewAuthHandler(authService, cfg, log, val),
		User:         handlers.NewUserHandler(userService, emailChangeService, log, val),
		Subscription: handlers.NewSubscriptionHandler(subService, log, val),
		Project:      handlers.NewProjectHandler(projectService, log, val),
		Message:      handlers.NewMessageHandler(messageService, log, val),
		AI:           handlers.NewAIHandler(aiService, log, val),
	}

	mux := router.New(cfg, log, store, gate, h)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Worker.Enabled {
		sweeper := worker.NewExpirySweeper(subRepo, cfg.Worker.ExpirySweepCron, log)
		if err := sweeper.Start(ctx); err != nil {
			log.Fatalf("Failed to start expiry sweeper: %v", err)
		}
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatalf("Server error: %v", err)
	case sig := <-stop:
		log.Infof("Received %s, shutting down", sig)
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.ErrorWithErr(err, "Graceful shutdown failed")
	}

	log.Info("Server stopped")
}
