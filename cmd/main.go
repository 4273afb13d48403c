package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/KasperFyhn/ulgis/internal/db"
	"github.com/KasperFyhn/ulgis/internal/handlers"
	"github.com/KasperFyhn/ulgis/internal/llm"
	"github.com/KasperFyhn/ulgis/internal/logger"
	"github.com/KasperFyhn/ulgis/internal/middleware"
	"github.com/KasperFyhn/ulgis/internal/observability"
	"github.com/KasperFyhn/ulgis/internal/repos"
	"github.com/KasperFyhn/ulgis/internal/server"
	"github.com/KasperFyhn/ulgis/internal/services"
	"github.com/KasperFyhn/ulgis/internal/streams"
	"github.com/KasperFyhn/ulgis/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "ulgis-backend",
		Environment: os.Getenv("APP_ENV"),
		Version:     os.Getenv("APP_VERSION"),
	})

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	tokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	taxonomyRepo := repos.NewTaxonomyRepo(thePG, log)
	adminUserRepo := repos.NewAdminUserRepo(thePG, log)
	generationLogRepo := repos.NewGenerationLogRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	generator, err := llm.NewOpenAIGenerator(log)
	if err != nil {
		log.Error("Could not init OpenAIGenerator", "error", err)
		os.Exit(1)
	}
	registry := streams.NewRegistry(log)
	taxonomyService := services.NewTaxonomyService(thePG, log, taxonomyRepo)
	generationService := services.NewGenerationService(
		thePG, log, taxonomyService, generator, registry, generationLogRepo)
	authService := services.NewAuthService(
		thePG, log, adminUserRepo, jwtSecretKey, time.Duration(tokenTTL)*time.Second)

	// Handlers
	log.Info("Setting up handlers from main...")
	generateHandler := handlers.NewGenerateHandler(log, generationService, registry)
	dataHandler := handlers.NewDataHandler(log, taxonomyService)
	authHandler := handlers.NewAuthHandler(log, authService)
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		GenerateHandler: generateHandler,
		DataHandler:     dataHandler,
		AuthHandler:     authHandler,
		AuthMiddleware:  authMiddleware,
	})

	port := utils.GetEnv("PORT", "8080", log)
	srv := &http.Server{Addr: ":" + port, Handler: router}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("Server listening", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if otelShutdown != nil {
			if err := otelShutdown(shutdownCtx); err != nil {
				log.Warn("otel shutdown failed", "error", err)
			}
		}
		return srv.Shutdown(shutdownCtx)
	})
	if err := group.Wait(); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
	log.Info("Server stopped")
}
