package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/workpulse/workpulse/internal/api"
	"github.com/workpulse/workpulse/internal/api/handler"
	"github.com/workpulse/workpulse/internal/api/middleware"
	"github.com/workpulse/workpulse/internal/config"
	"github.com/workpulse/workpulse/internal/repository/mongo"
	"github.com/workpulse/workpulse/internal/repository/redis"
	"github.com/workpulse/workpulse/internal/security"
	"github.com/workpulse/workpulse/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	if err := setupLogger(cfg.Logging); err != nil {
		log.Fatal().Err(err).Msg("failed to set up logger")
	}

	if cfg.Auth.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	db, err := mongo.NewDB(ctx, cfg.Mongo)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(ctx); err != nil {
			log.Error().Err(err).Msg("failed to close MongoDB connection")
		}
	}()
	log.Info().Msg("connected to MongoDB")

	cache, err := redis.NewClient(cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer cache.Close()
	log.Info().Msg("connected to Redis")

	userRepo := mongo.NewUserRepository(db)
	roleRepo := mongo.NewRoleRepository(db)
	workspaceRepo := mongo.NewWorkspaceRepository(db)
	memberRepo := mongo.NewMemberRepository(db)
	projectRepo := mongo.NewProjectRepository(db)
	taskRepo := mongo.NewTaskRepository(db)

	relay := redis.NewRelay(cache)
	rateLimiter := redis.NewRateLimiter(cache, cfg.Security.RateLimit.RequestsPerMinute, cfg.Security.RateLimit.Burst)

	jwtManager := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)

	memberService := service.NewMemberService(memberRepo, roleRepo, workspaceRepo, userRepo, relay)
	authService := service.NewAuthService(userRepo, jwtManager)
	userService := service.NewUserService(userRepo, memberRepo)
	workspaceService := service.NewWorkspaceService(workspaceRepo, memberRepo, roleRepo, userRepo, projectRepo, taskRepo, memberService, relay)
	projectService := service.NewProjectService(projectRepo, taskRepo, memberService, relay)
	taskService := service.NewTaskService(taskRepo, projectRepo, memberRepo, memberService, relay)

	handlers := api.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		User:      handler.NewUserHandler(userService),
		Workspace: handler.NewWorkspaceHandler(workspaceService),
		Member:    handler.NewMemberHandler(memberService),
		Project:   handler.NewProjectHandler(projectService),
		Task:      handler.NewTaskHandler(taskService),
		Health:    handler.NewHealthHandler(db, cache),
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(rateLimiter)

	router := api.NewRouter(cfg, handlers, authMiddleware, rateLimitMiddleware)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}

// setupLogger configures the global zerolog logger. With a log file
// configured, output goes to daily-rotated files alongside stderr.
func setupLogger(cfg config.LoggingConfig) error {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = os.Stderr
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	if cfg.File != "" {
		rotator, err := rotatelogs.New(
			cfg.File+".%Y%m%d",
			rotatelogs.WithLinkName(cfg.File),
			rotatelogs.WithRotationTime(24*time.Hour),
			rotatelogs.WithMaxAge(7*24*time.Hour),
		)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		out = zerolog.MultiLevelWriter(out, rotator)
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return nil
}
