// @title           Blog API
// @version         1.0
// @description     Article administration behind bearer tokens and cached visitor reads.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/canvord/blog-api/internal/api"
	"github.com/canvord/blog-api/internal/api/handler"
	"github.com/canvord/blog-api/internal/api/middleware"
	"github.com/canvord/blog-api/internal/auth"
	"github.com/canvord/blog-api/internal/core/service"
	mongoinfra "github.com/canvord/blog-api/internal/infrastructure/db/mongo"
	redisinfra "github.com/canvord/blog-api/internal/infrastructure/db/redis"
	"github.com/canvord/blog-api/internal/infrastructure/queue"
	"github.com/canvord/blog-api/internal/pkg/config"
	"github.com/canvord/blog-api/pkg/logger"
)

func main() {
	// A missing .env is fine; the process environment still applies.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "blog-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, cfg, log)
	stop()
	if err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	mongoClient, db, err := mongoinfra.Connect(ctx, mongoinfra.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()

	redisClient, err := redisinfra.Connect(ctx, redisinfra.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error().Err(err).Msg("redis close")
		}
	}()

	articleRepo := mongoinfra.NewArticleRepository(db)
	authRepo := mongoinfra.NewAuthRepository(db)
	eventRepo := mongoinfra.NewEventRepository(db)
	for name, ensure := range map[string]func(context.Context) error{
		"articles":       articleRepo.EnsureIndexes,
		"admins":         authRepo.EnsureIndexes,
		"article_events": eventRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", name, err)
		}
	}

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, auth.WithTTL(cfg.Auth.TokenTTL))
	if err != nil {
		return err
	}

	authSvc := service.NewAuthService(authRepo, tokens, logger.Component("auth"))
	if cfg.Auth.AdminPassword != "" {
		if _, err := authSvc.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
			return err
		}
		log.Info().Str("username", cfg.Auth.AdminUsername).Msg("admin account ensured")
	} else {
		log.Warn().Msg("ADMIN_PASSWORD not set, skipping admin seeding")
	}

	eventSvc := service.NewEventService(eventRepo, logger.Component("events"))
	dispatcher := queue.NewDispatcher(cfg.Events.Workers, eventSvc, logger.Component("events"))
	dispatcher.Start(context.Background())

	articleSvc := service.NewArticleService(articleRepo, dispatcher, logger.Component("articles"))
	visitorSvc := service.NewVisitorService(articleRepo)

	e := api.NewRouter(api.Dependencies{
		Articles:      articleSvc,
		Visitor:       visitorSvc,
		Auth:          authSvc,
		Events:        eventSvc,
		Authenticator: tokens,
		Cache: middleware.CacheConfig{
			Store:           redisinfra.NewResponseStore(redisClient),
			TTL:             cfg.Cache.TTL,
			MaxBodyBytes:    cfg.Cache.MaxBodyBytes,
			FailOpenOnWrite: cfg.Cache.FailOpen,
			Coalesce:        cfg.Cache.Coalesce,
		},
		HealthChecks: map[string]handler.DependencyCheck{
			"mongodb": handler.MongoCheck(db),
			"redis":   handler.RedisCheck(redisClient),
		},
		CORSOrigins: cfg.CORSOrigins,
		Logger:      log,
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("server started")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info().Dur("timeout", cfg.ShutdownTimeout).Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("event queue did not drain")
	}
	return nil
}
