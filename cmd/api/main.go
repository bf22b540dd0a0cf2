package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/teste-tivit/secure-api/internal/api"
	"github.com/teste-tivit/secure-api/internal/core/ports"
	"github.com/teste-tivit/secure-api/internal/core/service"
	"github.com/teste-tivit/secure-api/internal/infrastructure/config"
	mongodb "github.com/teste-tivit/secure-api/internal/infrastructure/db/mongo"
	redisdb "github.com/teste-tivit/secure-api/internal/infrastructure/db/redis"
	"github.com/teste-tivit/secure-api/internal/infrastructure/httpclient"
	"github.com/teste-tivit/secure-api/internal/infrastructure/repository/memory"
	"github.com/teste-tivit/secure-api/pkg/logger"
)

// @title Teste Tivit API
// @version 1.0
// @description JWT-secured API with role-based access control and downstream data capture.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logg := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mongoClient, mongoDB, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		logg.Fatal().Err(err).Msg("failed to connect mongodb")
	}
	defer func() {
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		_ = mongoClient.Disconnect(shutdownCtx)
	}()

	// Redis is an accelerator, not a dependency: without it every fetch
	// simply goes downstream.
	var cache ports.ResponseCache
	redisClient, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logg.Warn().Err(err).Msg("redis unavailable, running without response cache")
		redisClient = nil
	} else {
		defer redisClient.Close()
		cache = redisdb.NewResponseCache(redisClient)
	}

	users, err := memory.NewFixedUserRepository()
	if err != nil {
		logg.Fatal().Err(err).Msg("failed to seed credential store")
	}

	authService := service.NewAuthService(users)
	tokenService, err := service.NewTokenService(users, cfg.SecretKey, cfg.Algorithm, time.Duration(cfg.TokenTTL)*time.Minute)
	if err != nil {
		logg.Fatal().Err(err).Msg("failed to build token service")
	}

	externalClient := httpclient.New(cfg.External.BaseURL, time.Duration(cfg.External.TimeoutSeconds)*time.Second)
	externalRepo := mongodb.NewExternalDataRepository(mongoDB)
	externalService := service.NewExternalDataService(externalClient, externalRepo, cache, logg)

	e := api.NewRouter(api.Dependencies{
		Auth:     authService,
		Codec:    tokenService,
		External: externalService,
		Mongo:    mongoDB,
		Redis:    redisClient,
		Log:      logg,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			logg.Info().Err(err).Msg("http server stopped")
		}
	}()

	waitForShutdown(logg)

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logg.Error().Err(err).Msg("server shutdown failed")
	}
}

func waitForShutdown(logg zerolog.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logg.Info().Str("signal", sig.String()).Msg("shutting down")
}
