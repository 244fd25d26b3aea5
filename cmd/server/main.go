package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/woodtong/storefront/internal/api"
	"github.com/woodtong/storefront/internal/core/service"
	"github.com/woodtong/storefront/internal/infrastructure/config"
	mongodb "github.com/woodtong/storefront/internal/infrastructure/db/mongo"
	redisdb "github.com/woodtong/storefront/internal/infrastructure/db/redis"
	"github.com/woodtong/storefront/internal/infrastructure/sweeper"
	"github.com/woodtong/storefront/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	sessions := service.NewSessionService(
		mongodb.NewSessionStore(db),
		mongodb.NewUserStore(db),
		cfg.Session.Lifetime(),
		cfg.Session.RenewalThreshold(),
		log,
	)

	sweeper.New(sessions, cfg.Session.PurgeInterval(), log).Start(ctx)

	e := api.NewRouter(db, rdb, sessions, cfg, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("storefront api listening")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
