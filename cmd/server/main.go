package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/api"
	mongodb "github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/infrastructure/db/mongo"
	redisdb "github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/infrastructure/db/redis"
	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/infrastructure/queue"
	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/pkg/config"
	"github.com/dsDomingossobrinho/Automo-Backend-sub004/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	otpRepo := mongodb.NewOtpRepository(db)
	if err := otpRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("otp index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	sweeper := queue.NewSweeper(otpRepo, cfg.OTP.SweepInterval, cfg.OTP.SweepMargin, log)
	sweeper.Start(ctx)

	e := api.NewRouter(db, rdb, cfg, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("auth service started")

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("auth service stopped")
}
