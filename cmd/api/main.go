package main

import (
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"go-hrms/internal/app"
	"go-hrms/internal/bootstrap"
	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/connection"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()
	cfg := app.LoadConfig()

	db, err := connection.ConnectGORMWithRetry(
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode, 5)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
	if err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}

	registry, err := app.BuildRegistry(cfg, db, redisClient, logger)
	if err != nil {
		logger.Fatal("registry build failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: registry.Router,
	}

	if err := bootstrap.RunHTTPServer(srv, logger); err != nil {
		logger.Fatal("http server failed", zap.Error(err))
	}
}
