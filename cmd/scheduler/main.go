package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"go-hrms/internal/app"
	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/payroll"
	"go-hrms/internal/shared/connection"
	"go-hrms/internal/shared/counter"
	"go-hrms/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg := app.LoadConfig()

	db, err := connection.ConnectGORMWithRetry(
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode, 5)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}

	fsStore := storage.NewFSStorage(cfg.StorageDir, cfg.StorageBaseURL, []byte(cfg.StorageSecret))
	payrollService := payroll.NewService(
		db,
		payroll.NewRepository(db),
		counter.NewRepository(db),
		kafka.NewOutboxRepository(db),
		fsStore,
		payroll.NewPDFRenderer(cfg.CompanyName),
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.RunScheduler(ctx, payrollService, logger)
}
