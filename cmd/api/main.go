package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shinyyama/blockguess-backend/internal/clock"
	"github.com/shinyyama/blockguess-backend/internal/config"
	"github.com/shinyyama/blockguess-backend/internal/db"
	"github.com/shinyyama/blockguess-backend/internal/logger"
	appmw "github.com/shinyyama/blockguess-backend/internal/middleware"
	"github.com/shinyyama/blockguess-backend/internal/scheduler"
	"github.com/shinyyama/blockguess-backend/internal/server"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	if err := logger.Initialize(logger.Configuration{
		LogFile:   cfg.LogFile,
		ErrorFile: cfg.ErrorLogFile,
		Level:     cfg.LogLevel,
		Console:   cfg.LogConsole,
	}); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("db connect error", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	if err := db.Migrate(conn); err != nil {
		logger.Fatal("auto migrate error", zap.Error(err))
	}

	var authMw *appmw.AuthMiddleware
	if cfg.FirebaseProjectID != "" {
		authMw, err = appmw.NewAuthMiddleware(ctx, cfg.FirebaseProjectID, cfg.IsAdmin)
		if err != nil {
			logger.Fatal("failed to init firebase auth", zap.Error(err))
		}
	}

	srv := server.New(conn, cfg, clock.System(), authMw)

	closer := scheduler.NewRoundCloser(srv.Rounds(), cfg.AutoCloseInterval)
	if err := closer.Start(); err != nil {
		logger.Fatal("scheduler start error", zap.Error(err))
	}

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", addr), zap.String("git_sha", cfg.GitSHA))
		errCh <- srv.Start(addr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
		}
	}

	closer.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	if sqlDB, err := conn.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
