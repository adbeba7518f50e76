package main

import (
	"JourFlow/internal/config"
	"JourFlow/internal/handlers"
	"JourFlow/internal/middleware"
	"JourFlow/internal/repo"
	"JourFlow/internal/service"
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Debugw("Failed to sync logger", "error", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	verifier, err := service.NewGoogleVerifier(ctx, cfg.GoogleClientID)
	if err != nil {
		sugar.Fatalw("failed to initialize google id token verifier", "error", err)
	}

	userService := service.NewUserService(
		repo.NewUserRepository(gormDB),
		verifier,
		cfg.AuthSecret,
		cfg.JWTTTL,
	)
	postService := service.NewPostService(repo.NewPostRepository(gormDB), sugar.Named("posts"))

	h := handlers.NewHandler(userService, postService, sugar, cfg)

	addr := cfg.BaseURL
	srv := &http.Server{Addr: addr, Handler: h.Router, ReadHeaderTimeout: 10 * time.Second}

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"JWTTTL", cfg.JWTTTL,
		"GoogleClientID", cfg.GoogleClientID,
	)

	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Fatalw("Server failed", "error", err)
	}
	sugar.Infow("Server stopped")
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
