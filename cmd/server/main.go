package main

import (
	"PassVault/internal/auth"
	"PassVault/internal/config"
	"PassVault/internal/crypto"
	"PassVault/internal/handlers"
	"PassVault/internal/middleware"
	"PassVault/internal/repo"
	"PassVault/internal/service"
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gormDB, err := repo.InitDB(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "driver", cfg.DatabaseDriver, "error", err)
	}

	cipher, err := crypto.NewFieldCipher(cfg.CipherKey)
	if err != nil {
		sugar.Fatalw("failed to initialize field cipher", "error", err)
	}
	gate := auth.NewGate(cfg.AuthSecret, cfg.TokenTTL)

	store := repo.NewVaultStore(gormDB)
	userRepo := repo.NewUserRepository(gormDB)

	recordService := service.NewRecordService(store, cipher, sugar)
	searchService := service.NewSearchComposer(store, cipher, sugar)
	secretService := service.NewSecretService(store, cipher, sugar)
	userService := service.NewUserService(userRepo, sugar)

	h := handlers.NewHandler(recordService, searchService, secretService, userService, gate, sugar, cfg)

	srv := &http.Server{
		Addr:              cfg.BaseURL,
		Handler:           h.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"DatabaseDriver", cfg.DatabaseDriver,
		"TokenTTL", cfg.TokenTTL,
	)

	errCh := make(chan error, 1)
	go func() {
		sugar.Infow("Starting server", "addr", srv.Addr, "https", cfg.EnableHTTPS)
		if cfg.EnableHTTPS {
			errCh <- srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("Server failed", "error", err)
		}
	case <-ctx.Done():
		sugar.Infow("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("Graceful shutdown failed", "error", err)
		}
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
