package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sqlpractice-service/internal/application/services"
	"sqlpractice-service/internal/delivery/handler"
	"sqlpractice-service/internal/infrastructure"
	"sqlpractice-service/internal/infrastructure/db/gormstore"
	"sqlpractice-service/internal/infrastructure/llm"
	"sqlpractice-service/internal/seed"
)

const (
	shutdownTimeout     = 10 * time.Second
	sessionPurgeEvery   = time.Hour
	limiterCleanupEvery = time.Minute
)

func openStore(ctx context.Context) (*gorm.DB, error) {
	db, err := gormstore.Open(cfg.DB.Driver, cfg.DB.DSN, gormLogLevel())
	if err != nil {
		return nil, err
	}
	if err := gormstore.Migrate(ctx, db); err != nil {
		_ = gormstore.Close(db)
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	db, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer gormstore.Close(db)

	logger.Info("schema is up to date", zap.String("driver", cfg.DB.Driver))
	return nil
}

func runSeed(cmd *cobra.Command, _ []string) error {
	doc, err := seed.Load(seedFile)
	if err != nil {
		return err
	}

	db, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer gormstore.Close(db)

	seeder := seed.NewSeeder(gormstore.NewBankRepository(db), gormstore.NewQuestionRepository(db), logger)
	stats, err := seeder.Apply(cmd.Context(), doc)
	if err != nil {
		return err
	}
	logger.Info("seed complete",
		zap.Int("banks", stats.Banks),
		zap.Int("skipped_banks", stats.SkippedBanks),
		zap.Int("questions", stats.Questions))
	return nil
}

func runPromote(cmd *cobra.Command, _ []string) error {
	db, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer gormstore.Close(db)

	userService := services.NewUserService(
		gormstore.NewUserRepository(db),
		gormstore.NewSessionRepository(db),
		nil,
		nil,
		services.UserServiceConfig{SessionMaxAge: cfg.Session.MaxAge, CacheTTL: cfg.Session.CacheTTL},
		logger,
	)
	return userService.SetRole(cmd.Context(), account, role)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	db, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer gormstore.Close(db)

	redisService := infrastructure.NewRedisService(cfg.Redis, logger)
	defer redisService.Close()

	llmClient, err := llm.NewClient(ctx, cfg.LLM, logger)
	if err != nil {
		return err
	}

	loginLimiter := infrastructure.NewRateLimiter(cfg.Limits.LoginWindow, cfg.Limits.LoginMax)
	aiLimiter := infrastructure.NewRateLimiter(cfg.Limits.AIWindow, cfg.Limits.AIMax)
	loginLimiter.StartCleanup(ctx, limiterCleanupEvery)
	aiLimiter.StartCleanup(ctx, limiterCleanupEvery)

	userRepo := gormstore.NewUserRepository(db)
	questionRepo := gormstore.NewQuestionRepository(db)

	userService := services.NewUserService(
		userRepo,
		gormstore.NewSessionRepository(db),
		redisService,
		loginLimiter,
		services.UserServiceConfig{SessionMaxAge: cfg.Session.MaxAge, CacheTTL: cfg.Session.CacheTTL},
		logger,
	)
	go purgeSessions(ctx, sessionPurgeEvery, userService.PurgeExpiredSessions)

	h := handler.NewHandler(handler.Options{
		Users:     userService,
		Questions: services.NewQuestionService(questionRepo, gormstore.NewSavedRepository(db), logger),
		Banks:     services.NewBankService(gormstore.NewBankRepository(db), gormstore.NewFavoriteRepository(db), questionRepo, logger),
		Tutor:     services.NewTutorService(llmClient, logger),
		Ping: func(ctx context.Context) error {
			return gormstore.Ping(ctx, db)
		},
		Cookie: handler.CookieConfig{
			Name:   cfg.Session.CookieName,
			MaxAge: cfg.Session.MaxAge,
			Secure: cfg.Session.Secure,
		},
		RequestsPerSecond: cfg.Limits.RequestsPerSecond,
		Burst:             cfg.Limits.Burst,
		AILimiter:         aiLimiter,
		Logger:            logger,
	})
	e := handler.NewServer(h)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("env", cfg.Env),
			zap.String("llm_model", llmClient.Model()),
			zap.Bool("session_cache", redisService.Enabled()))
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	cancel()
	h.Close()
	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// purgeSessions only reports failures; the service logs what it removed.
func purgeSessions(ctx context.Context, every time.Duration, purge func(context.Context) (int64, error)) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := purge(ctx); err != nil {
				logger.Warn("session purge failed", zap.Error(err))
			}
		}
	}
}
