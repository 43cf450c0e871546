package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/taskmind/backend/api/handler"
	"github.com/taskmind/backend/internal/config"
	"github.com/taskmind/backend/internal/infrastructure/history"
	"github.com/taskmind/backend/internal/infrastructure/monitor"
	pgInfra "github.com/taskmind/backend/internal/infrastructure/postgres"
	redisInfra "github.com/taskmind/backend/internal/infrastructure/redis"
	"github.com/taskmind/backend/internal/middleware"
	"github.com/taskmind/backend/internal/router"
	"github.com/taskmind/backend/internal/services"
	"github.com/taskmind/backend/internal/services/lifecycle"
	"github.com/taskmind/backend/pkg/httpcontext"
	"github.com/taskmind/backend/pkg/logger"
	"github.com/taskmind/backend/provider"
	"github.com/taskmind/backend/provider/chatapi"
	"github.com/taskmind/backend/repository/postgres"
	redisRepo "github.com/taskmind/backend/repository/redis"
	backupUC "github.com/taskmind/backend/usecase/backup"
	extractUC "github.com/taskmind/backend/usecase/extract"
	taskUC "github.com/taskmind/backend/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	historyStore, err := history.Open(cfg.History.Path)
	if err != nil {
		zapLogger.Fatal("failed to open history store", zap.Error(err))
	}
	manager.Register("history", func(ctx context.Context) error {
		return historyStore.Close()
	})

	mon := monitor.New(pool, redisClient, historyStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	taskRepo := postgres.NewTaskRepository(pool)
	credStore := redisRepo.NewCredentialStore(redisClient)

	registry := provider.NewRegistry(cfg.Provider.Default, []provider.Entry{
		{
			ID:          "deepseek-v3",
			DisplayName: "DeepSeek V3",
			Extractor: chatapi.NewClient(chatapi.Config{
				Name:        "DeepSeek V3",
				BaseURL:     cfg.Provider.DeepSeekBaseURL,
				Model:       "deepseek-chat",
				ProbePath:   "/user/balance",
				Timeout:     cfg.Provider.Timeout,
				MaxTokens:   cfg.Provider.MaxTokens,
				Temperature: cfg.Provider.Temperature,
			}, zapLogger),
		},
		{
			ID:          "deepseek-r1",
			DisplayName: "DeepSeek R1",
			Extractor: chatapi.NewClient(chatapi.Config{
				Name:        "DeepSeek R1",
				BaseURL:     cfg.Provider.DeepSeekBaseURL,
				Model:       "deepseek-reasoner",
				ProbePath:   "/user/balance",
				Timeout:     cfg.Provider.Timeout,
				MaxTokens:   cfg.Provider.MaxTokens,
				Temperature: cfg.Provider.Temperature,
			}, zapLogger),
		},
		{
			ID:          "kimi",
			DisplayName: "Kimi (Moonshot)",
			Extractor: chatapi.NewClient(chatapi.Config{
				Name:        "Kimi",
				BaseURL:     cfg.Provider.KimiBaseURL,
				Model:       "moonshot-v1-8k",
				ProbePath:   "/models",
				Timeout:     cfg.Provider.Timeout,
				MaxTokens:   cfg.Provider.MaxTokens,
				Temperature: cfg.Provider.Temperature,
			}, zapLogger),
		},
	})

	janitor := services.NewHistoryJanitor(historyStore, zapLogger, services.JanitorConfig{
		Interval:  cfg.History.CleanupInterval,
		Retention: time.Duration(cfg.History.RetentionHours) * time.Hour,
	})
	janitor.Start()
	manager.Register("history_janitor", func(ctx context.Context) error {
		janitor.Stop(ctx)
		return nil
	})

	extractUseCase := extractUC.New(registry, taskRepo, historyStore, credStore, zapLogger)
	backupEngine := backupUC.New(taskRepo, zapLogger)
	taskUseCase := taskUC.New(taskRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Extract: apiHandler.NewExtractHandler(extractUseCase, ctxAdapter, zapLogger),
		Task:    apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Backup:  apiHandler.NewBackupHandler(backupEngine, ctxAdapter, zapLogger),
		History: apiHandler.NewHistoryHandler(historyStore, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
