package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Iamanointing/mvv/config"
	"github.com/Iamanointing/mvv/internal/api/handler"
	"github.com/Iamanointing/mvv/internal/api/router"
	"github.com/Iamanointing/mvv/internal/model"
	"github.com/Iamanointing/mvv/internal/realtime"
	"github.com/Iamanointing/mvv/internal/repository"
	"github.com/Iamanointing/mvv/internal/service"
	"github.com/Iamanointing/mvv/pkg/database"
	"github.com/Iamanointing/mvv/pkg/jwt"
	applogger "github.com/Iamanointing/mvv/pkg/logger"
	"github.com/Iamanointing/mvv/pkg/redis"
	"github.com/Iamanointing/mvv/pkg/upload"
)

func main() {
	// 1. config
	cfg, err := config.Load(os.Getenv("MVV_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting MyVesaVote",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.Bool("atomic_writes", cfg.Feature.AtomicWrites),
	)

	// 3. database
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(db, cfg.Database.Driver, logger, model.All()...); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	// 4. redis is optional; without it the server runs single-instance
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("redis unavailable, token blacklist and login throttling disabled", zap.Error(err))
			rdb = nil
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 5. realtime
	hub := realtime.NewHub(&cfg.Realtime, cfg.Server.CORS.AllowOrigins, logger)
	var events realtime.Publisher = hub
	if rdb != nil {
		relay := realtime.NewRelay(rdb, cfg.Realtime.Channel, hub, logger)
		events = relay
		go func() {
			if err := relay.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("realtime relay stopped", zap.Error(err))
			}
		}()
	}

	// 6. dependency injection: repository -> service -> handler
	files, err := upload.NewStore(cfg.Server.UploadDir, cfg.Server.MaxUploadMB<<20)
	if err != nil {
		logger.Fatal("prepare upload directory failed", zap.Error(err))
	}

	deps := service.Deps{
		Config: cfg,
		Repo:   repository.NewRepository(db),
		JWT:    jwt.NewManager(&cfg.Auth),
		Files:  files,
		Events: events,
		Logger: logger,
	}
	if rdb != nil {
		deps.Blacklist = rdb
	}
	svc := service.NewService(deps)

	bootCtx, cancelBoot := context.WithTimeout(ctx, 30*time.Second)
	err = svc.Bootstrap(bootCtx)
	cancelBoot()
	if err != nil {
		logger.Fatal("bootstrap failed", zap.Error(err))
	}

	h := handler.NewHandler(svc)
	engine := router.Setup(cfg, h, deps.JWT, rdb, hub, db, logger)

	// 7. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	hub.Close()

	if sqlDB, _ := db.DB(); sqlDB != nil {
		sqlDB.Close()
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}
