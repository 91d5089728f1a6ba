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

	"sai-tutoria/config"
	"sai-tutoria/internal/api/handler"
	"sai-tutoria/internal/api/router"
	"sai-tutoria/internal/repository"
	"sai-tutoria/internal/service"
	"sai-tutoria/internal/worker"
	"sai-tutoria/pkg/database"
	"sai-tutoria/pkg/jwt"
	"sai-tutoria/pkg/keylock"
	applogger "sai-tutoria/pkg/logger"
	"sai-tutoria/pkg/mailer"
	"sai-tutoria/pkg/redis"
	"sai-tutoria/pkg/refcache"
)

func main() {
	// 1. configuration
	cfg, err := config.Load(os.Getenv("SAI_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting sai-tutoria",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("timezone", cfg.Tutoring.Timezone),
	)

	// 3. database and migrations
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("unwrapping sql.DB failed", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	// 4. Redis is optional; without it logout cannot revoke tokens and
	// login is not rate limited
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, token revocation and login rate limit disabled", zap.Error(err))
		rdb = nil
	}

	// 5. shared infrastructure
	jwtMgr := jwt.NewManager(&cfg.Auth)
	notifier, err := mailer.New(&cfg.Mail, logger)
	if err != nil {
		logger.Fatal("mail notifier init failed", zap.Error(err))
	}
	deps := service.Deps{
		JWT:      jwtMgr,
		Cache:    refcache.New(),
		Locks:    keylock.New(),
		Notifier: notifier,
	}
	if rdb != nil {
		deps.Blacklist = rdb
	}

	// 6. repository → service → handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, deps, logger)
	h := handler.NewHandler(svc)

	// 7. background overdue sweep
	sweeper := worker.NewOverdueSweeper(svc.Tutoring, logger, cfg.Tutoring.OverdueSweepInterval)
	sweeper.Start()

	// 8. HTTP server
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	// 9. graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}

	sweeper.Stop()

	if err := sqlDB.Close(); err != nil {
		logger.Error("closing database failed", zap.Error(err))
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Error("closing redis failed", zap.Error(err))
		}
	}

	logger.Info("server stopped")
}
