package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/scorebridge/scoring-api/internal/app/auth"
	"github.com/scorebridge/scoring-api/internal/app/httpapi"
	"github.com/scorebridge/scoring-api/internal/app/storage"
	"github.com/scorebridge/scoring-api/internal/app/storage/memory"
	"github.com/scorebridge/scoring-api/internal/app/storage/redisstore"
	"github.com/scorebridge/scoring-api/internal/config"
	"github.com/scorebridge/scoring-api/internal/logging"
	"github.com/scorebridge/scoring-api/internal/metrics"
	"github.com/scorebridge/scoring-api/internal/middleware"
)

func main() {
	var (
		port       = flag.Int("p", 0, "listen port (overrides SCORING_PORT)")
		logFile    = flag.String("l", "", "log file path (default stderr)")
		envFile    = flag.String("env", "", "optional .env file to load")
		configFile = flag.String("config", "", "optional YAML config overlay")
	)
	flag.Parse()

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			log.Fatalf("load env file %s: %v", *envFile, err)
		}
	} else {
		// A local .env is a convenience, not a requirement.
		_ = godotenv.Load()
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *configFile != "" {
		if err := cfg.ApplyFile(*configFile); err != nil {
			log.Fatalf("apply config file: %v", err)
		}
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}

	var logOut io.Writer = os.Stderr
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("open log file %s: %v", cfg.LogFile, err)
		}
		defer f.Close()
		logOut = f
	}
	logger := logging.New("scoring-server", cfg.LogLevel, logOut)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store storage.Store
	if cfg.RedisAddr != "" {
		rs := redisstore.New(cfg.RedisAddr, cfg.RedisDB, logger)
		if err := rs.Ping(ctx); err != nil {
			logger.WithError(err).Errorf("redis unreachable at %s", cfg.RedisAddr)
			os.Exit(1)
		}
		defer rs.Close()
		store = rs
		logger.Infof("using redis store at %s", cfg.RedisAddr)
	} else {
		store = memory.New()
		logger.Warn("no redis address configured; using in-memory store")
	}

	opts := httpapi.Options{
		Salts:  auth.Salts{Shared: cfg.Salt, Admin: cfg.AdminSalt},
		Store:  store,
		Logger: logger,
	}
	if cfg.AuditLogPath != "" {
		sink, err := httpapi.NewFileSink(cfg.AuditLogPath)
		if err != nil {
			logger.WithError(err).Errorf("open audit log %s", cfg.AuditLogPath)
			os.Exit(1)
		}
		defer sink.Close()
		opts.AuditSink = sink
	}
	handler := httpapi.NewHandler(opts)

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst, logger)

	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(metrics.InstrumentHandler)
	r.Use(limiter.Handler)
	r.HandleFunc("/method", handler.Method).Methods(http.MethodPost)
	r.HandleFunc("/healthz", handler.Health).Methods(http.MethodGet)
	r.HandleFunc("/audit", handler.AuditLog).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	r.NotFoundHandler = http.HandlerFunc(httpapi.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(httpapi.MethodNotAllowed)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("starting server at %d", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("server failed")
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
}
