package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clubstats/internal/auth"
	"github.com/clubstats/internal/config"
	"github.com/clubstats/internal/handler"
	"github.com/clubstats/internal/kafka"
	"github.com/clubstats/internal/postgres"
	"github.com/clubstats/internal/redis"
	"github.com/clubstats/internal/service"
	"github.com/clubstats/internal/websocket"
	"github.com/clubstats/internal/worker"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Warn("failed to load config file, using defaults", "error", err)
		cfg = config.DefaultConfig()
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize PostgreSQL
	logger.Info("connecting to PostgreSQL", "host", cfg.Postgres.Host, "database", cfg.Postgres.Database)
	repo, err := postgres.NewRepository(&cfg.Postgres, logger)
	if err != nil {
		logger.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to PostgreSQL")

	// Run database migrations
	if err := repo.RunMigrations(ctx); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize Redis aggregate cache. The API stays up without it;
	// aggregate reads just fall through to PostgreSQL.
	var aggregateCache *redis.AggregateCache
	logger.Info("connecting to Redis", "addr", cfg.Redis.Addr)
	aggregateCache, err = redis.NewAggregateCache(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("failed to connect to Redis, continuing without cache", "error", err)
		aggregateCache = nil
	} else {
		defer aggregateCache.Close()
		logger.Info("connected to Redis")
	}

	// Initialize WebSocket hub
	wsHub := websocket.NewHub(logger)
	go wsHub.Run()
	logger.Info("WebSocket hub initialized")

	// Initialize services
	playerService := service.NewPlayerService(repo, &cfg.Listing, logger)
	gameService := service.NewGameService(repo, &cfg.Listing, logger)

	var statsService *service.StatsService
	if aggregateCache != nil {
		statsService = service.NewStatsService(repo, aggregateCache, logger)
	} else {
		statsService = service.NewStatsService(repo, nil, logger)
	}
	statsService.SetBroadcaster(wsHub)

	tokenManager := auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	authService := service.NewAuthService(repo, tokenManager, logger)

	// Initialize aggregate cache warmer
	var warmer *worker.Warmer
	if cfg.Warmer.Enabled && aggregateCache != nil {
		warmer = worker.NewWarmer(repo, aggregateCache, &cfg.Warmer, logger)
		if err := warmer.Start(ctx); err != nil {
			logger.Error("failed to start aggregate warmer", "error", err)
			os.Exit(1)
		}
	}

	// Initialize Kafka consumer for high-load stat-line ingestion
	var kafkaConsumer *kafka.Consumer
	if cfg.Kafka.Enabled {
		logger.Info("initializing Kafka consumer",
			"brokers", cfg.Kafka.Brokers,
			"topic", cfg.Kafka.Topic,
		)
		var err error
		kafkaConsumer, err = kafka.NewConsumer(&cfg.Kafka, statsService, logger)
		if err != nil {
			logger.Warn("failed to create Kafka consumer, continuing without Kafka", "error", err)
		} else {
			if err := kafkaConsumer.Start(); err != nil {
				logger.Warn("failed to start Kafka consumer, continuing without Kafka", "error", err)
				kafkaConsumer = nil
			} else {
				logger.Info("Kafka consumer started successfully")
			}
		}
	}

	// Initialize HTTP handler with WebSocket hub
	httpHandler := handler.NewHandler(playerService, gameService, statsService, authService, wsHub, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpHandler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting HTTP server", "port", cfg.Server.Port)
		logger.Info("WebSocket endpoint available at /ws")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop WebSocket hub
	wsHub.Stop()

	// Stop Kafka consumer
	if kafkaConsumer != nil {
		if err := kafkaConsumer.Stop(); err != nil {
			logger.Error("failed to stop Kafka consumer", "error", err)
		}
	}

	// Stop aggregate warmer
	if warmer != nil {
		if err := warmer.Stop(); err != nil {
			logger.Error("failed to stop aggregate warmer", "error", err)
		}
	}

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	}

	logger.Info("server stopped")
}
