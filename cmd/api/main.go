package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"

	"github.com/tolvstad/ordersync/internal/config"
	"github.com/tolvstad/ordersync/internal/database"
	"github.com/tolvstad/ordersync/internal/orders/adapters"
	httpadapter "github.com/tolvstad/ordersync/internal/orders/adapters/http"
	"github.com/tolvstad/ordersync/internal/orders/adapters/kafkabus"
	orderspostgres "github.com/tolvstad/ordersync/internal/orders/adapters/postgres"
	"github.com/tolvstad/ordersync/internal/orders/adapters/redisqueue"
	"github.com/tolvstad/ordersync/internal/orders/adapters/redistopic"
	ordersapp "github.com/tolvstad/ordersync/internal/orders/app"
	ordersmetrics "github.com/tolvstad/ordersync/internal/orders/metrics"
	"github.com/tolvstad/ordersync/internal/orders/pipeline"
	"github.com/tolvstad/ordersync/internal/orders/ports"
	"github.com/tolvstad/ordersync/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := telemetry.NewLogger(telemetry.ParseLevel(cfg.Telemetry.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Initialize(ctx, telemetry.Config{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
		Environment:    cfg.Service.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTelEndpoint,
		EnableTracing:  cfg.Telemetry.EnableTracing,
		EnableMetrics:  cfg.Telemetry.EnableMetrics,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		logger.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown failed", "error", err)
		}
	}()

	pool, err := database.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		logger.Info("running database migrations", "path", cfg.Database.MigrationsPath)
		if err := database.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("failed to ping redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	meter := otel.Meter(cfg.Service.Name)

	pipelineMetrics, err := ordersmetrics.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create pipeline metrics", "error", err)
		os.Exit(1)
	}
	httpMetrics, err := httpadapter.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create http metrics", "error", err)
		os.Exit(1)
	}
	dbMetrics, err := database.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create database metrics", "error", err)
		os.Exit(1)
	}

	repo := adapters.NewObservableRepository(orderspostgres.NewRepository(pool), dbMetrics)
	queue := redisqueue.New(redisClient, cfg.Redis.QueueName)
	topic := redistopic.NewPublisher(redisClient, cfg.Redis.TopicChannel)

	var bus ports.EventBus
	if len(cfg.EventBus.Brokers) > 0 {
		kafkaBus := kafkabus.New(cfg.EventBus.Brokers, cfg.EventBus.Topic)
		defer kafkaBus.Close()
		bus = kafkaBus
	} else {
		logger.Warn("no kafka brokers configured, event bus entries will be dropped")
		bus = kafkabus.NewNoopEventBus()
	}

	publisher := pipeline.NewObservablePublisher(
		pipeline.NewPublisher(topic, bus, cfg.EventBus.BusName, logger),
		pipelineMetrics,
	)
	processor := pipeline.NewObservableProcessor(
		pipeline.NewProcessor(repo),
		logger,
		pipelineMetrics,
	)
	consumer := pipeline.NewConsumer(queue, processor, logger, pipelineMetrics,
		pipeline.WithBatchSize(cfg.Consumer.BatchSize),
		pipeline.WithReceiveWait(time.Duration(cfg.Consumer.WaitSeconds)*time.Second),
	)

	worker := pipeline.NewWorker(consumer, logger)
	worker.Start(ctx)

	service := ordersapp.NewService(repo, publisher, worker, logger)
	ordersHandler := httpadapter.NewHandler(service)

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Use(httpadapter.WithLogging(logger))
	router.Use(httpadapter.WithMetrics(httpMetrics))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := database.CheckHealth(r.Context(), pool); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "error": err.Error()})
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	ordersHandler.Register(router)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "port", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownGrace)*time.Second)
	defer cancel()

	if err := worker.Stop(shutdownCtx); err != nil {
		logger.Error("drain worker shutdown failed", "error", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	} else {
		logger.Info("http server stopped")
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
