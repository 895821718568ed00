package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	jwttoken "github.com/navikt/dp-rapportering/internal/jwt_token"
	"github.com/navikt/dp-rapportering/internal/jobs"
	"github.com/navikt/dp-rapportering/internal/mottak"
	"github.com/navikt/dp-rapportering/internal/platform/config"
	"github.com/navikt/dp-rapportering/internal/platform/database"
	"github.com/navikt/dp-rapportering/internal/platform/httpserver"
	"github.com/navikt/dp-rapportering/internal/platform/kafka"
	"github.com/navikt/dp-rapportering/internal/platform/logger"
	platformredis "github.com/navikt/dp-rapportering/internal/platform/redis"
	"github.com/navikt/dp-rapportering/internal/rapportering/handler"
	"github.com/navikt/dp-rapportering/internal/rapportering/metrics"
	"github.com/navikt/dp-rapportering/internal/rapportering/ports"
	"github.com/navikt/dp-rapportering/internal/rapportering/service"
	"github.com/navikt/dp-rapportering/internal/rapportering/store/dedupe"
	"github.com/navikt/dp-rapportering/internal/rapportering/store/postgres"
	"github.com/navikt/dp-rapportering/internal/varsling"
)

// main wires dependencies and runs the three long-lived workers: the HTTP
// server, the Kafka consumer, and the background job tickers. Business logic
// lives in the internal packages.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(logger.ParseLevel(cfg.App.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		log.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	store := postgres.NewPostgres(db)
	if err := store.Migrate(ctx); err != nil {
		log.Error("failed to migrate schema", "error", err)
		os.Exit(1)
	}

	var registry ports.DuplicateRegistry = dedupe.NewInMemoryRegistry()
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		registry = dedupe.NewRedisRegistry(redisClient.Client)
	} else {
		log.Warn("redis not configured, duplicate suppression is per-instance only")
	}

	consumerClient, err := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroup, cfg.Kafka.InboundTopic)
	if err != nil {
		log.Error("failed to build kafka consumer", "error", err)
		os.Exit(1)
	}
	defer consumerClient.Close()

	producerClient, err := kafka.NewProducer(cfg.Kafka.Brokers)
	if err != nil {
		log.Error("failed to build kafka producer", "error", err)
		os.Exit(1)
	}
	defer producerClient.Close()

	if err := kafka.EnsureTopics(ctx, producerClient, cfg.Kafka.InboundTopic, cfg.Kafka.OutboundTopic); err != nil {
		log.Error("failed to ensure kafka topics", "error", err)
		os.Exit(1)
	}

	publisher := varsling.NewPublisher(producerClient, cfg.Kafka.OutboundTopic, log)
	svc := service.New(store, registry,
		service.WithLogger(log),
		service.WithPublisher(publisher),
		service.WithMetrics(metrics.New()),
	)

	jwtService := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, "dp-rapportering")

	router := chi.NewRouter()
	handler.New(svc, log, jwttoken.NewMiddlewareAdapter(jwtService)).Register(router)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.App.Addr, router)

	consumer := mottak.NewConsumer(consumerClient, svc, log)
	runner := jobs.NewRunner(store, svc, log, cfg.Jobs.SubmissionInterval, cfg.Jobs.NewCycleInterval)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("starting http server", "addr", cfg.App.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	group.Go(func() error {
		log.Info("starting kafka consumer",
			"topic", cfg.Kafka.InboundTopic,
			"group", cfg.Kafka.ConsumerGroup,
		)
		return consumer.Run(groupCtx)
	})

	group.Go(func() error {
		log.Info("starting background jobs",
			"submission_interval", cfg.Jobs.SubmissionInterval,
			"new_cycle_interval", cfg.Jobs.NewCycleInterval,
		)
		return runner.Run(groupCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("service stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("service stopped")
}
