package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"countries/internal/audit"
	countrymetrics "countries/internal/country/metrics"
	"countries/internal/country/service"
	"countries/internal/country/store"
	"countries/internal/platform/config"
	"countries/internal/platform/httpserver"
	"countries/internal/platform/logger"
	"countries/internal/platform/metrics"
	platformredis "countries/internal/platform/redis"
)

// openSink is replaced in tests.
var openSink = openAuditSink

// main wires the store, service, audit pipeline and HTTP router, then serves
// until SIGINT or SIGTERM.
func main() {
	configPath := flag.String("config", os.Getenv("COUNTRIES_CONFIG"), "path to a YAML config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath); err != nil {
		fmt.Fprintln(os.Stderr, "countries:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	countryStore, closeStore, err := openStore(ctx, cfg.Store, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Error("failed to close store", "error", err)
		}
	}()

	sink, closeSink, err := openSink(ctx, cfg.Kafka, log)
	if err != nil {
		return err
	}
	var sinkOnce sync.Once
	shutdownSink := func(ctx context.Context) (err error) {
		sinkOnce.Do(func() { err = closeSink(ctx) })
		return err
	}
	defer func() {
		if err := shutdownSink(context.Background()); err != nil {
			log.Error("failed to close audit sink", "error", err)
		}
	}()
	publisher := audit.NewPublisher(audit.WithPublisherLogger(log))

	svc, err := service.New(countryStore,
		service.WithLogger(log),
		service.WithAuditPublisher(publisher),
		service.WithMetrics(countrymetrics.New(prometheus.DefaultRegisterer)),
	)
	if err != nil {
		return err
	}

	if cfg.Server.Seed {
		samples, err := store.SampleCountries()
		if err != nil {
			return err
		}
		n, err := svc.SeedIfEmpty(ctx, samples)
		if err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		if n > 0 {
			log.Info("seeded country catalog", "countries", n)
		}
	}

	redisClient, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	router, err := newRouter(routerDeps{
		logger:   log,
		service:  svc,
		redis:    redisClient,
		httpMeta: metrics.NewHTTP(prometheus.DefaultRegisterer),
	})
	if err != nil {
		return err
	}
	srv := httpserver.New(cfg.Server.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return audit.NewWorker(sink, publisher.Inbox(), log).Run(gctx)
	})
	g.Go(func() error {
		log.Info("starting countries server", "addr", cfg.Server.Addr, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return shutdownSink(shutdownCtx)
	})
	return g.Wait()
}

// openAuditSink returns the Kafka sink when brokers are configured and a
// log-backed sink otherwise.
func openAuditSink(ctx context.Context, cfg config.KafkaConfig, log *slog.Logger) (audit.Sink, func(context.Context) error, error) {
	if len(cfg.Brokers) == 0 {
		return audit.NewLogSink(log), func(context.Context) error { return nil }, nil
	}
	sink, err := audit.NewKafkaSink(ctx, cfg.Brokers, cfg.Topic)
	if err != nil {
		return nil, nil, err
	}
	log.Info("publishing audit events to kafka", "topic", cfg.Topic)
	return sink, sink.Close, nil
}
