package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/segmentio/kafka-go"

	"example.com/healthsync/internal/adapter"
	"example.com/healthsync/internal/api"
	"example.com/healthsync/internal/auth"
	"example.com/healthsync/internal/authz"
	"example.com/healthsync/internal/config"
	"example.com/healthsync/internal/persistence/postgres"
	"example.com/healthsync/internal/platform"
	"example.com/healthsync/internal/syncer"
	httptransport "example.com/healthsync/internal/transport/http"
	"example.com/healthsync/internal/watcher"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("failed to apply schema: %v", err)
	}

	// The device-owned platform is reached through one shared handle; the
	// in-process client stands in for it outside a device build.
	client := platform.NewMemory()
	gateway := authz.New(client)

	if !gateway.IsPlatformAvailable(ctx) {
		log.Fatalf("health platform unavailable")
	}
	if err := gateway.RequestAuthorization(ctx); err != nil {
		log.Fatalf("platform authorization failed: %v", err)
	}

	reader := adapter.NewReader(client, gateway)
	writer := adapter.NewWriter(client, gateway)

	orchestrator := syncer.New(
		reader,
		writer,
		gateway,
		postgres.NewRecordStore(pool),
		postgres.NewCursorStore(pool),
		cfg.UserID,
		syncer.WithDefaultWindowDays(cfg.DefaultWindowDays),
	)

	feedReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:         cfg.KafkaBrokers,
		GroupID:         cfg.ChangeFeedGroup,
		Topic:           cfg.ChangeFeedTopic,
		MinBytes:        1e3,
		MaxBytes:        10e6,
		CommitInterval:  time.Second,
		ReadLagInterval: -1,
	})
	feed := watcher.NewFeed(feedReader)

	watch := watcher.New(client, feed, orchestrator)
	if err := watch.Start(ctx); err != nil {
		log.Fatalf("failed to start change watcher: %v", err)
	}

	go func() {
		defer feedReader.Close()
		log.Printf("change feed started (topic=%s, group=%s)", cfg.ChangeFeedTopic, cfg.ChangeFeedGroup)
		if err := feed.Run(ctx); err != nil && err != context.Canceled {
			log.Printf("change feed stopped with error: %v", err)
		}
	}()

	mux := http.NewServeMux()
	api.NewHandler(orchestrator).RegisterRoutes(mux)
	middleware := auth.NewMiddleware(auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer})

	srv := httptransport.NewServer(httptransport.ServerConfig{Address: cfg.HTTPAddress}, middleware.Wrap(mux))
	metricsSrv := httptransport.NewMetricsServer(cfg.MetricsAddress)

	go func() {
		log.Printf("control API listening on %s", cfg.HTTPAddress)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http server error: %v", err)
		}
	}()
	go func() {
		log.Printf("metrics listening on %s", cfg.MetricsAddress)
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("shutdown requested")

	watch.Stop(ctx)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http server shutdown error: %v", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("metrics server shutdown error: %v", err)
	}
}
