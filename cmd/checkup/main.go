package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/postgres-ai/checkup/internal/adapter"
	"github.com/postgres-ai/checkup/internal/checks"
	"github.com/postgres-ai/checkup/internal/config"
	"github.com/postgres-ai/checkup/internal/eventbus"
	"github.com/postgres-ai/checkup/internal/metrics"
	"github.com/postgres-ai/checkup/internal/orchestrator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queryTimeout := time.Duration(cfg.QueryTimeoutMs) * time.Millisecond

	pg := adapter.NewPostgres(cfg.DatabaseURL)
	if err := pg.Connect(ctx); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pg.Close()

	if err := pg.HealthCheck(ctx); err != nil {
		log.Fatalf("Database health check failed: %v", err)
	}

	var metricsClient *metrics.Client
	if cfg.MetricsURL != "" {
		metricsClient = metrics.NewClient(cfg.MetricsURL, queryTimeout)
	}

	// Optional - a missing event bus only disables delivery
	var publisher *eventbus.Publisher
	if cfg.NatsURL != "" {
		publisher, err = eventbus.NewPublisher(cfg.NatsURL)
		if err != nil {
			log.Printf("Warning: failed to connect to NATS: %v", err)
			log.Printf("Reports will not be published")
		} else {
			defer publisher.Close()
		}
	}

	orch := orchestrator.New(orchestrator.Options{
		Executor:     pg,
		Metrics:      metricsClient,
		Publisher:    publisher,
		Mode:         checks.Mode(cfg.Mode),
		NodeName:     cfg.NodeName,
		WindowStart:  time.Unix(cfg.WindowStart, 0).UTC(),
		WindowEnd:    time.Unix(cfg.WindowEnd, 0).UTC(),
		TopQueries:   cfg.TopQueriesLimit,
		QueryTimeout: queryTimeout,
	})

	reports := orch.Run(ctx)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(reports); err != nil {
		log.Fatalf("Failed to encode reports: %v", err)
	}
}
