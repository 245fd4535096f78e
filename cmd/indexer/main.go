package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prestataires/backend/internal/adapters/database"
	"github.com/prestataires/backend/internal/adapters/search"
	"github.com/prestataires/backend/internal/domain/repositories"
	"github.com/prestataires/backend/internal/infrastructure/clients/postgres"
	"github.com/prestataires/backend/internal/infrastructure/clients/typesense"
	"github.com/prestataires/backend/pkg/config"
)

// Rebuilds the Typesense provider collection from Postgres. Run once or on
// an interval for drift repair after missed best-effort index writes.
func main() {
	var reset bool
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "delete existing Typesense collection before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	var err error
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			log.Fatalf("Invalid interval %q: %v", intervalValue, err)
		}
		if interval <= 0 {
			log.Fatalf("Interval must be greater than zero")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, reset); err != nil {
			log.Printf("Reindex failed: %v", err)
		}

		if interval <= 0 {
			break
		}

		reset = false
		log.Printf("Reindex complete. Next run in %s.", interval)

		select {
		case <-ctx.Done():
			log.Println("Reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func indexOnce(ctx context.Context, reset bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		return err
	}
	defer pgClient.Close()

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		return err
	}

	adapter := search.NewTypesenseAdapter(tsClient)

	if reset || os.Getenv("RESET_TYPESENSE") == "true" {
		log.Println("Deleting providers collection before reindex")
		if _, err := tsClient.Client().Collection("providers").Delete(ctx); err != nil {
			log.Printf("Warning: failed to delete collection: %v", err)
		}
	}

	if err := adapter.InitSchema(ctx); err != nil {
		return err
	}

	providerRepo := database.NewProviderAdapter(pgClient)
	provs, err := providerRepo.List(ctx, repositories.ProviderFilter{})
	if err != nil {
		return err
	}

	log.Printf("Indexing %d providers...", len(provs))

	indexed := 0
	for _, p := range provs {
		if p == nil {
			continue
		}
		if err := adapter.Index(ctx, p); err != nil {
			log.Printf("Warning: failed to index provider %s: %v", p.ID, err)
			continue
		}
		indexed++
	}

	log.Printf("Indexed %d/%d providers", indexed, len(provs))
	return nil
}
