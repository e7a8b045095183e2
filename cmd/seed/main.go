package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cloud.google.com/go/spanner"
	"go.uber.org/zap"

	"github.com/light-bringer/catalog-listing/internal/app/listing/repo"
	"github.com/light-bringer/catalog-listing/internal/pkg/committer"
	"github.com/light-bringer/catalog-listing/internal/pkg/logger"
)

var (
	databasePath = flag.String("database", getEnvOrDefault("LISTING_SPANNER_DATABASE",
		"projects/test-project/instances/dev-instance/databases/catalog-listing-db"), "Spanner database path")
	catalogFile = flag.String("file", "", "Catalog YAML file; empty seeds the bundled catalog")
	replace     = flag.Bool("replace", false, "Delete existing catalog rows before seeding")
	batchSize   = flag.Int("batch", committer.MaxBatchMutations, "Mutations per commit")
	dryRun      = flag.Bool("dry-run", false, "Validate the catalog and report counts without writing")
)

func main() {
	flag.Parse()

	log, err := logger.New("info", true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log); err != nil {
		log.Fatal("seeding failed", zap.Error(err))
	}
}

func run(ctx context.Context, log *zap.Logger) error {
	f, err := repo.ReadCatalogFile(*catalogFile)
	if err != nil {
		return err
	}
	plan, err := repo.CatalogPlan(f, repo.SeedOptions{Replace: *replace})
	if err != nil {
		return err
	}

	log.Info("catalog plan built",
		zap.Int("brands", len(f.Brands)),
		zap.Int("products", len(f.Products)),
		zap.Int("mutations", plan.Count()),
		zap.Bool("replace", *replace),
	)
	if *dryRun {
		return nil
	}

	client, err := spanner.NewClient(ctx, *databasePath)
	if err != nil {
		return fmt.Errorf("failed to create Spanner client: %w", err)
	}
	defer client.Close()

	return seed(ctx, committer.NewCommitter(client), plan, *batchSize, log)
}

func seed(ctx context.Context, c *committer.Committer, plan *committer.CommitPlan, size int, log *zap.Logger) error {
	committed, err := c.ApplyInBatches(ctx, plan, size)
	if err != nil {
		log.Error("seeding stopped", zap.Int("committed", committed), zap.Int("mutations", plan.Count()))
		return err
	}
	log.Info("catalog seeded", zap.Int("mutations", committed), zap.Int("batch_size", size))
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
