package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/vocabhub/vocab-backend/internal/app"
	"github.com/vocabhub/vocab-backend/internal/services"
)

func main() {
	var catalogPath string
	var dryRun bool
	var workers int
	flag.StringVar(&catalogPath, "catalog", "config/units.yaml", "path to the unit catalog yaml")
	flag.BoolVar(&dryRun, "dry-run", false, "print planned upserts without writing")
	flag.IntVar(&workers, "workers", 4, "concurrent upserts")
	flag.Parse()

	_ = godotenv.Load()

	inputs, err := services.LoadUnitCatalog(catalogPath)
	if err != nil {
		fmt.Printf("load catalog: %v\n", err)
		os.Exit(1)
	}
	if dryRun {
		for _, input := range inputs {
			fmt.Printf("would upsert %s (%s)\n", input.Code, input.Dimension)
		}
		fmt.Printf("%d units in catalog\n", len(inputs))
		return
	}

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	if workers < 1 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(workers)
	for _, input := range inputs {
		input := input
		g.Go(func() error {
			if _, err := application.Services.Units.UpsertByCode(ctx, nil, input); err != nil {
				return fmt.Errorf("upsert %s: %w", input.Code, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		application.Log.Error("seeding failed", "error", err)
		os.Exit(1)
	}
	application.Log.Info("unit catalog seeded", "count", len(inputs))
}
