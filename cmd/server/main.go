package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/vocabhub/vocab-backend/internal/app"
	"github.com/vocabhub/vocab-backend/internal/services"
)

func main() {
	// Missing .env is fine in containerized deploys; env comes from the
	// orchestrator there.
	_ = godotenv.Load()

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx := context.Background()

	// Seed the unit catalog at boot so conversions work on a fresh
	// database. Upserts by code, so restarts are harmless.
	if path := application.Cfg.UnitCatalogPath; path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			inputs, loadErr := services.LoadUnitCatalog(path)
			if loadErr != nil {
				application.Log.Error("load unit catalog failed", "path", path, "error", loadErr)
			}
			for _, input := range inputs {
				if _, upsertErr := application.Services.Units.UpsertByCode(ctx, nil, input); upsertErr != nil {
					application.Log.Warn("seed unit failed", "code", input.Code, "error", upsertErr)
				}
			}
		}
	}

	application.Log.Info("vocabulary registry ready")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	application.Log.Info("shutting down")
}
