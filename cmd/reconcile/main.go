// One-shot repair pass: recounts enrollments per challenge and rewrites any
// drifted participants counter, then exits.
package main

import (
	"context"
	"log"

	"github.com/ecotrack/backend/src/app"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	cfg := app.NewAppConfig()

	rootLogger := app.InitLogger(*cfg.LogLevel)
	rootCtx := rootLogger.WithContext(context.Background())

	application := app.NewApplication(rootCtx, *cfg)
	if application == nil {
		rootLogger.Fatal().Msg("Failed to create application")
	}
	defer application.Shutdown(rootCtx)

	report, err := application.ReconcileService.Run(rootCtx)
	if err != nil {
		rootLogger.Fatal().Err(err).Msg("Reconcile pass failed")
	}

	rootLogger.Info().
		Int("checked", report.Checked).
		Int("repaired", report.Repaired).
		Msg("Reconcile pass complete")
}
