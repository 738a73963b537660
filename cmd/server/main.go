package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/ecotrack/backend/src/app"
	"github.com/joho/godotenv"
)

const (
	AppName    = "EcoTrack Backend"
	AppVersion = "0.1.0"
)

func main() {
	// Load .env when present; a deployed process gets its env from the runtime
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	cfg := app.NewAppConfig()

	rootLogger := app.InitLogger(*cfg.LogLevel)
	rootLogger = rootLogger.With().Str("service", AppName).Logger()

	rootCtx, cancel := context.WithCancel(context.Background())
	rootCtx = rootLogger.WithContext(rootCtx)

	rootLogger.Info().
		Str("version", AppVersion).
		Msgf("Launching %s", AppName)

	application := app.NewApplication(rootCtx, *cfg)
	if application == nil {
		rootLogger.Fatal().Msg("Failed to create application")
	}
	defer application.Shutdown(rootCtx)

	var wg sync.WaitGroup
	wg.Add(2)
	go application.RunHTTPServer(rootCtx, &wg)
	go application.RunReconcileWorker(rootCtx, &wg)

	// Cancel the root context on SIGINT/SIGTERM and wait for both workers
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	rootLogger.Info().Msg("Shutting down...")
	cancel()
	wg.Wait()

	rootLogger.Info().Msg("Server gracefully stopped")
}
