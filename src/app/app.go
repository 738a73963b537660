package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ecotrack/backend/src/handler"
	"github.com/ecotrack/backend/src/repository"
	"github.com/ecotrack/backend/src/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type Application struct {
	config AppConfig
	client *mongo.Client

	ChallengeService  *service.ChallengeService
	EnrollmentService *service.EnrollmentService
	ReconcileService  *service.ReconcileService
}

func NewApplication(ctx context.Context, config AppConfig) *Application {
	logger := zerolog.Ctx(ctx).With().Str("function", "NewApplication").Logger()

	// Connect to MongoDB
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(*config.MongoURI))
	if err != nil {
		logger.Error().Err(err).Msg("failed to create mongo client")
		return nil
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		logger.Error().Err(err).Msg("connection to mongodb failed")
		return nil
	}
	logger.Info().Msg("MongoDB connection established")

	db := client.Database(*config.DBName)

	if err := repository.EnsureIndexes(connectCtx, db); err != nil {
		logger.Error().Err(err).Msg("failed to ensure indexes")
		return nil
	}

	challengeRepo := repository.NewMongoChallengeRepository(db)
	userChallengeRepo := repository.NewMongoUserChallengeRepository(db)

	challengeService := service.NewChallengeService(challengeRepo)
	enrollmentService := service.NewEnrollmentService(userChallengeRepo, challengeRepo)
	reconcileService := service.NewReconcileService(challengeRepo, userChallengeRepo,
		time.Duration(*config.ReconcileInterval)*time.Second)

	return &Application{
		config:            config,
		client:            client,
		ChallengeService:  challengeService,
		EnrollmentService: enrollmentService,
		ReconcileService:  reconcileService,
	}
}

func (app *Application) Shutdown(ctx context.Context) {
	logger := zerolog.Ctx(ctx).With().Str("function", "Shutdown").Logger()

	if app.client != nil {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := app.client.Disconnect(disconnectCtx); err != nil {
			logger.Error().Err(err).Msg("Failed to close mongodb connection")
		} else {
			logger.Info().Msg("MongoDB connection closed")
		}
	}
}

func (app *Application) RunHTTPServer(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	logger := zerolog.Ctx(ctx).With().Str("function", "RunHTTPServer").Logger()

	// Set to release mode to disable Gin logger
	gin.SetMode(gin.ReleaseMode)

	ginRouter := gin.Default()

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	if len(*app.config.AllowOrigins) == 1 && (*app.config.AllowOrigins)[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = *app.config.AllowOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-API-Secret"}
	ginRouter.Use(cors.New(corsConfig))

	handler.RegisterRoutes(ctx, ginRouter, handler.Services{
		Challenge:  app.ChallengeService,
		Enrollment: app.EnrollmentService,
		Reconcile:  app.ReconcileService,
		APISecret:  *app.config.APISecret,
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", *app.config.Port),
		Handler: ginRouter,
	}

	go func() {
		zerolog.Ctx(ctx).Info().Msgf("HTTP server is on http://localhost:%s", *app.config.Port)
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			zerolog.Ctx(ctx).Panic().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	<-ctx.Done()

	logger.Info().Msg("Gracefully shutting down HTTP server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Failed to shutdown HTTP server gracefully")
	} else {
		logger.Info().Msg("HTTP server shutdown complete")
	}
}

// RunReconcileWorker runs periodic counter repair passes when an interval is
// configured.
func (app *Application) RunReconcileWorker(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	logger := zerolog.Ctx(ctx).With().Str("function", "RunReconcileWorker").Logger()

	if *app.config.ReconcileInterval <= 0 {
		logger.Info().Msg("Reconcile worker disabled")
		return
	}

	logger.Info().Msg("Starting reconcile worker")
	if err := app.ReconcileService.Start(ctx); err != nil && err != context.Canceled {
		logger.Error().Err(err).Msg("Reconcile worker exited with error")
	}
	logger.Info().Msg("Reconcile worker stopped")
}
