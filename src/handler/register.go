package handler

import (
	"context"

	"github.com/ecotrack/backend/src/service"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Services bundles everything the routes need.
type Services struct {
	Challenge  *service.ChallengeService
	Enrollment *service.EnrollmentService
	Reconcile  *service.ReconcileService

	// APISecret guards the admin routes; empty means open (development).
	APISecret string
}

func RegisterRoutes(ctx context.Context, router *gin.Engine, svc Services) {
	router.Use(LoggerMiddleware(ctx))

	router.GET("/", handleRoot)
	router.GET("/health", handleHealthCheck)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	challengeHandler := NewChallengeHandler(svc.Challenge)
	userChallengeHandler := NewUserChallengeHandler(svc.Enrollment)
	reconcileHandler := NewReconcileHandler(svc.Reconcile)

	challenges := router.Group("/challenges")
	{
		challenges.GET("", challengeHandler.ListChallenges)
		challenges.GET("/:id", challengeHandler.GetChallenge)
		challenges.POST("", challengeHandler.CreateChallenge)
		challenges.PUT("/:id", challengeHandler.UpdateChallenge)
		challenges.DELETE("/:id", challengeHandler.DeleteChallenge)
	}

	userChallenges := router.Group("/user-challenges")
	{
		userChallenges.GET("/:userId", userChallengeHandler.ListUserChallenges)
		userChallenges.POST("", userChallengeHandler.JoinChallenge)
		userChallenges.DELETE("/:id", userChallengeHandler.LeaveChallenge)
	}

	admin := router.Group("/admin")
	if svc.APISecret != "" {
		admin.Use(SharedSecretMiddleware(svc.APISecret))
	}
	admin.POST("/reconcile", reconcileHandler.Reconcile)
}
