package handler

import (
	"context"
	"errors"

	"github.com/ecotrack/backend/src/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LoggerMiddleware attaches a request-scoped zerolog logger, tagged with a
// fresh request id, to the request context.
func LoggerMiddleware(ctx context.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		zlog := zerolog.Ctx(ctx).With().
			Str("request_id", uuid.NewString()).
			Str("path", c.FullPath()).
			Str("method", c.Request.Method).
			Logger()
		c.Request = c.Request.WithContext(zlog.WithContext(ctx))
		c.Next()
	}
}

// SharedSecretMiddleware validates the X-API-Secret header on admin routes.
func SharedSecretMiddleware(apiSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		providedSecret := c.GetHeader("X-API-Secret")

		if providedSecret == "" {
			respondWithError(c, domain.NewError(
				domain.ErrorCodeNotAuthenticated,
				errors.New("missing API secret header"),
				domain.WithMsg("Missing API secret"),
			))
			return
		}

		if providedSecret != apiSecret {
			respondWithError(c, domain.NewError(
				domain.ErrorCodeNotAuthenticated,
				errors.New("invalid API secret provided"),
				domain.WithMsg("Invalid API secret"),
			))
			return
		}

		c.Next()
	}
}
