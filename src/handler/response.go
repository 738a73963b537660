package handler

import (
	"errors"

	"github.com/ecotrack/backend/src/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// MessageResponse is the body for every failure and for mutations that only
// acknowledge. Failures always carry a human-readable message and never leak
// internals.
type MessageResponse struct {
	Message string      `json:"message"`
	Error   interface{} `json:"error,omitempty"`
}

// respondWithError maps a domain error onto an HTTP status and a client-safe
// message. Unclassified errors become a generic 500.
func respondWithError(c *gin.Context, err error) {
	domainErr := parseDomainError(err)

	message := domainErr.ClientMsg()
	if message == "" {
		message = "Internal server error"
	}

	response := MessageResponse{
		Message: message,
		Error:   domainErr.Detail(),
	}

	ctx := c.Request.Context()
	zerolog.Ctx(ctx).Error().
		Err(err).
		Str("error_name", domainErr.Name()).
		Int("status", domainErr.HTTPStatus()).
		Msg("request failed")

	_ = c.Error(err)
	c.AbortWithStatusJSON(domainErr.HTTPStatus(), response)
}

// parseDomainError extracts domain error information
func parseDomainError(err error) domain.DomainError {
	var domainError domain.DomainError
	// An empty domain.DomainError maps to INTERNAL_PROCESS / 500, so the
	// errors.As result does not need checking.
	_ = errors.As(err, &domainError)
	return domainError
}

func respondWithMessage(c *gin.Context, status int, message string) {
	c.JSON(status, MessageResponse{Message: message})
}
