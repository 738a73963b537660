package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleRoot godoc
// @Summary Liveness endpoint
// @Description Plain-text liveness string, same as the root route of the original server
// @Tags health
// @Produce plain
// @Success 200 {string} string
// @Router / [get]
func handleRoot(c *gin.Context) {
	c.String(http.StatusOK, "EcoTrack server is running")
}

// HandleHealthCheck godoc
// @Summary Health check endpoint
// @Description Check if the service is running
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func handleHealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
