package handler

import (
	"context"
	"net/http"

	"github.com/ecotrack/backend/src/domain"
	"github.com/ecotrack/backend/src/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type ChallengeHandler struct {
	challengeService *service.ChallengeService
}

func NewChallengeHandler(challengeService *service.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challengeService: challengeService}
}

func (h *ChallengeHandler) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("handler", "challenge").Logger()
	return &l
}

// CreateChallengeResponse is the body for a successful challenge creation.
type CreateChallengeResponse struct {
	Message     string `json:"message"`
	ChallengeID string `json:"challengeId"`
}

// ListChallenges godoc
// @Summary List all challenges
// @Tags challenges
// @Produce json
// @Success 200 {array} object
// @Failure 500 {object} handler.MessageResponse
// @Router /challenges [get]
func (h *ChallengeHandler) ListChallenges(c *gin.Context) {
	challenges, err := h.challengeService.GetAllChallenges(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, challenges)
}

// GetChallenge godoc
// @Summary Get one challenge by id
// @Tags challenges
// @Produce json
// @Param id path string true "Challenge id"
// @Success 200 {object} object
// @Failure 400 {object} handler.MessageResponse
// @Failure 404 {object} handler.MessageResponse
// @Router /challenges/{id} [get]
func (h *ChallengeHandler) GetChallenge(c *gin.Context) {
	challenge, err := h.challengeService.GetChallengeByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, challenge)
}

// CreateChallenge godoc
// @Summary Create a challenge
// @Description Accepts arbitrary challenge fields; createdBy is required, participants defaults to 0
// @Tags challenges
// @Accept json
// @Produce json
// @Success 201 {object} handler.CreateChallengeResponse
// @Failure 400 {object} handler.MessageResponse
// @Router /challenges [post]
func (h *ChallengeHandler) CreateChallenge(c *gin.Context) {
	logger := h.logger(c.Request.Context())

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		logger.Error().Err(err).Msg("invalid request payload")
		respondWithError(c, domain.NewError(domain.ErrorCodeValidation, err,
			domain.WithMsg("Invalid request payload")))
		return
	}

	id, err := h.challengeService.CreateChallenge(c.Request.Context(), fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateChallengeResponse{
		Message:     "Challenge created successfully",
		ChallengeID: id.Hex(),
	})
}

// UpdateChallenge godoc
// @Summary Partially update a challenge
// @Tags challenges
// @Accept json
// @Produce json
// @Param id path string true "Challenge id"
// @Success 200 {object} handler.MessageResponse
// @Failure 404 {object} handler.MessageResponse
// @Router /challenges/{id} [put]
func (h *ChallengeHandler) UpdateChallenge(c *gin.Context) {
	logger := h.logger(c.Request.Context())

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		logger.Error().Err(err).Msg("invalid request payload")
		respondWithError(c, domain.NewError(domain.ErrorCodeValidation, err,
			domain.WithMsg("Invalid request payload")))
		return
	}

	if err := h.challengeService.UpdateChallenge(c.Request.Context(), c.Param("id"), fields); err != nil {
		respondWithError(c, err)
		return
	}
	respondWithMessage(c, http.StatusOK, "Challenge updated successfully")
}

// DeleteChallenge godoc
// @Summary Delete a challenge
// @Tags challenges
// @Produce json
// @Param id path string true "Challenge id"
// @Success 200 {object} handler.MessageResponse
// @Failure 404 {object} handler.MessageResponse
// @Router /challenges/{id} [delete]
func (h *ChallengeHandler) DeleteChallenge(c *gin.Context) {
	if err := h.challengeService.DeleteChallenge(c.Request.Context(), c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}
	respondWithMessage(c, http.StatusOK, "Challenge deleted successfully")
}
