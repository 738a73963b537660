package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/ecotrack/backend/src/domain"
	"github.com/ecotrack/backend/src/service"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type UserChallengeHandler struct {
	enrollmentService *service.EnrollmentService
}

func NewUserChallengeHandler(enrollmentService *service.EnrollmentService) *UserChallengeHandler {
	return &UserChallengeHandler{enrollmentService: enrollmentService}
}

func (h *UserChallengeHandler) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("handler", "user-challenge").Logger()
	return &l
}

// JoinChallengeRequest represents the request payload for joining a challenge
type JoinChallengeRequest struct {
	UserID      string `json:"userId" binding:"required"`
	ChallengeID string `json:"challengeId" binding:"required"`
}

// JoinChallengeResponse is the body for a successful join.
type JoinChallengeResponse struct {
	Message string                `json:"message"`
	Data    *domain.UserChallenge `json:"data"`
}

// ListUserChallenges godoc
// @Summary List a user's enrollments merged with their challenges
// @Tags user-challenges
// @Produce json
// @Param userId path string true "User id"
// @Success 200 {array} domain.UserChallengeDetail
// @Failure 500 {object} handler.MessageResponse
// @Router /user-challenges/{userId} [get]
func (h *UserChallengeHandler) ListUserChallenges(c *gin.Context) {
	details, err := h.enrollmentService.ListMerged(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// JoinChallenge godoc
// @Summary Join a challenge
// @Tags user-challenges
// @Accept json
// @Produce json
// @Param request body handler.JoinChallengeRequest true "Join payload"
// @Success 201 {object} handler.JoinChallengeResponse
// @Failure 400 {object} handler.MessageResponse
// @Router /user-challenges [post]
func (h *UserChallengeHandler) JoinChallenge(c *gin.Context) {
	logger := h.logger(c.Request.Context())

	var req JoinChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error().Err(err).Msg("invalid request payload")

		opts := []domain.ErrorOption{domain.WithMsg("userId and challengeId are required")}
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			detail := make(map[string]interface{}, len(validationErrs))
			for _, fieldErr := range validationErrs {
				detail[fieldErr.Field()] = fieldErr.Tag()
			}
			opts = append(opts, domain.WithDetail(detail))
		}

		respondWithError(c, domain.NewError(domain.ErrorCodeValidation, err, opts...))
		return
	}

	enrollment, err := h.enrollmentService.Join(c.Request.Context(), req.UserID, req.ChallengeID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, JoinChallengeResponse{
		Message: "Challenge joined successfully",
		Data:    enrollment,
	})
}

// LeaveChallenge godoc
// @Summary Leave a challenge
// @Tags user-challenges
// @Produce json
// @Param id path string true "User challenge id"
// @Success 200 {object} handler.MessageResponse
// @Failure 404 {object} handler.MessageResponse
// @Router /user-challenges/{id} [delete]
func (h *UserChallengeHandler) LeaveChallenge(c *gin.Context) {
	if err := h.enrollmentService.Leave(c.Request.Context(), c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}
	respondWithMessage(c, http.StatusOK, "Challenge left successfully")
}
