package service

import (
	"context"

	"github.com/ecotrack/backend/src/domain"
	"github.com/ecotrack/backend/src/repository"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChallengeService handles challenge CRUD. Mostly a pass-through today, but
// it is the place for any business logic that grows around challenges.
type ChallengeService struct {
	challengeRepo repository.ChallengeRepository
}

func NewChallengeService(challengeRepo repository.ChallengeRepository) *ChallengeService {
	return &ChallengeService{challengeRepo: challengeRepo}
}

// logger wraps the execution context with component info
func (s *ChallengeService) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("component", "challenge-service").Logger()
	return &l
}

func (s *ChallengeService) GetAllChallenges(ctx context.Context) ([]domain.Challenge, error) {
	challenges, err := s.challengeRepo.FindAll(ctx)
	if err != nil {
		s.logger(ctx).Error().Err(err).Msg("failed to list challenges")
		return nil, err
	}
	s.logger(ctx).Debug().Int("count", len(challenges)).Msg("listed challenges")
	return challenges, nil
}

func (s *ChallengeService) GetChallengeByID(ctx context.Context, id string) (*domain.Challenge, error) {
	return s.challengeRepo.FindByID(ctx, id)
}

func (s *ChallengeService) CreateChallenge(ctx context.Context, fields map[string]interface{}) (primitive.ObjectID, error) {
	id, err := s.challengeRepo.Create(ctx, fields)
	if err != nil {
		return primitive.NilObjectID, err
	}
	s.logger(ctx).Info().Str("challenge_id", id.Hex()).Msg("challenge created")
	return id, nil
}

func (s *ChallengeService) UpdateChallenge(ctx context.Context, id string, fields map[string]interface{}) error {
	return s.challengeRepo.Update(ctx, id, fields)
}

func (s *ChallengeService) DeleteChallenge(ctx context.Context, id string) error {
	// No cascade: enrollments referencing the deleted challenge keep their
	// challengeId and show up with a null challenge in the merged listing.
	return s.challengeRepo.Delete(ctx, id)
}
