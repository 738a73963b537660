package service

import (
	"context"
	"fmt"

	"github.com/ecotrack/backend/src/domain"
	"github.com/ecotrack/backend/src/repository"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EnrollmentService orchestrates the join/leave workflows spanning the
// userChallenges and challenges collections.
//
// The enrollment document is the source of truth; the participants counter on
// the challenge is derived. Join and leave are intentionally two-step and
// non-transactional: when the counter adjust fails after the membership write
// succeeded, the counter drifts until the reconciler repairs it.
type EnrollmentService struct {
	userChallengeRepo repository.UserChallengeRepository
	challengeRepo     repository.ChallengeRepository
}

func NewEnrollmentService(userChallengeRepo repository.UserChallengeRepository, challengeRepo repository.ChallengeRepository) *EnrollmentService {
	return &EnrollmentService{
		userChallengeRepo: userChallengeRepo,
		challengeRepo:     challengeRepo,
	}
}

func (s *EnrollmentService) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("component", "enrollment-service").Logger()
	return &l
}

// Join enrolls a user into a challenge and bumps the participants counter.
func (s *EnrollmentService) Join(ctx context.Context, userID, challengeID string) (*domain.UserChallenge, error) {
	exists, err := s.userChallengeRepo.Exists(ctx, userID, challengeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.NewError(domain.ErrorCodeResourceConflict,
			fmt.Errorf("user %s already joined challenge %s", userID, challengeID),
			domain.WithMsg("User already joined this challenge"))
	}

	enrollment, err := s.userChallengeRepo.Create(ctx, userID, challengeID)
	if err != nil {
		return nil, err
	}

	if oid, parseErr := primitive.ObjectIDFromHex(challengeID); parseErr == nil {
		if incErr := s.challengeRepo.IncParticipants(ctx, oid, 1); incErr != nil {
			// The enrollment exists but the counter under-counts it until the
			// next reconcile pass.
			s.logger(ctx).Error().Err(incErr).
				Str("challenge_id", challengeID).
				Str("enrollment_id", enrollment.ID.Hex()).
				Msg("enrollment created but participants increment failed")
			return nil, incErr
		}
	}

	s.logger(ctx).Info().
		Str("user_id", userID).
		Str("challenge_id", challengeID).
		Str("enrollment_id", enrollment.ID.Hex()).
		Msg("user joined challenge")
	return enrollment, nil
}

// Leave removes an enrollment and decrements the participants counter.
func (s *EnrollmentService) Leave(ctx context.Context, enrollmentID string) error {
	enrollment, err := s.userChallengeRepo.FindByID(ctx, enrollmentID)
	if err != nil {
		return err
	}

	if err := s.userChallengeRepo.Delete(ctx, enrollmentID); err != nil {
		return err
	}

	if oid, parseErr := primitive.ObjectIDFromHex(enrollment.ChallengeID); parseErr == nil {
		if incErr := s.challengeRepo.IncParticipants(ctx, oid, -1); incErr != nil {
			// Mirrored drift window: the enrollment is gone but the counter
			// still over-counts it.
			s.logger(ctx).Error().Err(incErr).
				Str("challenge_id", enrollment.ChallengeID).
				Str("enrollment_id", enrollmentID).
				Msg("enrollment deleted but participants decrement failed")
			return incErr
		}
	}

	s.logger(ctx).Info().
		Str("user_id", enrollment.UserID).
		Str("challenge_id", enrollment.ChallengeID).
		Msg("user left challenge")
	return nil
}

// ListMerged returns all of a user's enrollments, each paired with its
// challenge. Challenges are fetched in one batched query. A missing or
// unparseable challengeId yields a null challenge, never a listing error.
func (s *EnrollmentService) ListMerged(ctx context.Context, userID string) ([]domain.UserChallengeDetail, error) {
	enrollments, err := s.userChallengeRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(enrollments))
	for _, enrollment := range enrollments {
		if oid, parseErr := primitive.ObjectIDFromHex(enrollment.ChallengeID); parseErr == nil {
			ids = append(ids, oid)
		}
	}

	challenges, err := s.challengeRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Challenge, len(challenges))
	for _, challenge := range challenges {
		byID[challenge.ID.Hex()] = challenge
	}

	details := make([]domain.UserChallengeDetail, 0, len(enrollments))
	for _, enrollment := range enrollments {
		detail := domain.UserChallengeDetail{UserChallenge: enrollment}
		if challenge, ok := byID[enrollment.ChallengeID]; ok {
			c := challenge
			detail.Challenge = &c
		}
		details = append(details, detail)
	}
	return details, nil
}
