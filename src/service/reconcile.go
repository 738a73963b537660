package service

import (
	"context"
	"time"

	"github.com/ecotrack/backend/src/repository"
	"github.com/rs/zerolog"
)

// ReconcileService repairs participants counters that drifted away from the
// actual enrollment counts. Join/leave are two-step and non-transactional, so
// a crash or store error between the membership write and the counter adjust
// leaves the counter wrong until a pass runs.
type ReconcileService struct {
	challengeRepo     repository.ChallengeRepository
	userChallengeRepo repository.UserChallengeRepository
	interval          time.Duration
}

// ReconcileReport summarizes one reconciliation pass.
type ReconcileReport struct {
	Checked  int `json:"checked"`
	Repaired int `json:"repaired"`
}

func NewReconcileService(challengeRepo repository.ChallengeRepository, userChallengeRepo repository.UserChallengeRepository, interval time.Duration) *ReconcileService {
	return &ReconcileService{
		challengeRepo:     challengeRepo,
		userChallengeRepo: userChallengeRepo,
		interval:          interval,
	}
}

func (s *ReconcileService) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("component", "reconcile-service").Logger()
	return &l
}

// Run recounts enrollments per challenge and rewrites only the counters that
// differ from the recount.
func (s *ReconcileService) Run(ctx context.Context) (*ReconcileReport, error) {
	counts, err := s.userChallengeRepo.CountByChallenge(ctx)
	if err != nil {
		return nil, err
	}

	challenges, err := s.challengeRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	report := &ReconcileReport{}
	for _, challenge := range challenges {
		report.Checked++
		want := counts[challenge.ID.Hex()]
		if challenge.Participants == want {
			continue
		}
		if err := s.challengeRepo.SetParticipants(ctx, challenge.ID, want); err != nil {
			return report, err
		}
		report.Repaired++
		s.logger(ctx).Warn().
			Str("challenge_id", challenge.ID.Hex()).
			Int64("stored", challenge.Participants).
			Int64("actual", want).
			Msg("repaired drifted participants counter")
	}

	s.logger(ctx).Info().
		Int("checked", report.Checked).
		Int("repaired", report.Repaired).
		Msg("reconcile pass complete")
	return report, nil
}

// Start runs periodic passes until the context is cancelled.
func (s *ReconcileService) Start(ctx context.Context) error {
	s.logger(ctx).Info().
		Dur("interval", s.interval).
		Msg("starting reconcile worker")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger(ctx).Info().Msg("reconcile worker stopped")
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.Run(ctx); err != nil {
				s.logger(ctx).Error().Err(err).Msg("reconcile pass failed")
			}
		}
	}
}
