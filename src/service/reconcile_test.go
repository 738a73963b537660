package service

import (
	"context"
	"testing"
	"time"

	"github.com/ecotrack/backend/src/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileService_RepairsDriftedCounters(t *testing.T) {
	challengeRepo := repository.NewMockChallengeRepository()
	userChallengeRepo := repository.NewMockUserChallengeRepository()
	svc := NewReconcileService(challengeRepo, userChallengeRepo, time.Minute)
	ctx := context.Background()

	drifted := mustCreateChallenge(t, challengeRepo, "u1")
	healthy := mustCreateChallenge(t, challengeRepo, "u1")

	// Two members each, but the first counter was never incremented and the
	// second is already right
	for _, user := range []string{"u2", "u3"} {
		_, err := userChallengeRepo.Create(ctx, user, drifted.Hex())
		require.NoError(t, err)
		_, err = userChallengeRepo.Create(ctx, user, healthy.Hex())
		require.NoError(t, err)
	}
	require.NoError(t, challengeRepo.SetParticipants(ctx, healthy, 2))

	report, err := svc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Checked)
	assert.Equal(t, 1, report.Repaired)

	challenge, err := challengeRepo.FindByID(ctx, drifted.Hex())
	require.NoError(t, err)
	assert.Equal(t, int64(2), challenge.Participants)
}

func TestReconcileService_ZeroesCounterWithoutMembers(t *testing.T) {
	challengeRepo := repository.NewMockChallengeRepository()
	userChallengeRepo := repository.NewMockUserChallengeRepository()
	svc := NewReconcileService(challengeRepo, userChallengeRepo, time.Minute)
	ctx := context.Background()

	id := mustCreateChallenge(t, challengeRepo, "u1")
	require.NoError(t, challengeRepo.SetParticipants(ctx, id, -3))

	report, err := svc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Repaired)

	challenge, err := challengeRepo.FindByID(ctx, id.Hex())
	require.NoError(t, err)
	assert.Equal(t, int64(0), challenge.Participants)
}
