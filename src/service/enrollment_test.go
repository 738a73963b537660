package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ecotrack/backend/src/domain"
	"github.com/ecotrack/backend/src/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newEnrollmentFixture() (*EnrollmentService, *repository.MockChallengeRepository, *repository.MockUserChallengeRepository) {
	challengeRepo := repository.NewMockChallengeRepository()
	userChallengeRepo := repository.NewMockUserChallengeRepository()
	return NewEnrollmentService(userChallengeRepo, challengeRepo), challengeRepo, userChallengeRepo
}

func mustCreateChallenge(t *testing.T, repo *repository.MockChallengeRepository, createdBy string) primitive.ObjectID {
	t.Helper()
	id, err := repo.Create(context.Background(), map[string]interface{}{"createdBy": createdBy})
	require.NoError(t, err)
	return id
}

func TestEnrollmentService_Join(t *testing.T) {
	svc, challengeRepo, userChallengeRepo := newEnrollmentFixture()
	ctx := context.Background()

	challengeID := mustCreateChallenge(t, challengeRepo, "u1")

	enrollment, err := svc.Join(ctx, "u2", challengeID.Hex())
	require.NoError(t, err)

	assert.Equal(t, "u2", enrollment.UserID)
	assert.Equal(t, challengeID.Hex(), enrollment.ChallengeID)
	assert.Equal(t, domain.StatusNotStarted, enrollment.Status)
	assert.Equal(t, 0, enrollment.Progress)

	exists, err := userChallengeRepo.Exists(ctx, "u2", challengeID.Hex())
	require.NoError(t, err)
	assert.True(t, exists)

	challenge, err := challengeRepo.FindByID(ctx, challengeID.Hex())
	require.NoError(t, err)
	assert.Equal(t, int64(1), challenge.Participants)
}

func TestEnrollmentService_JoinTwiceConflicts(t *testing.T) {
	svc, challengeRepo, _ := newEnrollmentFixture()
	ctx := context.Background()

	challengeID := mustCreateChallenge(t, challengeRepo, "u1")

	_, err := svc.Join(ctx, "u2", challengeID.Hex())
	require.NoError(t, err)

	_, err = svc.Join(ctx, "u2", challengeID.Hex())
	var domainErr domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrorCodeResourceConflict, domainErr.Code())

	// The rejected join changes nothing
	challenge, err := challengeRepo.FindByID(ctx, challengeID.Hex())
	require.NoError(t, err)
	assert.Equal(t, int64(1), challenge.Participants)
}

func TestEnrollmentService_JoinSurfacesCounterFailure(t *testing.T) {
	svc, challengeRepo, userChallengeRepo := newEnrollmentFixture()
	ctx := context.Background()

	challengeID := mustCreateChallenge(t, challengeRepo, "u1")
	challengeRepo.FailInc = errors.New("store went away")

	_, err := svc.Join(ctx, "u2", challengeID.Hex())
	require.Error(t, err)

	// The membership record stays: it is the source of truth and the
	// reconciler repairs the counter later
	exists, existsErr := userChallengeRepo.Exists(ctx, "u2", challengeID.Hex())
	require.NoError(t, existsErr)
	assert.True(t, exists)

	challenge, findErr := challengeRepo.FindByID(ctx, challengeID.Hex())
	require.NoError(t, findErr)
	assert.Equal(t, int64(0), challenge.Participants)
}

func TestEnrollmentService_Leave(t *testing.T) {
	svc, challengeRepo, userChallengeRepo := newEnrollmentFixture()
	ctx := context.Background()

	challengeID := mustCreateChallenge(t, challengeRepo, "u1")

	enrollment, err := svc.Join(ctx, "u2", challengeID.Hex())
	require.NoError(t, err)

	require.NoError(t, svc.Leave(ctx, enrollment.ID.Hex()))

	exists, err := userChallengeRepo.Exists(ctx, "u2", challengeID.Hex())
	require.NoError(t, err)
	assert.False(t, exists)

	challenge, err := challengeRepo.FindByID(ctx, challengeID.Hex())
	require.NoError(t, err)
	assert.Equal(t, int64(0), challenge.Participants)
}

func TestEnrollmentService_LeaveUnknownEnrollment(t *testing.T) {
	svc, _, _ := newEnrollmentFixture()

	err := svc.Leave(context.Background(), primitive.NewObjectID().Hex())
	var domainErr domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrorCodeResourceNotFound, domainErr.Code())
}

func TestEnrollmentService_ListMerged(t *testing.T) {
	svc, challengeRepo, userChallengeRepo := newEnrollmentFixture()
	ctx := context.Background()

	liveID := mustCreateChallenge(t, challengeRepo, "u1")

	// One live reference, one dangling, one malformed
	_, err := svc.Join(ctx, "u2", liveID.Hex())
	require.NoError(t, err)
	_, err = userChallengeRepo.Create(ctx, "u2", primitive.NewObjectID().Hex())
	require.NoError(t, err)
	_, err = userChallengeRepo.Create(ctx, "u2", "not-an-object-id")
	require.NoError(t, err)

	details, err := svc.ListMerged(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, details, 3)

	byChallengeID := make(map[string]domain.UserChallengeDetail, len(details))
	for _, d := range details {
		byChallengeID[d.ChallengeID] = d
	}

	live := byChallengeID[liveID.Hex()]
	require.NotNil(t, live.Challenge)
	assert.Equal(t, liveID, live.Challenge.ID)

	for challengeID, d := range byChallengeID {
		if challengeID == liveID.Hex() {
			continue
		}
		assert.Nil(t, d.Challenge, "dangling or malformed references merge as null")
	}
}

func TestEnrollmentService_ListMergedEmpty(t *testing.T) {
	svc, _, _ := newEnrollmentFixture()

	details, err := svc.ListMerged(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, details)
}
