package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ecotrack/backend/src/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockUserChallengeRepository is an in-memory implementation of
// UserChallengeRepository. Create enforces the (userId, challengeId)
// uniqueness the Mongo index provides.
type MockUserChallengeRepository struct {
	mu          sync.RWMutex
	enrollments []domain.UserChallenge
}

func NewMockUserChallengeRepository() *MockUserChallengeRepository {
	return &MockUserChallengeRepository{}
}

func (r *MockUserChallengeRepository) FindByUser(_ context.Context, userID string) ([]domain.UserChallenge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.UserChallenge{}
	for _, e := range r.enrollments {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *MockUserChallengeRepository) FindByID(_ context.Context, id string) (*domain.UserChallenge, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeParameterInvalid, err,
			domain.WithMsg("Invalid user challenge id"))
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.enrollments {
		if e.ID == oid {
			enrollment := e
			return &enrollment, nil
		}
	}
	return nil, domain.NewError(domain.ErrorCodeResourceNotFound,
		fmt.Errorf("no enrollment matched id %s", id),
		domain.WithMsg("User challenge not found"))
}

func (r *MockUserChallengeRepository) Exists(_ context.Context, userID, challengeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.enrollments {
		if e.UserID == userID && e.ChallengeID == challengeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MockUserChallengeRepository) Create(_ context.Context, userID, challengeID string) (*domain.UserChallenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.enrollments {
		if e.UserID == userID && e.ChallengeID == challengeID {
			return nil, domain.NewError(domain.ErrorCodeResourceConflict,
				fmt.Errorf("user %s already joined challenge %s", userID, challengeID),
				domain.WithMsg("User already joined this challenge"))
		}
	}

	enrollment := domain.UserChallenge{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		ChallengeID: challengeID,
		Status:      domain.StatusNotStarted,
		Progress:    0,
		JoinDate:    time.Now().UTC(),
	}
	r.enrollments = append(r.enrollments, enrollment)
	return &enrollment, nil
}

func (r *MockUserChallengeRepository) Delete(_ context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.NewError(domain.ErrorCodeParameterInvalid, err,
			domain.WithMsg("Invalid user challenge id"))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.enrollments {
		if e.ID == oid {
			r.enrollments = append(r.enrollments[:i], r.enrollments[i+1:]...)
			return nil
		}
	}
	return domain.NewError(domain.ErrorCodeResourceNotFound,
		fmt.Errorf("no enrollment matched id %s", id),
		domain.WithMsg("User challenge not found"))
}

func (r *MockUserChallengeRepository) CountByChallenge(_ context.Context) (map[string]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int64)
	for _, e := range r.enrollments {
		counts[e.ChallengeID]++
	}
	return counts, nil
}
