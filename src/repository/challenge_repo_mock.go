package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ecotrack/backend/src/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockChallengeRepository is an in-memory implementation of
// ChallengeRepository for service and handler tests. It mirrors the Mongo
// implementation's error mapping so handler status codes can be asserted
// without a live store.
type MockChallengeRepository struct {
	mu         sync.RWMutex
	challenges map[primitive.ObjectID]domain.Challenge

	// FailInc, when set, is returned by IncParticipants to exercise the
	// counter drift path.
	FailInc error
}

func NewMockChallengeRepository() *MockChallengeRepository {
	return &MockChallengeRepository{
		challenges: make(map[primitive.ObjectID]domain.Challenge),
	}
}

func (r *MockChallengeRepository) FindAll(_ context.Context) ([]domain.Challenge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Challenge, 0, len(r.challenges))
	for _, c := range r.challenges {
		out = append(out, c)
	}
	return out, nil
}

func (r *MockChallengeRepository) FindByID(_ context.Context, id string) (*domain.Challenge, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeParameterInvalid, err,
			domain.WithMsg("Invalid challenge id"))
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	challenge, ok := r.challenges[oid]
	if !ok {
		return nil, domain.NewError(domain.ErrorCodeResourceNotFound,
			fmt.Errorf("no challenge matched id %s", id),
			domain.WithMsg("Challenge not found"))
	}
	return &challenge, nil
}

func (r *MockChallengeRepository) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.Challenge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Challenge, 0, len(ids))
	for _, id := range ids {
		if challenge, ok := r.challenges[id]; ok {
			out = append(out, challenge)
		}
	}
	return out, nil
}

func (r *MockChallengeRepository) Create(_ context.Context, fields map[string]interface{}) (primitive.ObjectID, error) {
	createdBy, _ := fields["createdBy"].(string)
	if createdBy == "" {
		return primitive.NilObjectID, domain.NewError(domain.ErrorCodeValidation,
			errors.New("createdBy missing from challenge payload"),
			domain.WithMsg("createdBy is required"))
	}

	challenge := domain.Challenge{
		ID:        primitive.NewObjectID(),
		CreatedBy: createdBy,
		Fields:    map[string]interface{}{},
	}
	if n, ok := toInt64(fields["participants"]); ok {
		challenge.Participants = n
	}
	for k, v := range fields {
		if k == "createdBy" || k == "participants" || k == "_id" {
			continue
		}
		challenge.Fields[k] = v
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.challenges[challenge.ID] = challenge
	return challenge.ID, nil
}

func (r *MockChallengeRepository) Update(_ context.Context, id string, fields map[string]interface{}) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.NewError(domain.ErrorCodeParameterInvalid, err,
			domain.WithMsg("Invalid challenge id"))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	challenge, ok := r.challenges[oid]
	if !ok {
		return domain.NewError(domain.ErrorCodeResourceNotFound,
			fmt.Errorf("no challenge matched id %s", id),
			domain.WithMsg("Challenge not found"))
	}

	for k, v := range fields {
		switch k {
		case "_id":
		case "createdBy":
			if s, ok := v.(string); ok {
				challenge.CreatedBy = s
			}
		case "participants":
			if n, ok := toInt64(v); ok {
				challenge.Participants = n
			}
		default:
			if challenge.Fields == nil {
				challenge.Fields = map[string]interface{}{}
			}
			challenge.Fields[k] = v
		}
	}
	r.challenges[oid] = challenge
	return nil
}

func (r *MockChallengeRepository) Delete(_ context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.NewError(domain.ErrorCodeParameterInvalid, err,
			domain.WithMsg("Invalid challenge id"))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.challenges[oid]; !ok {
		return domain.NewError(domain.ErrorCodeResourceNotFound,
			fmt.Errorf("no challenge matched id %s", id),
			domain.WithMsg("Challenge not found"))
	}
	delete(r.challenges, oid)
	return nil
}

func (r *MockChallengeRepository) IncParticipants(_ context.Context, id primitive.ObjectID, delta int64) error {
	if r.FailInc != nil {
		return r.FailInc
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Like $inc on a missing document, a miss is not an error
	if challenge, ok := r.challenges[id]; ok {
		challenge.Participants += delta
		r.challenges[id] = challenge
	}
	return nil
}

func (r *MockChallengeRepository) SetParticipants(_ context.Context, id primitive.ObjectID, count int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if challenge, ok := r.challenges[id]; ok {
		challenge.Participants = count
		r.challenges[id] = challenge
	}
	return nil
}

// toInt64 accepts the numeric types a JSON body or a test can supply.
func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
