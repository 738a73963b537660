package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ecotrack/backend/src/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const UserChallengeCollection = "userChallenges"

// UserChallengeRepository defines data access for enrollment documents.
type UserChallengeRepository interface {
	FindByUser(ctx context.Context, userID string) ([]domain.UserChallenge, error)
	FindByID(ctx context.Context, id string) (*domain.UserChallenge, error)
	Exists(ctx context.Context, userID, challengeID string) (bool, error)
	Create(ctx context.Context, userID, challengeID string) (*domain.UserChallenge, error)
	Delete(ctx context.Context, id string) error
	CountByChallenge(ctx context.Context) (map[string]int64, error)
}

type MongoUserChallengeRepository struct {
	coll *mongo.Collection
}

func NewMongoUserChallengeRepository(db *mongo.Database) *MongoUserChallengeRepository {
	return &MongoUserChallengeRepository{coll: db.Collection(UserChallengeCollection)}
}

func (r *MongoUserChallengeRepository) FindByUser(ctx context.Context, userID string) ([]domain.UserChallenge, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeStoreUnavailable, fmt.Errorf("find enrollments for user %s: %w", userID, err))
	}
	defer cursor.Close(ctx)

	enrollments := []domain.UserChallenge{}
	if err := cursor.All(ctx, &enrollments); err != nil {
		return nil, domain.NewError(domain.ErrorCodeStoreUnavailable, fmt.Errorf("decode enrollments: %w", err))
	}
	return enrollments, nil
}

func (r *MongoUserChallengeRepository) FindByID(ctx context.Context, id string) (*domain.UserChallenge, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeParameterInvalid, err,
			domain.WithMsg("Invalid user challenge id"))
	}

	var enrollment domain.UserChallenge
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&enrollment); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NewError(domain.ErrorCodeResourceNotFound, err,
				domain.WithMsg("User challenge not found"))
		}
		return nil, domain.NewError(domain.ErrorCodeStoreUnavailable, fmt.Errorf("find enrollment %s: %w", id, err))
	}
	return &enrollment, nil
}

func (r *MongoUserChallengeRepository) Exists(ctx context.Context, userID, challengeID string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"userId": userID, "challengeId": challengeID})
	if err != nil {
		return false, domain.NewError(domain.ErrorCodeStoreUnavailable, fmt.Errorf("count enrollments: %w", err))
	}
	return count > 0, nil
}

// Create inserts a fresh enrollment with the initial status and zero
// progress. The unique (userId, challengeId) index turns a racing duplicate
// insert into a conflict error.
func (r *MongoUserChallengeRepository) Create(ctx context.Context, userID, challengeID string) (*domain.UserChallenge, error) {
	enrollment := domain.UserChallenge{
		UserID:      userID,
		ChallengeID: challengeID,
		Status:      domain.StatusNotStarted,
		Progress:    0,
		JoinDate:    time.Now().UTC(),
	}

	res, err := r.coll.InsertOne(ctx, enrollment)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.NewError(domain.ErrorCodeResourceConflict, err,
				domain.WithMsg("User already joined this challenge"))
		}
		return nil, domain.NewError(domain.ErrorCodeStoreUnavailable, fmt.Errorf("insert enrollment: %w", err))
	}

	enrollment.ID = res.InsertedID.(primitive.ObjectID)
	return &enrollment, nil
}

func (r *MongoUserChallengeRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.NewError(domain.ErrorCodeParameterInvalid, err,
			domain.WithMsg("Invalid user challenge id"))
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return domain.NewError(domain.ErrorCodeStoreUnavailable, fmt.Errorf("delete enrollment %s: %w", id, err))
	}
	if res.DeletedCount == 0 {
		return domain.NewError(domain.ErrorCodeResourceNotFound,
			fmt.Errorf("no enrollment matched id %s", id),
			domain.WithMsg("User challenge not found"))
	}
	return nil
}

// CountByChallenge groups all enrollments by challengeId and returns the
// actual membership count per challenge. Used by the reconciler to repair
// drifted participants counters.
func (r *MongoUserChallengeRepository) CountByChallenge(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$challengeId",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeStoreUnavailable, fmt.Errorf("aggregate enrollment counts: %w", err))
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ChallengeID string `bson:"_id"`
		Count       int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, domain.NewError(domain.ErrorCodeStoreUnavailable, fmt.Errorf("decode enrollment counts: %w", err))
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ChallengeID] = row.Count
	}
	return counts, nil
}
