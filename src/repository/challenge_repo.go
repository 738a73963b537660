package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ecotrack/backend/src/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const ChallengeCollection = "challenges"

// ChallengeRepository defines data access for challenge documents.
type ChallengeRepository interface {
	FindAll(ctx context.Context) ([]domain.Challenge, error)
	FindByID(ctx context.Context, id string) (*domain.Challenge, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Challenge, error)
	Create(ctx context.Context, fields map[string]interface{}) (primitive.ObjectID, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	IncParticipants(ctx context.Context, id primitive.ObjectID, delta int64) error
	SetParticipants(ctx context.Context, id primitive.ObjectID, count int64) error
}

type MongoChallengeRepository struct {
	coll *mongo.Collection
}

func NewMongoChallengeRepository(db *mongo.Database) *MongoChallengeRepository {
	return &MongoChallengeRepository{coll: db.Collection(ChallengeCollection)}
}

func (r *MongoChallengeRepository) FindAll(ctx context.Context) ([]domain.Challenge, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeStoreUnavailable, fmt.Errorf("find challenges: %w", err))
	}
	defer cursor.Close(ctx)

	challenges := []domain.Challenge{}
	if err := cursor.All(ctx, &challenges); err != nil {
		return nil, domain.NewError(domain.ErrorCodeStoreUnavailable, fmt.Errorf("decode challenges: %w", err))
	}
	return challenges, nil
}

func (r *MongoChallengeRepository) FindByID(ctx context.Context, id string) (*domain.Challenge, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeParameterInvalid, err,
			domain.WithMsg("Invalid challenge id"))
	}

	var challenge domain.Challenge
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&challenge); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NewError(domain.ErrorCodeResourceNotFound, err,
				domain.WithMsg("Challenge not found"))
		}
		return nil, domain.NewError(domain.ErrorCodeStoreUnavailable, fmt.Errorf("find challenge %s: %w", id, err))
	}
	return &challenge, nil
}

// FindByIDs returns the challenges whose _id is in ids, in a single query.
func (r *MongoChallengeRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Challenge, error) {
	if len(ids) == 0 {
		return []domain.Challenge{}, nil
	}

	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeStoreUnavailable, fmt.Errorf("find challenges by ids: %w", err))
	}
	defer cursor.Close(ctx)

	challenges := []domain.Challenge{}
	if err := cursor.All(ctx, &challenges); err != nil {
		return nil, domain.NewError(domain.ErrorCodeStoreUnavailable, fmt.Errorf("decode challenges: %w", err))
	}
	return challenges, nil
}

// Create inserts a new challenge document. createdBy is the only required
// field; participants defaults to 0 unless the caller supplied a numeric
// value. All other fields are stored as-is.
func (r *MongoChallengeRepository) Create(ctx context.Context, fields map[string]interface{}) (primitive.ObjectID, error) {
	createdBy, _ := fields["createdBy"].(string)
	if createdBy == "" {
		return primitive.NilObjectID, domain.NewError(domain.ErrorCodeValidation,
			errors.New("createdBy missing from challenge payload"),
			domain.WithMsg("createdBy is required"))
	}

	doc := make(bson.M, len(fields)+1)
	for k, v := range fields {
		doc[k] = v
	}
	delete(doc, "_id")
	if !isNumeric(doc["participants"]) {
		doc["participants"] = int64(0)
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, domain.NewError(domain.ErrorCodeStoreUnavailable, fmt.Errorf("insert challenge: %w", err))
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// Update merges fields into the document via $set. Fields not present in the
// payload are left untouched; _id is stripped because it is immutable.
func (r *MongoChallengeRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.NewError(domain.ErrorCodeParameterInvalid, err,
			domain.WithMsg("Invalid challenge id"))
	}

	update := make(bson.M, len(fields))
	for k, v := range fields {
		if k == "_id" {
			continue
		}
		update[k] = v
	}

	// Mongo rejects an empty $set; a body with nothing to merge still has to
	// report NotFound for unknown ids
	if len(update) == 0 {
		if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Err(); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return domain.NewError(domain.ErrorCodeResourceNotFound, err,
					domain.WithMsg("Challenge not found"))
			}
			return domain.NewError(domain.ErrorCodeStoreUnavailable, fmt.Errorf("find challenge %s: %w", id, err))
		}
		return nil
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": update})
	if err != nil {
		return domain.NewError(domain.ErrorCodeStoreUnavailable, fmt.Errorf("update challenge %s: %w", id, err))
	}
	if res.MatchedCount == 0 {
		return domain.NewError(domain.ErrorCodeResourceNotFound,
			fmt.Errorf("no challenge matched id %s", id),
			domain.WithMsg("Challenge not found"))
	}
	return nil
}

func (r *MongoChallengeRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.NewError(domain.ErrorCodeParameterInvalid, err,
			domain.WithMsg("Invalid challenge id"))
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return domain.NewError(domain.ErrorCodeStoreUnavailable, fmt.Errorf("delete challenge %s: %w", id, err))
	}
	if res.DeletedCount == 0 {
		return domain.NewError(domain.ErrorCodeResourceNotFound,
			fmt.Errorf("no challenge matched id %s", id),
			domain.WithMsg("Challenge not found"))
	}
	return nil
}

// IncParticipants atomically adds delta to the participants counter. The
// counter is not clamped at zero; the reconciler is the repair path for any
// drift.
func (r *MongoChallengeRepository) IncParticipants(ctx context.Context, id primitive.ObjectID, delta int64) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"participants": delta}})
	if err != nil {
		return domain.NewError(domain.ErrorCodeStoreUnavailable, fmt.Errorf("adjust participants on %s: %w", id.Hex(), err))
	}
	return nil
}

func (r *MongoChallengeRepository) SetParticipants(ctx context.Context, id primitive.ObjectID, count int64) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"participants": count}})
	if err != nil {
		return domain.NewError(domain.ErrorCodeStoreUnavailable, fmt.Errorf("set participants on %s: %w", id.Hex(), err))
	}
	return nil
}

func isNumeric(v interface{}) bool {
	switch v.(type) {
	case int, int32, int64, float32, float64:
		return true
	default:
		return false
	}
}
