package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the repositories rely on. The unique
// compound index on (userId, challengeId) closes the duplicate-join race
// between the existence check and the insert.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(UserChallengeCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "challengeId", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("uniq_user_challenge"),
	})
	if err != nil {
		return fmt.Errorf("create userChallenges index: %w", err)
	}
	return nil
}
