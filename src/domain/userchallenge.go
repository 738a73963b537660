package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChallengeStatus string

const (
	StatusNotStarted ChallengeStatus = "Not Started"
	StatusInProgress ChallengeStatus = "In Progress"
	StatusCompleted  ChallengeStatus = "Completed"
)

// UserChallenge links one user to one challenge. Exactly one document per
// (userId, challengeId) pair. ChallengeID is stored as the hex string the
// client sent; it is never validated against the challenges collection at
// join time, so it can dangle after a challenge delete.
type UserChallenge struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID      string             `bson:"userId" json:"userId"`
	ChallengeID string             `bson:"challengeId" json:"challengeId"`
	Status      ChallengeStatus    `bson:"status" json:"status"`
	Progress    int                `bson:"progress" json:"progress"`
	JoinDate    time.Time          `bson:"joinDate" json:"joinDate"`
}

// UserChallengeDetail pairs an enrollment with its challenge for the merged
// listing. Challenge is null when the reference dangles.
type UserChallengeDetail struct {
	UserChallenge
	Challenge *Challenge `json:"challenge"`
}
