package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Guess is one user's scored attempt to localize one post. At most one
// guess exists per (user, post) pair; the guesses collection carries a
// compound unique index enforcing that.
type Guess struct {
	ID        primitive.ObjectID `json:"id"         bson:"_id,omitempty"`
	Score     int                `json:"score"      bson:"score"`
	UserID    primitive.ObjectID `json:"user"       bson:"user"`
	PostID    primitive.ObjectID `json:"post"       bson:"post"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// GuessRequest is the JSON body for POST /api/v1/guesses. Coordinates are
// pointers so a missing field is distinguishable from 0.
type GuessRequest struct {
	UserID     string   `json:"userId"`
	PostID     string   `json:"postId"`
	GuessedLat *float64 `json:"guessedLat"`
	GuessedLon *float64 `json:"guessedLon"`
}

// GuessResult is the response to a successful submission. Distance is
// returned for client feedback but never persisted.
type GuessResult struct {
	Guess    *Guess  `json:"guess"`
	Distance float64 `json:"distance"`
	Score    int     `json:"score"`
}

// UserScore is the aggregate score view for one user.
type UserScore struct {
	UserID     string `json:"userId"`
	TotalScore int    `json:"totalScore"`
}
