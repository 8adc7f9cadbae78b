package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Team is a named faction. Scores are always derived from guesses, never
// stored on the team document.
type Team struct {
	ID        primitive.ObjectID `json:"id"         bson:"_id,omitempty"`
	Name      string             `json:"name"       bson:"name"`
	Color     string             `json:"color,omitempty" bson:"color,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// CreateTeamRequest is the JSON body for POST /api/v1/teams.
type CreateTeamRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// TeamPoints is one row of the per-team score aggregation.
type TeamPoints struct {
	TeamID      primitive.ObjectID `json:"teamId"      bson:"team_id"`
	Name        string             `json:"name"        bson:"name"`
	Color       string             `json:"color"       bson:"color"`
	TotalPoints int                `json:"totalPoints" bson:"total_points"`
}

// Possession is the two-faction score split derived from guess scores.
// TotalPoints counts only the top two teams.
type Possession struct {
	TeamA       *TeamPoints `json:"teamA"`
	TeamB       *TeamPoints `json:"teamB"`
	PercentA    int         `json:"percentA"`
	PercentB    int         `json:"percentB"`
	TotalPoints int         `json:"totalPoints"`
}
