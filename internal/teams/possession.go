// Package teams exposes the team routes and the possession view: the
// two-faction split of aggregated guess scores.
package teams

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"

	"github.com/redis/go-redis/v9"

	"github.com/lseverin/mapclash/backend/internal/models"
)

// PossessionChannel is the Redis pub/sub channel carrying possession
// updates; a WS gateway or any other subscriber can relay them.
const PossessionChannel = "possession"

// TotalsSource supplies per-team score totals, sorted descending.
type TotalsSource interface {
	TeamTotals(ctx context.Context) ([]models.TeamPoints, error)
}

// BuildPossession ranks the top two teams and derives the percentage
// split. With no points on either side the split is 50/50 by convention.
// Teams ranked third or lower are excluded from TotalPoints: the game is
// framed as a two-faction contest.
func BuildPossession(totals []models.TeamPoints) *models.Possession {
	var teamA, teamB *models.TeamPoints
	if len(totals) > 0 {
		teamA = &totals[0]
	}
	if len(totals) > 1 {
		teamB = &totals[1]
	}

	pointsA, pointsB := 0, 0
	if teamA != nil {
		pointsA = teamA.TotalPoints
	}
	if teamB != nil {
		pointsB = teamB.TotalPoints
	}

	total := pointsA + pointsB
	percentA := 50
	if total != 0 {
		percentA = int(math.Round(float64(pointsA) / float64(total) * 100))
	}

	return &models.Possession{
		TeamA:       teamA,
		TeamB:       teamB,
		PercentA:    percentA,
		PercentB:    100 - percentA,
		TotalPoints: total,
	}
}

// possessionEvent is the message published on PossessionChannel.
type possessionEvent struct {
	Type    string             `json:"type"`
	Payload *models.Possession `json:"payload"`
}

// Publisher recomputes possession from source data and pushes it to
// subscribers. The view itself holds no persistent derived state.
type Publisher struct {
	totals TotalsSource
	rdb    *redis.Client
}

func NewPublisher(totals TotalsSource, rdb *redis.Client) *Publisher {
	return &Publisher{totals: totals, rdb: rdb}
}

// Compute returns the current possession view.
func (p *Publisher) Compute(ctx context.Context) (*models.Possession, error) {
	totals, err := p.totals.TeamTotals(ctx)
	if err != nil {
		return nil, err
	}
	return BuildPossession(totals), nil
}

// PublishPossession pushes the refreshed view to the channel. Failures are
// logged, never surfaced: the triggering request already succeeded.
func (p *Publisher) PublishPossession(ctx context.Context) {
	possession, err := p.Compute(ctx)
	if err != nil {
		slog.Warn("possession compute failed", "err", err)
		return
	}
	payload, err := json.Marshal(possessionEvent{Type: "possession:update", Payload: possession})
	if err != nil {
		slog.Warn("possession marshal failed", "err", err)
		return
	}
	if err := p.rdb.Publish(ctx, PossessionChannel, payload).Err(); err != nil {
		slog.Warn("possession publish failed", "err", err)
	}
}
