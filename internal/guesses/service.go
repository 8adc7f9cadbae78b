// Package guesses implements the guess lifecycle: one scored localization
// attempt per user per post.
package guesses

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lseverin/mapclash/backend/internal/models"
	"github.com/lseverin/mapclash/backend/internal/scoring"
)

// PostGetter resolves the guessed post.
type PostGetter interface {
	GetByID(ctx context.Context, id string) (*models.Post, error)
}

// GuessStore defines the guess persistence used by the service.
type GuessStore interface {
	Insert(ctx context.Context, g *models.Guess) (*models.Guess, error)
	FindByUserAndPost(ctx context.Context, userID, postID string) (*models.Guess, error)
}

// Service enforces the submission rules before a guess is persisted.
type Service struct {
	guesses        GuessStore
	posts          PostGetter
	allowSelfGuess bool
}

func NewService(guesses GuessStore, posts PostGetter, allowSelfGuess bool) *Service {
	return &Service{guesses: guesses, posts: posts, allowSelfGuess: allowSelfGuess}
}

// Submit runs the full check chain and persists exactly one guess on
// success. The duplicate pre-check gives a friendly 409; the storage-level
// unique index on (user, post) closes the check-then-insert race, so a
// concurrent duplicate insert also comes back as ErrConflict.
func (s *Service) Submit(ctx context.Context, req *models.GuessRequest) (*models.GuessResult, error) {
	if req.UserID == "" || req.PostID == "" || req.GuessedLat == nil || req.GuessedLon == nil {
		return nil, fmt.Errorf("%w: userId, postId, guessedLat and guessedLon are required", models.ErrValidation)
	}
	userOID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", models.ErrValidation)
	}

	post, err := s.posts.GetByID(ctx, req.PostID)
	if err != nil {
		return nil, err
	}
	if !post.IsValidated {
		return nil, fmt.Errorf("%w: post is not validated", models.ErrPrecondition)
	}
	if !s.allowSelfGuess && post.UserID == userOID {
		return nil, fmt.Errorf("%w: cannot guess your own post", models.ErrForbidden)
	}

	if _, err := s.guesses.FindByUserAndPost(ctx, req.UserID, req.PostID); err == nil {
		return nil, fmt.Errorf("%w: already guessed this post", models.ErrConflict)
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	distance, score, err := scoring.Score(post.Latitude, post.Longitude, *req.GuessedLat, *req.GuessedLon)
	if err != nil {
		return nil, err
	}

	guess, err := s.guesses.Insert(ctx, &models.Guess{
		Score:  score,
		UserID: userOID,
		PostID: post.ID,
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, fmt.Errorf("%w: already guessed this post", models.ErrConflict)
		}
		return nil, err
	}

	return &models.GuessResult{Guess: guess, Distance: distance, Score: score}, nil
}
