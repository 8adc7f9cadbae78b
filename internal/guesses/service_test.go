package guesses

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lseverin/mapclash/backend/internal/models"
	"github.com/lseverin/mapclash/backend/internal/scoring"
)

// fakeGuessStore keeps guesses in memory and enforces the (user, post)
// uniqueness the real store gets from its index.
type fakeGuessStore struct {
	guesses []models.Guess
}

func (f *fakeGuessStore) Insert(_ context.Context, g *models.Guess) (*models.Guess, error) {
	for _, existing := range f.guesses {
		if existing.UserID == g.UserID && existing.PostID == g.PostID {
			return nil, models.ErrConflict
		}
	}
	g.ID = primitive.NewObjectID()
	f.guesses = append(f.guesses, *g)
	return g, nil
}

func (f *fakeGuessStore) FindByUserAndPost(_ context.Context, userID, postID string) (*models.Guess, error) {
	for _, g := range f.guesses {
		if g.UserID.Hex() == userID && g.PostID.Hex() == postID {
			return &g, nil
		}
	}
	return nil, models.ErrNotFound
}

type fakePostStore struct {
	posts map[string]*models.Post
}

func (f *fakePostStore) GetByID(_ context.Context, id string) (*models.Post, error) {
	if p, ok := f.posts[id]; ok {
		return p, nil
	}
	return nil, models.ErrNotFound
}

func newFixture(t *testing.T, allowSelfGuess bool) (*Service, *fakeGuessStore, *models.Post) {
	t.Helper()
	post := &models.Post{
		ID:          primitive.NewObjectID(),
		Latitude:    46.5191,
		Longitude:   6.5668,
		IsValidated: true,
		UserID:      primitive.NewObjectID(),
	}
	guessStore := &fakeGuessStore{}
	postStore := &fakePostStore{posts: map[string]*models.Post{post.ID.Hex(): post}}
	return NewService(guessStore, postStore, allowSelfGuess), guessStore, post
}

func req(userID, postID string, lat, lon float64) *models.GuessRequest {
	return &models.GuessRequest{UserID: userID, PostID: postID, GuessedLat: &lat, GuessedLon: &lon}
}

func TestSubmitMissingFields(t *testing.T) {
	svc, store, post := newFixture(t, false)
	userID := primitive.NewObjectID().Hex()

	cases := []*models.GuessRequest{
		{PostID: post.ID.Hex(), GuessedLat: new(float64), GuessedLon: new(float64)},
		{UserID: userID, GuessedLat: new(float64), GuessedLon: new(float64)},
		{UserID: userID, PostID: post.ID.Hex(), GuessedLon: new(float64)},
		{UserID: userID, PostID: post.ID.Hex(), GuessedLat: new(float64)},
	}
	for _, c := range cases {
		_, err := svc.Submit(context.Background(), c)
		assert.ErrorIs(t, err, models.ErrValidation)
	}
	assert.Empty(t, store.guesses, "no guess may be written on a failed check")
}

func TestSubmitUnknownPost(t *testing.T) {
	svc, _, _ := newFixture(t, false)
	_, err := svc.Submit(context.Background(),
		req(primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex(), 46.52, 6.57))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSubmitUnvalidatedPost(t *testing.T) {
	svc, store, post := newFixture(t, false)
	post.IsValidated = false

	_, err := svc.Submit(context.Background(),
		req(primitive.NewObjectID().Hex(), post.ID.Hex(), 46.52, 6.57))
	assert.ErrorIs(t, err, models.ErrPrecondition)
	assert.Empty(t, store.guesses)
}

func TestSubmitOwnPostForbidden(t *testing.T) {
	svc, _, post := newFixture(t, false)
	_, err := svc.Submit(context.Background(),
		req(post.UserID.Hex(), post.ID.Hex(), 46.52, 6.57))
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestSubmitOwnPostAllowedByPolicy(t *testing.T) {
	svc, _, post := newFixture(t, true)
	result, err := svc.Submit(context.Background(),
		req(post.UserID.Hex(), post.ID.Hex(), 46.52, 6.57))
	require.NoError(t, err)
	assert.NotNil(t, result.Guess)
}

func TestSubmitDuplicateConflicts(t *testing.T) {
	svc, store, post := newFixture(t, false)
	userID := primitive.NewObjectID().Hex()

	_, err := svc.Submit(context.Background(), req(userID, post.ID.Hex(), 46.52, 6.57))
	require.NoError(t, err)

	// A second attempt conflicts regardless of coordinates.
	_, err = svc.Submit(context.Background(), req(userID, post.ID.Hex(), 10, 10))
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Len(t, store.guesses, 1)
}

func TestSubmitScoresByDistance(t *testing.T) {
	svc, store, post := newFixture(t, false)

	result, err := svc.Submit(context.Background(),
		req(primitive.NewObjectID().Hex(), post.ID.Hex(), 46.52, 6.57))
	require.NoError(t, err)

	assert.InDelta(t, 264.5, result.Distance, 2)
	assert.InDelta(t, 974, result.Score, 1)
	require.Len(t, store.guesses, 1)
	assert.Equal(t, result.Score, store.guesses[0].Score)
	assert.Equal(t, post.ID, store.guesses[0].PostID)
}

func TestSubmitPerfectGuess(t *testing.T) {
	svc, _, post := newFixture(t, false)

	result, err := svc.Submit(context.Background(),
		req(primitive.NewObjectID().Hex(), post.ID.Hex(), post.Latitude, post.Longitude))
	require.NoError(t, err)
	assert.Equal(t, scoring.MaxScore, result.Score)
	assert.InDelta(t, 0, result.Distance, 1e-6)
}
