package teams

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lseverin/mapclash/backend/internal/models"
)

type fakeTeamStore struct {
	teams []models.Team
}

func (f *fakeTeamStore) Insert(_ context.Context, t *models.Team) (*models.Team, error) {
	t.ID = primitive.NewObjectID()
	f.teams = append(f.teams, *t)
	return t, nil
}

func (f *fakeTeamStore) List(_ context.Context) ([]models.Team, error) {
	return f.teams, nil
}

func (f *fakeTeamStore) GetByID(_ context.Context, id string) (*models.Team, error) {
	for _, t := range f.teams {
		if t.ID.Hex() == id {
			return &t, nil
		}
	}
	return nil, models.ErrNotFound
}

type fakeTotals struct {
	totals []models.TeamPoints
}

func (f *fakeTotals) TeamTotals(context.Context) ([]models.TeamPoints, error) {
	return f.totals, nil
}

func newTeamRouter(store *fakeTeamStore, totals *fakeTotals) *chi.Mux {
	handler := NewHandler(store, totals)
	r := chi.NewRouter()
	r.Get("/teams", handler.List)
	r.Get("/teams/leaderboard", handler.Leaderboard)
	r.Get("/teams/possession", handler.Possession)
	r.Get("/teams/{id}", handler.Get)
	return r
}

func getJSON(t *testing.T, r http.Handler, path string, out any) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if out != nil && w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w.Code
}

func TestLeaderboardZeroFillsAndSorts(t *testing.T) {
	red := models.Team{ID: primitive.NewObjectID(), Name: "red"}
	blue := models.Team{ID: primitive.NewObjectID(), Name: "blue"}
	green := models.Team{ID: primitive.NewObjectID(), Name: "green"}

	store := &fakeTeamStore{teams: []models.Team{red, blue, green}}
	totals := &fakeTotals{totals: []models.TeamPoints{
		{TeamID: blue.ID, Name: "blue", TotalPoints: 900},
		{TeamID: red.ID, Name: "red", TotalPoints: 300},
	}}
	router := newTeamRouter(store, totals)

	var board []models.TeamPoints
	code := getJSON(t, router, "/teams/leaderboard", &board)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, board, 3)

	assert.Equal(t, blue.ID, board[0].TeamID)
	assert.Equal(t, 900, board[0].TotalPoints)
	assert.Equal(t, red.ID, board[1].TeamID)
	assert.Equal(t, 300, board[1].TotalPoints)
	assert.Equal(t, green.ID, board[2].TeamID)
	assert.Equal(t, 0, board[2].TotalPoints, "teams without guesses still appear")
}

func TestPossessionEndpointSplitsTopTwo(t *testing.T) {
	totals := &fakeTotals{totals: []models.TeamPoints{
		{TeamID: primitive.NewObjectID(), Name: "blue", TotalPoints: 750},
		{TeamID: primitive.NewObjectID(), Name: "red", TotalPoints: 250},
		{TeamID: primitive.NewObjectID(), Name: "green", TotalPoints: 100},
	}}
	router := newTeamRouter(&fakeTeamStore{}, totals)

	var possession models.Possession
	code := getJSON(t, router, "/teams/possession", &possession)
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, "blue", possession.TeamA.Name)
	assert.Equal(t, "red", possession.TeamB.Name)
	assert.Equal(t, 75, possession.PercentA)
	assert.Equal(t, 25, possession.PercentB)
	assert.Equal(t, 1000, possession.TotalPoints, "third team stays out of the split")
}

func TestPossessionEndpointNoGuesses(t *testing.T) {
	router := newTeamRouter(&fakeTeamStore{}, &fakeTotals{})

	var possession models.Possession
	code := getJSON(t, router, "/teams/possession", &possession)
	require.Equal(t, http.StatusOK, code)

	assert.Nil(t, possession.TeamA)
	assert.Nil(t, possession.TeamB)
	assert.Equal(t, 50, possession.PercentA)
	assert.Equal(t, 50, possession.PercentB)
	assert.Equal(t, 0, possession.TotalPoints)
}
