package teams

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lseverin/mapclash/backend/internal/models"
	"github.com/lseverin/mapclash/backend/internal/web"
)

// TeamStore defines the team persistence used by the handlers.
type TeamStore interface {
	Insert(ctx context.Context, t *models.Team) (*models.Team, error)
	List(ctx context.Context) ([]models.Team, error)
	GetByID(ctx context.Context, id string) (*models.Team, error)
}

// Handler holds the team HTTP handlers.
type Handler struct {
	teams  TeamStore
	totals TotalsSource
}

func NewHandler(teams TeamStore, totals TotalsSource) *Handler {
	return &Handler{teams: teams, totals: totals}
}

// List returns all teams.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teams.List(r.Context())
	if err != nil {
		web.Error(w, err)
		return
	}
	if teams == nil {
		teams = []models.Team{}
	}
	web.JSON(w, http.StatusOK, teams)
}

// Get returns one team by id.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	team, err := h.teams.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, team)
}

// Create adds a team (admin only).
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		web.Error(w, fmt.Errorf("%w: team name is required", models.ErrValidation))
		return
	}

	team, err := h.teams.Insert(r.Context(), &models.Team{Name: req.Name, Color: req.Color})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			web.JSON(w, http.StatusConflict, map[string]string{"error": "team name already taken"})
			return
		}
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusCreated, team)
}

// Leaderboard returns every team with its aggregate score, sorted
// descending. Teams without any guess appear with zero points.
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teams.List(r.Context())
	if err != nil {
		web.Error(w, err)
		return
	}
	totals, err := h.totals.TeamTotals(r.Context())
	if err != nil {
		web.Error(w, err)
		return
	}

	points := make(map[string]int, len(totals))
	for _, t := range totals {
		points[t.TeamID.Hex()] = t.TotalPoints
	}

	board := make([]models.TeamPoints, 0, len(teams))
	for _, t := range teams {
		board = append(board, models.TeamPoints{
			TeamID:      t.ID,
			Name:        t.Name,
			Color:       t.Color,
			TotalPoints: points[t.ID.Hex()],
		})
	}
	sort.SliceStable(board, func(i, j int) bool {
		return board[i].TotalPoints > board[j].TotalPoints
	})
	web.JSON(w, http.StatusOK, board)
}

// Possession returns the current two-faction score split (public).
func (h *Handler) Possession(w http.ResponseWriter, r *http.Request) {
	totals, err := h.totals.TeamTotals(r.Context())
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, BuildPossession(totals))
}
