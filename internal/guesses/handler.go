package guesses

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lseverin/mapclash/backend/internal/models"
	"github.com/lseverin/mapclash/backend/internal/web"
)

// Store extends GuessStore with the read and delete operations the HTTP
// surface needs.
type Store interface {
	GuessStore
	List(ctx context.Context, limit, skip int64) ([]models.Guess, error)
	GetByID(ctx context.Context, id string) (*models.Guess, error)
	ListByUser(ctx context.Context, userID string) ([]models.Guess, error)
	SumScoreByUser(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, id string) error
}

// PossessionNotifier recomputes and publishes the possession view after a
// guess is created or deleted.
type PossessionNotifier interface {
	PublishPossession(ctx context.Context)
}

// Handler holds the guess HTTP handlers.
type Handler struct {
	store    Store
	service  *Service
	notifier PossessionNotifier
}

func NewHandler(store Store, service *Service, notifier PossessionNotifier) *Handler {
	return &Handler{store: store, service: service, notifier: notifier}
}

// List returns guesses, newest first, paginated via page/limit.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	guesses, err := h.store.List(r.Context(), limit, (page-1)*limit)
	if err != nil {
		web.Error(w, err)
		return
	}
	if guesses == nil {
		guesses = []models.Guess{}
	}
	web.JSON(w, http.StatusOK, guesses)
}

// Get returns one guess by id.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	guess, err := h.store.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, guess)
}

// ListByUser returns one user's guess history.
func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	guesses, err := h.store.ListByUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		web.Error(w, err)
		return
	}
	if guesses == nil {
		guesses = []models.Guess{}
	}
	web.JSON(w, http.StatusOK, guesses)
}

// GlobalScore returns the sum of one user's guess scores.
func (h *Handler) GlobalScore(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	total, err := h.store.SumScoreByUser(r.Context(), userID)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, models.UserScore{UserID: userID, TotalScore: total})
}

// Submit creates a scored guess and pushes the refreshed possession view.
// The guesser is always the session user; a body userId is only accepted
// when it matches.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.GuessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	sessionUserID, _ := r.Context().Value("user_id").(string)
	if sessionUserID == "" {
		web.Error(w, models.ErrUnauthorized)
		return
	}
	if req.UserID != "" && req.UserID != sessionUserID {
		web.Error(w, fmt.Errorf("%w: cannot guess on behalf of another user", models.ErrForbidden))
		return
	}
	req.UserID = sessionUserID

	result, err := h.service.Submit(r.Context(), &req)
	if err != nil {
		web.Error(w, err)
		return
	}

	h.notifier.PublishPossession(r.Context())
	web.JSON(w, http.StatusCreated, result)
}

// Delete removes a guess (admin/test tooling) and republishes possession.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Delete(r.Context(), id); err != nil {
		web.Error(w, err)
		return
	}
	slog.Info("guess deleted", "id", id)

	h.notifier.PublishPossession(r.Context())
	web.JSON(w, http.StatusOK, map[string]string{"message": "guess deleted"})
}
