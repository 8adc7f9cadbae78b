package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/lseverin/mapclash/backend/internal/models"
	"github.com/lseverin/mapclash/backend/internal/web"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	Insert(ctx context.Context, u *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByPseudo(ctx context.Context, pseudo string) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id string) error
}

// TeamGetter resolves the team referenced at signup.
type TeamGetter interface {
	GetByID(ctx context.Context, id string) (*models.Team, error)
}

// Cleaner removes a user's dependent data on account deletion. The store
// has no automatic cascades; the handler drives them.
type Cleaner interface {
	PurgeUserData(ctx context.Context, userID string) error
}

// Handler holds the authentication and profile HTTP handlers.
type Handler struct {
	users    UserStore
	teams    TeamGetter
	sessions *SessionStore
	cleaner  Cleaner
}

func NewHandler(users UserStore, teams TeamGetter, sessions *SessionStore, cleaner Cleaner) *Handler {
	return &Handler{users: users, teams: teams, sessions: sessions, cleaner: cleaner}
}

// Signup creates a new user.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := req.Validate(); err != nil {
		web.Error(w, err)
		return
	}

	team, err := h.teams.GetByID(r.Context(), req.TeamID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			web.JSON(w, http.StatusBadRequest, map[string]string{"error": "unknown team"})
			return
		}
		web.Error(w, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		web.Error(w, err)
		return
	}

	user, err := h.users.Insert(r.Context(), &models.User{
		Pseudo:       req.Pseudo,
		Email:        req.Email,
		PasswordHash: string(hashed),
		TeamID:       team.ID,
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			web.JSON(w, http.StatusConflict, map[string]string{"error": "pseudo or email already taken"})
			return
		}
		web.Error(w, err)
		return
	}

	web.JSON(w, http.StatusCreated, user)
}

// Login authenticates a user and issues the session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		web.JSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid email or password"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		web.JSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid email or password"})
		return
	}

	sid, err := h.sessions.Create(r.Context(), user.ID.Hex())
	if err != nil {
		web.Error(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(SessionTTL / time.Second),
	})
	web.JSON(w, http.StatusOK, user)
}

// Logout destroys the current session and clears the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		h.sessions.Delete(r.Context(), cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	web.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Profile returns the authenticated user's profile.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, models.Profile{
		Pseudo:  user.Pseudo,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		TeamID:  user.TeamID,
	})
}

// PatchProfile updates pseudo and/or email, re-checking uniqueness.
func (h *Handler) PatchProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		web.Error(w, err)
		return
	}

	var req models.ProfilePatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Email != "" {
		if !models.ValidEmail(req.Email) {
			web.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid email format"})
			return
		}
		if other, err := h.users.GetByEmail(r.Context(), req.Email); err == nil && other.ID != user.ID {
			web.JSON(w, http.StatusConflict, map[string]string{"error": "email is already taken"})
			return
		}
		user.Email = req.Email
	}
	if req.Pseudo != "" {
		if !models.ValidPseudo(req.Pseudo) {
			web.JSON(w, http.StatusBadRequest, map[string]string{"error": "pseudo must be 6-10 lowercase letters"})
			return
		}
		if other, err := h.users.GetByPseudo(r.Context(), req.Pseudo); err == nil && other.ID != user.ID {
			web.JSON(w, http.StatusConflict, map[string]string{"error": "pseudo is already taken"})
			return
		}
		user.Pseudo = req.Pseudo
	}

	if err := h.users.Update(r.Context(), user); err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, models.Profile{
		Pseudo:  user.Pseudo,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		TeamID:  user.TeamID,
	})
}

// ChangePassword verifies the current password before storing a new hash.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		web.Error(w, err)
		return
	}

	var req models.PasswordChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		web.JSON(w, http.StatusUnauthorized, map[string]string{"error": "current password is incorrect"})
		return
	}
	if !models.ValidPassword(req.NewPassword) {
		web.JSON(w, http.StatusBadRequest, map[string]string{"error": "new password must be 6-20 characters"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		web.Error(w, err)
		return
	}
	user.PasswordHash = string(hashed)
	if err := h.users.Update(r.Context(), user); err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}

// DeleteAccount removes the user and their dependent posts and guesses
// after a password confirmation.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		web.Error(w, err)
		return
	}

	var req models.DeleteAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		web.JSON(w, http.StatusUnauthorized, map[string]string{"error": "password is incorrect"})
		return
	}

	if err := h.cleaner.PurgeUserData(r.Context(), user.ID.Hex()); err != nil {
		web.Error(w, err)
		return
	}
	if err := h.users.Delete(r.Context(), user.ID.Hex()); err != nil {
		web.Error(w, err)
		return
	}

	if cookie, err := r.Cookie(SessionCookie); err == nil {
		h.sessions.Delete(r.Context(), cookie.Value)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) currentUser(r *http.Request) (*models.User, error) {
	userID, _ := r.Context().Value("user_id").(string)
	if userID == "" {
		return nil, models.ErrUnauthorized
	}
	return h.users.GetByID(r.Context(), userID)
}
