// Package posts exposes the post routes: geotagged photo uploads, their
// pictures, and the per-post score view.
package posts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lseverin/mapclash/backend/internal/models"
	"github.com/lseverin/mapclash/backend/internal/web"
)

// PointsPerPost is the flat score a user earns for each uploaded post.
const PointsPerPost = 500

// Store defines the post persistence used by the handlers.
type Store interface {
	Insert(ctx context.Context, p *models.Post) (*models.Post, error)
	List(ctx context.Context, f models.PostFilter) ([]models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Update(ctx context.Context, p *models.Post) error
	Delete(ctx context.Context, id string) error
	CountByUser(ctx context.Context, userID string) (int64, error)
}

// PictureStore defines the object storage for picture bytes.
type PictureStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, string, error)
	Remove(ctx context.Context, key string) error
}

// GuessPurger removes the guesses targeting a deleted post.
type GuessPurger interface {
	DeleteByPost(ctx context.Context, postID string) error
}

// UserGetter loads the requesting user for ownership/admin checks.
type UserGetter interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Handler holds the post HTTP handlers.
type Handler struct {
	posts           Store
	pictures        PictureStore
	guesses         GuessPurger
	users           UserGetter
	maxPictureBytes int64
}

func NewHandler(posts Store, pictures PictureStore, guesses GuessPurger, users UserGetter, maxPictureBytes int64) *Handler {
	return &Handler{posts: posts, pictures: pictures, guesses: guesses, users: users, maxPictureBytes: maxPictureBytes}
}

// List returns posts sorted by creation time, filtered by isValidated and
// paginated via limit/skip. Listing without the isValidated filter exposes
// unvalidated posts, so it is admin only.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter models.PostFilter
	if v := q.Get("isValidated"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			web.Error(w, fmt.Errorf("%w: isValidated must be a boolean", models.ErrValidation))
			return
		}
		filter.IsValidated = &b
	} else {
		user, err := h.requestUser(r)
		if err != nil || !user.IsAdmin {
			web.Error(w, fmt.Errorf("%w: unfiltered listing is admin only", models.ErrForbidden))
			return
		}
	}
	filter.Limit, _ = strconv.ParseInt(q.Get("limit"), 10, 64)
	filter.Skip, _ = strconv.ParseInt(q.Get("skip"), 10, 64)

	posts, err := h.posts.List(r.Context(), filter)
	if err != nil {
		web.Error(w, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	web.JSON(w, http.StatusOK, posts)
}

// Get returns one post's metadata.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, post)
}

// Create accepts a multipart upload: a picture file plus latitude and
// longitude form fields. New posts start unvalidated.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := h.requestUser(r)
	if err != nil {
		web.Error(w, err)
		return
	}

	if err := r.ParseMultipartForm(h.maxPictureBytes); err != nil {
		web.Error(w, fmt.Errorf("%w: invalid multipart form", models.ErrValidation))
		return
	}
	lat, errLat := strconv.ParseFloat(r.FormValue("latitude"), 64)
	lon, errLon := strconv.ParseFloat(r.FormValue("longitude"), 64)
	if errLat != nil || errLon != nil {
		web.Error(w, fmt.Errorf("%w: latitude and longitude are required", models.ErrValidation))
		return
	}
	if err := models.CheckCoordinates(lat, lon); err != nil {
		web.Error(w, err)
		return
	}

	file, header, err := r.FormFile("picture")
	if err != nil {
		web.Error(w, fmt.Errorf("%w: no picture uploaded", models.ErrValidation))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxPictureBytes+1))
	if err != nil {
		web.Error(w, err)
		return
	}
	if int64(len(data)) > h.maxPictureBytes {
		web.Error(w, fmt.Errorf("%w: picture exceeds the size limit", models.ErrValidation))
		return
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	post := &models.Post{
		ID:                 primitive.NewObjectID(),
		Latitude:           lat,
		Longitude:          lon,
		IsValidated:        false,
		UserID:             user.ID,
		PictureContentType: contentType,
		PictureSize:        int64(len(data)),
	}
	post.PictureKey = "posts/" + post.ID.Hex()

	if err := h.pictures.Upload(r.Context(), post.PictureKey, data, contentType); err != nil {
		web.Error(w, err)
		return
	}
	if _, err := h.posts.Insert(r.Context(), post); err != nil {
		// Best-effort rollback of the orphaned object.
		h.pictures.Remove(r.Context(), post.PictureKey)
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusCreated, post)
}

// Picture streams the raw picture bytes with content-type and length.
func (h *Handler) Picture(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		web.Error(w, err)
		return
	}

	data, contentType, err := h.pictures.Download(r.Context(), post.PictureKey)
	if err != nil {
		web.Error(w, err)
		return
	}
	if contentType == "" {
		contentType = post.PictureContentType
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// Patch updates coordinates (owner or admin) and the validation flag
// (admin only).
func (h *Handler) Patch(w http.ResponseWriter, r *http.Request) {
	user, err := h.requestUser(r)
	if err != nil {
		web.Error(w, err)
		return
	}
	post, err := h.posts.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		web.Error(w, err)
		return
	}
	if post.UserID != user.ID && !user.IsAdmin {
		web.Error(w, fmt.Errorf("%w: not your post", models.ErrForbidden))
		return
	}

	var req models.PostPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	lat, lon := post.Latitude, post.Longitude
	if req.Latitude != nil {
		lat = *req.Latitude
	}
	if req.Longitude != nil {
		lon = *req.Longitude
	}
	if err := models.CheckCoordinates(lat, lon); err != nil {
		web.Error(w, err)
		return
	}
	post.Latitude, post.Longitude = lat, lon

	if req.IsValidated != nil {
		if !user.IsAdmin {
			web.Error(w, fmt.Errorf("%w: only admins can validate posts", models.ErrForbidden))
			return
		}
		post.IsValidated = *req.IsValidated
	}

	if err := h.posts.Update(r.Context(), post); err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, post)
}

// Delete removes a post (owner or admin) together with its picture and the
// guesses that targeted it.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := h.requestUser(r)
	if err != nil {
		web.Error(w, err)
		return
	}
	post, err := h.posts.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		web.Error(w, err)
		return
	}
	if post.UserID != user.ID && !user.IsAdmin {
		web.Error(w, fmt.Errorf("%w: not your post", models.ErrForbidden))
		return
	}

	if err := h.guesses.DeleteByPost(r.Context(), post.ID.Hex()); err != nil {
		web.Error(w, err)
		return
	}
	if post.PictureKey != "" {
		h.pictures.Remove(r.Context(), post.PictureKey)
	}
	if err := h.posts.Delete(r.Context(), post.ID.Hex()); err != nil {
		web.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UserPostsScore returns the flat per-post score of a user: 500 points per
// uploaded post.
func (h *Handler) UserPostsScore(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if _, err := h.users.GetByID(r.Context(), userID); err != nil {
		web.Error(w, err)
		return
	}
	count, err := h.posts.CountByUser(r.Context(), userID)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, map[string]any{
		"userId":     userID,
		"postsCount": count,
		"postsScore": count * PointsPerPost,
	})
}

func (h *Handler) requestUser(r *http.Request) (*models.User, error) {
	userID, _ := r.Context().Value("user_id").(string)
	if userID == "" {
		return nil, models.ErrUnauthorized
	}
	return h.users.GetByID(r.Context(), userID)
}
