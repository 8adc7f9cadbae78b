package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lseverin/mapclash/backend/internal/models"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{models.ErrValidation, http.StatusBadRequest},
		{models.ErrPrecondition, http.StatusBadRequest},
		{models.ErrUnauthorized, http.StatusUnauthorized},
		{models.ErrForbidden, http.StatusForbidden},
		{models.ErrNotFound, http.StatusNotFound},
		{models.ErrConflict, http.StatusConflict},
		{models.ErrUnavailable, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
		{fmt.Errorf("%w: already guessed", models.ErrConflict), http.StatusConflict},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, StatusFor(c.err), "%v", c.err)
	}
}

func TestErrorHidesInternals(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, errors.New("pq: secret connection string"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")
	assert.Contains(t, w.Body.String(), "server error")
}
