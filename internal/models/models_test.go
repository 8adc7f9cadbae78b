package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidPseudo(t *testing.T) {
	assert.True(t, ValidPseudo("alicew"))
	assert.True(t, ValidPseudo("berniceeee"))
	assert.False(t, ValidPseudo("bob"), "too short")
	assert.False(t, ValidPseudo("averylongpseudo"), "too long")
	assert.False(t, ValidPseudo("Alicew"), "uppercase")
	assert.False(t, ValidPseudo("alice1"), "digit")
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("alice@example.com"))
	assert.True(t, ValidEmail("a.b-c@sub.domain.org"))
	assert.False(t, ValidEmail("alice"))
	assert.False(t, ValidEmail("alice@"))
	assert.False(t, ValidEmail("@example.com"))
}

func TestValidCoordinates(t *testing.T) {
	assert.True(t, ValidCoordinates(46.5191, 6.5668))
	assert.True(t, ValidCoordinates(-90, 180))
	assert.False(t, ValidCoordinates(90.1, 0))
	assert.False(t, ValidCoordinates(0, -180.5))
	assert.False(t, ValidCoordinates(math.NaN(), 0))
	assert.False(t, ValidCoordinates(0, math.Inf(1)))
}

func TestZoneValidate(t *testing.T) {
	z := Zone{Name: "campus", Coordinates: [][]float64{{6.56, 46.52}, {6.57, 46.52, 400}}}
	assert.NoError(t, z.Validate())

	z = Zone{Name: "", Coordinates: [][]float64{{6.56, 46.52}}}
	assert.ErrorIs(t, z.Validate(), ErrValidation)

	z = Zone{Name: "bad", Coordinates: [][]float64{{200, 46.52}}}
	assert.ErrorIs(t, z.Validate(), ErrValidation)

	z = Zone{Name: "short", Coordinates: [][]float64{{6.56}}}
	assert.ErrorIs(t, z.Validate(), ErrValidation)
}

func TestSignupValidate(t *testing.T) {
	ok := SignupRequest{Pseudo: "alicew", Email: "a@b.ch", Password: "secret1", TeamID: "507f1f77bcf86cd799439011"}
	assert.NoError(t, ok.Validate())

	bad := ok
	bad.TeamID = "nope"
	assert.ErrorIs(t, bad.Validate(), ErrValidation)

	bad = ok
	bad.Password = "short"
	assert.ErrorIs(t, bad.Validate(), ErrValidation)
}
