// Package scoring computes the proximity score awarded for a guess.
package scoring

import (
	"math"

	"github.com/lseverin/mapclash/backend/internal/models"
)

const (
	// EarthRadiusMeters is the mean Earth radius used by the haversine
	// formula.
	EarthRadiusMeters = 6371000.0

	// MaxScore is awarded for a perfect guess; the score loses one point
	// per 10 meters of error.
	MaxScore = 1000

	metersPerPoint = 10.0
)

// DistanceMeters returns the haversine great-circle distance in meters
// between two WGS84 lat/lon points in decimal degrees.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	φ1 := lat1 * math.Pi / 180.0
	φ2 := lat2 * math.Pi / 180.0
	dφ := (lat2 - lat1) * math.Pi / 180.0
	dλ := (lon2 - lon1) * math.Pi / 180.0

	sinDφ := math.Sin(dφ / 2)
	sinDλ := math.Sin(dλ / 2)

	a := sinDφ*sinDφ + math.Cos(φ1)*math.Cos(φ2)*sinDλ*sinDλ
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMeters * c
}

// ScoreForDistance maps a distance in meters to a score in [0, MaxScore].
// The mapping is non-increasing and clamps at 0.
func ScoreForDistance(d float64) int {
	raw := math.Round(float64(MaxScore) - d/metersPerPoint)
	if raw < 0 {
		return 0
	}
	return int(raw)
}

// Score computes the score for a guess against a true location. Non-finite
// input yields a validation error rather than a NaN score; finite inputs
// always produce a defined result.
func Score(trueLat, trueLon, guessLat, guessLon float64) (distance float64, score int, err error) {
	for _, v := range []float64{trueLat, trueLon, guessLat, guessLon} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, 0, models.ErrValidation
		}
	}
	d := DistanceMeters(trueLat, trueLon, guessLat, guessLon)
	return d, ScoreForDistance(d), nil
}
