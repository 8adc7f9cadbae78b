package models

import (
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a geotagged photograph. The picture bytes live in object storage
// under PictureKey; the document only keeps the metadata, so list responses
// never drag image payloads along.
type Post struct {
	ID                 primitive.ObjectID `json:"id"                 bson:"_id,omitempty"`
	Latitude           float64            `json:"latitude"           bson:"latitude"`
	Longitude          float64            `json:"longitude"          bson:"longitude"`
	IsValidated        bool               `json:"isValidated"        bson:"is_validated"`
	UserID             primitive.ObjectID `json:"user_id"            bson:"user_id"`
	PictureKey         string             `json:"-"                  bson:"picture_key"`
	PictureContentType string             `json:"pictureContentType" bson:"picture_content_type"`
	PictureSize        int64              `json:"pictureSize"        bson:"picture_size"`
	CreatedAt          time.Time          `json:"created_at"         bson:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"         bson:"updated_at"`
}

// PostFilter narrows post listings. Nil IsValidated means "no filter".
type PostFilter struct {
	IsValidated *bool
	UserID      string
	Limit       int64
	Skip        int64
}

// PostPatchRequest carries the updatable post fields. Nil pointers mean
// "leave unchanged"; IsValidated is only honored for admins.
type PostPatchRequest struct {
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	IsValidated *bool    `json:"isValidated"`
}

// ValidCoordinates reports whether lat/lon are finite and inside the
// WGS84 bounds.
func ValidCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// CheckCoordinates wraps ValidCoordinates in a domain error.
func CheckCoordinates(lat, lon float64) error {
	if !ValidCoordinates(lat, lon) {
		return fmt.Errorf("%w: latitude must be in [-90,90] and longitude in [-180,180]", ErrValidation)
	}
	return nil
}
