package models

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Zone is a named geographic region used for map overlays. Coordinates is
// an ordered ring of [longitude, latitude] or [longitude, latitude,
// altitude] positions, GeoJSON axis order.
type Zone struct {
	ID          primitive.ObjectID `json:"id"          bson:"_id,omitempty"`
	Name        string             `json:"name"        bson:"name"`
	Coordinates [][]float64        `json:"coordinates" bson:"coordinates"`
}

// Validate checks the name and every coordinate position.
func (z *Zone) Validate() error {
	if z.Name == "" {
		return fmt.Errorf("%w: zone name is required", ErrValidation)
	}
	for i, pos := range z.Coordinates {
		if len(pos) != 2 && len(pos) != 3 {
			return fmt.Errorf("%w: position %d must have 2 or 3 components", ErrValidation, i)
		}
		if !ValidCoordinates(pos[1], pos[0]) {
			return fmt.Errorf("%w: position %d out of bounds", ErrValidation, i)
		}
	}
	return nil
}
