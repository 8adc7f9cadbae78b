package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lseverin/mapclash/backend/internal/models"
)

// ZoneStore handles the read-mostly zone reference data.
type ZoneStore struct {
	col *mongo.Collection
}

func NewZoneStore(db *mongo.Database) *ZoneStore {
	return &ZoneStore{col: db.Collection("zones")}
}

func (s *ZoneStore) List(ctx context.Context) ([]models.Zone, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, mapErr(err)
	}
	defer cur.Close(ctx)

	var zones []models.Zone
	if err := cur.All(ctx, &zones); err != nil {
		return nil, mapErr(err)
	}
	return zones, nil
}

func (s *ZoneStore) GetByID(ctx context.Context, id string) (*models.Zone, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var z models.Zone
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&z); err != nil {
		return nil, mapErr(err)
	}
	return &z, nil
}

// Seed upserts the embedded reference zones by name so restarts never
// duplicate them.
func (s *ZoneStore) Seed(ctx context.Context, zones []models.Zone) error {
	for _, z := range zones {
		if err := z.Validate(); err != nil {
			return err
		}
		_, err := s.col.UpdateOne(ctx,
			bson.M{"name": z.Name},
			bson.M{"$set": bson.M{"coordinates": z.Coordinates}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return mapErr(err)
		}
	}
	return nil
}
