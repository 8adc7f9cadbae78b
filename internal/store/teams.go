package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lseverin/mapclash/backend/internal/models"
)

// TeamStore handles team CRUD in MongoDB.
type TeamStore struct {
	col *mongo.Collection
}

func NewTeamStore(db *mongo.Database) *TeamStore {
	return &TeamStore{col: db.Collection("teams")}
}

func (s *TeamStore) Insert(ctx context.Context, t *models.Team) (*models.Team, error) {
	t.CreatedAt = time.Now()
	res, err := s.col.InsertOne(ctx, t)
	if err != nil {
		return nil, mapErr(err)
	}
	t.ID = res.InsertedID.(primitive.ObjectID)
	return t, nil
}

func (s *TeamStore) List(ctx context.Context) ([]models.Team, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, mapErr(err)
	}
	defer cur.Close(ctx)

	var teams []models.Team
	if err := cur.All(ctx, &teams); err != nil {
		return nil, mapErr(err)
	}
	return teams, nil
}

func (s *TeamStore) GetByID(ctx context.Context, id string) (*models.Team, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var t models.Team
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&t); err != nil {
		return nil, mapErr(err)
	}
	return &t, nil
}
