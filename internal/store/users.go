package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lseverin/mapclash/backend/internal/models"
)

// UserStore handles user CRUD in MongoDB.
type UserStore struct {
	col *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{col: db.Collection("users")}
}

func (s *UserStore) Insert(ctx context.Context, u *models.User) (*models.User, error) {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	res, err := s.col.InsertOne(ctx, u)
	if err != nil {
		return nil, mapErr(err)
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return u, nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&u); err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (s *UserStore) GetByPseudo(ctx context.Context, pseudo string) (*models.User, error) {
	var u models.User
	if err := s.col.FindOne(ctx, bson.M{"pseudo": pseudo}).Decode(&u); err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

// Update persists profile mutations. The unique indexes still back the
// handler-level pseudo/email uniqueness checks.
func (s *UserStore) Update(ctx context.Context, u *models.User) error {
	u.UpdatedAt = time.Now()
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": u.ID}, u)
	return mapErr(err)
}

func (s *UserStore) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return mapErr(err)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
