package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lseverin/mapclash/backend/internal/models"
)

// PostStore handles post metadata CRUD in MongoDB; picture bytes live in
// object storage.
type PostStore struct {
	col *mongo.Collection
}

func NewPostStore(db *mongo.Database) *PostStore {
	return &PostStore{col: db.Collection("posts")}
}

func (s *PostStore) Insert(ctx context.Context, p *models.Post) (*models.Post, error) {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.col.InsertOne(ctx, p); err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

func (s *PostStore) List(ctx context.Context, f models.PostFilter) ([]models.Post, error) {
	filter := bson.M{}
	if f.IsValidated != nil {
		filter["is_validated"] = *f.IsValidated
	}
	if f.UserID != "" {
		oid, err := objectID(f.UserID)
		if err != nil {
			return nil, err
		}
		filter["user_id"] = oid
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 40
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(limit).
		SetSkip(f.Skip)

	cur, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, mapErr(err)
	}
	defer cur.Close(ctx)

	var posts []models.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, mapErr(err)
	}
	return posts, nil
}

func (s *PostStore) GetByID(ctx context.Context, id string) (*models.Post, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var p models.Post
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&p); err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (s *PostStore) Update(ctx context.Context, p *models.Post) error {
	p.UpdatedAt = time.Now()
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	return mapErr(err)
}

func (s *PostStore) Delete(ctx context.Context, id string) error {
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

// CountByUser backs the per-post score view (500 points per post).
func (s *PostStore) CountByUser(ctx context.Context, userID string) (int64, error) {
	oid, err := objectID(userID)
	if err != nil {
		return 0, err
	}
	n, err := s.col.CountDocuments(ctx, bson.M{"user_id": oid})
	return n, mapErr(err)
}
