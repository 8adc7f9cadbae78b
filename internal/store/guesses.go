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

// GuessStore handles guess persistence and the score aggregations.
type GuessStore struct {
	col *mongo.Collection
}

func NewGuessStore(db *mongo.Database) *GuessStore {
	return &GuessStore{col: db.Collection("guesses")}
}

// Insert persists a guess. The compound unique index on (user, post) turns
// a concurrent duplicate submission into ErrConflict here, even when both
// requests passed the existence pre-check.
func (s *GuessStore) Insert(ctx context.Context, g *models.Guess) (*models.Guess, error) {
	g.CreatedAt = time.Now()
	res, err := s.col.InsertOne(ctx, g)
	if err != nil {
		return nil, mapErr(err)
	}
	g.ID = res.InsertedID.(primitive.ObjectID)
	return g, nil
}

func (s *GuessStore) List(ctx context.Context, limit, skip int64) ([]models.Guess, error) {
	if limit <= 0 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(skip)
	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, mapErr(err)
	}
	defer cur.Close(ctx)

	var guesses []models.Guess
	if err := cur.All(ctx, &guesses); err != nil {
		return nil, mapErr(err)
	}
	return guesses, nil
}

func (s *GuessStore) GetByID(ctx context.Context, id string) (*models.Guess, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var g models.Guess
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&g); err != nil {
		return nil, mapErr(err)
	}
	return &g, nil
}

func (s *GuessStore) ListByUser(ctx context.Context, userID string) ([]models.Guess, error) {
	oid, err := objectID(userID)
	if err != nil {
		return nil, err
	}
	cur, err := s.col.Find(ctx, bson.M{"user": oid})
	if err != nil {
		return nil, mapErr(err)
	}
	defer cur.Close(ctx)

	var guesses []models.Guess
	if err := cur.All(ctx, &guesses); err != nil {
		return nil, mapErr(err)
	}
	return guesses, nil
}

// FindByUserAndPost returns the existing guess for the pair, or
// ErrNotFound.
func (s *GuessStore) FindByUserAndPost(ctx context.Context, userID, postID string) (*models.Guess, error) {
	uid, err := objectID(userID)
	if err != nil {
		return nil, err
	}
	pid, err := objectID(postID)
	if err != nil {
		return nil, err
	}
	var g models.Guess
	if err := s.col.FindOne(ctx, bson.M{"user": uid, "post": pid}).Decode(&g); err != nil {
		return nil, mapErr(err)
	}
	return &g, nil
}

func (s *GuessStore) Delete(ctx context.Context, id string) error {
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

// DeleteByUser removes all guesses of a user. Account deletion drives the
// cascade from the handler; the store has no automatic cascades.
func (s *GuessStore) DeleteByUser(ctx context.Context, userID string) error {
	oid, err := objectID(userID)
	if err != nil {
		return err
	}
	_, err = s.col.DeleteMany(ctx, bson.M{"user": oid})
	return mapErr(err)
}

// DeleteByPost removes all guesses targeting a post.
func (s *GuessStore) DeleteByPost(ctx context.Context, postID string) error {
	oid, err := objectID(postID)
	if err != nil {
		return err
	}
	_, err = s.col.DeleteMany(ctx, bson.M{"post": oid})
	return mapErr(err)
}

// SumScoreByUser returns the total score of one user's guesses.
func (s *GuessStore) SumScoreByUser(ctx context.Context, userID string) (int, error) {
	oid, err := objectID(userID)
	if err != nil {
		return 0, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user": oid}}},
		{{Key: "$group", Value: bson.M{
			"_id":         "$user",
			"total_score": bson.M{"$sum": "$score"},
		}}},
	}
	cur, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, mapErr(err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		TotalScore int `bson:"total_score"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, mapErr(err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].TotalScore, nil
}

// TeamTotals joins guesses to users to teams and sums scores per team,
// sorted descending. Teams without any guess are absent from the result.
func (s *GuessStore) TeamTotals(ctx context.Context) ([]models.TeamPoints, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "user",
			"foreignField": "_id",
			"as":           "user_doc",
		}}},
		{{Key: "$unwind", Value: "$user_doc"}},
		{{Key: "$group", Value: bson.M{
			"_id":          "$user_doc.team_id",
			"total_points": bson.M{"$sum": "$score"},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "teams",
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "team_doc",
		}}},
		{{Key: "$unwind", Value: "$team_doc"}},
		{{Key: "$project", Value: bson.M{
			"_id":          0,
			"team_id":      "$team_doc._id",
			"name":         "$team_doc.name",
			"color":        "$team_doc.color",
			"total_points": 1,
		}}},
		{{Key: "$sort", Value: bson.M{"total_points": -1}}},
	}

	cur, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, mapErr(err)
	}
	defer cur.Close(ctx)

	var totals []models.TeamPoints
	if err := cur.All(ctx, &totals); err != nil {
		return nil, mapErr(err)
	}
	return totals, nil
}
