package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"inkwell/internal/models"
	"inkwell/internal/storage"
)

type ActivityRepository interface {
	Create(ctx context.Context, a *models.UserActivity) error
	FindByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.UserActivity, error)
	// ViewCountsSince 聚合出各書籍在 since 之後的瀏覽次數，供推薦排行的熱度因素使用
	ViewCountsSince(ctx context.Context, since time.Time) (map[primitive.ObjectID]int64, error)
	// CountsByBook 聚合單一書籍各行為的次數
	CountsByBook(ctx context.Context, bookID primitive.ObjectID) (map[models.ActivityAction]int64, error)
}

type activityRepository struct {
	col *mongo.Collection
}

func NewActivityRepository(db *storage.MongoDB) ActivityRepository {
	return &activityRepository{col: db.Collection("activities")}
}

func (r *activityRepository) Create(ctx context.Context, a *models.UserActivity) error {
	a.CreatedAt = time.Now()
	res, err := r.col.InsertOne(ctx, a)
	if err != nil {
		return err
	}
	a.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *activityRepository) FindByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.UserActivity, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	activities := []models.UserActivity{}
	if err := cur.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *activityRepository) ViewCountsSince(ctx context.Context, since time.Time) (map[primitive.ObjectID]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"action":     models.ActionView,
			"created_at": bson.M{"$gte": since},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$book_id",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	counts := map[primitive.ObjectID]int64{}
	for cur.Next(ctx) {
		var row struct {
			BookID primitive.ObjectID `bson:"_id"`
			Count  int64              `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.BookID] = row.Count
	}
	return counts, cur.Err()
}

func (r *activityRepository) CountsByBook(ctx context.Context, bookID primitive.ObjectID) (map[models.ActivityAction]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"book_id": bookID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$action",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	counts := map[models.ActivityAction]int64{}
	for cur.Next(ctx) {
		var row struct {
			Action models.ActivityAction `bson:"_id"`
			Count  int64                 `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.Action] = row.Count
	}
	return counts, cur.Err()
}
