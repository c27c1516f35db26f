package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"inkwell/internal/models"
	"inkwell/internal/storage"
)

type TemplateRepository interface {
	Create(ctx context.Context, tpl *models.BookTemplate) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.BookTemplate, error)
	// FindVisible 回傳公開範本加上用戶自己的範本
	FindVisible(ctx context.Context, owner primitive.ObjectID) ([]models.BookTemplate, error)
	Update(ctx context.Context, tpl *models.BookTemplate) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type templateRepository struct {
	col *mongo.Collection
}

func NewTemplateRepository(db *storage.MongoDB) TemplateRepository {
	return &templateRepository{col: db.Collection("book_templates")}
}

func (r *templateRepository) Create(ctx context.Context, tpl *models.BookTemplate) error {
	now := time.Now()
	tpl.CreatedAt = now
	tpl.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, tpl)
	if err != nil {
		return err
	}
	tpl.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *templateRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.BookTemplate, error) {
	var tpl models.BookTemplate
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&tpl)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *templateRepository) FindVisible(ctx context.Context, owner primitive.ObjectID) ([]models.BookTemplate, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"public": true},
		bson.M{"owner": owner},
	}}

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	templates := []models.BookTemplate{}
	if err := cur.All(ctx, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *templateRepository) Update(ctx context.Context, tpl *models.BookTemplate) error {
	tpl.UpdatedAt = time.Now()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": tpl.ID}, tpl)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *templateRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
