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

// BookListOptions 公開書籍查詢的過濾條件
type BookListOptions struct {
	Genre         string
	ExcludeAuthor primitive.ObjectID
	Limit         int64
	Skip          int64
}

type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error)
	FindByAuthor(ctx context.Context, author primitive.ObjectID) ([]models.Book, error)
	FindPublished(ctx context.Context, opts BookListOptions) ([]models.Book, error)
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// IncStat 原子遞增 Stats 的單一欄位，field 需是 "stats.views" 形式
	IncStat(ctx context.Context, id primitive.ObjectID, field string, delta int64) error
}

type bookRepository struct {
	col *mongo.Collection
}

func NewBookRepository(db *storage.MongoDB) BookRepository {
	return &bookRepository{col: db.Collection("books")}
}

func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	now := time.Now()
	book.CreatedAt = now
	book.UpdatedAt = now
	if book.Chapters == nil {
		book.Chapters = []models.Chapter{}
	}

	res, err := r.col.InsertOne(ctx, book)
	if err != nil {
		return err
	}
	book.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *bookRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	var book models.Book
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&book)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) FindByAuthor(ctx context.Context, author primitive.ObjectID) ([]models.Book, error) {
	return r.find(ctx, bson.M{"author": author},
		options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}))
}

func (r *bookRepository) FindPublished(ctx context.Context, opts BookListOptions) ([]models.Book, error) {
	filter := bson.M{"status": models.BookStatusPublished}
	if opts.Genre != "" {
		filter["genre"] = opts.Genre
	}
	if !opts.ExcludeAuthor.IsZero() {
		filter["author"] = bson.M{"$ne": opts.ExcludeAuthor}
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "published_at", Value: -1}})
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}
	if opts.Skip > 0 {
		findOpts.SetSkip(opts.Skip)
	}
	return r.find(ctx, filter, findOpts)
}

func (r *bookRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Book, error) {
	cur, err := r.col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	books := []models.Book{}
	if err := cur.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *bookRepository) Update(ctx context.Context, book *models.Book) error {
	book.UpdatedAt = time.Now()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": book.ID}, book)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *bookRepository) IncStat(ctx context.Context, id primitive.ObjectID, field string, delta int64) error {
	res, err := r.col.UpdateByID(ctx, id, bson.M{"$inc": bson.M{field: delta}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
