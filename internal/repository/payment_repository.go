package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"inkwell/internal/models"
	"inkwell/internal/storage"
)

type PaymentRepository interface {
	Create(ctx context.Context, order *models.PaymentOrder) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.PaymentOrder, error)
	FindByProviderOrderID(ctx context.Context, providerOrderID string) (*models.PaymentOrder, error)
	Update(ctx context.Context, order *models.PaymentOrder) error
}

type paymentRepository struct {
	col *mongo.Collection
}

func NewPaymentRepository(db *storage.MongoDB) PaymentRepository {
	return &paymentRepository{col: db.Collection("payment_orders")}
}

func (r *paymentRepository) Create(ctx context.Context, order *models.PaymentOrder) error {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, order)
	if err != nil {
		return err
	}
	order.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *paymentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.PaymentOrder, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *paymentRepository) FindByProviderOrderID(ctx context.Context, providerOrderID string) (*models.PaymentOrder, error) {
	return r.findOne(ctx, bson.M{"provider_order_id": providerOrderID})
}

func (r *paymentRepository) findOne(ctx context.Context, filter bson.M) (*models.PaymentOrder, error) {
	var order models.PaymentOrder
	err := r.col.FindOne(ctx, filter).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *paymentRepository) Update(ctx context.Context, order *models.PaymentOrder) error {
	order.UpdatedAt = time.Now()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": order.ID}, order)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
