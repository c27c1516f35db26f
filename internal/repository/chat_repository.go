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

type ConversationRepository interface {
	Create(ctx context.Context, conv *models.Conversation) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Conversation, error)
	FindByParticipant(ctx context.Context, userID primitive.ObjectID) ([]models.Conversation, error)
	TouchLastMessage(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

type conversationRepository struct {
	col *mongo.Collection
}

func NewConversationRepository(db *storage.MongoDB) ConversationRepository {
	return &conversationRepository{col: db.Collection("conversations")}
}

func (r *conversationRepository) Create(ctx context.Context, conv *models.Conversation) error {
	conv.CreatedAt = time.Now()
	res, err := r.col.InsertOne(ctx, conv)
	if err != nil {
		return err
	}
	conv.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *conversationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&conv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepository) FindByParticipant(ctx context.Context, userID primitive.ObjectID) ([]models.Conversation, error) {
	cur, err := r.col.Find(ctx, bson.M{"participants": userID},
		options.Find().SetSort(bson.D{{Key: "last_message_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	conversations := []models.Conversation{}
	if err := cur.All(ctx, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

func (r *conversationRepository) TouchLastMessage(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{"last_message_at": at}})
	return err
}

type ChatMessageRepository interface {
	Create(ctx context.Context, msg *models.ChatMessage) error
	FindByConversation(ctx context.Context, conversationID primitive.ObjectID, limit int64) ([]models.ChatMessage, error)
}

type chatMessageRepository struct {
	col *mongo.Collection
}

func NewChatMessageRepository(db *storage.MongoDB) ChatMessageRepository {
	return &chatMessageRepository{col: db.Collection("chat_messages")}
}

func (r *chatMessageRepository) Create(ctx context.Context, msg *models.ChatMessage) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	res, err := r.col.InsertOne(ctx, msg)
	if err != nil {
		return err
	}
	msg.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *chatMessageRepository) FindByConversation(ctx context.Context, conversationID primitive.ObjectID, limit int64) ([]models.ChatMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := r.col.Find(ctx, bson.M{"conversation_id": conversationID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	messages := []models.ChatMessage{}
	if err := cur.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
