package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

type ChatService struct {
	convRepo repository.ConversationRepository
	msgRepo  repository.ChatMessageRepository
	userRepo repository.UserRepository
	notifier *NotificationService
}

func NewChatService(convRepo repository.ConversationRepository, msgRepo repository.ChatMessageRepository,
	userRepo repository.UserRepository, notifier *NotificationService) *ChatService {
	return &ChatService{
		convRepo: convRepo,
		msgRepo:  msgRepo,
		userRepo: userRepo,
		notifier: notifier,
	}
}

// CreateConversation 建立對話，發起者自動加入成員
func (s *ChatService) CreateConversation(ctx context.Context, creator primitive.ObjectID, others []primitive.ObjectID) (*models.Conversation, error) {
	participants := []primitive.ObjectID{creator}
	seen := map[primitive.ObjectID]bool{creator: true}
	for _, id := range others {
		// 重複的成員只加入一次
		if seen[id] {
			continue
		}
		// 成員必須存在
		if _, err := s.userRepo.FindByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrInvalidInput
			}
			return nil, err
		}
		seen[id] = true
		participants = append(participants, id)
	}
	if len(participants) < 2 {
		return nil, ErrInvalidInput
	}

	conv := &models.Conversation{Participants: participants}
	if err := s.convRepo.Create(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *ChatService) ListConversations(ctx context.Context, userID primitive.ObjectID) ([]models.Conversation, error) {
	return s.convRepo.FindByParticipant(ctx, userID)
}

// GetConversation 取得對話並檢查成員資格
func (s *ChatService) GetConversation(ctx context.Context, convID, userID primitive.ObjectID) (*models.Conversation, error) {
	conv, err := s.convRepo.FindByID(ctx, convID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(userID) {
		return nil, ErrForbidden
	}
	return conv, nil
}

func (s *ChatService) History(ctx context.Context, convID, userID primitive.ObjectID, limit int64) ([]models.ChatMessage, error) {
	if _, err := s.GetConversation(ctx, convID, userID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.msgRepo.FindByConversation(ctx, convID, limit)
}

// SaveMessage 持久化訊息並更新對話的最後訊息時間，由 websocket hub 呼叫
func (s *ChatService) SaveMessage(ctx context.Context, msg *models.ChatMessage) error {
	msg.CreatedAt = time.Now()
	if err := s.msgRepo.Create(ctx, msg); err != nil {
		return err
	}
	return s.convRepo.TouchLastMessage(ctx, msg.ConversationID, msg.CreatedAt)
}

// NotifyOffline 對不在線的成員發站內通知
func (s *ChatService) NotifyOffline(ctx context.Context, conv *models.Conversation, sender primitive.ObjectID, online map[primitive.ObjectID]bool) {
	if s.notifier == nil {
		return
	}
	for _, p := range conv.Participants {
		if p == sender || online[p] {
			continue
		}
		s.notifier.Notify(ctx, p, models.NotifyNewMessage, "新訊息", "你有一則未讀的對話訊息。", &conv.ID)
	}
}
