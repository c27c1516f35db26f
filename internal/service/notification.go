package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"inkwell/internal/mailer"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

type NotificationService struct {
	repo     repository.NotificationRepository
	userRepo repository.UserRepository
	mail     mailer.Mailer
	logger   *zap.Logger
}

func NewNotificationService(repo repository.NotificationRepository, userRepo repository.UserRepository,
	mail mailer.Mailer, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		repo:     repo,
		userRepo: userRepo,
		mail:     mail,
		logger:   logger,
	}
}

// Notify 建立站內通知，重要類型同時寄送郵件。
// 通知屬於次要路徑，失敗只記 log 不回傳錯誤。
func (s *NotificationService) Notify(ctx context.Context, userID primitive.ObjectID,
	notifType models.NotificationType, title, message string, targetID *primitive.ObjectID) {
	n := &models.Notification{
		UserID:   userID,
		Type:     notifType,
		Title:    title,
		Message:  message,
		TargetID: targetID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Warn("failed to create notification",
			zap.String("user_id", userID.Hex()), zap.Error(err))
		return
	}

	if s.mail == nil || !notifType.NeedsEmail() {
		return
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load user for notification mail", zap.Error(err))
		return
	}

	// 郵件走非同步，不阻塞請求
	go func(email string) {
		if err := s.mail.Send(email, title, message); err != nil {
			s.logger.Warn("failed to send notification mail",
				zap.String("to", email), zap.Error(err))
		}
	}(user.Email)
}

func (s *NotificationService) List(ctx context.Context, userID primitive.ObjectID, unreadOnly bool, limit int64) ([]models.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.FindByUser(ctx, userID, unreadOnly, limit)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID primitive.ObjectID) error {
	err := s.repo.MarkRead(ctx, id, userID)
	if err == repository.ErrNotFound {
		return ErrNotFound
	}
	return err
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}
