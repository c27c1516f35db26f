package repository

import (
	"errors"

	"inkwell/internal/storage"
)

// ErrNotFound 查無文件時由各 repository 統一回傳
var ErrNotFound = errors.New("document not found")

type Repositories struct {
	User         UserRepository
	Book         BookRepository
	Template     TemplateRepository
	Notification NotificationRepository
	Activity     ActivityRepository
	Conversation ConversationRepository
	Message      ChatMessageRepository
	Payment      PaymentRepository
}

func NewRepositories(db *storage.MongoDB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Book:         NewBookRepository(db),
		Template:     NewTemplateRepository(db),
		Notification: NewNotificationRepository(db),
		Activity:     NewActivityRepository(db),
		Conversation: NewConversationRepository(db),
		Message:      NewChatMessageRepository(db),
		Payment:      NewPaymentRepository(db),
	}
}
