package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification 站內通知，ExpiresAt 搭配 TTL 索引自動清除
type Notification struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID  `bson:"user_id" json:"user_id"`
	Type      NotificationType    `bson:"type" json:"type"`
	Title     string              `bson:"title" json:"title"`
	Message   string              `bson:"message" json:"message"`
	Read      bool                `bson:"read" json:"read"`
	TargetID  *primitive.ObjectID `bson:"target_id,omitempty" json:"target_id,omitempty"` // 相關書籍或訂單
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
	ExpiresAt time.Time           `bson:"expires_at" json:"expires_at"`
}

type NotificationType string

const (
	NotifyBookPublished  NotificationType = "book_published"
	NotifyQualityScored  NotificationType = "quality_scored"
	NotifyPaymentSuccess NotificationType = "payment_success"
	NotifyNewMessage     NotificationType = "new_message"
	NotifySystem         NotificationType = "system"
)

// NeedsEmail 重要通知同時寄送郵件
func (t NotificationType) NeedsEmail() bool {
	return t == NotifyBookPublished || t == NotifyPaymentSuccess
}
