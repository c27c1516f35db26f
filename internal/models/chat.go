package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conversation 兩位以上用戶之間的對話
type Conversation struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Participants  []primitive.ObjectID `bson:"participants" json:"participants"`
	LastMessageAt time.Time            `bson:"last_message_at,omitempty" json:"last_message_at,omitempty"`
	CreatedAt     time.Time            `bson:"created_at" json:"created_at"`
}

// HasParticipant 檢查用戶是否為對話成員
func (c *Conversation) HasParticipant(userID primitive.ObjectID) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// ChatMessage 對話中的一則訊息
type ChatMessage struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ConversationID primitive.ObjectID `bson:"conversation_id" json:"conversation_id"`
	SenderID       primitive.ObjectID `bson:"sender_id,omitempty" json:"sender_id,omitempty"`
	Type           string             `bson:"type" json:"type"` // text / system
	Body           string             `bson:"body" json:"body"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}
