package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserActivity 用戶行為記錄，供統計與推薦使用
type UserActivity struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Action    ActivityAction     `bson:"action" json:"action"`
	BookID    primitive.ObjectID `bson:"book_id,omitempty" json:"book_id,omitempty"`
	Metadata  map[string]string  `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

type ActivityAction string

const (
	ActionView    ActivityAction = "view"
	ActionLike    ActivityAction = "like"
	ActionShare   ActivityAction = "share"
	ActionComment ActivityAction = "comment"
	ActionSale    ActivityAction = "sale"
)

// ValidActions 可由追蹤端點提交的行為
var ValidActions = map[ActivityAction]bool{
	ActionView:    true,
	ActionLike:    true,
	ActionShare:   true,
	ActionComment: true,
	ActionSale:    true,
}

// StatField 行為對應到 Book.Stats 的欄位名稱
func (a ActivityAction) StatField() string {
	switch a {
	case ActionView:
		return "stats.views"
	case ActionLike:
		return "stats.likes"
	case ActionShare:
		return "stats.shares"
	case ActionComment:
		return "stats.comments"
	case ActionSale:
		return "stats.sales"
	}
	return ""
}
