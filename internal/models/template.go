package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookTemplate 書籍範本：章節大綱與版面預設值
type BookTemplate struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Owner      primitive.ObjectID `bson:"owner" json:"owner"`
	Name       string             `bson:"name" json:"name"`
	Genre      string             `bson:"genre" json:"genre"`
	Structure  []TemplateChapter  `bson:"structure" json:"structure"`
	Layout     *PageLayout        `bson:"layout,omitempty" json:"layout,omitempty"`
	CoverStyle string             `bson:"cover_style,omitempty" json:"cover_style,omitempty"` // 給設計服務的風格提示
	Public     bool               `bson:"public" json:"public"` // 公開範本所有用戶皆可套用
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

// TemplateChapter 範本中的一個章節大綱項目
type TemplateChapter struct {
	Title   string `bson:"title" json:"title"`
	Outline string `bson:"outline,omitempty" json:"outline,omitempty"`
}
