package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Book 表示一本書，章節、封面設計與版面設定皆為內嵌文件
type Book struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Author      primitive.ObjectID `bson:"author" json:"author"` // 擁有者的用戶 ID
	Title       string             `bson:"title" json:"title"`
	Genre       string             `bson:"genre" json:"genre"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Synopsis    string             `bson:"synopsis,omitempty" json:"synopsis,omitempty"`
	Status      BookStatus         `bson:"status" json:"status"`
	Language    string             `bson:"language,omitempty" json:"language,omitempty"`
	Tags        []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Cover       *CoverDesign       `bson:"cover,omitempty" json:"cover,omitempty"`
	Layout      *PageLayout        `bson:"layout,omitempty" json:"layout,omitempty"`
	Quality     *QualityScore      `bson:"quality,omitempty" json:"quality,omitempty"`
	Chapters    []Chapter          `bson:"chapters" json:"chapters"`
	Stats       BookStats          `bson:"stats" json:"stats"`
	PublishedAt time.Time          `bson:"published_at,omitempty" json:"published_at,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// BookStatus 定義書籍狀態的類型
type BookStatus string

const (
	BookStatusDraft     BookStatus = "draft"
	BookStatusReview    BookStatus = "review"
	BookStatusPublished BookStatus = "published"
)

// Chapter 書籍的一個章節
type Chapter struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Index        int                `bson:"index" json:"index"` // 章節順序，從 1 開始
	Title        string             `bson:"title" json:"title"`
	Content      string             `bson:"content,omitempty" json:"content,omitempty"`
	Summary      string             `bson:"summary,omitempty" json:"summary,omitempty"`
	WordCount    int                `bson:"word_count" json:"word_count"`
	Status       string             `bson:"status" json:"status"` // draft / done
	NarrationURL string             `bson:"narration_url,omitempty" json:"narration_url,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// CoverDesign 封面設計結果，Brief 由 AI 產生，ImageURL 指向生成的圖檔
type CoverDesign struct {
	Palette    []string  `bson:"palette,omitempty" json:"palette,omitempty"` // 主色調 (hex)
	Typography string    `bson:"typography,omitempty" json:"typography,omitempty"`
	Brief      string    `bson:"brief,omitempty" json:"brief,omitempty"`
	ImageURL   string    `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Provider   string    `bson:"provider,omitempty" json:"provider,omitempty"` // pollinations / stability
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

// PageLayout 版面設定
type PageLayout struct {
	TrimSize    string  `bson:"trim_size,omitempty" json:"trim_size,omitempty"` // 例如 "6x9"
	MarginMM    float64 `bson:"margin_mm,omitempty" json:"margin_mm,omitempty"`
	Font        string  `bson:"font,omitempty" json:"font,omitempty"`
	FontSizePt  float64 `bson:"font_size_pt,omitempty" json:"font_size_pt,omitempty"`
	LineSpacing float64 `bson:"line_spacing,omitempty" json:"line_spacing,omitempty"`
}

// QualityScore AI 評分結果，各分項為 0-100
type QualityScore struct {
	Overall    float64   `bson:"overall" json:"overall"`
	Clarity    float64   `bson:"clarity" json:"clarity"`
	Pacing     float64   `bson:"pacing" json:"pacing"`
	Grammar    float64   `bson:"grammar" json:"grammar"`
	Engagement float64   `bson:"engagement" json:"engagement"`
	Model      string    `bson:"model,omitempty" json:"model,omitempty"`
	ScoredAt   time.Time `bson:"scored_at" json:"scored_at"`
}

// BookStats 書籍的互動統計，由活動追蹤累加
type BookStats struct {
	Views       int64 `bson:"views" json:"views"`
	Likes       int64 `bson:"likes" json:"likes"`
	Shares      int64 `bson:"shares" json:"shares"`
	Comments    int64 `bson:"comments" json:"comments"`
	Sales       int64 `bson:"sales" json:"sales"`
	Conversions int64 `bson:"conversions" json:"conversions"`
}

// TotalWordCount 全書字數
func (b *Book) TotalWordCount() int {
	total := 0
	for _, ch := range b.Chapters {
		total += ch.WordCount
	}
	return total
}

// FindChapter 依 ID 尋找章節，回傳索引與指標，找不到時索引為 -1
func (b *Book) FindChapter(chapterID primitive.ObjectID) (int, *Chapter) {
	for i := range b.Chapters {
		if b.Chapters[i].ID == chapterID {
			return i, &b.Chapters[i]
		}
	}
	return -1, nil
}
