package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

const qualityPrompt = `You are a strict literary editor. Evaluate the following book excerpt on a 0-100 scale per dimension.

Return the result as JSON with EXACTLY these fields:
{"overall": number, "clarity": number, "pacing": number, "grammar": number, "engagement": number}

Book title: %s
Genre: %s
Excerpt:
---
%s
---`

type QualityService struct {
	bookRepo repository.BookRepository
	userRepo repository.UserRepository
	books    *BookService
	writing  *WritingService
	gen      TextGenerator
	notifier *NotificationService
}

func NewQualityService(bookRepo repository.BookRepository, userRepo repository.UserRepository,
	books *BookService, writing *WritingService, gen TextGenerator, notifier *NotificationService) *QualityService {
	return &QualityService{
		bookRepo: bookRepo,
		userRepo: userRepo,
		books:    books,
		writing:  writing,
		gen:      gen,
		notifier: notifier,
	}
}

type qualityResult struct {
	Overall    float64 `json:"overall"`
	Clarity    float64 `json:"clarity"`
	Pacing     float64 `json:"pacing"`
	Grammar    float64 `json:"grammar"`
	Engagement float64 `json:"engagement"`
}

// ScoreBook 對全書抽樣評分，結果存到書籍並更新作者信譽統計
func (s *QualityService) ScoreBook(ctx context.Context, bookID, userID primitive.ObjectID, role string) (*models.QualityScore, error) {
	book, err := s.books.loadOwned(ctx, bookID, userID, role)
	if err != nil {
		return nil, err
	}
	if len(book.Chapters) == 0 {
		return nil, ErrInvalidInput
	}

	if err := s.writing.consumeCredit(ctx, userID); err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(qualityPrompt, book.Title, book.Genre, sampleExcerpt(book, 8000))

	var result qualityResult
	if err := s.gen.GenerateJSON(ctx, prompt, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}

	score := &models.QualityScore{
		Overall:    clampScore(result.Overall),
		Clarity:    clampScore(result.Clarity),
		Pacing:     clampScore(result.Pacing),
		Grammar:    clampScore(result.Grammar),
		Engagement: clampScore(result.Engagement),
		Model:      s.gen.Model(),
		ScoredAt:   time.Now(),
	}
	book.Quality = score

	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}

	if err := s.refreshCredibility(ctx, book.Author); err != nil {
		// 信譽統計失敗不影響評分結果
		return score, nil
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, book.Author, models.NotifyQualityScored,
			"品質評分完成", fmt.Sprintf("《%s》獲得總分 %.0f。", book.Title, score.Overall), &book.ID)
	}
	return score, nil
}

// refreshCredibility 重算作者的出版數與平均品質分數
func (s *QualityService) refreshCredibility(ctx context.Context, author primitive.ObjectID) error {
	books, err := s.bookRepo.FindByAuthor(ctx, author)
	if err != nil {
		return err
	}

	published := 0
	var sum float64
	scored := 0
	for _, b := range books {
		if b.Status == models.BookStatusPublished {
			published++
		}
		if b.Quality != nil {
			sum += b.Quality.Overall
			scored++
		}
	}

	user, err := s.userRepo.FindByID(ctx, author)
	if err != nil {
		return err
	}
	user.Credibility.PublishedBooks = published
	if scored > 0 {
		user.Credibility.AvgQuality = sum / float64(scored)
	}
	return s.userRepo.Update(ctx, user)
}

// sampleExcerpt 從頭尾章節抽出評分用的節錄
func sampleExcerpt(book *models.Book, maxRunes int) string {
	var sb strings.Builder
	per := maxRunes / (len(book.Chapters) + 1)
	if per < 500 {
		per = 500
	}

	for _, ch := range book.Chapters {
		if sb.Len() >= maxRunes {
			break
		}
		sb.WriteString("## " + ch.Title + "\n")
		sb.WriteString(headOf(ch.Content, per))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func headOf(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
