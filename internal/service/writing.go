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

// TextGenerator 抽象出 AI 文字生成，正式環境由 gemini.Client 實作
type TextGenerator interface {
	Model() string
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateJSON(ctx context.Context, prompt string, out interface{}) error
}

const draftPrompt = `You are a professional ghostwriter. Write the full text of one book chapter.

Book title: %s
Genre: %s
Book description: %s
Chapter title: %s
Chapter outline: %s
Additional instructions: %s

Rules:
- Write in %s.
- Write prose only, no headings, no markdown, no commentary.
- Aim for 900-1500 words.`

const continuePrompt = `You are a professional ghostwriter continuing a book chapter mid-flow.

Book title: %s
Genre: %s
Chapter title: %s
Chapter text so far (continue directly from the end):
---
%s
---
Additional instructions: %s

Rules:
- Continue seamlessly from the last sentence. Do not repeat existing text.
- Prose only, no commentary.
- Aim for 400-800 words.`

const improvePrompt = `You are a developmental editor. Rewrite the following book chapter to improve clarity, pacing and style while preserving plot, characters and voice.

Book title: %s
Genre: %s
Chapter title: %s
Editing focus: %s

Chapter text:
---
%s
---

Return only the rewritten chapter text, no commentary.`

const synopsisPrompt = `Write a compelling back-cover synopsis (120-200 words) for the following book. Return only the synopsis text.

Title: %s
Genre: %s
Description: %s
Chapter summaries:
%s`

type WritingService struct {
	bookRepo repository.BookRepository
	userRepo repository.UserRepository
	books    *BookService
	gen      TextGenerator
}

func NewWritingService(bookRepo repository.BookRepository, userRepo repository.UserRepository, books *BookService, gen TextGenerator) *WritingService {
	return &WritingService{
		bookRepo: bookRepo,
		userRepo: userRepo,
		books:    books,
		gen:      gen,
	}
}

// consumeCredit 檢查本月 AI 額度並扣除一次，超額回傳 ErrQuotaExceeded。
// 檢查前先滾動訂閱：付費方案過期退回 free，額度週期屆滿時歸零。
func (s *WritingService) consumeCredit(ctx context.Context, userID primitive.ObjectID) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.Subscription.Refresh(time.Now()) {
		if err := s.userRepo.Update(ctx, user); err != nil {
			return err
		}
	}

	if user.Subscription.AICreditsUsed >= user.Subscription.Plan.MonthlyAICredits() {
		return ErrQuotaExceeded
	}
	return s.userRepo.IncAICredits(ctx, userID, 1)
}

func (s *WritingService) DraftChapter(ctx context.Context, bookID, chapterID, userID primitive.ObjectID, role, instructions string) (*models.Chapter, error) {
	book, err := s.books.loadOwned(ctx, bookID, userID, role)
	if err != nil {
		return nil, err
	}

	idx, chapter := book.FindChapter(chapterID)
	if idx < 0 {
		return nil, ErrNotFound
	}

	if err := s.consumeCredit(ctx, userID); err != nil {
		return nil, err
	}

	language := book.Language
	if language == "" {
		language = "the same language as the book title"
	}

	prompt := fmt.Sprintf(draftPrompt,
		book.Title, book.Genre, book.Description,
		chapter.Title, chapter.Summary, instructions, language)

	text, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}

	chapter.Content = strings.TrimSpace(text)
	chapter.WordCount = countWords(chapter.Content)
	chapter.UpdatedAt = time.Now()

	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}
	return chapter, nil
}

func (s *WritingService) ContinueChapter(ctx context.Context, bookID, chapterID, userID primitive.ObjectID, role, instructions string) (*models.Chapter, error) {
	book, err := s.books.loadOwned(ctx, bookID, userID, role)
	if err != nil {
		return nil, err
	}

	idx, chapter := book.FindChapter(chapterID)
	if idx < 0 {
		return nil, ErrNotFound
	}
	if strings.TrimSpace(chapter.Content) == "" {
		return nil, ErrInvalidInput
	}

	if err := s.consumeCredit(ctx, userID); err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(continuePrompt,
		book.Title, book.Genre, chapter.Title,
		tailOf(chapter.Content, 6000), instructions)

	text, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}

	chapter.Content = chapter.Content + "\n\n" + strings.TrimSpace(text)
	chapter.WordCount = countWords(chapter.Content)
	chapter.UpdatedAt = time.Now()

	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}
	return chapter, nil
}

func (s *WritingService) ImproveChapter(ctx context.Context, bookID, chapterID, userID primitive.ObjectID, role, focus string) (*models.Chapter, error) {
	book, err := s.books.loadOwned(ctx, bookID, userID, role)
	if err != nil {
		return nil, err
	}

	idx, chapter := book.FindChapter(chapterID)
	if idx < 0 {
		return nil, ErrNotFound
	}
	if strings.TrimSpace(chapter.Content) == "" {
		return nil, ErrInvalidInput
	}

	if err := s.consumeCredit(ctx, userID); err != nil {
		return nil, err
	}

	if focus == "" {
		focus = "overall clarity and pacing"
	}
	prompt := fmt.Sprintf(improvePrompt, book.Title, book.Genre, chapter.Title, focus, chapter.Content)

	text, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}

	chapter.Content = strings.TrimSpace(text)
	chapter.WordCount = countWords(chapter.Content)
	chapter.UpdatedAt = time.Now()

	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}
	return chapter, nil
}

// GenerateSynopsis 依章節摘要產生書籍簡介並存回書籍
func (s *WritingService) GenerateSynopsis(ctx context.Context, bookID, userID primitive.ObjectID, role string) (*models.Book, error) {
	book, err := s.books.loadOwned(ctx, bookID, userID, role)
	if err != nil {
		return nil, err
	}
	if len(book.Chapters) == 0 {
		return nil, ErrInvalidInput
	}

	if err := s.consumeCredit(ctx, userID); err != nil {
		return nil, err
	}

	var summaries strings.Builder
	for _, ch := range book.Chapters {
		summary := ch.Summary
		if summary == "" {
			summary = tailOf(ch.Content, 300)
		}
		fmt.Fprintf(&summaries, "- %s: %s\n", ch.Title, summary)
	}

	prompt := fmt.Sprintf(synopsisPrompt, book.Title, book.Genre, book.Description, summaries.String())

	text, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}

	book.Synopsis = strings.TrimSpace(text)
	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// tailOf 取字串結尾最多 n 個 rune，避免 prompt 過長
func tailOf(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}
