package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

type BookService struct {
	bookRepo     repository.BookRepository
	templateRepo repository.TemplateRepository
	notifier     *NotificationService
}

func NewBookService(bookRepo repository.BookRepository, templateRepo repository.TemplateRepository, notifier *NotificationService) *BookService {
	return &BookService{
		bookRepo:     bookRepo,
		templateRepo: templateRepo,
		notifier:     notifier,
	}
}

// loadOwned 取書並檢查擁有權，管理員可跳過檢查
func (s *BookService) loadOwned(ctx context.Context, bookID, userID primitive.ObjectID, role string) (*models.Book, error) {
	book, err := s.bookRepo.FindByID(ctx, bookID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if book.Author != userID && role != string(models.RoleAdmin) {
		return nil, ErrForbidden
	}
	return book, nil
}

type BookInput struct {
	Title       string
	Genre       string
	Description string
	Language    string
	Tags        []string
}

func (s *BookService) CreateBook(ctx context.Context, author primitive.ObjectID, input BookInput) (*models.Book, error) {
	book := &models.Book{
		Author:      author,
		Title:       input.Title,
		Genre:       input.Genre,
		Description: input.Description,
		Language:    input.Language,
		Tags:        input.Tags,
		Status:      models.BookStatusDraft,
		Chapters:    []models.Chapter{},
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// CreateFromTemplate 依範本建書，範本需為公開或自己擁有
func (s *BookService) CreateFromTemplate(ctx context.Context, author primitive.ObjectID, templateID primitive.ObjectID, title string) (*models.Book, error) {
	tpl, err := s.templateRepo.FindByID(ctx, templateID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if !tpl.Public && tpl.Owner != author {
		return nil, ErrForbidden
	}

	now := time.Now()
	book := &models.Book{
		Author:   author,
		Title:    title,
		Genre:    tpl.Genre,
		Status:   models.BookStatusDraft,
		Layout:   tpl.Layout,
		Chapters: make([]models.Chapter, 0, len(tpl.Structure)),
	}
	for i, entry := range tpl.Structure {
		book.Chapters = append(book.Chapters, models.Chapter{
			ID:        primitive.NewObjectID(),
			Index:     i + 1,
			Title:     entry.Title,
			Summary:   entry.Outline,
			Status:    "draft",
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *BookService) GetBook(ctx context.Context, bookID, userID primitive.ObjectID, role string) (*models.Book, error) {
	return s.loadOwned(ctx, bookID, userID, role)
}

func (s *BookService) ListBooks(ctx context.Context, author primitive.ObjectID) ([]models.Book, error) {
	return s.bookRepo.FindByAuthor(ctx, author)
}

func (s *BookService) ListPublished(ctx context.Context, genre string, limit, skip int64) ([]models.Book, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.bookRepo.FindPublished(ctx, repository.BookListOptions{
		Genre: genre,
		Limit: limit,
		Skip:  skip,
	})
}

// Preview 公開預覽：已出版書籍的書目資訊加第一章
func (s *BookService) Preview(ctx context.Context, bookID primitive.ObjectID) (*models.Book, error) {
	book, err := s.bookRepo.FindByID(ctx, bookID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if book.Status != models.BookStatusPublished {
		return nil, ErrNotFound
	}

	if len(book.Chapters) > 1 {
		book.Chapters = book.Chapters[:1]
	}
	return book, nil
}

type BookUpdate struct {
	Title       *string
	Genre       *string
	Description *string
	Synopsis    *string
	Language    *string
	Tags        []string
}

func (s *BookService) UpdateBook(ctx context.Context, bookID, userID primitive.ObjectID, role string, update BookUpdate) (*models.Book, error) {
	book, err := s.loadOwned(ctx, bookID, userID, role)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		book.Title = *update.Title
	}
	if update.Genre != nil {
		book.Genre = *update.Genre
	}
	if update.Description != nil {
		book.Description = *update.Description
	}
	if update.Synopsis != nil {
		book.Synopsis = *update.Synopsis
	}
	if update.Language != nil {
		book.Language = *update.Language
	}
	if update.Tags != nil {
		book.Tags = update.Tags
	}

	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *BookService) DeleteBook(ctx context.Context, bookID, userID primitive.ObjectID, role string) error {
	if _, err := s.loadOwned(ctx, bookID, userID, role); err != nil {
		return err
	}
	return s.bookRepo.Delete(ctx, bookID)
}

// Publish 出版書籍：至少要有一個章節與書籍簡介
func (s *BookService) Publish(ctx context.Context, bookID, userID primitive.ObjectID, role string) (*models.Book, error) {
	book, err := s.loadOwned(ctx, bookID, userID, role)
	if err != nil {
		return nil, err
	}

	if book.Status == models.BookStatusPublished {
		return nil, fmt.Errorf("%w: 書籍已經出版", ErrInvalidInput)
	}
	if len(book.Chapters) == 0 {
		return nil, fmt.Errorf("%w: 尚無章節，無法出版", ErrInvalidInput)
	}
	if strings.TrimSpace(book.Synopsis) == "" {
		return nil, fmt.Errorf("%w: 缺少書籍簡介，無法出版", ErrInvalidInput)
	}

	book.Status = models.BookStatusPublished
	book.PublishedAt = time.Now()

	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, book.Author, models.NotifyBookPublished,
			"書籍已出版", "《"+book.Title+"》已經上架。", &book.ID)
	}
	return book, nil
}

type ChapterInput struct {
	Title   string
	Content string
	Summary string
}

func (s *BookService) AddChapter(ctx context.Context, bookID, userID primitive.ObjectID, role string, input ChapterInput) (*models.Chapter, error) {
	book, err := s.loadOwned(ctx, bookID, userID, role)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	chapter := models.Chapter{
		ID:        primitive.NewObjectID(),
		Index:     len(book.Chapters) + 1,
		Title:     input.Title,
		Content:   input.Content,
		Summary:   input.Summary,
		WordCount: countWords(input.Content),
		Status:    "draft",
		CreatedAt: now,
		UpdatedAt: now,
	}
	book.Chapters = append(book.Chapters, chapter)

	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (s *BookService) UpdateChapter(ctx context.Context, bookID, chapterID, userID primitive.ObjectID, role string, input ChapterInput) (*models.Chapter, error) {
	book, err := s.loadOwned(ctx, bookID, userID, role)
	if err != nil {
		return nil, err
	}

	idx, chapter := book.FindChapter(chapterID)
	if idx < 0 {
		return nil, ErrNotFound
	}

	if input.Title != "" {
		chapter.Title = input.Title
	}
	if input.Content != "" {
		chapter.Content = input.Content
		chapter.WordCount = countWords(input.Content)
	}
	if input.Summary != "" {
		chapter.Summary = input.Summary
	}
	chapter.UpdatedAt = time.Now()

	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}
	return chapter, nil
}

func (s *BookService) DeleteChapter(ctx context.Context, bookID, chapterID, userID primitive.ObjectID, role string) error {
	book, err := s.loadOwned(ctx, bookID, userID, role)
	if err != nil {
		return err
	}

	idx, _ := book.FindChapter(chapterID)
	if idx < 0 {
		return ErrNotFound
	}

	book.Chapters = append(book.Chapters[:idx], book.Chapters[idx+1:]...)
	reindexChapters(book)

	return s.bookRepo.Update(ctx, book)
}

// ReorderChapters 依給定的章節 ID 順序重排，必須涵蓋所有章節
func (s *BookService) ReorderChapters(ctx context.Context, bookID, userID primitive.ObjectID, role string, order []primitive.ObjectID) error {
	book, err := s.loadOwned(ctx, bookID, userID, role)
	if err != nil {
		return err
	}

	if len(order) != len(book.Chapters) {
		return ErrInvalidInput
	}

	position := make(map[primitive.ObjectID]int, len(order))
	for i, id := range order {
		position[id] = i
	}
	for i := range book.Chapters {
		if _, ok := position[book.Chapters[i].ID]; !ok {
			return ErrInvalidInput
		}
	}

	sort.SliceStable(book.Chapters, func(i, j int) bool {
		return position[book.Chapters[i].ID] < position[book.Chapters[j].ID]
	})
	reindexChapters(book)

	return s.bookRepo.Update(ctx, book)
}

func reindexChapters(book *models.Book) {
	for i := range book.Chapters {
		book.Chapters[i].Index = i + 1
	}
}

func countWords(content string) int {
	return len(strings.Fields(content))
}
