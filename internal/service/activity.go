package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

type ActivityService struct {
	activityRepo repository.ActivityRepository
	bookRepo     repository.BookRepository
}

func NewActivityService(activityRepo repository.ActivityRepository, bookRepo repository.BookRepository) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		bookRepo:     bookRepo,
	}
}

// Track 記錄一次互動並同步累加書籍統計
func (s *ActivityService) Track(ctx context.Context, userID, bookID primitive.ObjectID,
	action models.ActivityAction, metadata map[string]string) error {
	if !models.ValidActions[action] {
		return ErrInvalidInput
	}

	book, err := s.bookRepo.FindByID(ctx, bookID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	// 只有已出版的書開放互動追蹤
	if book.Status != models.BookStatusPublished {
		return ErrNotFound
	}

	if err := s.activityRepo.Create(ctx, &models.UserActivity{
		UserID:   userID,
		Action:   action,
		BookID:   bookID,
		Metadata: metadata,
	}); err != nil {
		return err
	}

	return s.bookRepo.IncStat(ctx, bookID, action.StatField(), 1)
}

// BookStatsReport 書籍統計：文件上的累計值加上活動聚合
type BookStatsReport struct {
	Stats  models.BookStats                `json:"stats"`
	Counts map[models.ActivityAction]int64 `json:"activity_counts"`
}

func (s *ActivityService) BookStats(ctx context.Context, bookID, userID primitive.ObjectID, role string) (*BookStatsReport, error) {
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

	counts, err := s.activityRepo.CountsByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return &BookStatsReport{Stats: book.Stats, Counts: counts}, nil
}

func (s *ActivityService) Feed(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.UserActivity, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.activityRepo.FindByUser(ctx, userID, limit)
}
