package service

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// 推薦時回顧最近多少筆用戶活動
const recentActivityWindow = 100

type RecommendationService struct {
	bookRepo     repository.BookRepository
	activityRepo repository.ActivityRepository
	promotion    *PromotionService
}

func NewRecommendationService(bookRepo repository.BookRepository, activityRepo repository.ActivityRepository,
	promotion *PromotionService) *RecommendationService {
	return &RecommendationService{
		bookRepo:     bookRepo,
		activityRepo: activityRepo,
		promotion:    promotion,
	}
}

// RecommendForUser 依用戶近期互動過的類型排出推薦書單：
// 先取偏好類型中的排行書，不足再以整體排行補滿，排除自己的書與互動過的書。
func (s *RecommendationService) RecommendForUser(ctx context.Context, userID primitive.ObjectID, limit int) ([]RankedBook, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	activities, err := s.activityRepo.FindByUser(ctx, userID, recentActivityWindow)
	if err != nil {
		return nil, err
	}

	seen := map[primitive.ObjectID]bool{}
	genreCounts := map[string]int{}
	for _, a := range activities {
		if a.BookID.IsZero() {
			continue
		}
		seen[a.BookID] = true
		book, err := s.bookRepo.FindByID(ctx, a.BookID)
		if err != nil {
			continue
		}
		genreCounts[book.Genre]++
	}

	preferred := topGenres(genreCounts, 3)

	ranked, err := s.promotion.PromotedBooks(ctx, promotedPoolSize)
	if err != nil {
		return nil, err
	}

	result := make([]RankedBook, 0, limit)
	appendMatching := func(match func(models.Book) bool) {
		for _, rb := range ranked {
			if len(result) >= limit {
				return
			}
			if rb.Book.Author == userID || seen[rb.Book.ID] {
				continue
			}
			if !match(rb.Book) {
				continue
			}
			seen[rb.Book.ID] = true
			result = append(result, rb)
		}
	}

	if len(preferred) > 0 {
		preferredSet := map[string]bool{}
		for _, g := range preferred {
			preferredSet[g] = true
		}
		appendMatching(func(b models.Book) bool { return preferredSet[b.Genre] })
	}
	// 不足時以整體排行補滿
	appendMatching(func(models.Book) bool { return true })

	return result, nil
}

// topGenres 出現次數最多的前 n 個類型
func topGenres(counts map[string]int, n int) []string {
	genres := make([]string, 0, len(counts))
	for g := range counts {
		genres = append(genres, g)
	}
	sort.Slice(genres, func(i, j int) bool {
		if counts[genres[i]] != counts[genres[j]] {
			return counts[genres[i]] > counts[genres[j]]
		}
		return genres[i] < genres[j]
	})
	if len(genres) > n {
		genres = genres[:n]
	}
	return genres
}
