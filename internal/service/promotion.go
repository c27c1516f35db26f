package service

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/internal/config"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// 熱度因素的統計窗口
const velocityWindow = 7 * 24 * time.Hour

// 各因素歸一化時的半飽和參數：x/(x+scale)
const (
	velocityScale    = 50.0 // 每週瀏覽數
	socialScale      = 100.0
	followerScale    = 500.0
	publishedScale   = 5.0
	promotedPoolSize = 200 // 參與排行的書籍數上限
)

// PromotionFactors 單本書的各項歸一化因素 (0-1)
type PromotionFactors struct {
	Quality     float64 `json:"quality"`
	Velocity    float64 `json:"velocity"`
	Social      float64 `json:"social"`
	Conversion  float64 `json:"conversion"`
	Credibility float64 `json:"credibility"`
}

// RankedBook 排行結果
type RankedBook struct {
	Book    models.Book      `json:"book"`
	Score   float64          `json:"score"`
	Factors PromotionFactors `json:"factors"`
}

type PromotionService struct {
	bookRepo     repository.BookRepository
	activityRepo repository.ActivityRepository
	userRepo     repository.UserRepository
	weights      config.PromotionConfig
}

func NewPromotionService(bookRepo repository.BookRepository, activityRepo repository.ActivityRepository,
	userRepo repository.UserRepository, weights config.PromotionConfig) *PromotionService {
	return &PromotionService{
		bookRepo:     bookRepo,
		activityRepo: activityRepo,
		userRepo:     userRepo,
		weights:      weights,
	}
}

// PromotedBooks 計算已出版書籍的加權排行，取前 limit 名
func (s *PromotionService) PromotedBooks(ctx context.Context, limit int) ([]RankedBook, error) {
	if limit <= 0 || limit > promotedPoolSize {
		limit = 10
	}

	books, err := s.bookRepo.FindPublished(ctx, repository.BookListOptions{Limit: promotedPoolSize})
	if err != nil {
		return nil, err
	}

	viewCounts, err := s.activityRepo.ViewCountsSince(ctx, time.Now().Add(-velocityWindow))
	if err != nil {
		return nil, err
	}

	// 作者信譽逐一載入，同作者只查一次
	credibility := map[primitive.ObjectID]models.Credibility{}
	for _, book := range books {
		if _, ok := credibility[book.Author]; ok {
			continue
		}
		user, err := s.userRepo.FindByID(ctx, book.Author)
		if err != nil {
			credibility[book.Author] = models.Credibility{}
			continue
		}
		credibility[book.Author] = user.Credibility
	}

	ranked := make([]RankedBook, 0, len(books))
	for _, book := range books {
		factors := ComputeFactors(&book, viewCounts[book.ID], credibility[book.Author])
		ranked = append(ranked, RankedBook{
			Book:    book,
			Score:   Score(factors, s.weights),
			Factors: factors,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// ComputeFactors 把原始統計換算成 0-1 的因素值。
// 缺少品質評分或瀏覽數時，對應因素為 0 而非錯誤。
func ComputeFactors(book *models.Book, recentViews int64, cred models.Credibility) PromotionFactors {
	var f PromotionFactors

	if book.Quality != nil {
		f.Quality = book.Quality.Overall / 100
	}

	f.Velocity = saturate(float64(recentViews), velocityScale)

	social := float64(book.Stats.Likes + book.Stats.Shares + book.Stats.Comments)
	f.Social = saturate(social, socialScale)

	if book.Stats.Views > 0 {
		conversion := float64(book.Stats.Sales) / float64(book.Stats.Views)
		if conversion > 1 {
			conversion = 1
		}
		f.Conversion = conversion
	}

	f.Credibility = credibilityFactor(cred)
	return f
}

// credibilityFactor 作者信譽：出版數、追蹤者與平均品質各佔三分之一
func credibilityFactor(cred models.Credibility) float64 {
	published := saturate(float64(cred.PublishedBooks), publishedScale)
	followers := saturate(float64(cred.Followers), followerScale)
	quality := cred.AvgQuality / 100
	return (published + followers + quality) / 3
}

// Score 加權總分
func Score(f PromotionFactors, w config.PromotionConfig) float64 {
	return f.Quality*w.QualityWeight +
		f.Velocity*w.VelocityWeight +
		f.Social*w.SocialWeight +
		f.Conversion*w.ConversionWeight +
		f.Credibility*w.CredibilityWeight
}

// saturate 有界歸一化：x/(x+scale)，x 越大越接近 1
func saturate(x, scale float64) float64 {
	if x <= 0 {
		return 0
	}
	return x / (x + scale)
}
