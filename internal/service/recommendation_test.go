package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/internal/models"
)

func TestTopGenres(t *testing.T) {
	counts := map[string]int{
		"fantasy":  5,
		"romance":  3,
		"thriller": 3,
		"scifi":    1,
	}
	// 次數相同時按名稱排序，結果是確定性的
	assert.Equal(t, []string{"fantasy", "romance", "thriller"}, topGenres(counts, 3))
	assert.Equal(t, []string{"fantasy"}, topGenres(counts, 1))
	assert.Empty(t, topGenres(map[string]int{}, 3))
}

func TestRecommendForUser(t *testing.T) {
	ctx := context.Background()
	bookRepo := newFakeBookRepo()
	userRepo := newFakeUserRepo()
	activityRepo := &fakeActivityRepo{}

	promotion := NewPromotionService(bookRepo, activityRepo, userRepo, testWeights())
	svc := NewRecommendationService(bookRepo, activityRepo, promotion)

	reader := primitive.NewObjectID()
	author := primitive.NewObjectID()

	publish := func(title, genre string, quality float64) *models.Book {
		book := &models.Book{
			Author:  author,
			Title:   title,
			Genre:   genre,
			Status:  models.BookStatusPublished,
			Quality: &models.QualityScore{Overall: quality},
		}
		require.NoError(t, bookRepo.Create(ctx, book))
		return book
	}

	seenBook := publish("看過的奇幻", "fantasy", 90)
	fantasy := publish("新的奇幻", "fantasy", 70)
	romance := publish("言情", "romance", 95)

	// 讀者自己的書不應被推薦
	own := &models.Book{
		Author: reader,
		Title:  "自己的書",
		Genre:  "fantasy",
		Status: models.BookStatusPublished,
	}
	require.NoError(t, bookRepo.Create(ctx, own))

	// 讀者近期只看奇幻
	require.NoError(t, activityRepo.Create(ctx, &models.UserActivity{
		UserID: reader, Action: models.ActionView, BookID: seenBook.ID,
	}))

	got, err := svc.RecommendForUser(ctx, reader, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// 偏好類型優先，即使整體分數較低
	assert.Equal(t, fantasy.ID, got[0].Book.ID)
	assert.Equal(t, romance.ID, got[1].Book.ID)

	for _, rb := range got {
		assert.NotEqual(t, seenBook.ID, rb.Book.ID, "互動過的書不應再推薦")
		assert.NotEqual(t, own.ID, rb.Book.ID, "自己的書不應被推薦")
	}
}

func TestRecommendForUserNoHistory(t *testing.T) {
	ctx := context.Background()
	bookRepo := newFakeBookRepo()
	userRepo := newFakeUserRepo()
	activityRepo := &fakeActivityRepo{}

	promotion := NewPromotionService(bookRepo, activityRepo, userRepo, testWeights())
	svc := NewRecommendationService(bookRepo, activityRepo, promotion)

	author := primitive.NewObjectID()
	require.NoError(t, bookRepo.Create(ctx, &models.Book{
		Author: author, Title: "唯一的書", Genre: "scifi",
		Status:  models.BookStatusPublished,
		Quality: &models.QualityScore{Overall: 60},
	}))

	// 沒有任何互動記錄時退回整體排行
	got, err := svc.RecommendForUser(ctx, primitive.NewObjectID(), 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "唯一的書", got[0].Book.Title)
}
