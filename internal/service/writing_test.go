package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/internal/models"
)

func newTestWritingService(gen *fakeGen) (*WritingService, *fakeBookRepo, *fakeUserRepo) {
	bookRepo := newFakeBookRepo()
	userRepo := newFakeUserRepo()
	books := NewBookService(bookRepo, newFakeTemplateRepo(), nil)
	return NewWritingService(bookRepo, userRepo, books, gen), bookRepo, userRepo
}

func seedAuthorWithChapter(t *testing.T, bookRepo *fakeBookRepo, userRepo *fakeUserRepo,
	plan models.SubscriptionPlan, used int) (*models.User, *models.Book, primitive.ObjectID) {
	t.Helper()

	user := &models.User{
		Username: "writer",
		Role:     models.RoleAuthor,
		Subscription: models.Subscription{
			Plan:           plan,
			Status:         "active",
			AICreditsUsed:  used,
			CreditsResetAt: time.Now().AddDate(0, 1, 0),
		},
	}
	require.NoError(t, userRepo.Create(context.Background(), user))

	chapterID := primitive.NewObjectID()
	book := &models.Book{
		Author: user.ID,
		Title:  "試作",
		Genre:  "fantasy",
		Status: models.BookStatusDraft,
		Chapters: []models.Chapter{
			{ID: chapterID, Index: 1, Title: "第一章", Summary: "主角登場"},
		},
	}
	require.NoError(t, bookRepo.Create(context.Background(), book))
	return user, book, chapterID
}

func TestDraftChapter(t *testing.T) {
	gen := &fakeGen{text: "Generated chapter text with several words here."}
	svc, bookRepo, userRepo := newTestWritingService(gen)
	ctx := context.Background()

	user, book, chapterID := seedAuthorWithChapter(t, bookRepo, userRepo, models.PlanFree, 0)

	chapter, err := svc.DraftChapter(ctx, book.ID, chapterID, user.ID, string(user.Role), "make it dramatic")
	require.NoError(t, err)
	assert.Equal(t, gen.text, chapter.Content)
	assert.Equal(t, 7, chapter.WordCount)
	assert.Equal(t, 1, gen.calls)

	// 生成會扣一次額度
	updated, err := userRepo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Subscription.AICreditsUsed)

	// 內容會存回書籍
	stored, err := bookRepo.FindByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, gen.text, stored.Chapters[0].Content)
}

func TestDraftChapterQuotaExceeded(t *testing.T) {
	gen := &fakeGen{text: "should not be used"}
	svc, bookRepo, userRepo := newTestWritingService(gen)
	ctx := context.Background()

	// free 方案每月 10 次，已用完
	user, book, chapterID := seedAuthorWithChapter(t, bookRepo, userRepo, models.PlanFree, 10)

	_, err := svc.DraftChapter(ctx, book.ID, chapterID, user.ID, string(user.Role), "")
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	// 超額時不會呼叫生成
	assert.Zero(t, gen.calls)
}

func TestDraftChapterCreditRollover(t *testing.T) {
	gen := &fakeGen{text: "fresh words for a new month"}
	svc, bookRepo, userRepo := newTestWritingService(gen)
	ctx := context.Background()

	// 上一期的額度已用完，但週期已屆滿
	user, book, chapterID := seedAuthorWithChapter(t, bookRepo, userRepo, models.PlanFree, 10)
	stored, err := userRepo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	stored.Subscription.CreditsResetAt = time.Now().Add(-time.Hour)
	require.NoError(t, userRepo.Update(ctx, stored))

	_, err = svc.DraftChapter(ctx, book.ID, chapterID, user.ID, string(user.Role), "")
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls)

	// 額度歸零後扣一次，並排定下一個週期
	updated, err := userRepo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Subscription.AICreditsUsed)
	assert.True(t, updated.Subscription.CreditsResetAt.After(time.Now()))
}

func TestDraftChapterExpiredPaidPlan(t *testing.T) {
	gen := &fakeGen{text: "should not be used"}
	svc, bookRepo, userRepo := newTestWritingService(gen)
	ctx := context.Background()

	// plus 方案已過期，額度退回 free 的 10 次
	user, book, chapterID := seedAuthorWithChapter(t, bookRepo, userRepo, models.PlanPlus, 10)
	stored, err := userRepo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	stored.Subscription.CurrentPeriodEnd = time.Now().Add(-24 * time.Hour)
	require.NoError(t, userRepo.Update(ctx, stored))

	_, err = svc.DraftChapter(ctx, book.ID, chapterID, user.ID, string(user.Role), "")
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Zero(t, gen.calls)

	updated, err := userRepo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanFree, updated.Subscription.Plan)
	assert.Equal(t, "expired", updated.Subscription.Status)
}

func TestContinueChapterRequiresContent(t *testing.T) {
	gen := &fakeGen{text: "and the story goes on"}
	svc, bookRepo, userRepo := newTestWritingService(gen)
	ctx := context.Background()

	user, book, chapterID := seedAuthorWithChapter(t, bookRepo, userRepo, models.PlanPlus, 0)

	// 空白章節不能續寫
	_, err := svc.ContinueChapter(ctx, book.ID, chapterID, user.ID, string(user.Role), "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	stored, _ := bookRepo.FindByID(ctx, book.ID)
	stored.Chapters[0].Content = "It was a dark and stormy night."
	require.NoError(t, bookRepo.Update(ctx, stored))

	chapter, err := svc.ContinueChapter(ctx, book.ID, chapterID, user.ID, string(user.Role), "")
	require.NoError(t, err)
	assert.Contains(t, chapter.Content, "It was a dark and stormy night.")
	assert.Contains(t, chapter.Content, "and the story goes on")
}

func TestDraftChapterGeneratorFailure(t *testing.T) {
	gen := &fakeGen{err: errors.New("upstream timeout")}
	svc, bookRepo, userRepo := newTestWritingService(gen)
	ctx := context.Background()

	user, book, chapterID := seedAuthorWithChapter(t, bookRepo, userRepo, models.PlanPro, 0)

	_, err := svc.DraftChapter(ctx, book.ID, chapterID, user.ID, string(user.Role), "")
	assert.ErrorIs(t, err, ErrAIUnavailable)
}

func TestDraftChapterForbidden(t *testing.T) {
	gen := &fakeGen{text: "x"}
	svc, bookRepo, userRepo := newTestWritingService(gen)
	ctx := context.Background()

	_, book, chapterID := seedAuthorWithChapter(t, bookRepo, userRepo, models.PlanFree, 0)

	stranger := &models.User{Username: "other", Role: models.RoleAuthor,
		Subscription: models.Subscription{Plan: models.PlanFree, Status: "active"}}
	require.NoError(t, userRepo.Create(ctx, stranger))

	_, err := svc.DraftChapter(ctx, book.ID, chapterID, stranger.ID, string(stranger.Role), "")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Zero(t, gen.calls)
}

func TestGenerateSynopsis(t *testing.T) {
	gen := &fakeGen{text: "A sweeping tale of stardust and ambition."}
	svc, bookRepo, userRepo := newTestWritingService(gen)
	ctx := context.Background()

	user, book, _ := seedAuthorWithChapter(t, bookRepo, userRepo, models.PlanFree, 0)

	got, err := svc.GenerateSynopsis(ctx, book.ID, user.ID, string(user.Role))
	require.NoError(t, err)
	assert.Equal(t, gen.text, got.Synopsis)

	stored, err := bookRepo.FindByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, gen.text, stored.Synopsis)
}

func TestTailOf(t *testing.T) {
	assert.Equal(t, "hello", tailOf("hello", 10))
	assert.Equal(t, "llo", tailOf("hello", 3))
	// 以 rune 為單位截斷，不會切壞多位元組字元
	assert.Equal(t, "故事", tailOf("一個故事", 2))
}
