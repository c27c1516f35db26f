package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/internal/models"
)

func newTestBookService() (*BookService, *fakeBookRepo, *fakeTemplateRepo) {
	bookRepo := newFakeBookRepo()
	tplRepo := newFakeTemplateRepo()
	return NewBookService(bookRepo, tplRepo, nil), bookRepo, tplRepo
}

func TestBookOwnership(t *testing.T) {
	svc, _, _ := newTestBookService()
	ctx := context.Background()

	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	book, err := svc.CreateBook(ctx, owner, BookInput{Title: "星塵之書", Genre: "fantasy"})
	require.NoError(t, err)

	// 擁有者可以讀取
	got, err := svc.GetBook(ctx, book.ID, owner, string(models.RoleAuthor))
	require.NoError(t, err)
	assert.Equal(t, "星塵之書", got.Title)

	// 其他用戶會被拒絕
	_, err = svc.GetBook(ctx, book.ID, stranger, string(models.RoleAuthor))
	assert.ErrorIs(t, err, ErrForbidden)

	// 管理員可跳過檢查
	_, err = svc.GetBook(ctx, book.ID, stranger, string(models.RoleAdmin))
	assert.NoError(t, err)

	// 不存在的書
	_, err = svc.GetBook(ctx, primitive.NewObjectID(), owner, string(models.RoleAuthor))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPublishPreconditions(t *testing.T) {
	svc, _, _ := newTestBookService()
	ctx := context.Background()
	owner := primitive.NewObjectID()

	book, err := svc.CreateBook(ctx, owner, BookInput{Title: "空白書"})
	require.NoError(t, err)

	// 沒有章節不能出版，屬於輸入錯誤而非伺服器錯誤
	_, err = svc.Publish(ctx, book.ID, owner, string(models.RoleAuthor))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.AddChapter(ctx, book.ID, owner, string(models.RoleAuthor), ChapterInput{Title: "第一章", Content: "once upon a time"})
	require.NoError(t, err)

	// 沒有簡介不能出版
	_, err = svc.Publish(ctx, book.ID, owner, string(models.RoleAuthor))
	assert.ErrorIs(t, err, ErrInvalidInput)

	synopsis := "一個關於星塵的故事。"
	_, err = svc.UpdateBook(ctx, book.ID, owner, string(models.RoleAuthor), BookUpdate{Synopsis: &synopsis})
	require.NoError(t, err)

	published, err := svc.Publish(ctx, book.ID, owner, string(models.RoleAuthor))
	require.NoError(t, err)
	assert.Equal(t, models.BookStatusPublished, published.Status)
	assert.False(t, published.PublishedAt.IsZero())

	// 重複出版會報錯
	_, err = svc.Publish(ctx, book.ID, owner, string(models.RoleAuthor))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestChapterLifecycle(t *testing.T) {
	svc, _, _ := newTestBookService()
	ctx := context.Background()
	owner := primitive.NewObjectID()
	role := string(models.RoleAuthor)

	book, err := svc.CreateBook(ctx, owner, BookInput{Title: "章節測試"})
	require.NoError(t, err)

	ch1, err := svc.AddChapter(ctx, book.ID, owner, role, ChapterInput{Title: "一", Content: "hello world"})
	require.NoError(t, err)
	assert.Equal(t, 1, ch1.Index)
	assert.Equal(t, 2, ch1.WordCount)

	ch2, err := svc.AddChapter(ctx, book.ID, owner, role, ChapterInput{Title: "二"})
	require.NoError(t, err)
	assert.Equal(t, 2, ch2.Index)

	updated, err := svc.UpdateChapter(ctx, book.ID, ch1.ID, owner, role, ChapterInput{Content: "a longer body of chapter text"})
	require.NoError(t, err)
	assert.Equal(t, 6, updated.WordCount)

	require.NoError(t, svc.DeleteChapter(ctx, book.ID, ch1.ID, owner, role))

	got, err := svc.GetBook(ctx, book.ID, owner, role)
	require.NoError(t, err)
	require.Len(t, got.Chapters, 1)
	// 刪除後剩餘章節會重新編號
	assert.Equal(t, 1, got.Chapters[0].Index)
	assert.Equal(t, ch2.ID, got.Chapters[0].ID)
}

func TestReorderChapters(t *testing.T) {
	svc, _, _ := newTestBookService()
	ctx := context.Background()
	owner := primitive.NewObjectID()
	role := string(models.RoleAuthor)

	book, err := svc.CreateBook(ctx, owner, BookInput{Title: "重排測試"})
	require.NoError(t, err)

	a, _ := svc.AddChapter(ctx, book.ID, owner, role, ChapterInput{Title: "A"})
	b, _ := svc.AddChapter(ctx, book.ID, owner, role, ChapterInput{Title: "B"})
	c, _ := svc.AddChapter(ctx, book.ID, owner, role, ChapterInput{Title: "C"})

	// 順序必須涵蓋所有章節
	err = svc.ReorderChapters(ctx, book.ID, owner, role, []primitive.ObjectID{c.ID, a.ID})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// 未知的章節 ID 也會被拒絕
	err = svc.ReorderChapters(ctx, book.ID, owner, role,
		[]primitive.ObjectID{c.ID, a.ID, primitive.NewObjectID()})
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, svc.ReorderChapters(ctx, book.ID, owner, role,
		[]primitive.ObjectID{c.ID, a.ID, b.ID}))

	got, err := svc.GetBook(ctx, book.ID, owner, role)
	require.NoError(t, err)
	require.Len(t, got.Chapters, 3)
	assert.Equal(t, "C", got.Chapters[0].Title)
	assert.Equal(t, "A", got.Chapters[1].Title)
	assert.Equal(t, "B", got.Chapters[2].Title)
	assert.Equal(t, []int{1, 2, 3}, []int{got.Chapters[0].Index, got.Chapters[1].Index, got.Chapters[2].Index})
}

func TestCreateFromTemplate(t *testing.T) {
	svc, _, tplRepo := newTestBookService()
	ctx := context.Background()
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	tpl := &models.BookTemplate{
		Owner: owner,
		Name:  "三幕劇",
		Genre: "thriller",
		Structure: []models.TemplateChapter{
			{Title: "開端", Outline: "建立世界觀"},
			{Title: "衝突", Outline: "危機升級"},
			{Title: "結局", Outline: "收束所有伏線"},
		},
	}
	require.NoError(t, tplRepo.Create(ctx, tpl))

	// 私有範本其他用戶不能套用
	_, err := svc.CreateFromTemplate(ctx, stranger, tpl.ID, "別人的書")
	assert.ErrorIs(t, err, ErrForbidden)

	book, err := svc.CreateFromTemplate(ctx, owner, tpl.ID, "我的驚悚小說")
	require.NoError(t, err)
	assert.Equal(t, "thriller", book.Genre)
	require.Len(t, book.Chapters, 3)
	assert.Equal(t, "開端", book.Chapters[0].Title)
	assert.Equal(t, "建立世界觀", book.Chapters[0].Summary)
	assert.Equal(t, 3, book.Chapters[2].Index)
}

func TestPreviewOnlyPublished(t *testing.T) {
	svc, bookRepo, _ := newTestBookService()
	ctx := context.Background()
	owner := primitive.NewObjectID()

	draft, err := svc.CreateBook(ctx, owner, BookInput{Title: "草稿"})
	require.NoError(t, err)

	// 草稿不提供公開預覽
	_, err = svc.Preview(ctx, draft.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	published := &models.Book{
		Author: owner,
		Title:  "已出版",
		Status: models.BookStatusPublished,
		Chapters: []models.Chapter{
			{ID: primitive.NewObjectID(), Index: 1, Title: "第一章"},
			{ID: primitive.NewObjectID(), Index: 2, Title: "第二章"},
		},
	}
	require.NoError(t, bookRepo.Create(ctx, published))

	got, err := svc.Preview(ctx, published.ID)
	require.NoError(t, err)
	// 預覽只包含第一章
	require.Len(t, got.Chapters, 1)
	assert.Equal(t, "第一章", got.Chapters[0].Title)
}
