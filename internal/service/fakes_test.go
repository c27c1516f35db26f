package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// 測試用的 in-memory repository 實作

type fakeBookRepo struct {
	books map[primitive.ObjectID]*models.Book
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: map[primitive.ObjectID]*models.Book{}}
}

func (r *fakeBookRepo) Create(ctx context.Context, book *models.Book) error {
	if book.ID.IsZero() {
		book.ID = primitive.NewObjectID()
	}
	book.CreatedAt = time.Now()
	book.UpdatedAt = book.CreatedAt
	copied := *book
	r.books[book.ID] = &copied
	return nil
}

func (r *fakeBookRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	book, ok := r.books[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *book
	return &copied, nil
}

func (r *fakeBookRepo) FindByAuthor(ctx context.Context, author primitive.ObjectID) ([]models.Book, error) {
	out := []models.Book{}
	for _, book := range r.books {
		if book.Author == author {
			out = append(out, *book)
		}
	}
	return out, nil
}

func (r *fakeBookRepo) FindPublished(ctx context.Context, opts repository.BookListOptions) ([]models.Book, error) {
	out := []models.Book{}
	for _, book := range r.books {
		if book.Status != models.BookStatusPublished {
			continue
		}
		if opts.Genre != "" && book.Genre != opts.Genre {
			continue
		}
		if !opts.ExcludeAuthor.IsZero() && book.Author == opts.ExcludeAuthor {
			continue
		}
		out = append(out, *book)
	}
	return out, nil
}

func (r *fakeBookRepo) Update(ctx context.Context, book *models.Book) error {
	if _, ok := r.books[book.ID]; !ok {
		return repository.ErrNotFound
	}
	book.UpdatedAt = time.Now()
	copied := *book
	r.books[book.ID] = &copied
	return nil
}

func (r *fakeBookRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.books[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.books, id)
	return nil
}

func (r *fakeBookRepo) IncStat(ctx context.Context, id primitive.ObjectID, field string, delta int64) error {
	book, ok := r.books[id]
	if !ok {
		return repository.ErrNotFound
	}
	switch field {
	case "stats.views":
		book.Stats.Views += delta
	case "stats.likes":
		book.Stats.Likes += delta
	case "stats.shares":
		book.Stats.Shares += delta
	case "stats.comments":
		book.Stats.Comments += delta
	case "stats.sales":
		book.Stats.Sales += delta
	}
	return nil
}

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*models.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) IncAICredits(ctx context.Context, id primitive.ObjectID, delta int) error {
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.Subscription.AICreditsUsed += delta
	return nil
}

type fakeTemplateRepo struct {
	templates map[primitive.ObjectID]*models.BookTemplate
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: map[primitive.ObjectID]*models.BookTemplate{}}
}

func (r *fakeTemplateRepo) Create(ctx context.Context, tpl *models.BookTemplate) error {
	if tpl.ID.IsZero() {
		tpl.ID = primitive.NewObjectID()
	}
	copied := *tpl
	r.templates[tpl.ID] = &copied
	return nil
}

func (r *fakeTemplateRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.BookTemplate, error) {
	tpl, ok := r.templates[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *tpl
	return &copied, nil
}

func (r *fakeTemplateRepo) FindVisible(ctx context.Context, owner primitive.ObjectID) ([]models.BookTemplate, error) {
	out := []models.BookTemplate{}
	for _, tpl := range r.templates {
		if tpl.Public || tpl.Owner == owner {
			out = append(out, *tpl)
		}
	}
	return out, nil
}

func (r *fakeTemplateRepo) Update(ctx context.Context, tpl *models.BookTemplate) error {
	if _, ok := r.templates[tpl.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *tpl
	r.templates[tpl.ID] = &copied
	return nil
}

func (r *fakeTemplateRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.templates[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.templates, id)
	return nil
}

type fakeConversationRepo struct {
	conversations map[primitive.ObjectID]*models.Conversation
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{conversations: map[primitive.ObjectID]*models.Conversation{}}
}

func (r *fakeConversationRepo) Create(ctx context.Context, conv *models.Conversation) error {
	if conv.ID.IsZero() {
		conv.ID = primitive.NewObjectID()
	}
	conv.CreatedAt = time.Now()
	copied := *conv
	r.conversations[conv.ID] = &copied
	return nil
}

func (r *fakeConversationRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Conversation, error) {
	conv, ok := r.conversations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *conv
	return &copied, nil
}

func (r *fakeConversationRepo) FindByParticipant(ctx context.Context, userID primitive.ObjectID) ([]models.Conversation, error) {
	out := []models.Conversation{}
	for _, conv := range r.conversations {
		if conv.HasParticipant(userID) {
			out = append(out, *conv)
		}
	}
	return out, nil
}

func (r *fakeConversationRepo) TouchLastMessage(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	conv, ok := r.conversations[id]
	if !ok {
		return repository.ErrNotFound
	}
	conv.LastMessageAt = at
	return nil
}

type fakeActivityRepo struct {
	activities []models.UserActivity
}

func (r *fakeActivityRepo) Create(ctx context.Context, a *models.UserActivity) error {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	r.activities = append(r.activities, *a)
	return nil
}

func (r *fakeActivityRepo) FindByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.UserActivity, error) {
	out := []models.UserActivity{}
	for _, a := range r.activities {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeActivityRepo) ViewCountsSince(ctx context.Context, since time.Time) (map[primitive.ObjectID]int64, error) {
	counts := map[primitive.ObjectID]int64{}
	for _, a := range r.activities {
		if a.Action == models.ActionView && a.CreatedAt.After(since) {
			counts[a.BookID]++
		}
	}
	return counts, nil
}

func (r *fakeActivityRepo) CountsByBook(ctx context.Context, bookID primitive.ObjectID) (map[models.ActivityAction]int64, error) {
	counts := map[models.ActivityAction]int64{}
	for _, a := range r.activities {
		if a.BookID == bookID {
			counts[a.Action]++
		}
	}
	return counts, nil
}

// fakeGen 回傳固定文字的 TextGenerator
type fakeGen struct {
	text  string
	err   error
	calls int
}

func (g *fakeGen) Model() string { return "fake-model" }

func (g *fakeGen) GenerateText(ctx context.Context, prompt string) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.text, nil
}

func (g *fakeGen) GenerateJSON(ctx context.Context, prompt string, out interface{}) error {
	g.calls++
	return g.err
}
