package service

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/internal/models"
	"inkwell/internal/platform/imagegen"
	"inkwell/internal/repository"
)

const coverBriefPrompt = `You are a book cover art director. Design a cover concept for this book.

Return JSON with EXACTLY these fields:
{"palette": ["#hex", "#hex", "#hex"], "typography": "font pairing suggestion", "brief": "one paragraph design brief", "image_prompt": "a detailed text-to-image prompt for the cover artwork, no text in the image"}

Title: %s
Genre: %s
Synopsis: %s
Style hints: %s`

const layoutPrompt = `You are a book interior designer. Suggest a page layout for this book.

Return JSON with EXACTLY these fields:
{"trim_size": "WxH in inches", "margin_mm": number, "font": "font name", "font_size_pt": number, "line_spacing": number}

Title: %s
Genre: %s
Total word count: %d`

// ImageGenerator 抽象付費圖像生成，正式環境由 imagegen.StabilityClient 實作
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string, width, height int) ([]byte, error)
}

type DesignService struct {
	bookRepo         repository.BookRepository
	userRepo         repository.UserRepository
	books            *BookService
	writing          *WritingService
	gen              TextGenerator
	stability        ImageGenerator
	pollinationsBase string
	assets           *AssetStore
}

func NewDesignService(bookRepo repository.BookRepository, userRepo repository.UserRepository,
	books *BookService, writing *WritingService, gen TextGenerator,
	stability ImageGenerator, pollinationsBase string, assets *AssetStore) *DesignService {
	return &DesignService{
		bookRepo:         bookRepo,
		userRepo:         userRepo,
		books:            books,
		writing:          writing,
		gen:              gen,
		stability:        stability,
		pollinationsBase: pollinationsBase,
		assets:           assets,
	}
}

type coverBrief struct {
	Palette     []string `json:"palette"`
	Typography  string   `json:"typography"`
	Brief       string   `json:"brief"`
	ImagePrompt string   `json:"image_prompt"`
}

// DesignCover 產生封面設計：先請模型出設計概要，再生成封面圖。
// 免費方案走 Pollinations（URL 即圖檔），付費方案走 Stability。
func (s *DesignService) DesignCover(ctx context.Context, bookID, userID primitive.ObjectID, role, styleHints string) (*models.CoverDesign, error) {
	book, err := s.books.loadOwned(ctx, bookID, userID, role)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.writing.consumeCredit(ctx, userID); err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(coverBriefPrompt, book.Title, book.Genre, book.Synopsis, styleHints)

	var brief coverBrief
	if err := s.gen.GenerateJSON(ctx, prompt, &brief); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}

	cover := &models.CoverDesign{
		Palette:    brief.Palette,
		Typography: brief.Typography,
		Brief:      brief.Brief,
		CreatedAt:  time.Now(),
	}

	if user.Subscription.EffectivePlan(time.Now()) != models.PlanFree && s.stability != nil {
		data, err := s.stability.Generate(ctx, brief.ImagePrompt, 768, 1024)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAIUnavailable, err)
		}
		url, err := s.assets.Save("covers", ".png", data)
		if err != nil {
			return nil, err
		}
		cover.ImageURL = url
		cover.Provider = "stability"
	} else {
		cover.ImageURL = imagegen.PollinationsURL(s.pollinationsBase, brief.ImagePrompt, 768, 1024)
		cover.Provider = "pollinations"
	}

	book.Cover = cover
	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}
	return cover, nil
}

// SuggestLayout 產生並套用版面設定
func (s *DesignService) SuggestLayout(ctx context.Context, bookID, userID primitive.ObjectID, role string) (*models.PageLayout, error) {
	book, err := s.books.loadOwned(ctx, bookID, userID, role)
	if err != nil {
		return nil, err
	}

	if err := s.writing.consumeCredit(ctx, userID); err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(layoutPrompt, book.Title, book.Genre, book.TotalWordCount())

	var layout models.PageLayout
	if err := s.gen.GenerateJSON(ctx, prompt, &layout); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}

	book.Layout = &layout
	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}
	return &layout, nil
}

// GenerateImage 獨立的文生圖端點，插圖等用途
func (s *DesignService) GenerateImage(ctx context.Context, userID primitive.ObjectID, prompt string, width, height int) (string, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}

	if err := s.writing.consumeCredit(ctx, userID); err != nil {
		return "", err
	}

	if user.Subscription.EffectivePlan(time.Now()) != models.PlanFree && s.stability != nil {
		data, err := s.stability.Generate(ctx, prompt, width, height)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrAIUnavailable, err)
		}
		return s.assets.Save("images", ".png", data)
	}
	return imagegen.PollinationsURL(s.pollinationsBase, prompt, width, height), nil
}
