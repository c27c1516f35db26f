package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/internal/models"
	"inkwell/internal/platform/tts"
	"inkwell/internal/repository"
)

// 單次朗讀的文字上限，避免 TTS 請求過大
const maxNarrationRunes = 4500

type NarrationService struct {
	bookRepo repository.BookRepository
	books    *BookService
	writing  *WritingService
	synth    tts.Synthesizer
	assets   *AssetStore
}

func NewNarrationService(bookRepo repository.BookRepository, books *BookService,
	writing *WritingService, synth tts.Synthesizer, assets *AssetStore) *NarrationService {
	return &NarrationService{
		bookRepo: bookRepo,
		books:    books,
		writing:  writing,
		synth:    synth,
		assets:   assets,
	}
}

// NarrateChapter 將章節內容轉成朗讀音檔並存回章節
func (s *NarrationService) NarrateChapter(ctx context.Context, bookID, chapterID, userID primitive.ObjectID, role string) (*models.Chapter, error) {
	if s.synth == nil {
		return nil, ErrAIUnavailable
	}

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

	if err := s.writing.consumeCredit(ctx, userID); err != nil {
		return nil, err
	}

	audio, err := s.synth.Synthesize(ctx, headOf(chapter.Content, maxNarrationRunes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}

	url, err := s.assets.Save("narration", ".mp3", audio)
	if err != nil {
		return nil, err
	}

	chapter.NarrationURL = url
	chapter.UpdatedAt = time.Now()

	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}
	return chapter, nil
}
