package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell/internal/service"
)

// WritingHandler 處理 AI 寫作與品質評分相關的請求
type WritingHandler struct {
	writingService *service.WritingService
	qualityService *service.QualityService
}

func NewWritingHandler(writingService *service.WritingService, qualityService *service.QualityService) *WritingHandler {
	return &WritingHandler{
		writingService: writingService,
		qualityService: qualityService,
	}
}

type aiTextInput struct {
	Instructions string `json:"instructions"`
}

// Draft 為章節產生初稿
func (h *WritingHandler) Draft(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}
	bookID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	chapterID, ok := objectIDParam(c, "chapterID")
	if !ok {
		return
	}

	var input aiTextInput
	_ = c.ShouldBindJSON(&input) // instructions 可為空

	chapter, err := h.writingService.DraftChapter(c.Request.Context(), bookID, chapterID, userID, role, input.Instructions)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chapter)
}

// Continue 接續章節內容
func (h *WritingHandler) Continue(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}
	bookID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	chapterID, ok := objectIDParam(c, "chapterID")
	if !ok {
		return
	}

	var input aiTextInput
	_ = c.ShouldBindJSON(&input)

	chapter, err := h.writingService.ContinueChapter(c.Request.Context(), bookID, chapterID, userID, role, input.Instructions)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chapter)
}

type improveInput struct {
	Focus string `json:"focus"`
}

// Improve 重寫並改善章節
func (h *WritingHandler) Improve(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}
	bookID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	chapterID, ok := objectIDParam(c, "chapterID")
	if !ok {
		return
	}

	var input improveInput
	_ = c.ShouldBindJSON(&input)

	chapter, err := h.writingService.ImproveChapter(c.Request.Context(), bookID, chapterID, userID, role, input.Focus)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chapter)
}

// Synopsis 產生書籍簡介
func (h *WritingHandler) Synopsis(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}
	bookID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	book, err := h.writingService.GenerateSynopsis(c.Request.Context(), bookID, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"synopsis": book.Synopsis})
}

// Quality 對全書進行 AI 品質評分
func (h *WritingHandler) Quality(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}
	bookID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	score, err := h.qualityService.ScoreBook(c.Request.Context(), bookID, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, score)
}
