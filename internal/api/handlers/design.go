package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell/internal/service"
)

// DesignHandler 處理封面設計、版面建議、圖像生成與朗讀
type DesignHandler struct {
	designService    *service.DesignService
	narrationService *service.NarrationService
}

func NewDesignHandler(designService *service.DesignService, narrationService *service.NarrationService) *DesignHandler {
	return &DesignHandler{
		designService:    designService,
		narrationService: narrationService,
	}
}

type coverInput struct {
	StyleHints string `json:"style_hints"`
}

// Cover 產生封面設計與封面圖
func (h *DesignHandler) Cover(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}
	bookID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var input coverInput
	_ = c.ShouldBindJSON(&input)

	cover, err := h.designService.DesignCover(c.Request.Context(), bookID, userID, role, input.StyleHints)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cover)
}

// Layout 產生並套用版面設定
func (h *DesignHandler) Layout(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}
	bookID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	layout, err := h.designService.SuggestLayout(c.Request.Context(), bookID, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, layout)
}

type generateImageInput struct {
	Prompt string `json:"prompt" binding:"required"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// GenerateImage 獨立的文生圖端點
func (h *DesignHandler) GenerateImage(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	var input generateImageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	url, err := h.designService.GenerateImage(c.Request.Context(), userID, input.Prompt, input.Width, input.Height)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"image_url": url})
}

// Narrate 產生章節朗讀音檔
func (h *DesignHandler) Narrate(c *gin.Context) {
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

	chapter, err := h.narrationService.NarrateChapter(c.Request.Context(), bookID, chapterID, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"narration_url": chapter.NarrationURL})
}
