package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/internal/service"
)

// ChapterHandler 處理章節的增刪改與排序
type ChapterHandler struct {
	bookService *service.BookService
}

func NewChapterHandler(bookService *service.BookService) *ChapterHandler {
	return &ChapterHandler{bookService: bookService}
}

type chapterInput struct {
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content"`
	Summary string `json:"summary"`
}

func (h *ChapterHandler) AddChapter(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}
	bookID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var input chapterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chapter, err := h.bookService.AddChapter(c.Request.Context(), bookID, userID, role, service.ChapterInput{
		Title:   input.Title,
		Content: input.Content,
		Summary: input.Summary,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, chapter)
}

type updateChapterInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Summary string `json:"summary"`
}

func (h *ChapterHandler) UpdateChapter(c *gin.Context) {
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

	var input updateChapterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chapter, err := h.bookService.UpdateChapter(c.Request.Context(), bookID, chapterID, userID, role, service.ChapterInput{
		Title:   input.Title,
		Content: input.Content,
		Summary: input.Summary,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chapter)
}

func (h *ChapterHandler) DeleteChapter(c *gin.Context) {
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

	if err := h.bookService.DeleteChapter(c.Request.Context(), bookID, chapterID, userID, role); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "章節已刪除"})
}

type reorderInput struct {
	Order []string `json:"order" binding:"required"`
}

// Reorder 依傳入的章節 ID 順序重排
func (h *ChapterHandler) Reorder(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}
	bookID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var input reorderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order := make([]primitive.ObjectID, 0, len(input.Order))
	for _, hex := range input.Order {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "無效的章節 ID"})
			return
		}
		order = append(order, id)
	}

	if err := h.bookService.ReorderChapters(c.Request.Context(), bookID, userID, role, order); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "章節已重新排序"})
}
