package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"inkwell/internal/models"
	"inkwell/internal/service"
)

// BookHandler 處理書籍與章節相關的請求
type BookHandler struct {
	bookService     *service.BookService
	activityService *service.ActivityService
}

func NewBookHandler(bookService *service.BookService, activityService *service.ActivityService) *BookHandler {
	return &BookHandler{
		bookService:     bookService,
		activityService: activityService,
	}
}

type createBookInput struct {
	Title       string   `json:"title" binding:"required,max=200"`
	Genre       string   `json:"genre" binding:"required"`
	Description string   `json:"description"`
	Language    string   `json:"language"`
	Tags        []string `json:"tags"`
}

func (h *BookHandler) CreateBook(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	var input createBookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book, err := h.bookService.CreateBook(c.Request.Context(), userID, service.BookInput{
		Title:       input.Title,
		Genre:       input.Genre,
		Description: input.Description,
		Language:    input.Language,
		Tags:        input.Tags,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, book)
}

// CreateFromTemplate 依範本建書
func (h *BookHandler) CreateFromTemplate(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	templateID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var input struct {
		Title string `json:"title" binding:"required,max=200"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book, err := h.bookService.CreateFromTemplate(c.Request.Context(), userID, templateID, input.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, book)
}

func (h *BookHandler) ListBooks(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	books, err := h.bookService.ListBooks(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, books)
}

func (h *BookHandler) GetBook(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}
	bookID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	book, err := h.bookService.GetBook(c.Request.Context(), bookID, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

type updateBookInput struct {
	Title       *string  `json:"title"`
	Genre       *string  `json:"genre"`
	Description *string  `json:"description"`
	Synopsis    *string  `json:"synopsis"`
	Language    *string  `json:"language"`
	Tags        []string `json:"tags"`
}

func (h *BookHandler) UpdateBook(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}
	bookID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var input updateBookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book, err := h.bookService.UpdateBook(c.Request.Context(), bookID, userID, role, service.BookUpdate{
		Title:       input.Title,
		Genre:       input.Genre,
		Description: input.Description,
		Synopsis:    input.Synopsis,
		Language:    input.Language,
		Tags:        input.Tags,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

func (h *BookHandler) DeleteBook(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}
	bookID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.bookService.DeleteBook(c.Request.Context(), bookID, userID, role); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "書籍已刪除"})
}

func (h *BookHandler) Publish(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}
	bookID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	book, err := h.bookService.Publish(c.Request.Context(), bookID, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

// ListPublished 公開書庫瀏覽
func (h *BookHandler) ListPublished(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	skip, _ := strconv.ParseInt(c.DefaultQuery("skip", "0"), 10, 64)

	books, err := h.bookService.ListPublished(c.Request.Context(), c.Query("genre"), limit, skip)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, books)
}

// Preview 公開預覽已出版書籍的第一章
func (h *BookHandler) Preview(c *gin.Context) {
	bookID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	book, err := h.bookService.Preview(c.Request.Context(), bookID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

type trackInput struct {
	Action   string            `json:"action" binding:"required"`
	Metadata map[string]string `json:"metadata"`
}

// Track 記錄一次讀者互動
func (h *BookHandler) Track(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	bookID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var input trackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.activityService.Track(c.Request.Context(), userID, bookID,
		models.ActivityAction(input.Action), input.Metadata)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "已記錄"})
}

// Stats 作者查看自己書籍的統計
func (h *BookHandler) Stats(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}
	bookID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	report, err := h.activityService.BookStats(c.Request.Context(), bookID, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
