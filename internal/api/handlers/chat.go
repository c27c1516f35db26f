package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/internal/service"
)

// 定義 WebSocket 升級器
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 注意：在生產環境中，應該檢查 origin
	},
}

// ChatHandler 處理對話與 WebSocket 連接
type ChatHandler struct {
	chatService *service.ChatService
	hub         *service.ChatHub
}

func NewChatHandler(chatService *service.ChatService, hub *service.ChatHub) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		hub:         hub,
	}
}

type createConversationInput struct {
	Participants []string `json:"participants" binding:"required,min=1"`
}

func (h *ChatHandler) CreateConversation(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	var input createConversationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	others := make([]primitive.ObjectID, 0, len(input.Participants))
	for _, hex := range input.Participants {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "無效的用戶 ID"})
			return
		}
		others = append(others, id)
	}

	conv, err := h.chatService.CreateConversation(c.Request.Context(), userID, others)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, conv)
}

func (h *ChatHandler) ListConversations(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	conversations, err := h.chatService.ListConversations(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conversations)
}

func (h *ChatHandler) History(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	convID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "100"), 10, 64)
	messages, err := h.chatService.History(c.Request.Context(), convID, userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// HandleWebSocket 處理 WebSocket 連接請求，僅限對話成員
func (h *ChatHandler) HandleWebSocket(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	convID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	// 成員資格先於升級檢查，非成員直接拒絕
	conv, err := h.chatService.GetConversation(c.Request.Context(), convID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "升級WebSocket失敗"})
		return
	}

	// 阻塞直到連線關閉
	h.hub.HandleConnection(conn, conv, userID)
}
