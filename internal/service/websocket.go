package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"inkwell/internal/models"
)

// Client 代表一個 WebSocket 客戶端連接
type Client struct {
	Conn           *websocket.Conn
	UserID         primitive.ObjectID
	ConversationID primitive.ObjectID
	SendChan       chan *models.ChatMessage // 消息發送通道，用於異步傳送消息

	closed bool // 由 hub 的鎖保護，SendChan 只會被關閉一次
}

// ChatHub 管理所有對話的 WebSocket 連接和消息傳遞
type ChatHub struct {
	clients    map[primitive.ObjectID]map[*Client]bool // 兩層 map: conversationID -> client -> bool
	clientsMux sync.RWMutex                            // 用於保護 clients map 的讀寫鎖
	chat       *ChatService
	logger     *zap.Logger
}

func NewChatHub(chat *ChatService, logger *zap.Logger) *ChatHub {
	return &ChatHub{
		clients: make(map[primitive.ObjectID]map[*Client]bool),
		chat:    chat,
		logger:  logger,
	}
}

// HandleConnection 處理新的 WebSocket 連接，阻塞直到連線關閉
func (h *ChatHub) HandleConnection(conn *websocket.Conn, conv *models.Conversation, userID primitive.ObjectID) {
	client := &Client{
		Conn:           conn,
		UserID:         userID,
		ConversationID: conv.ID,
		SendChan:       make(chan *models.ChatMessage, 256),
	}

	h.addClient(client)

	defer func() {
		h.removeClient(client)
		conn.Close()
		h.BroadcastSystemMessage(conv.ID, "成員已離開對話")
	}()

	go h.writePump(client)
	h.BroadcastSystemMessage(conv.ID, fmt.Sprintf("成員已加入對話，目前 %d 人在線", h.OnlineCount(conv.ID)))
	h.readPump(client, conv)
}

// incomingMessage 客戶端送來的訊息格式
type incomingMessage struct {
	Body string `json:"body"`
}

// readPump 持續監聽並處理從客戶端接收的消息
func (h *ChatHub) readPump(client *Client, conv *models.Conversation) {
	client.Conn.SetReadLimit(4096)
	client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, raw, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("websocket unexpected close", zap.Error(err))
			}
			break
		}

		var in incomingMessage
		if err := json.Unmarshal(raw, &in); err != nil || in.Body == "" {
			continue
		}

		msg := &models.ChatMessage{
			ConversationID: client.ConversationID,
			SenderID:       client.UserID,
			Type:           "text",
			Body:           in.Body,
		}

		// 先持久化再廣播，離線成員之後能讀到歷史
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := h.chat.SaveMessage(ctx, msg); err != nil {
			h.logger.Error("failed to save chat message", zap.Error(err))
			cancel()
			continue
		}

		h.Broadcast(client.ConversationID, msg)
		h.chat.NotifyOffline(ctx, conv, client.UserID, h.onlineUsers(client.ConversationID))
		cancel()
	}
}

// writePump 處理向客戶端發送消息的邏輯
func (h *ChatHub) writePump(client *Client) {
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.SendChan:
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := client.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}

			messageBytes, err := json.Marshal(message)
			if err != nil {
				h.logger.Error("failed to encode chat message", zap.Error(err))
				continue
			}

			if _, err := w.Write(messageBytes); err != nil {
				return
			}
			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			// 心跳
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Broadcast 向對話內的所有客戶端廣播消息。
// 發送期間持有讀鎖，removeClient 必須先取得寫鎖才能關閉 SendChan，
// 因此不會對已關閉的通道發送。
func (h *ChatHub) Broadcast(conversationID primitive.ObjectID, message *models.ChatMessage) {
	var slow []*Client

	h.clientsMux.RLock()
	for client := range h.clients[conversationID] {
		select {
		case client.SendChan <- message:
		default:
			// 客戶端消息隊列已滿，放開鎖後再關閉連接
			slow = append(slow, client)
		}
	}
	h.clientsMux.RUnlock()

	for _, client := range slow {
		h.removeClient(client)
		client.Conn.Close()
	}
}

// BroadcastSystemMessage 發送系統消息到指定對話
func (h *ChatHub) BroadcastSystemMessage(conversationID primitive.ObjectID, body string) {
	h.Broadcast(conversationID, &models.ChatMessage{
		ConversationID: conversationID,
		Type:           "system",
		Body:           body,
		CreatedAt:      time.Now(),
	})
}

func (h *ChatHub) addClient(client *Client) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	if h.clients[client.ConversationID] == nil {
		h.clients[client.ConversationID] = make(map[*Client]bool)
	}
	h.clients[client.ConversationID][client] = true
}

// removeClient 移除客戶端並關閉其發送通道。
// 關閉動作在寫鎖內進行，與 Broadcast 的發送互斥；重複呼叫是安全的。
func (h *ChatHub) removeClient(client *Client) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	if client.closed {
		return
	}
	client.closed = true
	close(client.SendChan)

	if clients, ok := h.clients[client.ConversationID]; ok {
		delete(clients, client)
		// 對話沒有在線客戶端時移除
		if len(clients) == 0 {
			delete(h.clients, client.ConversationID)
		}
	}
}

// onlineUsers 目前連線中的成員
func (h *ChatHub) onlineUsers(conversationID primitive.ObjectID) map[primitive.ObjectID]bool {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()

	online := map[primitive.ObjectID]bool{}
	for client := range h.clients[conversationID] {
		online[client.UserID] = true
	}
	return online
}

// OnlineCount 指定對話的在線客戶端數量
func (h *ChatHub) OnlineCount(conversationID primitive.ObjectID) int {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()
	return len(h.clients[conversationID])
}
