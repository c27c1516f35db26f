package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"inkwell/internal/models"
)

func newHubClient(convID primitive.ObjectID) *Client {
	return &Client{
		UserID:         primitive.NewObjectID(),
		ConversationID: convID,
		SendChan:       make(chan *models.ChatMessage, 256),
	}
}

func TestHubBroadcastDuringDisconnect(t *testing.T) {
	hub := NewChatHub(nil, zap.NewNop())
	convID := primitive.NewObjectID()

	// 大量客戶端一邊斷線一邊廣播，不應 panic
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		client := newHubClient(convID)
		hub.addClient(client)

		wg.Add(2)
		go func(c *Client) {
			defer wg.Done()
			hub.removeClient(c)
		}(client)
		go func() {
			defer wg.Done()
			hub.Broadcast(convID, &models.ChatMessage{
				ConversationID: convID,
				Type:           "text",
				Body:           "hi",
			})
		}()
	}
	wg.Wait()

	assert.Zero(t, hub.OnlineCount(convID))
}

func TestRemoveClientIdempotent(t *testing.T) {
	hub := NewChatHub(nil, zap.NewNop())
	convID := primitive.NewObjectID()

	client := newHubClient(convID)
	hub.addClient(client)
	assert.Equal(t, 1, hub.OnlineCount(convID))

	hub.removeClient(client)
	hub.removeClient(client)
	assert.Zero(t, hub.OnlineCount(convID))

	// 發送通道已關閉，writePump 會送出 close frame 後結束
	_, ok := <-client.SendChan
	assert.False(t, ok)
}

func TestBroadcastSkipsDisconnected(t *testing.T) {
	hub := NewChatHub(nil, zap.NewNop())
	convID := primitive.NewObjectID()

	gone := newHubClient(convID)
	stay := newHubClient(convID)
	hub.addClient(gone)
	hub.addClient(stay)
	hub.removeClient(gone)

	hub.Broadcast(convID, &models.ChatMessage{ConversationID: convID, Type: "text", Body: "x"})

	msg := <-stay.SendChan
	assert.Equal(t, "x", msg.Body)

	_, ok := <-gone.SendChan
	assert.False(t, ok)
}
