package rest

import (
	"time"

	"github.com/s21platform/chat-client/internal/model"
)

type Error struct {
	Error string `json:"error"`
}

type ConnectTokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

type SubscribeTokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	Channel   string `json:"channel"`
}

type PeersResponse struct {
	Peers []model.Identity `json:"peers"`
}

type Message struct {
	ID          string `json:"id"`
	SenderID    string `json:"sender_id"`
	RecipientID string `json:"recipient_id"`
	Content     string `json:"content"`
	Timestamp   string `json:"timestamp"`
}

type ConversationResponse struct {
	Messages []Message `json:"messages"`
}

type SendMessageRequest struct {
	Content string `json:"content"`
}

type SendMessageResponse struct {
	Accepted bool `json:"accepted"`
}

func toMessage(msg model.DurableMessage) Message {
	return Message{
		ID:          msg.ID,
		SenderID:    msg.SenderID,
		RecipientID: msg.RecipientID,
		Content:     msg.Content,
		Timestamp:   msg.Timestamp.Format(time.RFC3339Nano),
	}
}
