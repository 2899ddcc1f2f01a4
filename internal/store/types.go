// Package store keeps the answer history of chats in SQLite.
// Predicates look answers up here through the where operator.
package store

import (
	"time"

	"conditionscript/internal/message"
)

// Message is one stored answer to a flow question
type Message struct {
	ID          string       `json:"id"`
	ChatID      string       `json:"chatId"`
	OrderNumber int64        `json:"orderNumber"` // question the message answers
	Kind        message.Kind `json:"kind"`
	Answer      string       `json:"answer"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// ChatSummary is a lightweight view for listing chats
type ChatSummary struct {
	ChatID   string    `json:"chatId"`
	Messages int       `json:"messages"`
	LastSeen time.Time `json:"lastSeen"`
}
