package models

import (
	"time"

	"github.com/google/uuid"
)

// Speaker identifies who produced a chat turn
type Speaker string

const (
	SpeakerUser   Speaker = "user"
	SpeakerSystem Speaker = "system"
)

// ChatTurn is one message in a conversation
type ChatTurn struct {
	ID        uuid.UUID `json:"id"`
	Speaker   Speaker   `json:"speaker"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// NewChatTurn creates a turn stamped with the given time
func NewChatTurn(speaker Speaker, text string, at time.Time) ChatTurn {
	return ChatTurn{
		ID:        uuid.New(),
		Speaker:   speaker,
		Text:      text,
		Timestamp: at,
	}
}
