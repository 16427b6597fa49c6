package bot

import (
	"sync"

	"github.com/selivandex/stockspan/pkg/models"
)

// Conversation is a bounded in-memory log of chat turns
type Conversation struct {
	mu    sync.RWMutex
	turns []models.ChatTurn
	limit int // 0 keeps nothing
}

// NewConversation creates a log keeping at most limit turns
func NewConversation(limit int) *Conversation {
	if limit < 0 {
		limit = 0
	}
	return &Conversation{limit: limit}
}

// Append records a turn, dropping the oldest once the limit is reached
func (c *Conversation) Append(turn models.ChatTurn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.limit == 0 {
		return
	}
	if len(c.turns) == c.limit {
		copy(c.turns, c.turns[1:])
		c.turns = c.turns[:len(c.turns)-1]
	}
	c.turns = append(c.turns, turn)
}

// Turns returns a copy of the recorded turns, oldest first
func (c *Conversation) Turns() []models.ChatTurn {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.ChatTurn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Len returns the number of recorded turns
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.turns)
}
