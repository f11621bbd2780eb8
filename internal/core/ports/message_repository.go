package ports

import (
	"context"

	"github.com/kvision/portal-api/internal/core/domain"
)

// MessageRepository defines persistence for chat messages.
type MessageRepository interface {
	// Conversation returns all messages exchanged between the unordered
	// pair (a, b), ordered by creation time ascending.
	Conversation(ctx context.Context, a, b string) ([]*domain.Message, error)
	// Insert persists a new message and returns it with the store-assigned
	// ID and creation timestamp.
	Insert(ctx context.Context, m *domain.Message) (*domain.Message, error)
}
