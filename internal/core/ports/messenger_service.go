package ports

import (
	"context"

	"github.com/kvision/portal-api/internal/core/domain"
)

// MessengerService implements the two-party conversation view.
type MessengerService interface {
	// Contacts lists every profile except the caller's.
	Contacts(ctx context.Context, userID string) ([]domain.Contact, error)
	// History returns the full conversation between the caller and the
	// contact, oldest first.
	History(ctx context.Context, userID, contactID string) ([]*domain.Message, error)
	// Send persists a message and announces it on the receiver's feed.
	// The returned row carries the store-assigned ID; nothing is
	// considered sent unless this call succeeds.
	Send(ctx context.Context, senderID, receiverID, content string) (*domain.Message, error)
	// Subscribe opens the caller's incoming-message feed.
	Subscribe(ctx context.Context, userID string) (MessageSubscription, error)
}

// AssistantService wraps the generative-AI backend. Ask never fails: any
// upstream error degrades to a fixed apology string.
type AssistantService interface {
	Ask(ctx context.Context, role domain.Role, prompt string) string
}

// AssistantClient is the raw generative-AI call implemented by the
// infrastructure layer.
type AssistantClient interface {
	GenerateContent(ctx context.Context, systemInstruction, prompt string) (string, error)
}
