package ports

import (
	"context"

	"github.com/kvision/portal-api/internal/core/domain"
)

// MessageFeed is the change-notification channel for message inserts: a
// live feed of newly inserted rows filtered by receiver, used to push new
// messages to an open conversation without polling.
type MessageFeed interface {
	// Publish announces a freshly inserted message to the receiver's feed.
	Publish(ctx context.Context, m *domain.Message) error
	// Subscribe opens a feed of messages addressed to receiverID. The
	// caller owns the returned handle and must Close it when the
	// conversation view goes away.
	Subscribe(ctx context.Context, receiverID string) (MessageSubscription, error)
}

// MessageSubscription is a cancellable handle on one receiver's feed.
// Exactly one handle should be active per open conversation.
type MessageSubscription interface {
	// Messages yields incoming rows until the subscription is closed.
	Messages() <-chan *domain.Message
	Close() error
}
