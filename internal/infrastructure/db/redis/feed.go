package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/kvision/portal-api/internal/core/domain"
	"github.com/kvision/portal-api/internal/core/ports"
)

const feedBuffer = 16

// MessageFeed implements the insert change-notification channel on Redis
// pub/sub: one channel per receiver, carrying JSON-encoded message rows.
type MessageFeed struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewMessageFeed(client *redis.Client, log zerolog.Logger) *MessageFeed {
	return &MessageFeed{client: client, log: log}
}

// Publish announces a freshly inserted message on the receiver's channel.
func (f *MessageFeed) Publish(ctx context.Context, m *domain.Message) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	if err := f.client.Publish(ctx, f.channel(m.ReceiverID), raw).Err(); err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

// Subscribe opens a feed of messages addressed to receiverID. The returned
// handle must be closed when the conversation view goes away.
func (f *MessageFeed) Subscribe(ctx context.Context, receiverID string) (ports.MessageSubscription, error) {
	pubsub := f.client.Subscribe(ctx, f.channel(receiverID))

	// Confirm the subscription is live before history consumers rely on it.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe feed: %w", err)
	}

	sub := &feedSubscription{
		pubsub: pubsub,
		out:    make(chan *domain.Message, feedBuffer),
		done:   make(chan struct{}),
	}
	go sub.pump(pubsub.Channel(), f.log)
	return sub, nil
}

func (f *MessageFeed) channel(receiverID string) string {
	return "chat:" + receiverID
}

// feedSubscription is a cancellable handle on one receiver's channel.
type feedSubscription struct {
	pubsub *redis.PubSub
	out    chan *domain.Message
	done   chan struct{}
	once   sync.Once
}

// pump decodes rows from src into out until src closes or the subscription
// is stopped. The consumer may be gone by the time a row arrives, so every
// send carries the stop channel as an exit path.
func (s *feedSubscription) pump(src <-chan *redis.Message, log zerolog.Logger) {
	defer close(s.out)
	for raw := range src {
		var m domain.Message
		if err := json.Unmarshal([]byte(raw.Payload), &m); err != nil {
			log.Warn().Err(err).Str("channel", raw.Channel).Msg("dropping malformed feed payload")
			continue
		}
		select {
		case s.out <- &m:
		case <-s.done:
			return
		}
	}
}

func (s *feedSubscription) Messages() <-chan *domain.Message {
	return s.out
}

func (s *feedSubscription) stop() {
	s.once.Do(func() { close(s.done) })
}

// Close tears down the underlying pub/sub and releases the pump even when
// undelivered rows remain buffered.
func (s *feedSubscription) Close() error {
	s.stop()
	return s.pubsub.Close()
}
