package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kvision/portal-api/internal/core/domain"
	"github.com/kvision/portal-api/internal/core/ports"
	"github.com/kvision/portal-api/internal/metrics"
)

// MessengerService implements the two-party conversation view: contact
// listing, history load, sending, and the live insert feed.
type MessengerService struct {
	profiles ports.ProfileRepository
	messages ports.MessageRepository
	feed     ports.MessageFeed
	log      zerolog.Logger
}

func NewMessengerService(profiles ports.ProfileRepository, messages ports.MessageRepository, feed ports.MessageFeed, log zerolog.Logger) *MessengerService {
	return &MessengerService{
		profiles: profiles,
		messages: messages,
		feed:     feed,
		log:      log,
	}
}

// Contacts lists every profile except the caller's, projected for the
// messenger sidebar.
func (s *MessengerService) Contacts(ctx context.Context, userID string) ([]domain.Contact, error) {
	profiles, err := s.profiles.ListExcept(ctx, userID)
	if err != nil {
		return nil, err
	}
	contacts := make([]domain.Contact, 0, len(profiles))
	for _, p := range profiles {
		contacts = append(contacts, domain.ContactFromProfile(p))
	}
	return contacts, nil
}

// History returns the conversation between the caller and the contact as
// the unordered pair of their IDs, oldest message first.
func (s *MessengerService) History(ctx context.Context, userID, contactID string) ([]*domain.Message, error) {
	return s.messages.Conversation(ctx, userID, contactID)
}

// Send persists the message and announces the confirmed row on the
// receiver's feed. The message is never reported as sent unless the insert
// succeeds; feed publication failures are logged but do not fail the send,
// since the row is already durable and a history reload will show it.
func (s *MessengerService) Send(ctx context.Context, senderID, receiverID, content string) (*domain.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, domain.ErrEmptyMessage
	}

	created, err := s.messages.Insert(ctx, &domain.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	})
	if err != nil {
		s.log.Error().Err(err).Str("sender_id", senderID).Msg("message insert failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrMessageNotSent, err)
	}

	if err := s.feed.Publish(ctx, created); err != nil {
		s.log.Warn().Err(err).Str("message_id", created.ID).Msg("feed publish failed, receiver will see the message on reload")
	}

	metrics.MessagesSentTotal.Inc()
	return created, nil
}

// Subscribe opens the caller's incoming-message feed. The caller owns the
// returned handle; exactly one should be active per open conversation.
func (s *MessengerService) Subscribe(ctx context.Context, userID string) (ports.MessageSubscription, error) {
	return s.feed.Subscribe(ctx, userID)
}
