package domain

import (
	"errors"
	"time"
)

var ErrEmptyMessage = errors.New("message content is empty")
var ErrMessageNotSent = errors.New("message could not be delivered")

// Message is a single chat line between two users. Immutable once created;
// the ID and CreatedAt are assigned by the store on insert.
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	Read       bool      `json:"read"`
}

// Contact is the messaging-list projection of a Profile. It carries no
// persistence of its own. Online presence is not tracked yet, so the field
// is always false.
type Contact struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
	Avatar string `json:"avatar,omitempty"`
	Online bool   `json:"online"`
}

// ContactFromProfile projects a Profile into its messenger view.
func ContactFromProfile(p *Profile) Contact {
	return Contact{
		ID:     p.ID,
		Name:   p.Name,
		Role:   p.Role,
		Avatar: p.Avatar,
	}
}
