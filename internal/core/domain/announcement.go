package domain

import (
	"errors"
	"time"
)

// AnnouncementType categorises a notice for display filtering.
type AnnouncementType string

const (
	AnnouncementGeneral  AnnouncementType = "general"
	AnnouncementAcademic AnnouncementType = "academic"
	AnnouncementEvent    AnnouncementType = "event"
)

// Valid reports whether t is a known announcement type.
func (t AnnouncementType) Valid() bool {
	return t == AnnouncementGeneral || t == AnnouncementAcademic || t == AnnouncementEvent
}

var ErrAnnouncementNotFound = errors.New("announcement not found")

// Announcement is a school notice. Created and deleted by admins, never
// updated. The ID and CreatedAt are assigned by the store; Date is the
// display date captured as submitted.
type Announcement struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Content   string           `json:"content"`
	Date      string           `json:"date"`
	Type      AnnouncementType `json:"type"`
	CreatedAt time.Time        `json:"created_at"`
}
