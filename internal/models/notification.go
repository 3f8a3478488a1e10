package models

import "time"

// Notification types
const (
	NotificationReaction = "reaction"
	NotificationComment  = "comment"
	NotificationMention  = "mention"
	NotificationFollow   = "follow"
	NotificationReply    = "reply"
	NotificationRepost   = "repost"
	NotificationEvent    = "event"
	NotificationMessage  = "message"
)

// NotificationTypes enumerates every valid notification type
var NotificationTypes = []string{
	NotificationReaction,
	NotificationComment,
	NotificationMention,
	NotificationFollow,
	NotificationReply,
	NotificationRepost,
	NotificationEvent,
	NotificationMessage,
}

// Notification represents a user notification (PostgreSQL). Never
// created when the recipient is the actor. The unread count is computed
// on read from the is_read index, not maintained incrementally.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Type        string    `json:"type" gorm:"size:30;index"`
	ActorID     uint      `json:"actor_id" gorm:"index"`
	RecipientID uint      `json:"recipient_id" gorm:"index"`
	ReferenceID string    `json:"reference_id"` // post ID, comment ID, user ID etc., depending on Type
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

// NotificationPreference holds one recipient's opt-out flag for a
// notification type. Absence of a row means the type is enabled.
type NotificationPreference struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_notif_type"`
	Type      string    `json:"type" gorm:"size:30;uniqueIndex:idx_user_notif_type"`
	Enabled   bool      `json:"enabled" gorm:"default:true"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateNotificationPreferenceRequest defines the request body for
// toggling a notification type on or off
type UpdateNotificationPreferenceRequest struct {
	Type    string `json:"type" validate:"required,oneof=reaction comment mention follow reply event message"`
	Enabled *bool  `json:"enabled" validate:"required"`
}
