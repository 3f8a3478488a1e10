package models

import "time"

// Repost represents a share of an existing post, optionally with a quote.
// Unique per (user, original post); drives the original post's ShareCount.
type Repost struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	UserID         uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_original_post"`
	OriginalPostID string    `json:"original_post_id" gorm:"index;uniqueIndex:idx_user_original_post"`
	QuoteContent   string    `json:"quote_content,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateRepostRequest defines the request body for reposting
type CreateRepostRequest struct {
	QuoteContent string `json:"quote_content,omitempty" validate:"omitempty,max=500"`
}
