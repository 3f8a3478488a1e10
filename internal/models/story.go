package models

import (
	"time"

	"gorm.io/gorm"
)

// Story represents a short-lived media post (PostgreSQL). Stories expire
// after 24 hours and are purged by a scheduled sweep.
type Story struct {
	gorm.Model
	UserID    uint      `json:"user_id" gorm:"index"`
	MediaURL  string    `json:"media_url"`
	MediaType string    `json:"media_type" gorm:"size:10"` // "image" or "video"
	ExpiresAt time.Time `json:"expires_at" gorm:"index"`
}

// StoryView tracks which users have seen a story, unique per pair
type StoryView struct {
	ID      uint      `json:"id" gorm:"primaryKey"`
	StoryID uint      `json:"story_id" gorm:"index;uniqueIndex:idx_story_viewer"`
	UserID  uint      `json:"user_id" gorm:"index;uniqueIndex:idx_story_viewer"`
	SeenAt  time.Time `json:"seen_at"`
}

// CreateStoryRequest defines the request body for creating a story
type CreateStoryRequest struct {
	MediaURL  string `json:"media_url" validate:"required,url"`
	MediaType string `json:"media_type" validate:"required,oneof=image video"`
}
