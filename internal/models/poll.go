package models

import (
	"time"

	"gorm.io/gorm"
)

// Poll represents a multiple-choice poll (PostgreSQL). Options are
// stored as a JSON-serialized string array; per-option tallies are
// computed from poll_votes on read.
type Poll struct {
	gorm.Model
	AuthorID uint   `json:"author_id" gorm:"index"`
	Question string `json:"question"`
	Options  string `json:"options" gorm:"type:text"` // JSON array of option labels
	ClosesAt *time.Time `json:"closes_at,omitempty"`
}

// PollVote represents one user's vote, unique per (user, poll)
type PollVote struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	PollID      uint      `json:"poll_id" gorm:"index;uniqueIndex:idx_poll_voter"`
	UserID      uint      `json:"user_id" gorm:"index;uniqueIndex:idx_poll_voter"`
	OptionIndex int       `json:"option_index"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreatePollRequest defines the request body for creating a poll
type CreatePollRequest struct {
	Question string     `json:"question" validate:"required,min=3,max=300"`
	Options  []string   `json:"options" validate:"required,min=2,max=6,dive,min=1,max=100"`
	ClosesAt *time.Time `json:"closes_at,omitempty"`
}

// VotePollRequest defines the request body for voting on a poll
type VotePollRequest struct {
	OptionIndex *int `json:"option_index" validate:"required,min=0"`
}
