package models

import "time"

// Reaction target types
const (
	ReactionTargetPost    = "post"
	ReactionTargetComment = "comment"
)

// ReactionTypes enumerates the allowed reaction kinds
var ReactionTypes = []string{"like", "celebrate", "support", "insightful", "curious", "funny"}

// Reaction represents a reaction on a post or comment (PostgreSQL).
// Exactly one row exists per (user, target, target type); reacting again
// with a different type updates the row in place.
type Reaction struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_target_reaction"`
	TargetID   string    `json:"target_id" gorm:"index:idx_target_lookup;uniqueIndex:idx_user_target_reaction"`
	TargetType string    `json:"target_type" gorm:"size:20;index:idx_target_lookup;uniqueIndex:idx_user_target_reaction"`
	Type       string    `json:"type" gorm:"size:20"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsValidReactionType reports whether t is one of the enumerated kinds
func IsValidReactionType(t string) bool {
	for _, rt := range ReactionTypes {
		if rt == t {
			return true
		}
	}
	return false
}

// ReactRequest defines the request body for reacting to a post or comment
type ReactRequest struct {
	Type string `json:"type" validate:"required,oneof=like celebrate support insightful curious funny"`
}
