package models

import "time"

// Reputation awards for gamified actions
const (
	ReputationPostCreated      = 10
	ReputationCommentCreated   = 5
	ReputationReactionReceived = 2
	ReputationPaperPublished   = 25
)

// ReputationEvent is one entry in the gamification ledger. The sum of a
// user's entries equals their denormalized users.reputation at
// quiescence.
type ReputationEvent struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index"`
	Points    int       `json:"points"`
	Reason    string    `json:"reason" gorm:"size:50"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// LeaderboardEntry is one row of the reputation leaderboard
type LeaderboardEntry struct {
	UserID     uint   `json:"user_id"`
	Reputation int    `json:"reputation"`
	Rank       int    `json:"rank"`
	User       UserCompact `json:"user,omitempty"`
}
