package models

import (
	"time"

	"gorm.io/gorm"
)

// Conversation represents a direct-message thread (PostgreSQL)
type Conversation struct {
	gorm.Model
	CreatorID uint `json:"creator_id" gorm:"index"`
}

// ConversationParticipant links a user to a conversation, unique per pair
type ConversationParticipant struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ConversationID uint      `json:"conversation_id" gorm:"index;uniqueIndex:idx_conversation_participant"`
	UserID         uint      `json:"user_id" gorm:"index;uniqueIndex:idx_conversation_participant"`
	JoinedAt       time.Time `json:"joined_at"`
}

// Message represents one message in a conversation
type Message struct {
	gorm.Model
	ConversationID uint   `json:"conversation_id" gorm:"index"`
	SenderID       uint   `json:"sender_id" gorm:"index"`
	Content        string `json:"content"`
}

// CreateConversationRequest defines the request body for starting a conversation
type CreateConversationRequest struct {
	ParticipantIDs []uint `json:"participant_ids" validate:"required,min=1,max=20"`
}

// SendMessageRequest defines the request body for sending a message
type SendMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}
