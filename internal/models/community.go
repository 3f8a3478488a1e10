package models

import (
	"time"

	"gorm.io/gorm"
)

// Community represents an interest group (PostgreSQL). MemberCount is
// denormalized over community_members.
type Community struct {
	gorm.Model
	CreatorID   uint   `json:"creator_id" gorm:"index"`
	Name        string `json:"name" gorm:"uniqueIndex"`
	Description string `json:"description,omitempty"`
	MemberCount int    `json:"member_count" gorm:"default:0"`
}

// CommunityMember links a user to a community, unique per pair
type CommunityMember struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CommunityID uint      `json:"community_id" gorm:"index;uniqueIndex:idx_community_member"`
	UserID      uint      `json:"user_id" gorm:"index;uniqueIndex:idx_community_member"`
	Role        string    `json:"role" gorm:"size:20;default:'member'"` // member, moderator
	CreatedAt   time.Time `json:"created_at"`
}

// CreateCommunityRequest defines the request body for creating a community
type CreateCommunityRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=80"`
	Description string `json:"description,omitempty" validate:"omitempty,max=1000"`
}
