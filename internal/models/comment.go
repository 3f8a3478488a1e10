package models

import "gorm.io/gorm"

// MaxCommentDepth is the deepest allowed threading level. A reply to a
// comment at this depth is rejected.
const MaxCommentDepth = 5

// Comment represents a comment on a post (PostgreSQL). Comments thread
// through ParentCommentID; ReplyCount and LikeCount are denormalized and
// maintained by scheduled tasks.
type Comment struct {
	gorm.Model
	PostID          string `json:"post_id" gorm:"index"` // MongoDB ObjectID of the parent post, as hex
	UserID          uint   `json:"user_id" gorm:"index"`
	ParentCommentID *uint  `json:"parent_comment_id,omitempty" gorm:"index"`
	Depth           int    `json:"depth" gorm:"default:0"`
	Content         string `json:"content"`
	ReplyCount      int    `json:"reply_count" gorm:"default:0"`
	LikeCount       int    `json:"like_count" gorm:"default:0"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content         string `json:"content" validate:"required,min=1,max=500"`
	ParentCommentID *uint  `json:"parent_comment_id,omitempty"`
}

// UpdateCommentRequest defines the request body for updating an existing comment
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}
