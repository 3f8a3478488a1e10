package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a post stored in MongoDB. LikeCount, CommentCount and
// ShareCount are denormalized counters maintained by scheduled tasks;
// ReactionCounts holds the per-type breakdown and LikeCount the legacy
// aggregate across all reaction types.
type Post struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID       uint               `json:"author_id" bson:"author_id"`
	Content        string             `json:"content" bson:"content"`
	ImageURLs      []string           `json:"image_urls,omitempty" bson:"image_urls,omitempty"`
	LikeCount      int                `json:"like_count" bson:"like_count"`
	CommentCount   int                `json:"comment_count" bson:"comment_count"`
	ShareCount     int                `json:"share_count" bson:"share_count"`
	ReactionCounts map[string]int     `json:"reaction_counts,omitempty" bson:"reaction_counts,omitempty"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content   string   `json:"content" validate:"required,min=1,max=2000"`
	ImageURLs []string `json:"image_urls,omitempty" validate:"omitempty,dive,url"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Content   string   `json:"content,omitempty" validate:"omitempty,min=1,max=2000"`
	ImageURLs []string `json:"image_urls,omitempty" validate:"omitempty,dive,url"`
}
