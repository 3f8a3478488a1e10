package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeedItem is one row of a user's materialized feed (MongoDB
// "user_feed" collection). One document exists per (recipient, post)
// pair, inserted for the author and every follower when a post is
// created. Rows are never updated, only read or deleted during cleanup.
type FeedItem struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    uint               `json:"user_id" bson:"user_id"`
	PostID    string             `json:"post_id" bson:"post_id"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
