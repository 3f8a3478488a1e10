package repositories

import (
	"context"
	"time"

	"github.com/campuslink/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FeedRepository defines the interface for materialized feed rows
type FeedRepository interface {
	InsertFeedItem(ctx context.Context, userID uint, postID string) error
	GetFeedByUserID(ctx context.Context, userID uint, skip, limit int64) ([]models.FeedItem, error)
	CountByUserID(ctx context.Context, userID uint) (int64, error)
	DeleteByPostID(ctx context.Context, postID string) error
	DeleteByUserID(ctx context.Context, userID uint) error
}

// MongoFeedRepository implements FeedRepository over the "user_feed"
// collection
type MongoFeedRepository struct {
	collection *mongo.Collection
}

// NewMongoFeedRepository creates a new MongoFeedRepository
func NewMongoFeedRepository(db *mongo.Database) *MongoFeedRepository {
	return &MongoFeedRepository{collection: db.Collection("user_feed")}
}

// InsertFeedItem adds one (recipient, post) row to the feed
func (r *MongoFeedRepository) InsertFeedItem(ctx context.Context, userID uint, postID string) error {
	item := models.FeedItem{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		PostID:    postID,
		CreatedAt: time.Now(),
	}
	_, err := r.collection.InsertOne(ctx, item)
	return err
}

// GetFeedByUserID returns the recipient's feed rows, newest first
func (r *MongoFeedRepository) GetFeedByUserID(ctx context.Context, userID uint, skip, limit int64) ([]models.FeedItem, error) {
	var items []models.FeedItem
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CountByUserID returns the total number of feed rows for a recipient
func (r *MongoFeedRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"user_id": userID})
}

// DeleteByPostID removes every feed row referencing a post
func (r *MongoFeedRepository) DeleteByPostID(ctx context.Context, postID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"post_id": postID})
	return err
}

// DeleteByUserID removes every feed row belonging to a recipient
func (r *MongoFeedRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}
