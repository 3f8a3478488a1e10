package services

import (
	"context"

	"github.com/campuslink/backend/internal/repositories"
	"go.uber.org/zap"
)

// FanoutService materializes new posts into per-user feeds. It runs as
// a scheduled task, after the creating request has already returned
// with the post ID.
type FanoutService struct {
	log     *zap.Logger
	feed    repositories.FeedRepository
	follows repositories.FollowRepository
}

// NewFanoutService creates a new FanoutService
func NewFanoutService(log *zap.Logger, feed repositories.FeedRepository, follows repositories.FollowRepository) *FanoutService {
	if log == nil {
		log = zap.NewNop()
	}
	return &FanoutService{log: log, feed: feed, follows: follows}
}

// FanOutPost writes one feed row for the author and one per current
// follower. The follower list is read in full and the inserts run
// sequentially; a failure mid-loop aborts the task and leaves the
// remaining followers without a row. There is no compensating retry.
func (s *FanoutService) FanOutPost(ctx context.Context, postID string, authorID uint) error {
	if err := s.feed.InsertFeedItem(ctx, authorID, postID); err != nil {
		return err
	}

	followerIDs, err := s.follows.GetFollowerIDs(authorID)
	if err != nil {
		return err
	}

	for _, followerID := range followerIDs {
		if err := s.feed.InsertFeedItem(ctx, followerID, postID); err != nil {
			s.log.Error("fan-out aborted mid-loop",
				zap.String("post_id", postID),
				zap.Uint("author_id", authorID),
				zap.Uint("failed_recipient", followerID),
				zap.Error(err),
			)
			return err
		}
	}

	s.log.Debug("fan-out complete",
		zap.String("post_id", postID),
		zap.Uint("author_id", authorID),
		zap.Int("recipients", len(followerIDs)+1),
	)
	return nil
}
