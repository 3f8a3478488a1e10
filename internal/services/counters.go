package services

import (
	"context"
	"errors"
	"strconv"

	"github.com/campuslink/backend/internal/models"
	"github.com/campuslink/backend/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CounterService keeps denormalized counters in sync with their join
// tables. Every method runs as a scheduled task after the triggering
// write; a target deleted in the meantime makes the update a silent
// no-op.
type CounterService struct {
	log         *zap.Logger
	users       repositories.UserRepository
	posts       repositories.PostRepository
	comments    repositories.CommentRepository
	reactions   repositories.ReactionRepository
	jobs        repositories.JobRepository
	events      repositories.EventRepository
	communities repositories.CommunityRepository
}

// NewCounterService creates a new CounterService
func NewCounterService(
	log *zap.Logger,
	users repositories.UserRepository,
	posts repositories.PostRepository,
	comments repositories.CommentRepository,
	reactions repositories.ReactionRepository,
	jobs repositories.JobRepository,
	events repositories.EventRepository,
	communities repositories.CommunityRepository,
) *CounterService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CounterService{
		log:         log,
		users:       users,
		posts:       posts,
		comments:    comments,
		reactions:   reactions,
		jobs:        jobs,
		events:      events,
		communities: communities,
	}
}

// missingTarget reports whether the error means the counter's target row
// no longer exists
func missingTarget(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, repositories.ErrPostNotFound)
}

func (s *CounterService) swallowMissing(err error, what string, target string) error {
	if err == nil {
		return nil
	}
	if missingTarget(err) {
		s.log.Debug("counter target gone, skipping", zap.String("counter", what), zap.String("target", target))
		return nil
	}
	return err
}

// RecountReactions rebuilds the complete per-type reaction counts for a
// target from its reaction rows and writes the full map plus the legacy
// aggregate. A full recount costs an O(n) scan but cannot drift the way
// partial increments can.
func (s *CounterService) RecountReactions(ctx context.Context, targetID, targetType string) error {
	rows, err := s.reactions.GetReactionsByTarget(targetID, targetType)
	if err != nil {
		return err
	}

	counts := make(map[string]int)
	for _, r := range rows {
		counts[r.Type]++
	}
	total := len(rows)

	switch targetType {
	case models.ReactionTargetPost:
		err = s.posts.SetReactionCounts(ctx, targetID, counts, total)
	case models.ReactionTargetComment:
		commentID, parseErr := strconv.ParseUint(targetID, 10, 32)
		if parseErr != nil {
			return parseErr
		}
		err = s.comments.SetLikeCount(uint(commentID), total)
	default:
		s.log.Warn("recount for unknown target type", zap.String("target_type", targetType))
		return nil
	}
	return s.swallowMissing(err, "reaction_counts", targetID)
}

// AdjustFollowerCount applies a signed delta to a user's follower count
func (s *CounterService) AdjustFollowerCount(ctx context.Context, userID uint, delta int) error {
	err := s.users.AdjustFollowerCount(userID, delta)
	return s.swallowMissing(err, "follower_count", strconv.FormatUint(uint64(userID), 10))
}

// AdjustFollowingCount applies a signed delta to a user's following count
func (s *CounterService) AdjustFollowingCount(ctx context.Context, userID uint, delta int) error {
	err := s.users.AdjustFollowingCount(userID, delta)
	return s.swallowMissing(err, "following_count", strconv.FormatUint(uint64(userID), 10))
}

// AdjustPostCommentCount applies a signed delta to a post's comment count
func (s *CounterService) AdjustPostCommentCount(ctx context.Context, postID string, delta int) error {
	err := s.posts.AdjustCommentCount(ctx, postID, delta)
	return s.swallowMissing(err, "comment_count", postID)
}

// AdjustPostShareCount applies a signed delta to a post's share count
func (s *CounterService) AdjustPostShareCount(ctx context.Context, postID string, delta int) error {
	err := s.posts.AdjustShareCount(ctx, postID, delta)
	return s.swallowMissing(err, "share_count", postID)
}

// AdjustCommentReplyCount applies a signed delta to a comment's reply count
func (s *CounterService) AdjustCommentReplyCount(ctx context.Context, commentID uint, delta int) error {
	err := s.comments.AdjustReplyCount(commentID, delta)
	return s.swallowMissing(err, "reply_count", strconv.FormatUint(uint64(commentID), 10))
}

// AdjustJobApplicantCount applies a signed delta to a job's applicant count
func (s *CounterService) AdjustJobApplicantCount(ctx context.Context, jobID uint, delta int) error {
	err := s.jobs.AdjustApplicantCount(jobID, delta)
	return s.swallowMissing(err, "applicant_count", strconv.FormatUint(uint64(jobID), 10))
}

// AdjustEventAttendeeCount applies a signed delta to an event's attendee count
func (s *CounterService) AdjustEventAttendeeCount(ctx context.Context, eventID uint, delta int) error {
	err := s.events.AdjustAttendeeCount(eventID, delta)
	return s.swallowMissing(err, "attendee_count", strconv.FormatUint(uint64(eventID), 10))
}

// AdjustCommunityMemberCount applies a signed delta to a community's member count
func (s *CounterService) AdjustCommunityMemberCount(ctx context.Context, communityID uint, delta int) error {
	err := s.communities.AdjustMemberCount(communityID, delta)
	return s.swallowMissing(err, "member_count", strconv.FormatUint(uint64(communityID), 10))
}
