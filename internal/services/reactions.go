package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/campuslink/backend/internal/models"
	"github.com/campuslink/backend/internal/repositories"
	"github.com/campuslink/backend/internal/scheduler"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Reaction upsert outcomes
const (
	ReactionCreated  = "created"
	ReactionUpdated  = "updated"
	ReactionNoChange = "no-change"
)

// ErrReactionTargetNotFound is returned when the post or comment being
// reacted to does not exist
var ErrReactionTargetNotFound = errors.New("reaction target not found")

// ReactionService implements reaction upsert semantics: one row per
// (user, target), overwritten in place on a type change.
type ReactionService struct {
	log        *zap.Logger
	sched      *scheduler.Scheduler
	counters   *CounterService
	notifier   *Notifier
	reputation *ReputationService
	reactions  repositories.ReactionRepository
	posts      repositories.PostRepository
	comments   repositories.CommentRepository
	users      repositories.UserRepository
}

// NewReactionService creates a new ReactionService
func NewReactionService(
	log *zap.Logger,
	sched *scheduler.Scheduler,
	counters *CounterService,
	notifier *Notifier,
	reputation *ReputationService,
	reactions repositories.ReactionRepository,
	posts repositories.PostRepository,
	comments repositories.CommentRepository,
	users repositories.UserRepository,
) *ReactionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReactionService{
		log:        log,
		sched:      sched,
		counters:   counters,
		notifier:   notifier,
		reputation: reputation,
		reactions:  reactions,
		posts:      posts,
		comments:   comments,
		users:      users,
	}
}

// React applies one user's reaction to a target and returns which
// transition happened: "created", "updated" or "no-change". The recount
// is scheduled on created and updated. The notification and reputation
// award to the target's author fire only on first creation, never on a
// type change.
func (s *ReactionService) React(ctx context.Context, userID uint, targetID, targetType, reactionType string) (string, error) {
	if !models.IsValidReactionType(reactionType) {
		return "", fmt.Errorf("invalid reaction type: %s", reactionType)
	}

	targetAuthorID, err := s.targetAuthor(ctx, targetID, targetType)
	if err != nil {
		return "", err
	}

	existing, err := s.reactions.GetReaction(userID, targetID, targetType)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	if existing != nil {
		if existing.Type == reactionType {
			return ReactionNoChange, nil
		}
		if err := s.reactions.UpdateReactionType(existing.ID, reactionType); err != nil {
			return "", err
		}
		s.scheduleRecount(targetID, targetType)
		return ReactionUpdated, nil
	}

	reaction := &models.Reaction{
		UserID:     userID,
		TargetID:   targetID,
		TargetType: targetType,
		Type:       reactionType,
	}
	if err := s.reactions.CreateReaction(reaction); err != nil {
		return "", err
	}

	s.scheduleRecount(targetID, targetType)

	actorID := userID
	s.sched.RunAfter(0, "notifications.reaction", func(ctx context.Context) error {
		actor, err := s.users.GetUserByID(actorID)
		if err != nil {
			return err
		}
		noun := "post"
		if targetType == models.ReactionTargetComment {
			noun = "comment"
		}
		message := fmt.Sprintf("%s reacted to your %s", actor.Name, noun)
		_, err = s.notifier.Emit(ctx, targetAuthorID, actorID, models.NotificationReaction, targetID, message)
		return err
	})

	recipientID := targetAuthorID
	s.sched.RunAfter(0, "reputation.reaction_received", func(ctx context.Context) error {
		if recipientID == actorID {
			return nil
		}
		return s.reputation.Award(ctx, recipientID, models.ReputationReactionReceived, "reaction_received")
	})

	return ReactionCreated, nil
}

// RemoveReaction deletes the user's reaction on a target, if any, and
// schedules a recount.
func (s *ReactionService) RemoveReaction(ctx context.Context, userID uint, targetID, targetType string) error {
	if err := s.reactions.DeleteReaction(userID, targetID, targetType); err != nil {
		return err
	}
	s.scheduleRecount(targetID, targetType)
	return nil
}

func (s *ReactionService) scheduleRecount(targetID, targetType string) {
	s.sched.RunAfter(0, "counters.recount_reactions", func(ctx context.Context) error {
		return s.counters.RecountReactions(ctx, targetID, targetType)
	})
}

func (s *ReactionService) targetAuthor(ctx context.Context, targetID, targetType string) (uint, error) {
	switch targetType {
	case models.ReactionTargetPost:
		post, err := s.posts.GetPostByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, repositories.ErrPostNotFound) {
				return 0, ErrReactionTargetNotFound
			}
			return 0, err
		}
		return post.AuthorID, nil
	case models.ReactionTargetComment:
		commentID, err := strconv.ParseUint(targetID, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid comment ID: %s", targetID)
		}
		comment, err := s.comments.GetCommentByID(uint(commentID))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, ErrReactionTargetNotFound
			}
			return 0, err
		}
		return comment.UserID, nil
	default:
		return 0, fmt.Errorf("invalid reaction target type: %s", targetType)
	}
}
