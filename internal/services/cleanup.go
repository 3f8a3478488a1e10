package services

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/campuslink/backend/internal/models"
	"github.com/campuslink/backend/internal/repositories"
	"github.com/campuslink/backend/internal/scheduler"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CleanupService orchestrates cascading deletes. Deleting a post or an
// account fans deletion and counter-correction work out across every
// dependent table. Individual steps are idempotent if rerun, but the
// workflow as a whole is not transactional: a crash between steps
// leaves a partially-cleaned record, and nothing repairs it later.
type CleanupService struct {
	log           *zap.Logger
	sched         *scheduler.Scheduler
	counters      *CounterService
	users         repositories.UserRepository
	posts         repositories.PostRepository
	comments      repositories.CommentRepository
	reactions     repositories.ReactionRepository
	reposts       repositories.RepostRepository
	bookmarks     repositories.BookmarkRepository
	follows       repositories.FollowRepository
	feed          repositories.FeedRepository
	notifications repositories.NotificationRepository
	jobs          repositories.JobRepository
	events        repositories.EventRepository
	papers        repositories.PaperRepository
	communities   repositories.CommunityRepository
	stories       repositories.StoryRepository
	polls         repositories.PollRepository
	conversations repositories.ConversationRepository
	reputation    repositories.ReputationRepository
}

// CleanupRepos bundles the repositories the cascade touches
type CleanupRepos struct {
	Users         repositories.UserRepository
	Posts         repositories.PostRepository
	Comments      repositories.CommentRepository
	Reactions     repositories.ReactionRepository
	Reposts       repositories.RepostRepository
	Bookmarks     repositories.BookmarkRepository
	Follows       repositories.FollowRepository
	Feed          repositories.FeedRepository
	Notifications repositories.NotificationRepository
	Jobs          repositories.JobRepository
	Events        repositories.EventRepository
	Papers        repositories.PaperRepository
	Communities   repositories.CommunityRepository
	Stories       repositories.StoryRepository
	Polls         repositories.PollRepository
	Conversations repositories.ConversationRepository
	Reputation    repositories.ReputationRepository
}

// NewCleanupService creates a new CleanupService
func NewCleanupService(log *zap.Logger, sched *scheduler.Scheduler, counters *CounterService, repos CleanupRepos) *CleanupService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CleanupService{
		log:           log,
		sched:         sched,
		counters:      counters,
		users:         repos.Users,
		posts:         repos.Posts,
		comments:      repos.Comments,
		reactions:     repos.Reactions,
		reposts:       repos.Reposts,
		bookmarks:     repos.Bookmarks,
		follows:       repos.Follows,
		feed:          repos.Feed,
		notifications: repos.Notifications,
		jobs:          repos.Jobs,
		events:        repos.Events,
		papers:        repos.Papers,
		communities:   repos.Communities,
		stories:       repos.Stories,
		polls:         repos.Polls,
		conversations: repos.Conversations,
		reputation:    repos.Reputation,
	}
}

// DeleteCommentTree removes a comment and every transitive reply,
// returning the number of rows removed. Replies hold only a
// back-reference to their parent, so the subtree is collected
// breadth-first before anything is deleted. The parent post's comment
// count is decremented by the full subtree size via a scheduled task.
func (s *CleanupService) DeleteCommentTree(ctx context.Context, commentID uint) (int, error) {
	root, err := s.comments.GetCommentByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}

	ids := []uint{root.ID}
	queue := []uint{root.ID}
	for len(queue) > 0 {
		parentID := queue[0]
		queue = queue[1:]

		replies, err := s.comments.GetRepliesByParentID(parentID)
		if err != nil {
			return 0, err
		}
		for _, reply := range replies {
			ids = append(ids, reply.ID)
			queue = append(queue, reply.ID)
		}
	}

	if err := s.comments.DeleteCommentsByIDs(ids); err != nil {
		return 0, err
	}

	// Reactions on the removed comments are orphaned otherwise.
	for _, id := range ids {
		if err := s.reactions.DeleteByTarget(strconv.FormatUint(uint64(id), 10), models.ReactionTargetComment); err != nil {
			s.log.Error("failed to delete reactions for removed comment", zap.Uint("comment_id", id), zap.Error(err))
		}
	}

	removed := len(ids)
	postID := root.PostID
	s.sched.RunAfter(0, "counters.post_comment_count", func(ctx context.Context) error {
		return s.counters.AdjustPostCommentCount(ctx, postID, -removed)
	})
	if root.ParentCommentID != nil {
		parentID := *root.ParentCommentID
		s.sched.RunAfter(0, "counters.comment_reply_count", func(ctx context.Context) error {
			return s.counters.AdjustCommentReplyCount(ctx, parentID, -1)
		})
	}

	return removed, nil
}

// CascadeDeletePost concurrently removes every record that depends on
// a post (comments, reactions on the post and on its comments,
// reposts, bookmarks, feed rows), then deletes the post document
// itself. Step failures are logged and do not stop the other steps or
// the final document delete.
func (s *CleanupService) CascadeDeletePost(ctx context.Context, postID string) error {
	var wg sync.WaitGroup
	step := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				s.log.Error("post cascade step failed",
					zap.String("step", name),
					zap.String("post_id", postID),
					zap.Error(err),
				)
			}
		}()
	}

	step("comments", func() error {
		commentIDs, err := s.comments.ListCommentIDsByPostID(postID)
		if err != nil {
			return err
		}
		for _, id := range commentIDs {
			if err := s.reactions.DeleteByTarget(strconv.FormatUint(uint64(id), 10), models.ReactionTargetComment); err != nil {
				return err
			}
		}
		return s.comments.DeleteCommentsByPostID(postID)
	})
	step("reactions", func() error {
		return s.reactions.DeleteByTarget(postID, models.ReactionTargetPost)
	})
	step("reposts", func() error {
		return s.reposts.DeleteByPostID(postID)
	})
	step("bookmarks", func() error {
		return s.bookmarks.DeleteByPostID(postID)
	})
	step("feed", func() error {
		return s.feed.DeleteByPostID(ctx, postID)
	})

	wg.Wait()

	return s.posts.DeletePost(ctx, postID)
}

// DeleteAccount removes a user and everything they own or link to. The
// cleanup steps run concurrently, each internally scheduling counter
// corrections on the far side of its relationships, followed by the
// final deletion of the user row.
func (s *CleanupService) DeleteAccount(ctx context.Context, userID uint) error {
	var wg sync.WaitGroup
	step := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				s.log.Error("account cascade step failed",
					zap.String("step", name),
					zap.Uint("user_id", userID),
					zap.Error(err),
				)
			}
		}()
	}

	step("posts", func() error {
		postIDs, err := s.posts.ListPostIDsByAuthorID(ctx, userID)
		if err != nil {
			return err
		}
		for _, postID := range postIDs {
			if err := s.CascadeDeletePost(ctx, postID); err != nil {
				return err
			}
		}
		return nil
	})

	step("comments", func() error {
		comments, err := s.comments.GetCommentsByUserID(userID)
		if err != nil {
			return err
		}
		for _, comment := range comments {
			if _, err := s.DeleteCommentTree(ctx, comment.ID); err != nil {
				return err
			}
		}
		return nil
	})

	step("reactions", func() error {
		reactions, err := s.reactions.GetReactionsByUserID(userID)
		if err != nil {
			return err
		}
		if err := s.reactions.DeleteByUserID(userID); err != nil {
			return err
		}
		for _, r := range reactions {
			targetID, targetType := r.TargetID, r.TargetType
			s.sched.RunAfter(0, "counters.recount_reactions", func(ctx context.Context) error {
				return s.counters.RecountReactions(ctx, targetID, targetType)
			})
		}
		return nil
	})

	step("reposts", func() error {
		reposts, err := s.reposts.GetRepostsByUserID(userID)
		if err != nil {
			return err
		}
		if err := s.reposts.DeleteByUserID(userID); err != nil {
			return err
		}
		for _, rp := range reposts {
			postID := rp.OriginalPostID
			s.sched.RunAfter(0, "counters.post_share_count", func(ctx context.Context) error {
				return s.counters.AdjustPostShareCount(ctx, postID, -1)
			})
		}
		return nil
	})

	step("bookmarks", func() error {
		return s.bookmarks.DeleteByUserID(userID)
	})

	step("follows", func() error {
		following, err := s.follows.GetFollowsByFollowerID(userID)
		if err != nil {
			return err
		}
		if err := s.follows.DeleteFollowsByFollowerID(userID); err != nil {
			return err
		}
		for _, f := range following {
			followedID := f.FollowingID
			s.sched.RunAfter(0, "counters.follower_count", func(ctx context.Context) error {
				return s.counters.AdjustFollowerCount(ctx, followedID, -1)
			})
		}

		followers, err := s.follows.GetFollowsByFollowingID(userID)
		if err != nil {
			return err
		}
		if err := s.follows.DeleteFollowsByFollowingID(userID); err != nil {
			return err
		}
		for _, f := range followers {
			followerID := f.FollowerID
			s.sched.RunAfter(0, "counters.following_count", func(ctx context.Context) error {
				return s.counters.AdjustFollowingCount(ctx, followerID, -1)
			})
		}
		return nil
	})

	step("notifications", func() error {
		if err := s.notifications.DeleteByActorID(userID); err != nil {
			return err
		}
		return s.notifications.DeleteByRecipientID(userID)
	})

	step("communities", func() error {
		memberships, err := s.communities.GetMembershipsByUserID(userID)
		if err != nil {
			return err
		}
		if err := s.communities.DeleteMembershipsByUserID(userID); err != nil {
			return err
		}
		for _, m := range memberships {
			communityID := m.CommunityID
			s.sched.RunAfter(0, "counters.community_member_count", func(ctx context.Context) error {
				return s.counters.AdjustCommunityMemberCount(ctx, communityID, -1)
			})
		}
		return nil
	})

	step("stories", func() error {
		storyIDs, err := s.stories.ListStoryIDsByUserID(userID)
		if err != nil {
			return err
		}
		if err := s.stories.DeleteViewsByStoryIDs(storyIDs); err != nil {
			return err
		}
		if err := s.stories.DeleteStoriesByUserID(userID); err != nil {
			return err
		}
		return s.stories.DeleteViewsByUserID(userID)
	})

	step("polls", func() error {
		pollIDs, err := s.polls.ListPollIDsByAuthorID(userID)
		if err != nil {
			return err
		}
		if err := s.polls.DeleteVotesByPollIDs(pollIDs); err != nil {
			return err
		}
		if err := s.polls.DeletePollsByAuthorID(userID); err != nil {
			return err
		}
		return s.polls.DeleteVotesByUserID(userID)
	})

	step("conversations", func() error {
		return s.conversations.DeleteParticipationsByUserID(userID)
	})

	step("job_applications", func() error {
		applications, err := s.jobs.GetApplicationsByUserID(userID)
		if err != nil {
			return err
		}
		if err := s.jobs.DeleteApplicationsByUserID(userID); err != nil {
			return err
		}
		for _, a := range applications {
			jobID := a.JobID
			s.sched.RunAfter(0, "counters.job_applicant_count", func(ctx context.Context) error {
				return s.counters.AdjustJobApplicantCount(ctx, jobID, -1)
			})
		}
		return nil
	})

	step("event_rsvps", func() error {
		rsvps, err := s.events.GetRSVPsByUserID(userID)
		if err != nil {
			return err
		}
		if err := s.events.DeleteRSVPsByUserID(userID); err != nil {
			return err
		}
		for _, r := range rsvps {
			eventID := r.EventID
			s.sched.RunAfter(0, "counters.event_attendee_count", func(ctx context.Context) error {
				return s.counters.AdjustEventAttendeeCount(ctx, eventID, -1)
			})
		}
		return nil
	})

	step("paper_authors", func() error {
		return s.papers.DeleteAuthorLinksByUserID(userID)
	})

	step("feed", func() error {
		return s.feed.DeleteByUserID(ctx, userID)
	})

	step("reputation", func() error {
		return s.reputation.DeleteByUserID(userID)
	})

	wg.Wait()

	return s.users.DeleteUser(userID)
}
