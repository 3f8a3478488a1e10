package services

import (
	"context"
	"strconv"
	"testing"

	"github.com/campuslink/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func (env *testEnv) createComment(t *testing.T, postID string, userID uint, parent *models.Comment, content string) *models.Comment {
	comment := &models.Comment{PostID: postID, UserID: userID, Content: content}
	if parent != nil {
		comment.ParentCommentID = &parent.ID
		comment.Depth = parent.Depth + 1
	}
	require.NoError(t, env.comments.CreateComment(comment))
	return comment
}

func TestDeleteCommentTreeRemovesSubtree(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "Ada", "ada")
	post := env.createPost(t, author.ID, "hello")
	postID := post.ID.Hex()

	// root -> (a, b), a -> (a1, a2), a1 -> (a1x); plus an unrelated
	// sibling that must survive.
	root := env.createComment(t, postID, author.ID, nil, "root")
	a := env.createComment(t, postID, author.ID, root, "a")
	b := env.createComment(t, postID, author.ID, root, "b")
	a1 := env.createComment(t, postID, author.ID, a, "a1")
	a2 := env.createComment(t, postID, author.ID, a, "a2")
	a1x := env.createComment(t, postID, author.ID, a1, "a1x")
	sibling := env.createComment(t, postID, author.ID, nil, "sibling")

	// Counters as the create path would have left them.
	require.NoError(t, env.posts.AdjustCommentCount(ctx, postID, 7))

	removed, err := env.cleanup.DeleteCommentTree(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, removed)

	env.drain(t)

	for _, id := range []uint{root.ID, a.ID, b.ID, a1.ID, a2.ID, a1x.ID} {
		_, err := env.comments.GetCommentByID(id)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	}
	_, err = env.comments.GetCommentByID(sibling.ID)
	assert.NoError(t, err, "unrelated comment untouched")

	got, err := env.posts.GetPostByID(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CommentCount, "decremented by the full subtree size")
}

func TestDeleteCommentTreeDecrementsParentReplyCount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "Ada", "ada")
	post := env.createPost(t, author.ID, "hello")
	postID := post.ID.Hex()

	parent := env.createComment(t, postID, author.ID, nil, "parent")
	reply := env.createComment(t, postID, author.ID, parent, "reply")
	require.NoError(t, env.comments.AdjustReplyCount(parent.ID, 1))

	removed, err := env.cleanup.DeleteCommentTree(ctx, reply.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	env.drain(t)

	got, err := env.comments.GetCommentByID(parent.ID)
	require.NoError(t, err)
	assert.Zero(t, got.ReplyCount)
}

func TestDeleteCommentTreeRemovesReactions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "Ada", "ada")
	reactor := env.createUser(t, "Bob", "bob")
	post := env.createPost(t, author.ID, "hello")

	comment := env.createComment(t, post.ID.Hex(), author.ID, nil, "c")
	commentID := strconv.FormatUint(uint64(comment.ID), 10)
	require.NoError(t, env.reactionRepo.CreateReaction(&models.Reaction{
		UserID: reactor.ID, TargetID: commentID, TargetType: models.ReactionTargetComment, Type: "like",
	}))

	_, err := env.cleanup.DeleteCommentTree(ctx, comment.ID)
	require.NoError(t, err)
	env.drain(t)

	count, err := env.reactionRepo.CountByTarget(commentID, models.ReactionTargetComment)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDeleteCommentTreeMissingRootIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	removed, err := env.cleanup.DeleteCommentTree(context.Background(), 4242)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestCascadeDeletePostRemovesEverything(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "Ada", "ada")
	other := env.createUser(t, "Bob", "bob")
	post := env.createPost(t, author.ID, "hello")
	postID := post.ID.Hex()

	comment := env.createComment(t, postID, other.ID, nil, "nice")
	commentID := strconv.FormatUint(uint64(comment.ID), 10)
	require.NoError(t, env.reactionRepo.CreateReaction(&models.Reaction{
		UserID: other.ID, TargetID: postID, TargetType: models.ReactionTargetPost, Type: "like",
	}))
	require.NoError(t, env.reactionRepo.CreateReaction(&models.Reaction{
		UserID: author.ID, TargetID: commentID, TargetType: models.ReactionTargetComment, Type: "funny",
	}))
	require.NoError(t, env.repostRepo.CreateRepost(&models.Repost{UserID: other.ID, OriginalPostID: postID}))
	require.NoError(t, env.bookmarkRepo.CreateBookmark(&models.Bookmark{UserID: other.ID, PostID: postID}))
	require.NoError(t, env.feed.InsertFeedItem(ctx, author.ID, postID))
	require.NoError(t, env.feed.InsertFeedItem(ctx, other.ID, postID))

	require.NoError(t, env.cleanup.CascadeDeletePost(ctx, postID))
	env.drain(t)

	_, err := env.posts.GetPostByID(ctx, postID)
	assert.Error(t, err, "post document gone")

	_, err = env.comments.GetCommentByID(comment.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	postReactions, err := env.reactionRepo.CountByTarget(postID, models.ReactionTargetPost)
	require.NoError(t, err)
	assert.Zero(t, postReactions)
	commentReactions, err := env.reactionRepo.CountByTarget(commentID, models.ReactionTargetComment)
	require.NoError(t, err)
	assert.Zero(t, commentReactions)

	reposts, err := env.repostRepo.CountByPostID(postID)
	require.NoError(t, err)
	assert.Zero(t, reposts)

	bookmarked, err := env.bookmarkRepo.HasUserBookmarked(other.ID, postID)
	require.NoError(t, err)
	assert.False(t, bookmarked)

	assert.Zero(t, env.feed.count())
}

func TestCascadeDeletePostWithNoDependents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "Ada", "ada")
	post := env.createPost(t, author.ID, "lonely")

	require.NoError(t, env.cleanup.CascadeDeletePost(ctx, post.ID.Hex()))
	_, err := env.posts.GetPostByID(ctx, post.ID.Hex())
	assert.Error(t, err)
}

func TestDeleteAccountCleansOwnedAndLinkedRecords(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	leaver := env.createUser(t, "Ada", "ada")
	stayer := env.createUser(t, "Bob", "bob")

	// Mutual follow, with counters as the follow path left them.
	require.NoError(t, env.followRepo.CreateFollow(&models.Follow{FollowerID: leaver.ID, FollowingID: stayer.ID}))
	require.NoError(t, env.followRepo.CreateFollow(&models.Follow{FollowerID: stayer.ID, FollowingID: leaver.ID}))
	require.NoError(t, env.users.AdjustFollowerCount(stayer.ID, 1))
	require.NoError(t, env.users.AdjustFollowingCount(stayer.ID, 1))

	// Leaver's post and a comment by the leaver on the stayer's post.
	leaverPost := env.createPost(t, leaver.ID, "leaving soon")
	stayerPost := env.createPost(t, stayer.ID, "staying")
	env.createComment(t, stayerPost.ID.Hex(), leaver.ID, nil, "bye")
	require.NoError(t, env.posts.AdjustCommentCount(ctx, stayerPost.ID.Hex(), 1))

	// Leaver's reaction on the stayer's post.
	stayerPostID := stayerPost.ID.Hex()
	require.NoError(t, env.reactionRepo.CreateReaction(&models.Reaction{
		UserID: leaver.ID, TargetID: stayerPostID, TargetType: models.ReactionTargetPost, Type: "like",
	}))
	require.NoError(t, env.posts.SetReactionCounts(ctx, stayerPostID, map[string]int{"like": 1}, 1))

	// Repost of the stayer's post.
	require.NoError(t, env.repostRepo.CreateRepost(&models.Repost{UserID: leaver.ID, OriginalPostID: stayerPostID}))
	require.NoError(t, env.posts.AdjustShareCount(ctx, stayerPostID, 1))

	// Job application and event RSVP, with their counters.
	job := &models.Job{PosterID: stayer.ID, Title: "TA position", Company: "CS Dept", Description: "grading and office hours", JobType: "part-time"}
	require.NoError(t, env.jobRepo.CreateJob(job))
	require.NoError(t, env.jobRepo.CreateApplication(&models.JobApplication{JobID: job.ID, UserID: leaver.ID}))
	require.NoError(t, env.jobRepo.AdjustApplicantCount(job.ID, 1))

	// Feed rows and notifications referencing the leaver.
	require.NoError(t, env.feed.InsertFeedItem(ctx, leaver.ID, stayerPostID))
	_, err := env.notifier.Emit(ctx, stayer.ID, leaver.ID, models.NotificationFollow, "", "Ada started following you")
	require.NoError(t, err)

	require.NoError(t, env.cleanup.DeleteAccount(ctx, leaver.ID))
	env.drain(t)

	_, err = env.users.GetUserByID(leaver.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound, "user row gone last")

	_, err = env.posts.GetPostByID(ctx, leaverPost.ID.Hex())
	assert.Error(t, err, "owned post cascaded")

	comments, err := env.comments.GetCommentsByUserID(leaver.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	// Far-side counters corrected.
	stayerRow, err := env.users.GetUserByID(stayer.ID)
	require.NoError(t, err)
	assert.Zero(t, stayerRow.FollowerCount)
	assert.Zero(t, stayerRow.FollowingCount)

	stayerPostRow, err := env.posts.GetPostByID(ctx, stayerPostID)
	require.NoError(t, err)
	assert.Zero(t, stayerPostRow.CommentCount)
	assert.Zero(t, stayerPostRow.ShareCount)
	assert.Zero(t, stayerPostRow.LikeCount, "reaction recount after row removal")

	jobRow, err := env.jobRepo.GetJobByID(job.ID)
	require.NoError(t, err)
	assert.Zero(t, jobRow.ApplicantCount)

	// Notifications involving the leaver are gone.
	count, err := env.notificationRepo.GetUnreadCount(stayer.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	assert.Zero(t, env.feed.count())
}
