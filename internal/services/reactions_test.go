package services

import (
	"context"
	"strconv"
	"testing"

	"github.com/campuslink/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReactCreateUpdateNoChange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "Ada", "ada")
	reactor := env.createUser(t, "Bob", "bob")
	post := env.createPost(t, author.ID, "hello")
	postID := post.ID.Hex()

	outcome, err := env.reactions.React(ctx, reactor.ID, postID, models.ReactionTargetPost, "like")
	require.NoError(t, err)
	assert.Equal(t, ReactionCreated, outcome)

	outcome, err = env.reactions.React(ctx, reactor.ID, postID, models.ReactionTargetPost, "celebrate")
	require.NoError(t, err)
	assert.Equal(t, ReactionUpdated, outcome)

	outcome, err = env.reactions.React(ctx, reactor.ID, postID, models.ReactionTargetPost, "celebrate")
	require.NoError(t, err)
	assert.Equal(t, ReactionNoChange, outcome)

	env.drain(t)

	// One row, latest type, counters reflect the single reaction.
	reaction, err := env.reactionRepo.GetReaction(reactor.ID, postID, models.ReactionTargetPost)
	require.NoError(t, err)
	assert.Equal(t, "celebrate", reaction.Type)

	got, err := env.posts.GetPostByID(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikeCount)
	assert.Equal(t, map[string]int{"celebrate": 1}, got.ReactionCounts)
}

func TestReactNotifiesOnlyOnCreation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "Ada", "ada")
	reactor := env.createUser(t, "Bob", "bob")
	post := env.createPost(t, author.ID, "hello")
	postID := post.ID.Hex()

	_, err := env.reactions.React(ctx, reactor.ID, postID, models.ReactionTargetPost, "like")
	require.NoError(t, err)
	env.drain(t)

	count, err := env.notificationRepo.GetUnreadCount(author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// A type change is not a new notification and not a second award.
	_, err = env.reactions.React(ctx, reactor.ID, postID, models.ReactionTargetPost, "support")
	require.NoError(t, err)
	env.drain(t)

	count, err = env.notificationRepo.GetUnreadCount(author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, err := env.users.GetUserByID(author.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReputationReactionReceived, got.Reputation)
}

func TestReactOnOwnContentAwardsNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "Ada", "ada")
	post := env.createPost(t, author.ID, "hello")

	_, err := env.reactions.React(ctx, author.ID, post.ID.Hex(), models.ReactionTargetPost, "like")
	require.NoError(t, err)
	env.drain(t)

	count, err := env.notificationRepo.GetUnreadCount(author.ID)
	require.NoError(t, err)
	assert.Zero(t, count, "no self-notification")

	got, err := env.users.GetUserByID(author.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Reputation, "no self-award")
}

func TestReactOnComment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "Ada", "ada")
	reactor := env.createUser(t, "Bob", "bob")
	post := env.createPost(t, author.ID, "hello")

	comment := &models.Comment{PostID: post.ID.Hex(), UserID: author.ID, Content: "first"}
	require.NoError(t, env.comments.CreateComment(comment))
	commentID := strconv.FormatUint(uint64(comment.ID), 10)

	outcome, err := env.reactions.React(ctx, reactor.ID, commentID, models.ReactionTargetComment, "funny")
	require.NoError(t, err)
	assert.Equal(t, ReactionCreated, outcome)
	env.drain(t)

	got, err := env.comments.GetCommentByID(comment.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikeCount)
}

func TestReactRejectsInvalidInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "Ada", "ada")
	post := env.createPost(t, author.ID, "hello")

	_, err := env.reactions.React(ctx, author.ID, post.ID.Hex(), models.ReactionTargetPost, "love")
	assert.Error(t, err, "unknown reaction type")

	_, err = env.reactions.React(ctx, author.ID, "000000000000000000000000", models.ReactionTargetPost, "like")
	assert.ErrorIs(t, err, ErrReactionTargetNotFound)
}

func TestRemoveReactionRecounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "Ada", "ada")
	reactor := env.createUser(t, "Bob", "bob")
	post := env.createPost(t, author.ID, "hello")
	postID := post.ID.Hex()

	_, err := env.reactions.React(ctx, reactor.ID, postID, models.ReactionTargetPost, "like")
	require.NoError(t, err)
	env.drain(t)

	require.NoError(t, env.reactions.RemoveReaction(ctx, reactor.ID, postID, models.ReactionTargetPost))
	env.drain(t)

	got, err := env.posts.GetPostByID(ctx, postID)
	require.NoError(t, err)
	assert.Zero(t, got.LikeCount)
}
