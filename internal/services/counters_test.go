package services

import (
	"context"
	"strconv"
	"testing"

	"github.com/campuslink/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjustFollowerCountClampsAtZero(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "Ada", "ada")

	require.NoError(t, env.counters.AdjustFollowerCount(ctx, user.ID, -3))

	got, err := env.users.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.FollowerCount, "decrement below zero must clamp")

	require.NoError(t, env.counters.AdjustFollowerCount(ctx, user.ID, 2))
	require.NoError(t, env.counters.AdjustFollowerCount(ctx, user.ID, -1))

	got, err = env.users.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.FollowerCount)
}

func TestAdjustCounterOnMissingTargetIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	assert.NoError(t, env.counters.AdjustFollowerCount(ctx, 9999, 1))
	assert.NoError(t, env.counters.AdjustPostCommentCount(ctx, "000000000000000000000000", 1))
	assert.NoError(t, env.counters.AdjustJobApplicantCount(ctx, 9999, -1))
}

func TestRecountReactionsOnPost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "Ada", "ada")
	post := env.createPost(t, author.ID, "hello")
	postID := post.ID.Hex()

	for i, rt := range []string{"like", "like", "celebrate", "insightful"} {
		reactor := env.createUser(t, "R", "reactor"+strconv.Itoa(i))
		require.NoError(t, env.reactionRepo.CreateReaction(&models.Reaction{
			UserID:     reactor.ID,
			TargetID:   postID,
			TargetType: models.ReactionTargetPost,
			Type:       rt,
		}))
	}

	require.NoError(t, env.counters.RecountReactions(ctx, postID, models.ReactionTargetPost))

	got, err := env.posts.GetPostByID(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.LikeCount, "aggregate counts every reaction type")
	assert.Equal(t, map[string]int{"like": 2, "celebrate": 1, "insightful": 1}, got.ReactionCounts)
}

func TestRecountReactionsOnComment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "Ada", "ada")
	post := env.createPost(t, author.ID, "hello")

	comment := &models.Comment{PostID: post.ID.Hex(), UserID: author.ID, Content: "first"}
	require.NoError(t, env.comments.CreateComment(comment))

	commentID := strconv.FormatUint(uint64(comment.ID), 10)
	reactor := env.createUser(t, "Bob", "bob")
	require.NoError(t, env.reactionRepo.CreateReaction(&models.Reaction{
		UserID:     reactor.ID,
		TargetID:   commentID,
		TargetType: models.ReactionTargetComment,
		Type:       "funny",
	}))

	require.NoError(t, env.counters.RecountReactions(ctx, commentID, models.ReactionTargetComment))

	got, err := env.comments.GetCommentByID(comment.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikeCount)
}

func TestRecountReactionsClearsWhenNoneLeft(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "Ada", "ada")
	post := env.createPost(t, author.ID, "hello")
	postID := post.ID.Hex()

	reactor := env.createUser(t, "Bob", "bob")
	require.NoError(t, env.reactionRepo.CreateReaction(&models.Reaction{
		UserID: reactor.ID, TargetID: postID, TargetType: models.ReactionTargetPost, Type: "like",
	}))
	require.NoError(t, env.counters.RecountReactions(ctx, postID, models.ReactionTargetPost))

	require.NoError(t, env.reactionRepo.DeleteReaction(reactor.ID, postID, models.ReactionTargetPost))
	require.NoError(t, env.counters.RecountReactions(ctx, postID, models.ReactionTargetPost))

	got, err := env.posts.GetPostByID(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.LikeCount)
	assert.Empty(t, got.ReactionCounts)
}
