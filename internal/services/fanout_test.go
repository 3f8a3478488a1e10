package services

import (
	"context"
	"testing"

	"github.com/campuslink/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFanOutWritesAuthorAndEveryFollower(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "Ada", "ada")

	followers := make([]*models.User, 3)
	for i, name := range []string{"bob", "carol", "dave"} {
		followers[i] = env.createUser(t, name, name)
		require.NoError(t, env.followRepo.CreateFollow(&models.Follow{
			FollowerID:  followers[i].ID,
			FollowingID: author.ID,
		}))
	}

	post := env.createPost(t, author.ID, "hello campus")
	require.NoError(t, env.fanout.FanOutPost(ctx, post.ID.Hex(), author.ID))

	assert.Equal(t, 4, env.feed.count(), "author plus each follower gets one row")

	for _, u := range append(followers, author) {
		items, err := env.feed.GetFeedByUserID(ctx, u.ID, 0, 10)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, post.ID.Hex(), items[0].PostID)
	}
}

func TestFanOutWithNoFollowersStillReachesAuthor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "Ada", "ada")
	post := env.createPost(t, author.ID, "first post")

	require.NoError(t, env.fanout.FanOutPost(ctx, post.ID.Hex(), author.ID))
	assert.Equal(t, 1, env.feed.count())
}

func TestFanOutAbortsMidLoopWithoutRetry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "Ada", "ada")

	for _, name := range []string{"bob", "carol"} {
		f := env.createUser(t, name, name)
		require.NoError(t, env.followRepo.CreateFollow(&models.Follow{
			FollowerID:  f.ID,
			FollowingID: author.ID,
		}))
	}

	// Fail the second follower's insert. The first follower keeps their
	// row; nothing compensates afterwards.
	ids, err := env.followRepo.GetFollowerIDs(author.ID)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	env.feed.failFor = ids[1]

	post := env.createPost(t, author.ID, "doomed fan-out")
	err = env.fanout.FanOutPost(ctx, post.ID.Hex(), author.ID)
	require.Error(t, err)

	assert.Equal(t, 2, env.feed.count(), "author row and first follower row survive the abort")
}
