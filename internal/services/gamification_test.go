package services

import (
	"context"
	"testing"

	"github.com/campuslink/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwardUpdatesUserAndLedger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "Ada", "ada")

	require.NoError(t, env.reputation.Award(ctx, user.ID, models.ReputationPostCreated, "post_created"))
	require.NoError(t, env.reputation.Award(ctx, user.ID, models.ReputationCommentCreated, "comment_created"))

	got, err := env.users.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, got.Reputation)

	sum, err := env.reputationRepo.SumByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(15), sum, "ledger sum matches the denormalized value")

	events, err := env.reputationRepo.GetEventsByUserID(user.ID, 10)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestAwardForMissingUserIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	assert.NoError(t, env.reputation.Award(context.Background(), 9999, 10, "post_created"))

	sum, err := env.reputationRepo.SumByUserID(9999)
	require.NoError(t, err)
	assert.Zero(t, sum, "no ledger entry for a vanished user")
}

func TestLeaderboardFallsBackToPostgres(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ada := env.createUser(t, "Ada", "ada")
	bob := env.createUser(t, "Bob", "bob")
	carol := env.createUser(t, "Carol", "carol")
	require.NoError(t, env.reputation.Award(ctx, ada.ID, 30, "paper_published"))
	require.NoError(t, env.reputation.Award(ctx, bob.ID, 50, "paper_published"))
	require.NoError(t, env.reputation.Award(ctx, carol.ID, 10, "post_created"))

	// No Redis client in this env; ranking comes from the users table.
	entries, err := env.reputation.Leaderboard(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, bob.ID, entries[0].UserID)
	assert.Equal(t, 50, entries[0].Reputation)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "Bob", entries[0].User.Name)
	assert.Equal(t, ada.ID, entries[1].UserID)
	assert.Equal(t, 2, entries[1].Rank)
}
