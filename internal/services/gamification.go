package services

import (
	"context"
	"strconv"

	"github.com/campuslink/backend/internal/models"
	"github.com/campuslink/backend/internal/repositories"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// leaderboardKey is the Redis sorted set mirroring users' reputation
const leaderboardKey = "leaderboard:reputation"

// ReputationService records gamification awards: one ledger row per
// award, a denormalized total on the user, and a Redis sorted-set
// leaderboard. The Redis client is optional; a nil client skips the
// leaderboard mirror and ranking falls back to the users table.
type ReputationService struct {
	log    *zap.Logger
	users  repositories.UserRepository
	ledger repositories.ReputationRepository
	rdb    *redis.Client
}

// NewReputationService creates a new ReputationService
func NewReputationService(log *zap.Logger, users repositories.UserRepository, ledger repositories.ReputationRepository, rdb *redis.Client) *ReputationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReputationService{log: log, users: users, ledger: ledger, rdb: rdb}
}

// Award appends a ledger entry and bumps the user's denormalized
// reputation. A missing user makes the whole award a no-op.
func (s *ReputationService) Award(ctx context.Context, userID uint, points int, reason string) error {
	if err := s.users.AdjustReputation(userID, points); err != nil {
		if missingTarget(err) {
			return nil
		}
		return err
	}

	event := &models.ReputationEvent{UserID: userID, Points: points, Reason: reason}
	if err := s.ledger.CreateEvent(event); err != nil {
		return err
	}

	if s.rdb != nil {
		member := strconv.FormatUint(uint64(userID), 10)
		if err := s.rdb.ZIncrBy(ctx, leaderboardKey, float64(points), member).Err(); err != nil {
			// Leaderboard lags until the next award; the ledger stays correct.
			s.log.Warn("leaderboard update failed", zap.Uint("user_id", userID), zap.Error(err))
		}
	}
	return nil
}

// Leaderboard returns the top users by reputation, from Redis when
// available, otherwise from the users table.
func (s *ReputationService) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}

	if s.rdb != nil {
		zs, err := s.rdb.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
		if err == nil {
			entries := make([]models.LeaderboardEntry, 0, len(zs))
			ids := make([]uint, 0, len(zs))
			for _, z := range zs {
				member, _ := z.Member.(string)
				id, parseErr := strconv.ParseUint(member, 10, 32)
				if parseErr != nil {
					continue
				}
				ids = append(ids, uint(id))
				entries = append(entries, models.LeaderboardEntry{
					UserID:     uint(id),
					Reputation: int(z.Score),
					Rank:       len(entries) + 1,
				})
			}
			s.attachUsers(entries, ids)
			return entries, nil
		}
		s.log.Warn("leaderboard read from redis failed, falling back", zap.Error(err))
	}

	users, err := s.users.GetTopByReputation(limit)
	if err != nil {
		return nil, err
	}
	entries := make([]models.LeaderboardEntry, len(users))
	for i, u := range users {
		entries[i] = models.LeaderboardEntry{
			UserID:     u.ID,
			Reputation: u.Reputation,
			Rank:       i + 1,
			User:       u.ToCompact(),
		}
	}
	return entries, nil
}

func (s *ReputationService) attachUsers(entries []models.LeaderboardEntry, ids []uint) {
	users, err := s.users.GetUsersByIDs(ids)
	if err != nil {
		s.log.Warn("failed to hydrate leaderboard users", zap.Error(err))
		return
	}
	byID := make(map[uint]models.UserCompact, len(users))
	for _, u := range users {
		byID[u.ID] = u.ToCompact()
	}
	for i := range entries {
		entries[i].User = byID[entries[i].UserID]
	}
}
