package handlers

import (
	"context"
	"net/http"

	"github.com/campuslink/backend/internal/models"
	"github.com/campuslink/backend/internal/repositories"
	"github.com/campuslink/backend/internal/scheduler"
	"github.com/campuslink/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	followRepository repositories.FollowRepository
	userRepository   repositories.UserRepository
	counterService   *services.CounterService
	notifier         *services.Notifier
	sched            *scheduler.Scheduler
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(
	followRepo repositories.FollowRepository,
	userRepo repositories.UserRepository,
	counters *services.CounterService,
	notifier *services.Notifier,
	sched *scheduler.Scheduler,
) *FollowHandler {
	return &FollowHandler{
		followRepository: followRepo,
		userRepository:   userRepo,
		counterService:   counters,
		notifier:         notifier,
		sched:            sched,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.FollowUser)
	g.DELETE("/users/:id/follow", h.UnfollowUser)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
}

// FollowUser follows a user. Counter updates and the notification run
// as scheduled tasks after the follow row is written.
func (h *FollowHandler) FollowUser(c echo.Context) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	targetID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	if user.ID == targetID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot follow yourself")
	}

	if _, err := h.userRepository.GetUserByID(targetID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	isFollowing, err := h.followRepository.IsFollowing(user.ID, targetID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if isFollowing {
		return echo.NewHTTPError(http.StatusConflict, "Already following this user")
	}

	follow := &models.Follow{
		FollowerID:  user.ID,
		FollowingID: targetID,
	}
	if err := h.followRepository.CreateFollow(follow); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	followerID := user.ID
	actorName := user.Name
	h.sched.RunAfter(0, "counters.following_count", func(ctx context.Context) error {
		return h.counterService.AdjustFollowingCount(ctx, followerID, 1)
	})
	h.sched.RunAfter(0, "counters.follower_count", func(ctx context.Context) error {
		return h.counterService.AdjustFollowerCount(ctx, targetID, 1)
	})
	h.sched.RunAfter(0, "notifications.follow", func(ctx context.Context) error {
		_, err := h.notifier.Emit(ctx, targetID, followerID, models.NotificationFollow, "", actorName+" started following you")
		return err
	})

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": true}})
}

// UnfollowUser unfollows a user
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	targetID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.followRepository.DeleteFollow(user.ID, targetID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Not following this user")
	}

	followerID := user.ID
	h.sched.RunAfter(0, "counters.following_count", func(ctx context.Context) error {
		return h.counterService.AdjustFollowingCount(ctx, followerID, -1)
	})
	h.sched.RunAfter(0, "counters.follower_count", func(ctx context.Context) error {
		return h.counterService.AdjustFollowerCount(ctx, targetID, -1)
	})

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": false}})
}

// GetFollowers lists a user's followers
func (h *FollowHandler) GetFollowers(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	users, err := h.followRepository.GetFollowers(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	results := make([]models.UserCompact, len(users))
	for i, u := range users {
		results[i] = u.ToCompact()
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"users": results}})
}

// GetFollowing lists who a user follows
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	users, err := h.followRepository.GetFollowing(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	results := make([]models.UserCompact, len(users))
	for i, u := range users {
		results[i] = u.ToCompact()
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"users": results}})
}
