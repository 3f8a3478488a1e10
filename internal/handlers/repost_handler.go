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

// RepostHandler handles repost-related HTTP requests
type RepostHandler struct {
	repostRepository repositories.RepostRepository
	postRepository   repositories.PostRepository
	userRepository   repositories.UserRepository
	counterService   *services.CounterService
	notifier         *services.Notifier
	sched            *scheduler.Scheduler
}

// NewRepostHandler creates a new RepostHandler
func NewRepostHandler(
	repostRepo repositories.RepostRepository,
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	counters *services.CounterService,
	notifier *services.Notifier,
	sched *scheduler.Scheduler,
) *RepostHandler {
	return &RepostHandler{
		repostRepository: repostRepo,
		postRepository:   postRepo,
		userRepository:   userRepo,
		counterService:   counters,
		notifier:         notifier,
		sched:            sched,
	}
}

// RegisterRepostRoutes registers repost-related routes
func (h *RepostHandler) RegisterRepostRoutes(g *echo.Group) {
	g.POST("/posts/:id/repost", h.CreateRepost)
	g.DELETE("/posts/:id/repost", h.DeleteRepost)
}

// CreateRepost shares an existing post, optionally quoting it. The
// original post's share count is adjusted by a scheduled task.
func (h *RepostHandler) CreateRepost(c echo.Context) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	postID := c.Param("id")
	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if err == repositories.ErrPostNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.repostRepository.GetRepost(user.ID, postID); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "Already reposted")
	}

	req := new(models.CreateRepostRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	repost := &models.Repost{
		UserID:         user.ID,
		OriginalPostID: postID,
		QuoteContent:   req.QuoteContent,
	}
	if err := h.repostRepository.CreateRepost(repost); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.sched.RunAfter(0, "counters.share_count", func(ctx context.Context) error {
		return h.counterService.AdjustPostShareCount(ctx, postID, 1)
	})
	actorName := user.Name
	authorID := post.AuthorID
	h.sched.RunAfter(0, "notifications.repost", func(ctx context.Context) error {
		_, err := h.notifier.Emit(ctx, authorID, user.ID, models.NotificationRepost, postID, actorName+" reposted your post")
		return err
	})

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": repost})
}

// DeleteRepost removes the caller's repost of a post
func (h *RepostHandler) DeleteRepost(c echo.Context) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	postID := c.Param("id")
	if err := h.repostRepository.DeleteRepost(user.ID, postID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Repost not found")
	}

	h.sched.RunAfter(0, "counters.share_count", func(ctx context.Context) error {
		return h.counterService.AdjustPostShareCount(ctx, postID, -1)
	})

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"reposted": false}})
}
