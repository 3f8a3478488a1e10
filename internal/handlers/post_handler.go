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

// PostHandler handles post-related HTTP requests
type PostHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
	fanout         *services.FanoutService
	mentions       *services.MentionScanner
	reputation     *services.ReputationService
	cleanup        *services.CleanupService
	sched          *scheduler.Scheduler
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	fanout *services.FanoutService,
	mentions *services.MentionScanner,
	reputation *services.ReputationService,
	cleanup *services.CleanupService,
	sched *scheduler.Scheduler,
) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		userRepository: userRepo,
		fanout:         fanout,
		mentions:       mentions,
		reputation:     reputation,
		cleanup:        cleanup,
		sched:          sched,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.GET("/users/:id/posts", h.GetPostsByAuthor)
}

// CreatePost creates a post synchronously, then schedules feed fan-out,
// mention notifications and the reputation award.
func (h *PostHandler) CreatePost(c echo.Context) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	req := new(models.CreatePostRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post := &models.Post{
		AuthorID:  user.ID,
		Content:   req.Content,
		ImageURLs: req.ImageURLs,
	}
	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	postID := post.ID.Hex()
	authorID := user.ID
	content := req.Content
	h.sched.RunAfter(0, "feed.fanout", func(ctx context.Context) error {
		return h.fanout.FanOutPost(ctx, postID, authorID)
	})
	h.sched.RunAfter(0, "notifications.mentions", func(ctx context.Context) error {
		return h.mentions.ScanAndNotify(ctx, authorID, content, postID)
	})
	h.sched.RunAfter(0, "reputation.post_created", func(ctx context.Context) error {
		return h.reputation.Award(ctx, authorID, models.ReputationPostCreated, "post_created")
	})

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": post})
}

// GetPost retrieves a single post with its author attached
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == repositories.ErrPostNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	data := echo.Map{"post": post}
	if author, err := h.userRepository.GetUserByID(post.AuthorID); err == nil {
		data["author"] = author.ToCompact()
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": data})
}

// UpdatePost updates a post's content. Only the author may update.
func (h *PostHandler) UpdatePost(c echo.Context) error {
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
	if post.AuthorID != user.ID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only edit your own posts")
	}

	req := new(models.UpdatePostRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.Content != "" {
		post.Content = req.Content
	}
	if req.ImageURLs != nil {
		post.ImageURLs = req.ImageURLs
	}
	if err := h.postRepository.UpdatePost(c.Request().Context(), postID, post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": post})
}

// DeletePost acknowledges immediately and runs the cascade as a
// scheduled task: comments, reactions, reposts, bookmarks and feed
// entries go first, then the post document itself.
func (h *PostHandler) DeletePost(c echo.Context) error {
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
	if post.AuthorID != user.ID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own posts")
	}

	h.sched.RunAfter(0, "cleanup.delete_post", func(ctx context.Context) error {
		return h.cleanup.CascadeDeletePost(ctx, postID)
	})
	return c.JSON(http.StatusAccepted, echo.Map{"success": true, "data": echo.Map{"deleting": true}})
}

// GetPostsByAuthor lists a user's posts, newest first
func (h *PostHandler) GetPostsByAuthor(c echo.Context) error {
	authorID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	page, limit := paginationParams(c, 20)
	skip := int64((page - 1) * limit)

	posts, err := h.postRepository.GetPostsByAuthorID(c.Request().Context(), authorID, skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"posts": posts},
		"meta":    echo.Map{"page": page, "limit": limit},
	})
}
