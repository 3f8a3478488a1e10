package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/campuslink/backend/internal/models"
	"github.com/campuslink/backend/internal/repositories"
	"github.com/campuslink/backend/internal/scheduler"
	"github.com/campuslink/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles comment-related HTTP requests
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
	userRepository    repositories.UserRepository
	counterService    *services.CounterService
	notifier          *services.Notifier
	mentions          *services.MentionScanner
	reputation        *services.ReputationService
	cleanup           *services.CleanupService
	sched             *scheduler.Scheduler
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	commentRepo repositories.CommentRepository,
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	counters *services.CounterService,
	notifier *services.Notifier,
	mentions *services.MentionScanner,
	reputation *services.ReputationService,
	cleanup *services.CleanupService,
	sched *scheduler.Scheduler,
) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
		userRepository:    userRepo,
		counterService:    counters,
		notifier:          notifier,
		mentions:          mentions,
		reputation:        reputation,
		cleanup:           cleanup,
		sched:             sched,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.CreateComment)
	g.GET("/posts/:id/comments", h.GetComments)
	g.GET("/comments/:id/replies", h.GetReplies)
	g.PUT("/comments/:id", h.UpdateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment creates a comment or a reply. Counter updates, the
// author notification, mention notifications and the reputation award
// all run as scheduled tasks after the row is written.
func (h *CommentHandler) CreateComment(c echo.Context) error {
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

	req := new(models.CreateCommentRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment := &models.Comment{
		PostID:          postID,
		UserID:          user.ID,
		ParentCommentID: req.ParentCommentID,
		Content:         req.Content,
	}

	var parent *models.Comment
	if req.ParentCommentID != nil {
		parent, err = h.commentRepository.GetCommentByID(*req.ParentCommentID)
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "Parent comment not found")
		}
		if parent.PostID != postID {
			return echo.NewHTTPError(http.StatusBadRequest, "Parent comment belongs to a different post")
		}
		if parent.Depth >= models.MaxCommentDepth {
			return echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("Maximum comment depth of %d exceeded", models.MaxCommentDepth))
		}
		comment.Depth = parent.Depth + 1
	}

	if err := h.commentRepository.CreateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	actorID := user.ID
	actorName := user.Name
	content := req.Content
	referenceID := fmt.Sprintf("%d", comment.ID)

	h.sched.RunAfter(0, "counters.post_comment_count", func(ctx context.Context) error {
		return h.counterService.AdjustPostCommentCount(ctx, postID, 1)
	})
	if parent != nil {
		parentID := parent.ID
		parentAuthorID := parent.UserID
		h.sched.RunAfter(0, "counters.reply_count", func(ctx context.Context) error {
			return h.counterService.AdjustCommentReplyCount(ctx, parentID, 1)
		})
		h.sched.RunAfter(0, "notifications.reply", func(ctx context.Context) error {
			_, err := h.notifier.Emit(ctx, parentAuthorID, actorID, models.NotificationReply, referenceID, actorName+" replied to your comment")
			return err
		})
	} else {
		postAuthorID := post.AuthorID
		h.sched.RunAfter(0, "notifications.comment", func(ctx context.Context) error {
			_, err := h.notifier.Emit(ctx, postAuthorID, actorID, models.NotificationComment, referenceID, actorName+" commented on your post")
			return err
		})
	}
	h.sched.RunAfter(0, "notifications.mentions", func(ctx context.Context) error {
		return h.mentions.ScanAndNotify(ctx, actorID, content, referenceID)
	})
	h.sched.RunAfter(0, "reputation.comment_created", func(ctx context.Context) error {
		return h.reputation.Award(ctx, actorID, models.ReputationCommentCreated, "comment_created")
	})

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": comment})
}

// GetComments lists a post's comments with authors attached
func (h *CommentHandler) GetComments(c echo.Context) error {
	postID := c.Param("id")
	comments, err := h.commentRepository.GetCommentsByPostID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"comments": comments, "authors": h.commentAuthors(comments)},
	})
}

// GetReplies lists the direct replies to a comment
func (h *CommentHandler) GetReplies(c echo.Context) error {
	parentID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	replies, err := h.commentRepository.GetRepliesByParentID(parentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"comments": replies, "authors": h.commentAuthors(replies)},
	})
}

// UpdateComment edits a comment's content. Only the author may edit.
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	commentID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	comment, err := h.commentRepository.GetCommentByID(commentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}
	if comment.UserID != user.ID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only edit your own comments")
	}

	req := new(models.UpdateCommentRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment.Content = req.Content
	if err := h.commentRepository.UpdateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": comment})
}

// DeleteComment deletes a comment and its whole reply subtree as a
// scheduled task. Only the author may delete.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	user, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	commentID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	comment, err := h.commentRepository.GetCommentByID(commentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}
	if comment.UserID != user.ID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own comments")
	}

	h.sched.RunAfter(0, "cleanup.delete_comment_tree", func(ctx context.Context) error {
		_, err := h.cleanup.DeleteCommentTree(ctx, commentID)
		return err
	})
	return c.JSON(http.StatusAccepted, echo.Map{"success": true, "data": echo.Map{"deleting": true}})
}

func (h *CommentHandler) commentAuthors(comments []models.Comment) map[uint]models.UserCompact {
	ids := make([]uint, 0, len(comments))
	seen := make(map[uint]bool)
	for _, comment := range comments {
		if !seen[comment.UserID] {
			seen[comment.UserID] = true
			ids = append(ids, comment.UserID)
		}
	}
	authors := make(map[uint]models.UserCompact, len(ids))
	users, err := h.userRepository.GetUsersByIDs(ids)
	if err != nil {
		return authors
	}
	for _, u := range users {
		authors[u.ID] = u.ToCompact()
	}
	return authors
}
